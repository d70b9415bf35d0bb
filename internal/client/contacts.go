package client

import (
	"context"
	"strings"
	"sync"
)

// ContactListState is a point-in-time copy of the contact container.
// Contacts is nil until the first load completes. Filtered is nil when no
// filter is active; render Filtered when set, Contacts otherwise.
type ContactListState struct {
	Contacts []Contact
	Current  *Contact
	Filtered []Contact
	Query    string
	Status   Status
	Err      error
}

// ContactList holds the contact collection, the contact under edit and the
// live filter view. Server responses are reduced into the slice; failures
// land in Err and leave prior data intact.
type ContactList struct {
	api *API

	mu       sync.Mutex
	contacts []Contact
	current  *Contact
	query    string
	status   Status
	err      error
}

func NewContactList(api *API) *ContactList {
	return &ContactList{api: api}
}

func (l *ContactList) State() ContactListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	// copy the slice so callers cannot reach the container's backing array
	var contacts []Contact
	if l.contacts != nil {
		contacts = make([]Contact, len(l.contacts))
		copy(contacts, l.contacts)
	}
	return ContactListState{
		Contacts: contacts,
		Current:  l.current,
		Filtered: filterContacts(l.contacts, l.query),
		Query:    l.query,
		Status:   l.status,
		Err:      l.err,
	}
}

func (l *ContactList) Load(ctx context.Context) error {
	l.setLoading()
	contacts, err := l.api.ListContacts(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.status = StatusError
		l.err = err
		return err
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	l.contacts = contacts
	l.status = StatusLoaded
	l.err = nil
	return nil
}

func (l *ContactList) Add(ctx context.Context, fields ContactFields) error {
	l.setLoading()
	contact, err := l.api.CreateContact(ctx, fields)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.status = StatusError
		l.err = err
		return err
	}
	// newest entries sort first, matching the server's ordering
	l.contacts = append([]Contact{*contact}, l.contacts...)
	l.status = StatusLoaded
	l.err = nil
	return nil
}

func (l *ContactList) Update(ctx context.Context, id string, fields ContactFields) error {
	l.setLoading()
	contact, err := l.api.UpdateContact(ctx, id, fields)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.status = StatusError
		l.err = err
		return err
	}
	for i := range l.contacts {
		if l.contacts[i].ID == contact.ID {
			l.contacts[i] = *contact
		}
	}
	if l.current != nil && l.current.ID == contact.ID {
		l.current = contact
	}
	l.status = StatusLoaded
	l.err = nil
	return nil
}

func (l *ContactList) Delete(ctx context.Context, id string) error {
	l.setLoading()
	err := l.api.DeleteContact(ctx, id)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.status = StatusError
		l.err = err
		return err
	}
	kept := make([]Contact, 0, len(l.contacts))
	for _, c := range l.contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	l.contacts = kept
	if l.current != nil && l.current.ID == id {
		l.current = nil
	}
	l.status = StatusLoaded
	l.err = nil
	return nil
}

func (l *ContactList) SetCurrent(contact Contact) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := contact
	l.current = &c
}

func (l *ContactList) ClearCurrent() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = nil
}

// Filter narrows the view to contacts whose name or email contains text,
// case-insensitively. Original order is preserved.
func (l *ContactList) Filter(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = text
}

// ClearFilter drops the filter view; the full list renders again.
func (l *ContactList) ClearFilter() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = ""
}

// Reset drops everything, e.g. on logout.
func (l *ContactList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contacts = nil
	l.current = nil
	l.query = ""
	l.status = StatusIdle
	l.err = nil
}

func (l *ContactList) setLoading() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = StatusLoading
	l.err = nil
}

// filterContacts returns nil when query is empty, meaning "no filter active".
func filterContacts(contacts []Contact, query string) []Contact {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	matched := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}
