package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"contact-keeper/internal/client"
)

// App wires the state containers to terminal interaction.
type App struct {
	api      *client.API
	session  *client.Session
	contacts *client.ContactList
	reader   *bufio.Reader
}

func NewApp(serverURL string) (*App, error) {
	api := client.NewAPI(serverURL)

	store, err := client.NewTokenStore("")
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession(api, store)
	if err != nil {
		return nil, err
	}

	return &App{
		api:      api,
		session:  session,
		contacts: client.NewContactList(api),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run resumes a persisted session if one exists, then enters the REPL.
func (a *App) Run(ctx context.Context) {
	if a.session.State().Token != "" {
		if err := a.session.LoadUser(ctx); err == nil {
			_ = a.contacts.Load(ctx)
		}
	}

	runREPL(ctx, a, func() string {
		return RenderSession(a.session.State())
	}, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated
}

func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, name, email, password); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}
	printlnFn("Registered.")
	return a.contacts.Load(ctx)
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}
	printlnFn("Logged in.")
	return a.contacts.Load(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	a.contacts.Reset()
	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	state := a.session.State()
	if state.User == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s>", state.User.Name, state.User.Email))
	return nil
}

func (a *App) List(ctx context.Context) error {
	if a.contacts.State().Contacts == nil {
		printlnFn(RenderContacts(a.contacts.State()))
		if err := a.contacts.Load(ctx); err != nil {
			printlnFn("Load failed:", err.Error())
			return err
		}
	}
	printlnFn(RenderContacts(a.contacts.State()))
	return nil
}

func (a *App) Add(ctx context.Context) error {
	fields, err := a.promptFields(client.ContactFields{})
	if err != nil {
		return err
	}
	if err := a.contacts.Add(ctx, fields); err != nil {
		printlnFn("Add failed:", err.Error())
		return err
	}
	printlnFn("Contact added.")
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	contact, err := a.pickContact("Number of the contact to edit")
	if err != nil {
		return err
	}
	a.contacts.SetCurrent(*contact)
	defer a.contacts.ClearCurrent()

	fields, err := a.promptFields(client.ContactFields{
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Type:  contact.Type,
	})
	if err != nil {
		return err
	}
	if err := a.contacts.Update(ctx, contact.ID, fields); err != nil {
		printlnFn("Update failed:", err.Error())
		return err
	}
	printlnFn("Contact updated.")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	contact, err := a.pickContact("Number of the contact to delete")
	if err != nil {
		return err
	}
	if err := a.contacts.Delete(ctx, contact.ID); err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}
	printlnFn("Contact removed.")
	return nil
}

func (a *App) Filter(ctx context.Context, text string) error {
	if text == "" {
		var err error
		prompt := "Filter by name or email\n" + RenderFilterPrompt(a.contacts.State())
		text, err = getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return err
		}
	}
	a.contacts.Filter(text)
	printlnFn(RenderContacts(a.contacts.State()))
	return nil
}

func (a *App) ClearFilter(ctx context.Context) error {
	a.contacts.ClearFilter()
	printlnFn(RenderContacts(a.contacts.State()))
	return nil
}

func (a *App) Export(ctx context.Context) error {
	location, err := a.api.ExportContacts(ctx)
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn("Exported to", location)
	return nil
}

func (a *App) Snapshots(ctx context.Context) error {
	snapshots, err := a.api.ListSnapshots(ctx)
	if err != nil {
		printlnFn("Listing snapshots failed:", err.Error())
		return err
	}
	if len(snapshots) == 0 {
		printlnFn("No snapshots stored.")
		return nil
	}
	for i, s := range snapshots {
		printlnFn(fmt.Sprintf("%d. %s (%d bytes) %s", i+1, s.Key, s.Size, s.LastModified))
	}
	return nil
}

func (a *App) PruneSnapshots(ctx context.Context) error {
	if err := a.api.DeleteSnapshots(ctx); err != nil {
		printlnFn("Pruning snapshots failed:", err.Error())
		return err
	}
	printlnFn("Snapshots removed.")
	return nil
}

// promptFields collects contact attributes; pressing Enter keeps the value
// shown in the prompt.
func (a *App) promptFields(current client.ContactFields) (client.ContactFields, error) {
	prompt := func(label, prior string) (string, error) {
		text := label
		if prior != "" {
			text = fmt.Sprintf("%s [%s]", label, prior)
		}
		value, err := getSimpleText(a.reader, text, os.Stdout)
		if err != nil {
			return "", err
		}
		if value == "" {
			return prior, nil
		}
		return value, nil
	}

	var (
		fields client.ContactFields
		err    error
	)
	if fields.Name, err = prompt("Name", current.Name); err != nil {
		return fields, err
	}
	if fields.Email, err = prompt("Email", current.Email); err != nil {
		return fields, err
	}
	if fields.Phone, err = prompt("Phone", current.Phone); err != nil {
		return fields, err
	}
	if fields.Type, err = prompt("Type (personal/professional)", current.Type); err != nil {
		return fields, err
	}
	return fields, nil
}

// pickContact resolves a 1-based index from the rendered list into a contact.
func (a *App) pickContact(prompt string) (*client.Contact, error) {
	state := a.contacts.State()
	visible := state.Contacts
	if state.Filtered != nil {
		visible = state.Filtered
	}
	if len(visible) == 0 {
		printlnFn("Nothing to pick; list is empty.")
		return nil, fmt.Errorf("no contacts")
	}

	printlnFn(RenderContacts(state))
	answer, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return nil, err
	}
	index, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || index < 1 || index > len(visible) {
		printlnFn("Invalid number.")
		return nil, fmt.Errorf("invalid contact number")
	}
	return &visible[index-1], nil
}
