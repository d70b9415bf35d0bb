package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"contact-keeper/internal/client"
)

func TestRenderContactsLoading(t *testing.T) {
	out := RenderContacts(client.ContactListState{})
	require.Contains(t, out, "loading contacts")
}

func TestRenderContactsEmptyState(t *testing.T) {
	out := RenderContacts(client.ContactListState{Contacts: []client.Contact{}})
	require.Equal(t, "Please add a contact.", out)
}

func TestRenderContactsFullList(t *testing.T) {
	out := RenderContacts(client.ContactListState{
		Contacts: []client.Contact{
			{ID: "1", Name: "John", Email: "john@example.com", Type: "personal"},
			{ID: "2", Name: "Amy", Phone: "555-0100", Type: "professional"},
		},
	})
	require.Contains(t, out, "John <john@example.com>")
	require.Contains(t, out, "Amy")
	require.Contains(t, out, "555-0100")
}

func TestRenderContactsPrefersFilteredView(t *testing.T) {
	out := RenderContacts(client.ContactListState{
		Contacts: []client.Contact{
			{ID: "1", Name: "John"},
			{ID: "2", Name: "Amy"},
		},
		Filtered: []client.Contact{{ID: "1", Name: "John"}},
		Query:    "jo",
	})
	require.Contains(t, out, "John")
	require.NotContains(t, out, "Amy")
}

func TestRenderContactsNoMatches(t *testing.T) {
	out := RenderContacts(client.ContactListState{
		Contacts: []client.Contact{{ID: "1", Name: "John"}},
		Filtered: []client.Contact{},
		Query:    "zz",
	})
	require.Contains(t, out, `No contacts match "zz"`)
}

func TestFilterPromptResetsWhenFilterCleared(t *testing.T) {
	active := RenderFilterPrompt(client.ContactListState{
		Filtered: []client.Contact{},
		Query:    "jo",
	})
	require.Contains(t, active, "jo")

	cleared := RenderFilterPrompt(client.ContactListState{})
	require.Equal(t, "filter> ", cleared)
}

func TestRenderSession(t *testing.T) {
	require.Equal(t, "not logged in", RenderSession(client.SessionState{}))
	require.Contains(t, RenderSession(client.SessionState{Status: client.StatusLoading}), "signing in")
	require.Equal(t, "John", RenderSession(client.SessionState{
		Authenticated: true,
		User:          &client.User{Name: "John"},
		Status:        client.StatusLoaded,
	}))
}
