package cli

import (
	"fmt"
	"strings"

	"contact-keeper/internal/client"
)

// Views are pure functions of container state: they format, never mutate.

// RenderContacts renders the contact list view. While the list has never
// loaded it shows a loading indicator; an empty loaded list gets an
// empty-state message; otherwise the filtered view when a filter is active,
// the full list when not.
func RenderContacts(state client.ContactListState) string {
	if state.Contacts == nil {
		return spinnerLine("loading contacts")
	}

	visible := state.Contacts
	if state.Filtered != nil {
		visible = state.Filtered
	}

	if len(visible) == 0 {
		if state.Query != "" {
			return fmt.Sprintf("No contacts match %q.", state.Query)
		}
		return "Please add a contact."
	}

	var b strings.Builder
	if state.Query != "" {
		fmt.Fprintf(&b, "Filter: %q (%d of %d)\n", state.Query, len(visible), len(state.Contacts))
	}
	for i, c := range visible {
		fmt.Fprintf(&b, "%2d. %s", i+1, c.Name)
		if c.Email != "" {
			fmt.Fprintf(&b, " <%s>", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, " %s", c.Phone)
		}
		fmt.Fprintf(&b, " [%s] (%s)\n", c.Type, c.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderFilterPrompt shows the filter input's current text; it reads empty
// once the filter view is cleared.
func RenderFilterPrompt(state client.ContactListState) string {
	if state.Filtered == nil {
		return "filter> "
	}
	return fmt.Sprintf("filter[%s]> ", state.Query)
}

// RenderSession renders a one-line status for the REPL prompt.
func RenderSession(state client.SessionState) string {
	switch {
	case state.Status == client.StatusLoading:
		return spinnerLine("signing in")
	case state.Authenticated && state.User != nil:
		return state.User.Name
	default:
		return "not logged in"
	}
}

func spinnerLine(action string) string {
	return fmt.Sprintf("... %s ...", action)
}
