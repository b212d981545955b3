package domain

import "strings"

// Intent is the classified purpose of a user utterance.
type Intent string

// The closed set of intents the router can act on.
const (
	IntentShowAll     Intent = "show_all"
	IntentSearch      Intent = "search"
	IntentCreateNote  Intent = "create_note"
	IntentRequest     Intent = "request"
	IntentDeleteNotes Intent = "delete_notes"
	IntentDeleteAll   Intent = "delete_all"
	IntentEditNotes   Intent = "edit_notes"
)

// ParseIntent normalizes a raw classifier reply into one of the seven
// intents. Anything out of grammar maps to IntentSearch; model output is
// never trusted past this boundary.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentShowAll:
		return IntentShowAll
	case IntentCreateNote:
		return IntentCreateNote
	case IntentRequest:
		return IntentRequest
	case IntentDeleteNotes:
		return IntentDeleteNotes
	case IntentDeleteAll:
		return IntentDeleteAll
	case IntentEditNotes:
		return IntentEditNotes
	default:
		return IntentSearch
	}
}

// Destructive reports whether the intent stages notes for deletion.
func (i Intent) Destructive() bool {
	return i == IntentDeleteNotes || i == IntentDeleteAll
}
