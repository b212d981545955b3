package domain

// QueryOutcome is the router's result for one utterance. Notes semantics
// depend on Intent: the page for show_all, the new note for create_note and
// request, similarity matches for search and the delete intents (staged
// candidates only, deletion is a separate confirmed call), and the
// relevance-filtered originals for edit_notes.
type QueryOutcome struct {
	Intent      Intent `json:"intent"`
	Notes       []Note `json:"notes"`
	EditedNotes []Note `json:"editedNotes,omitempty"`
	Message     string `json:"message"`
}
