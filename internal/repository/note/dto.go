package note

import (
	"github.com/talkpad/talkpad/internal/db"
	"github.com/talkpad/talkpad/internal/domain"
)

const (
	fieldOwner   = "owner"
	fieldTitle   = "title"
	fieldContent = "content"
	fieldVector  = "vector"
)

// buildHashFields flattens a Note into the hash layout the index expects.
func buildHashFields(n *domain.Note) map[string]string {
	return map[string]string{
		fieldOwner:   n.Owner,
		fieldTitle:   n.Title,
		fieldContent: n.Content,
		fieldVector:  db.VectorToBytes(n.Embedding),
	}
}

// parseHashFields rebuilds a Note from a flat hash map.
func parseHashFields(id int64, m map[string]string) domain.Note {
	return domain.Note{
		ID:        id,
		Owner:     m[fieldOwner],
		Title:     m[fieldTitle],
		Content:   m[fieldContent],
		Embedding: db.BytesToVector(m[fieldVector]),
	}
}
