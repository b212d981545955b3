package db

// RangeQuery is the input for a vector range search: all documents whose
// vector lies within Radius (cosine distance) of Vector, closest first.
// The match is inclusive: a document at exactly Radius is returned. Callers
// wanting a strict boundary filter on Score.
type RangeQuery struct {
	IndexName    string
	OwnerTag     string // pre-filter on the owner TAG field; empty matches all
	Vector       []float32
	Radius       float64
	Limit        int
	ReturnFields []string
}

// TextQuery is the input for a full-text search over indexed TEXT fields.
type TextQuery struct {
	IndexName    string
	OwnerTag     string
	Query        string
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. Score holds the raw
// cosine distance for range queries and the BM25 score for text queries.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
