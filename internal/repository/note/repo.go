package note

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/talkpad/talkpad/internal/db"
	"github.com/talkpad/talkpad/internal/domain"
)

// store is the consumer interface for notes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	DelMulti(ctx context.Context, keys []string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchRange(ctx context.Context, q *db.RangeQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// IndexOptions carries the HNSW parameters for the note index.
type IndexOptions struct {
	Dimensions  int
	M           int
	EFConstruct int
}

// Repo implements usecase/notes.Repository over a hash store with an FT index.
type Repo struct {
	store  store
	prefix string
}

// New creates a note repository. prefix namespaces every key, e.g. "talkpad:".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// EnsureIndex creates the note search index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, opts IndexOptions) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.prefix + "note:"},
		Fields: []db.IndexField{
			{Name: fieldOwner, Type: db.IndexFieldTag},
			{Name: fieldTitle, Type: db.IndexFieldText},
			{Name: fieldContent, Type: db.IndexFieldText},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorDim:         opts.Dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           opts.M,
				VectorEFConstruct: opts.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if err == db.ErrIndexExists {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Insert allocates the next id from the sequence and persists the note.
func (r *Repo) Insert(ctx context.Context, n *domain.Note) (int64, error) {
	id, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	n.ID = id

	if err := r.store.HSet(ctx, r.noteKey(id), buildHashFields(n)); err != nil {
		return 0, fmt.Errorf("hset %s: %w", r.noteKey(id), err)
	}
	return id, nil
}

// Get returns one note by id, scoped to its owner.
func (r *Repo) Get(ctx context.Context, owner string, id int64) (domain.Note, error) {
	m, err := r.store.HGetAll(ctx, r.noteKey(id))
	if err != nil {
		return domain.Note{}, fmt.Errorf("hgetall %s: %w", r.noteKey(id), err)
	}
	if len(m) == 0 || m[fieldOwner] != owner {
		return domain.Note{}, domain.ErrNoteNotFound
	}
	return parseHashFields(id, m), nil
}

// ListPage returns one page of the owner's notes.
func (r *Repo) ListPage(ctx context.Context, owner string, offset, limit int) ([]domain.Note, error) {
	result, err := r.store.SearchList(ctx, r.indexName(), ownerQuery(owner), offset, limit,
		[]string{fieldOwner, fieldTitle, fieldContent})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return r.entriesToNotes(result.Entries, false), nil
}

// SearchVector returns notes whose embedding lies strictly within radius of
// vector, closest first, with Similarity set to the cosine distance.
func (r *Repo) SearchVector(
	ctx context.Context, owner string, vector []float32, radius float64, limit int,
) ([]domain.Note, error) {
	result, err := r.store.SearchRange(ctx, &db.RangeQuery{
		IndexName:    r.indexName(),
		OwnerTag:     owner,
		Vector:       vector,
		Radius:       radius,
		Limit:        limit,
		ReturnFields: []string{fieldOwner, fieldTitle, fieldContent},
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	// The range match is inclusive; drop hits sitting exactly on the radius
	// so the boundary stays strict.
	entries := result.Entries[:0]
	for _, e := range result.Entries {
		if e.Score < radius {
			entries = append(entries, e)
		}
	}
	return r.entriesToNotes(entries, true), nil
}

// SearchKeyword returns notes matching a full-text query over title and content.
func (r *Repo) SearchKeyword(ctx context.Context, owner, query string, limit int) ([]domain.Note, error) {
	result, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.indexName(),
		OwnerTag:     owner,
		Query:        query,
		Limit:        limit,
		ReturnFields: []string{fieldOwner, fieldTitle, fieldContent},
	})
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return r.entriesToNotes(result.Entries, false), nil
}

// Update overwrites an existing note.
func (r *Repo) Update(ctx context.Context, n *domain.Note) error {
	key := r.noteKey(n.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNoteNotFound
	}
	if err := r.store.HSet(ctx, key, buildHashFields(n)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// UpdateMulti overwrites several notes in one pipelined round trip.
func (r *Repo) UpdateMulti(ctx context.Context, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(notes))
	for i := range notes {
		items[i] = db.HashSetItem{
			Key:    r.noteKey(notes[i].ID),
			Fields: buildHashFields(&notes[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// DeleteMulti removes the given notes and reports how many actually existed.
func (r *Repo) DeleteMulti(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.noteKey(id)
	}
	n, err := r.store.DelMulti(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("del notes: %w", err)
	}
	return n, nil
}

// Count returns how many notes the owner has.
func (r *Repo) Count(ctx context.Context, owner string) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), ownerQuery(owner))
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

func (r *Repo) entriesToNotes(entries []db.SearchEntry, withScore bool) []domain.Note {
	notes := make([]domain.Note, 0, len(entries))
	for _, e := range entries {
		id, err := r.extractID(e.Key)
		if err != nil {
			continue
		}
		n := parseHashFields(id, e.Fields)
		if withScore {
			score := e.Score
			n.Similarity = &score
		}
		notes = append(notes, n)
	}
	return notes
}

// ownerQuery builds the owner filter for list and count queries. An empty
// owner matches everything; "@owner:{}" would be a query syntax error.
func ownerQuery(owner string) string {
	if owner == "" {
		return "*"
	}
	return fmt.Sprintf("@%s:{%s}", fieldOwner, db.EscapeTag(owner))
}

func (r *Repo) noteKey(id int64) string {
	return fmt.Sprintf("%snote:%d", r.prefix, id)
}

func (r *Repo) indexName() string {
	return r.prefix + "notes:idx"
}

func (r *Repo) seqKey() string {
	return r.prefix + "note_seq"
}

func (r *Repo) extractID(key string) (int64, error) {
	raw := strings.TrimPrefix(key, r.prefix+"note:")
	return strconv.ParseInt(raw, 10, 64)
}
