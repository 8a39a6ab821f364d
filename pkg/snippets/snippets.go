package snippets

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a snippet doesn't exist.
var ErrNotFound = errors.New("snippets: snippet not found")

// ErrInvalid is returned when a nil or empty snippet is saved.
var ErrInvalid = errors.New("snippets: invalid snippet")

// Store is the interface for snippet storage backends.
type Store interface {
	// Save assigns a new ID to s, stores it and returns the ID.
	// CreatedAt is set when it is zero.
	Save(ctx context.Context, s *Snippet) (id string, err error)

	// Get returns the snippet with the given ID.
	Get(ctx context.Context, id string) (*Snippet, error)

	// List returns every stored snippet, newest first.
	List(ctx context.Context) ([]*Snippet, error)

	// Delete removes the snippet with the given ID.
	Delete(ctx context.Context, id string) error

	// Cleanup removes snippets older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// Snippet is a stored expansion.
type Snippet struct {
	// ID is the unique identifier assigned by the store.
	ID string `json:"id"`

	// Abbreviation is the source abbreviation.
	Abbreviation string `json:"abbreviation"`

	// Markup is the expanded output.
	Markup string `json:"markup"`

	// CreatedAt is when the snippet was first saved.
	CreatedAt time.Time `json:"createdAt"`
}

// prepare validates s and stamps it with a fresh ID.
func prepare(s *Snippet) error {
	if s == nil || s.Abbreviation == "" {
		return ErrInvalid
	}
	s.ID = uuid.NewString()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// validID reports whether id is a canonical UUID. IDs end up in file names
// and object keys, so anything else is rejected before touching storage.
func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

// sortNewest orders snippets by creation time, newest first.
func sortNewest(list []*Snippet) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func clone(s *Snippet) *Snippet {
	c := *s
	return &c
}
