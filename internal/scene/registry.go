package scene

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/udisondev/pf2egrid/internal/geo"
)

var (
	// ErrTokenNotFound is returned for operations on unknown token IDs.
	ErrTokenNotFound = errors.New("token not found")
	// ErrDuplicate is returned when a token ID is already registered.
	ErrDuplicate = errors.New("duplicate token id")
)

// Registry holds the tokens of a scene. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tokens map[string]Token
	index  regionIndex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]Token), index: make(regionIndex)}
}

// Add registers a token.
func (r *Registry) Add(t Token) error {
	if t.ID == "" {
		return errors.New("token id is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[t.ID]; ok {
		return fmt.Errorf("adding token %q: %w", t.ID, ErrDuplicate)
	}
	r.tokens[t.ID] = t
	r.index.add(t)
	return nil
}

// Get returns the token with the given ID.
func (r *Registry) Get(id string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[id]
	return t, ok
}

// Move places a token's top-left corner at (x, y) pixels and returns the
// updated token.
func (r *Registry) Move(id string, x, y float64) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return Token{}, fmt.Errorf("moving token %q: %w", id, ErrTokenNotFound)
	}
	r.index.remove(t)
	t.Bounds.X, t.Bounds.Y = x, y
	r.tokens[id] = t
	r.index.add(t)
	return t, nil
}

// SetElevation changes a token's elevation in distance units.
func (r *Registry) SetElevation(id string, elevation float64) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return Token{}, fmt.Errorf("elevating token %q: %w", id, ErrTokenNotFound)
	}
	t.Elevation = elevation
	r.tokens[id] = t
	return t, nil
}

// Remove deletes a token and returns it.
func (r *Registry) Remove(id string) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return Token{}, fmt.Errorf("removing token %q: %w", id, ErrTokenNotFound)
	}
	delete(r.tokens, id)
	r.index.remove(t)
	return t, nil
}

// Len returns the number of tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}

// All returns every token ordered by ID.
func (r *Registry) All() []Token {
	r.mu.RLock()
	out := make([]Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		out = append(out, t)
	}
	r.mu.RUnlock()
	return sortByID(out)
}

// At returns the tokens whose bounds contain p, ordered by ID.
func (r *Registry) At(p geo.Point) []Token {
	return r.near(geo.NewRect(p.X, p.Y, 0, 0), func(t Token) bool { return t.Bounds.Contains(p) })
}

// Overlapping returns the tokens whose bounds overlap rect, ordered by ID.
func (r *Registry) Overlapping(rect geo.Rect) []Token {
	return r.near(rect, func(t Token) bool { return t.Bounds.Overlaps(rect) })
}

// near filters the tokens indexed in the regions around area.
func (r *Registry) near(area geo.Rect, keep func(Token) bool) []Token {
	r.mu.RLock()
	var out []Token
	for id := range r.index.candidates(area) {
		if t := r.tokens[id]; keep(t) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	return sortByID(out)
}

func sortByID(tokens []Token) []Token {
	slices.SortFunc(tokens, func(a, b Token) int { return strings.Compare(a.ID, b.ID) })
	return tokens
}

func errTokenNotFound(id string) error {
	return fmt.Errorf("token %q: %w", id, ErrTokenNotFound)
}
