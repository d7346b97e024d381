package aura

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/pf2egrid/internal/scene"
)

// EventKind says whether a token entered or left an aura.
type EventKind int

const (
	Entered EventKind = iota
	Left
)

func (k EventKind) String() string {
	if k == Entered {
		return "entered"
	}
	return "left"
}

// Event is a change in aura membership.
type Event struct {
	Kind    EventKind
	Aura    Aura
	TokenID string
}

// Listener receives membership events.
type Listener func(Event)

// Tracker keeps the set of tokens inside each aura on a scene and reports
// changes as tokens are created, moved and deleted.
type Tracker struct {
	scene *scene.Scene

	mu        sync.Mutex
	auras     []Aura
	members   map[string]map[string]struct{} // aura key -> token IDs
	listeners []Listener
}

// NewTracker creates a tracker for the given auras. Call Refresh to compute
// the initial membership.
func NewTracker(s *scene.Scene, auras []Aura) *Tracker {
	return &Tracker{
		scene:   s,
		auras:   slices.Clone(auras),
		members: make(map[string]map[string]struct{}),
	}
}

// Subscribe registers a listener for membership events.
func (t *Tracker) Subscribe(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Auras returns the tracked auras.
func (t *Tracker) Auras() []Aura {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.auras)
}

// Members returns the IDs of the tokens inside an aura, ordered.
func (t *Tracker) Members(key string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.members[key]))
	for id := range t.members[key] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AddAura starts tracking an aura.
func (t *Tracker) AddAura(ctx context.Context, a Aura) ([]Event, error) {
	t.mu.Lock()
	t.auras = append(t.auras, a)
	t.mu.Unlock()
	return t.Refresh(ctx)
}

// RemoveAura stops tracking an aura; its members are reported as leaving.
func (t *Tracker) RemoveAura(ctx context.Context, key string) ([]Event, error) {
	t.mu.Lock()
	t.auras = slices.DeleteFunc(t.auras, func(a Aura) bool { return a.Key() == key })
	t.mu.Unlock()
	return t.Refresh(ctx)
}

// TokenCreated registers a new token and refreshes membership.
func (t *Tracker) TokenCreated(ctx context.Context, tok scene.Token) ([]Event, error) {
	if err := t.scene.Tokens.Add(tok); err != nil {
		return nil, err
	}
	return t.Refresh(ctx)
}

// TokenMoved moves a token and refreshes membership.
func (t *Tracker) TokenMoved(ctx context.Context, id string, x, y float64) ([]Event, error) {
	if _, err := t.scene.Tokens.Move(id, x, y); err != nil {
		return nil, err
	}
	return t.Refresh(ctx)
}

// TokenDeleted removes a token together with the auras it carries and
// refreshes membership.
func (t *Tracker) TokenDeleted(ctx context.Context, id string) ([]Event, error) {
	if _, err := t.scene.Tokens.Remove(id); err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.auras = slices.DeleteFunc(t.auras, func(a Aura) bool { return a.TokenID == id })
	t.mu.Unlock()
	return t.Refresh(ctx)
}

// Refresh recomputes the membership of every aura, one goroutine per aura,
// and notifies listeners of the differences.
func (t *Tracker) Refresh(ctx context.Context) ([]Event, error) {
	t.mu.Lock()
	auras := slices.Clone(t.auras)
	t.mu.Unlock()

	tokens := t.scene.Tokens.All()
	results := make([]map[string]struct{}, len(auras))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, a := range auras {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := t.membership(a, tokens)
			if err != nil {
				return fmt.Errorf("refreshing aura %s: %w", a.Key(), err)
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	next := make(map[string]map[string]struct{}, len(auras))
	byKey := make(map[string]Aura, len(auras))
	for i, a := range auras {
		next[a.Key()] = results[i]
		byKey[a.Key()] = a
	}
	events := diff(t.members, next, byKey, t.removedAuras(byKey))
	t.members = next
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	for _, ev := range events {
		slog.Debug("aura membership changed",
			"aura", ev.Aura.Key(),
			"token", ev.TokenID,
			"kind", ev.Kind.String())
		for _, l := range listeners {
			l(ev)
		}
	}
	return events, nil
}

// removedAuras returns tracked auras that are no longer present, keyed for
// reporting their members as leaving. Caller holds t.mu.
func (t *Tracker) removedAuras(current map[string]Aura) map[string]Aura {
	gone := make(map[string]Aura)
	for key := range t.members {
		if _, ok := current[key]; ok {
			continue
		}
		slug, tokenID := splitKey(key)
		gone[key] = Aura{Slug: slug, TokenID: tokenID}
	}
	return gone
}

func (t *Tracker) membership(a Aura, tokens []scene.Token) (map[string]struct{}, error) {
	owner, ok := t.scene.Tokens.Get(a.TokenID)
	if !ok {
		return map[string]struct{}{}, nil
	}
	squares, err := a.squaresFor(t.scene, owner)
	if err != nil {
		return nil, err
	}

	m := make(map[string]struct{})
	for _, tok := range tokens {
		in, err := a.contains(t.scene, owner, squares, tok)
		if err != nil {
			return nil, err
		}
		if in {
			m[tok.ID] = struct{}{}
		}
	}
	return m, nil
}

func diff(prev, next map[string]map[string]struct{}, current, gone map[string]Aura) []Event {
	var events []Event
	for key, members := range next {
		a := current[key]
		for id := range members {
			if _, ok := prev[key][id]; !ok {
				events = append(events, Event{Kind: Entered, Aura: a, TokenID: id})
			}
		}
		for id := range prev[key] {
			if _, ok := members[id]; !ok {
				events = append(events, Event{Kind: Left, Aura: a, TokenID: id})
			}
		}
	}
	for key, a := range gone {
		for id := range prev[key] {
			events = append(events, Event{Kind: Left, Aura: a, TokenID: id})
		}
	}

	slices.SortFunc(events, func(x, y Event) int {
		if c := strings.Compare(x.Aura.Key(), y.Aura.Key()); c != 0 {
			return c
		}
		if x.Kind != y.Kind {
			return int(y.Kind) - int(x.Kind) // Left before Entered
		}
		return strings.Compare(x.TokenID, y.TokenID)
	})
	return events
}

func splitKey(key string) (slug, tokenID string) {
	tokenID, slug, _ = strings.Cut(key, "/")
	return slug, tokenID
}
