package aura

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/pf2egrid/internal/scene"
	"github.com/udisondev/pf2egrid/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func summary(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind.String()+" "+ev.Aura.Key()+" "+ev.TokenID)
	}
	return out
}

func newTracker(t *testing.T) (*Tracker, *scene.Scene) {
	t.Helper()
	s := testutil.NewScene(t)
	testutil.AddToken(t, s, "a", 5, 5, 1)
	testutil.AddToken(t, s, "b", 7, 5, 1)
	return NewTracker(s, []Aura{{Slug: "aura", TokenID: "a", Radius: 10}}), s
}

func TestTrackerLifecycle(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)
	tr, s := newTracker(t)
	rec := &recorder{}
	tr.Subscribe(rec.listen)

	events, err := tr.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"entered a/aura a", "entered a/aura b"}, summary(events))
	assert.Equal(t, []string{"a", "b"}, tr.Members("a/aura"))

	events, err = tr.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, events, "refresh without changes")

	events, err = tr.TokenMoved(ctx, "b", 1500, 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"left a/aura b"}, summary(events))

	events, err = tr.TokenCreated(ctx, testutil.Token("c", 6, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"entered a/aura c"}, summary(events))

	events, err = tr.TokenDeleted(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"left a/aura a", "left a/aura c"}, summary(events))
	assert.Empty(t, tr.Auras())
	assert.Equal(t, 2, s.Tokens.Len())

	assert.Equal(t, []string{
		"entered a/aura a",
		"entered a/aura b",
		"left a/aura b",
		"entered a/aura c",
		"left a/aura a",
		"left a/aura c",
	}, summary(rec.events))
}

func TestTrackerAddRemoveAura(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)
	tr, _ := newTracker(t)

	_, err := tr.Refresh(ctx)
	require.NoError(t, err)

	events, err := tr.AddAura(ctx, Aura{Slug: "small", TokenID: "b", Radius: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"entered b/small b"}, summary(events))

	events, err = tr.RemoveAura(ctx, "a/aura")
	require.NoError(t, err)
	assert.Equal(t, []string{"left a/aura a", "left a/aura b"}, summary(events))
	assert.Len(t, tr.Auras(), 1)
}

func TestTrackerUnknownToken(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)
	tr, _ := newTracker(t)

	_, err := tr.TokenMoved(ctx, "ghost", 0, 0)
	assert.ErrorIs(t, err, scene.ErrTokenNotFound)

	_, err = tr.TokenDeleted(ctx, "ghost")
	assert.ErrorIs(t, err, scene.ErrTokenNotFound)

	_, err = tr.TokenCreated(ctx, testutil.Token("a", 0, 0, 1))
	assert.ErrorIs(t, err, scene.ErrDuplicate)
}

func TestTrackerCanceledContext(t *testing.T) {
	ctx, cancel := testutil.ContextWithCancel(t)
	cancel()

	tr, _ := newTracker(t)
	_, err := tr.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tr.Members("a/aura"))
}
