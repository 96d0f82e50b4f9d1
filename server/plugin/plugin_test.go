package plugin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/mainthread"
	"github.com/dm-vev/bluemap/server/text"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSource struct {
	cmd.Locator
	messages chan text.Text
}

func newChanSource() *chanSource {
	return &chanSource{Locator: cmd.NewLocator(cmd.Unlocated(), nil), messages: make(chan text.Text, 16)}
}

func (s *chanSource) SendMessage(t text.Text)   { s.messages <- t }
func (s *chanSource) HasPermission(string) bool { return true }

func (s *chanSource) next(t *testing.T) text.Text {
	t.Helper()
	select {
	case m := <-s.messages:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return text.Text{}
	}
}

var (
	overworldID = uuid.MustParse("5f8b2c1e-7d7b-4c1a-9f55-0e3b5d2d8a11")
	netherID    = uuid.MustParse("0c1f2e3d-4b5a-4968-8776-a5b4c3d2e1f0")
)

func testWorlds() []WorldConfig {
	return []WorldConfig{
		{ID: overworldID, Name: "world", Dimension: world.Overworld},
		{ID: netherID, Name: "world_nether", Dimension: world.Nether},
	}
}

// runPlugin starts the main thread queue and the render workers of a new
// Plugin. Both are stopped when the test ends.
func runPlugin(t *testing.T, conf Config) *Plugin {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	conf.Queue = mainthread.NewQueue(16, nil)
	if conf.Worlds == nil {
		conf.Worlds = testWorlds()
	}
	p, err := New(conf)
	require.NoError(t, err)

	done := make(chan struct{})
	go conf.Queue.Run(ctx)
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		<-conf.Queue.Done()
	})
	return p
}

func TestReloadKeepsHandles(t *testing.T) {
	p, err := New(Config{Queue: mainthread.NewQueue(1, nil), Worlds: testWorlds()})
	require.NoError(t, err)
	before, ok := p.World(overworldID)
	require.True(t, ok)
	before.MarkRendered(time.Unix(100, 0))

	removed, err := p.Reload([]WorldConfig{{ID: overworldID, Name: "world", Dimension: world.Overworld}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{netherID}, removed)

	after, ok := p.World(overworldID)
	require.True(t, ok)
	assert.Same(t, before, after)
	assert.Equal(t, 1, after.RenderState().Renders)
	_, ok = p.World(netherID)
	assert.False(t, ok)

	w, ok := p.WorldByName("WORLD")
	require.True(t, ok)
	assert.Same(t, after, w)
}

func TestReloadRejectsInvalidWorlds(t *testing.T) {
	p, err := New(Config{Queue: mainthread.NewQueue(1, nil), Worlds: testWorlds()})
	require.NoError(t, err)

	_, err = p.Reload([]WorldConfig{{ID: overworldID, Name: "a"}, {ID: overworldID, Name: "b"}})
	assert.ErrorIs(t, err, world.ErrWorldExists)
	_, err = p.Reload([]WorldConfig{{Name: "no id"}})
	assert.Error(t, err)
	assert.Len(t, p.Worlds(), 2, "a failed reload leaves the registry alone")

	_, err = New(Config{Queue: mainthread.NewQueue(1, nil), Worlds: []WorldConfig{{Name: "no id"}}})
	assert.Error(t, err)
}

func TestRenderNotifiesSource(t *testing.T) {
	rendered := make(chan uuid.UUID, 1)
	p := runPlugin(t, Config{Renderer: RendererFunc(func(_ context.Context, w *world.World) error {
		rendered <- w.ID()
		return nil
	})})
	w, _ := p.World(overworldID)
	src := newChanSource()

	require.NoError(t, p.Render(w, src))
	msg := src.next(t)
	assert.True(t, strings.HasPrefix(msg.Plain(), "Rendered world in "), msg.Plain())
	assert.Equal(t, overworldID, <-rendered)

	state := w.RenderState()
	assert.False(t, state.Queued)
	assert.Equal(t, 1, state.Renders)
	assert.False(t, p.Info().Started.IsZero())
}

func TestRenderFailureNotifiesSource(t *testing.T) {
	p := runPlugin(t, Config{Renderer: RendererFunc(func(context.Context, *world.World) error {
		return errors.New("region file corrupted")
	})})
	w, _ := p.World(netherID)
	src := newChanSource()

	require.NoError(t, p.Render(w, src))
	msg := src.next(t)
	assert.Equal(t, "Rendering world_nether failed: region file corrupted", msg.Plain())
	assert.Equal(t, text.Red, msg.Colour())
	assert.Equal(t, 0, w.RenderState().Renders)
	assert.False(t, w.RenderState().Queued)
}

func TestPauseHoldsRenders(t *testing.T) {
	p := runPlugin(t, Config{})
	require.True(t, p.Pause())
	assert.False(t, p.Pause())
	assert.True(t, p.Status().Paused)

	w, _ := p.World(overworldID)
	src := newChanSource()
	require.NoError(t, p.Render(w, src))

	select {
	case m := <-src.messages:
		t.Fatalf("render ran while paused: %v", m.Plain())
	case <-time.After(50 * time.Millisecond):
	}
	assert.True(t, w.RenderState().Queued)

	require.True(t, p.Resume())
	assert.False(t, p.Resume())
	src.next(t)
	assert.Equal(t, 1, w.RenderState().Renders)
}

func TestRenderRejections(t *testing.T) {
	p, err := New(Config{Queue: mainthread.NewQueue(1, nil), Worlds: testWorlds(), QueueSize: 1})
	require.NoError(t, err)

	overworld, _ := p.World(overworldID)
	nether, _ := p.World(netherID)

	assert.ErrorIs(t, p.Render(nil, nil), ErrUnknownWorld)
	assert.ErrorIs(t, p.Render(world.New(uuid.New(), "elsewhere", world.End), nil), ErrUnknownWorld)
	assert.ErrorIs(t, p.Render(world.New(overworldID, "world", world.Overworld), nil), ErrUnknownWorld, "only the registered handle may be rendered")

	require.NoError(t, p.Render(overworld, nil))
	assert.ErrorIs(t, p.Render(overworld, nil), ErrAlreadyQueued)
	assert.ErrorIs(t, p.Render(nether, nil), ErrQueueFull)
	assert.False(t, nether.RenderState().Queued)
	assert.Equal(t, 1, p.Status().Pending)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))
	assert.ErrorIs(t, p.Render(nether, nil), ErrClosed)
	assert.False(t, overworld.RenderState().Queued, "queued worlds are dropped on shutdown")
	assert.ErrorIs(t, p.Run(context.Background()), ErrClosed)
}
