package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/console"
	"github.com/dm-vev/bluemap/server/permission"
	"github.com/dm-vev/bluemap/server/platform/java"
	"github.com/dm-vev/bluemap/server/plugin"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	survivalID = uuid.MustParse("2b6c1a8e-4f3d-4e2a-9b7c-0d1e2f3a4b5c")
	creativeID = uuid.MustParse("7e8f9a0b-1c2d-4e3f-8a9b-c0d1e2f3a4b5")
)

// bedrockPlayer records messages delivered to it. Render notifications arrive
// on the main thread while the test reads, so access is guarded.
type bedrockPlayer struct {
	name    string
	pos     mgl64.Vec3
	worldID uuid.UUID

	mu       sync.Mutex
	received []string
}

func (p *bedrockPlayer) Name() string         { return p.name }
func (p *bedrockPlayer) Position() mgl64.Vec3 { return p.pos }
func (p *bedrockPlayer) WorldID() uuid.UUID   { return p.worldID }

func (p *bedrockPlayer) Message(msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, msg)
	return nil
}

func (p *bedrockPlayer) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.received...)
}

type javaConsole struct {
	received []string
}

func (c *javaConsole) SendMessage(msg string) error {
	c.received = append(c.received, msg)
	return nil
}

func (c *javaConsole) PermissionValue(string) permission.Tristate { return permission.Undefined }

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startServer creates a Server and runs it until the test ends.
func startServer(t *testing.T, conf Config) *Server {
	t.Helper()
	if conf.Log == nil {
		conf.Log = quietLog()
	}
	srv, err := conf.New()
	require.NoError(t, err)
	t.Cleanup(func() { cmd.Unregister("bluemap") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return srv
}

func TestServerBedrockSources(t *testing.T) {
	store := permission.NewStore()
	_, err := store.Grant("Steve", "bluemap.render")
	require.NoError(t, err)
	_, err = store.SetOperator("Notch", true)
	require.NoError(t, err)

	srv := startServer(t, Config{
		Permissions:       store,
		DefaultPermission: permission.DefaultOperator,
		Worlds:            []WorldConfig{{ID: survivalID, Name: "survival", Dimension: world.Overworld}},
	})

	steve := &bedrockPlayer{name: "Steve", pos: mgl64.Vec3{12.5, 64, -7.25}, worldID: survivalID}
	src := srv.Bedrock().New(steve)
	w, ok := src.World()
	require.True(t, ok)
	assert.Equal(t, "survival", w.Name())

	<-srv.ExecuteCommand(src, "/bluemap render")
	require.NotEmpty(t, steve.messages())
	assert.Equal(t, "Queued §bsurvival§r for rendering.", steve.messages()[0])
	require.Eventually(t, func() bool {
		return len(steve.messages()) == 2
	}, 2*time.Second, 10*time.Millisecond, "render result is delivered to the issuer")

	<-srv.ExecuteCommand(src, "/bluemap pause")
	assert.Contains(t, steve.messages(), "§c"+string(cmd.MessagePermission))
	assert.False(t, srv.Plugin().Paused())

	notch := &bedrockPlayer{name: "Notch", worldID: creativeID}
	<-srv.ExecuteCommand(srv.Bedrock().New(notch), "/bluemap pause")
	assert.Equal(t, []string{"BlueMap rendering paused."}, notch.messages())
	assert.True(t, srv.Plugin().Paused())
}

func TestServerJavaSources(t *testing.T) {
	srv := startServer(t, Config{})
	conf := JavaConfig(srv, java.Codec[string]{
		Deserialize: func(data []byte) (string, error) { return string(data), nil },
		Plain:       func(s string) string { return s },
	}, permission.DefaultAllow)

	c := &javaConsole{}
	<-srv.ExecuteCommand(conf.New(c), "/bluemap resume")
	require.Len(t, c.received, 1)
	assert.JSONEq(t, `{"text":"BlueMap rendering is not paused."}`, c.received[0])
}

func TestServerConsole(t *testing.T) {
	srv := startServer(t, Config{
		Console:      console.Config{Name: "Terminal", Permissions: []string{"bluemap.*", "-bluemap.reload"}},
		ConsoleInput: strings.NewReader("bluemap pause\n\n/bluemap worlds\n"),
	})
	require.Eventually(t, srv.Plugin().Paused, 2*time.Second, 10*time.Millisecond)

	src := srv.Console()
	assert.Equal(t, "Terminal", src.Name())
	assert.True(t, src.HasPermission("bluemap.status"))
	assert.False(t, src.HasPermission("bluemap.reload"))
	assert.False(t, src.HasPermission("other.node"))
	_, located := src.Position()
	assert.False(t, located)
}

func TestServerReload(t *testing.T) {
	worlds := []WorldConfig{{ID: survivalID, Name: "survival"}}
	srv := startServer(t, Config{
		Worlds: worlds,
		Reload: func() ([]plugin.WorldConfig, error) {
			return worlds, nil
		},
	})
	before, ok := srv.Plugin().World(survivalID)
	require.True(t, ok)

	worlds = append(worlds, WorldConfig{ID: creativeID, Name: "creative", Dimension: world.End})
	require.NoError(t, srv.Reload())
	after, ok := srv.Plugin().World(survivalID)
	require.True(t, ok)
	assert.Same(t, before, after)
	_, ok = srv.Plugin().World(creativeID)
	assert.True(t, ok)

	srv.conf.Reload = func() ([]plugin.WorldConfig, error) { return nil, errors.New("broken config") }
	assert.ErrorContains(t, srv.Reload(), "broken config")
	assert.Len(t, srv.Plugin().Worlds(), 2)
}

func TestNewRejectsDuplicateWorlds(t *testing.T) {
	_, err := Config{Log: quietLog(), Worlds: []WorldConfig{{ID: survivalID}, {ID: survivalID}}}.New()
	assert.ErrorIs(t, err, world.ErrWorldExists)
}
