package plugin

import (
	"log/slog"

	"github.com/dm-vev/bluemap/server/mainthread"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/google/uuid"
)

// Config controls the behaviour of the plugin core.
type Config struct {
	// Log is the logger used for render and reload diagnostics. If nil,
	// slog.Default() is used.
	Log *slog.Logger
	// Queue is the main thread queue used to notify command sources. It must
	// not be nil.
	Queue *mainthread.Queue
	// Renderer renders worlds. If nil, renders complete immediately.
	Renderer Renderer
	// Workers is the number of worlds rendered concurrently. Values below 1
	// are treated as 1.
	Workers int
	// QueueSize is the number of worlds that may wait for a worker. Values
	// below 1 default to 64.
	QueueSize int
	// Worlds lists the worlds registered when the plugin is created.
	Worlds []WorldConfig
}

// WorldConfig describes a world the plugin renders.
type WorldConfig struct {
	ID        uuid.UUID
	Name      string
	Dimension world.Dimension
}

func (c WorldConfig) world() *world.World {
	return world.New(c.ID, c.Name, c.Dimension)
}
