package world

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// World is the plugin's own handle for a loaded world. It is distinct from the
// host platform's world object: a platform world only resolves to a World once
// it has been registered in a Registry under the same unique identifier.
type World struct {
	id        uuid.UUID
	name      string
	dimension Dimension

	mu           sync.Mutex
	lastRender   time.Time
	renderQueued bool
	renders      int
}

// New returns a World handle for the platform world with the id passed.
func New(id uuid.UUID, name string, dim Dimension) *World {
	if name == "" {
		name = id.String()
	}
	return &World{id: id, name: name, dimension: dim}
}

// ID returns the stable unique identifier shared with the platform world.
func (w *World) ID() uuid.UUID { return w.id }

// Name returns the display name of the World.
func (w *World) Name() string { return w.name }

// Dimension returns the Dimension of the World.
func (w *World) Dimension() Dimension { return w.dimension }

// RenderState is a snapshot of the render bookkeeping of a World.
type RenderState struct {
	LastRender time.Time
	Queued     bool
	Renders    int
}

// RenderState returns a snapshot of the render bookkeeping of the World.
func (w *World) RenderState() RenderState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return RenderState{LastRender: w.lastRender, Queued: w.renderQueued, Renders: w.renders}
}

// MarkQueued marks the World as queued for rendering. It returns false if a
// render was already queued.
func (w *World) MarkQueued() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.renderQueued {
		return false
	}
	w.renderQueued = true
	return true
}

// MarkRendered records a finished render at the time passed.
func (w *World) MarkRendered(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.renderQueued = false
	w.lastRender = at
	w.renders++
}

// ClearQueued drops the queued flag without recording a render.
func (w *World) ClearQueued() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.renderQueued = false
}
