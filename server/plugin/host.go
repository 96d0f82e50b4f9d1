package plugin

import (
	"context"

	"github.com/dm-vev/bluemap/server/world"
)

// Renderer exposes the part of the host that renders a world's map tiles. It
// is called from render worker goroutines, never from the main thread, and
// must return once ctx is cancelled.
type Renderer interface {
	Render(ctx context.Context, w *world.World) error
}

// RendererFunc is a function implementing Renderer.
type RendererFunc func(ctx context.Context, w *world.World) error

// Render ...
func (f RendererFunc) Render(ctx context.Context, w *world.World) error {
	return f(ctx, w)
}

type nopRenderer struct{}

func (nopRenderer) Render(ctx context.Context, _ *world.World) error {
	return ctx.Err()
}
