// Package plugin implements the core of BlueMap: the registry of worlds the
// plugin knows about and the queue of pending world renders. Command sources
// never reach the core from render goroutines directly; results are handed to
// the main thread with mainthread.Deliver.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/mainthread"
	"github.com/dm-vev/bluemap/server/text"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type job struct {
	w   *world.World
	src cmd.Source
}

// Plugin is the BlueMap plugin core.
type Plugin struct {
	log       *slog.Logger
	renderLog *slog.Logger
	queue     *mainthread.Queue
	renderer  Renderer
	workers   int
	worlds    *world.Registry
	jobs      chan job

	mu      sync.Mutex
	started time.Time
	closed  bool
	paused  bool
	// gate is closed while rendering is not paused.
	gate chan struct{}
}

// New creates a Plugin and registers the worlds in conf.
func New(conf Config) (*Plugin, error) {
	if conf.Queue == nil {
		panic("plugin: config requires a main thread queue")
	}
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Renderer == nil {
		conf.Renderer = nopRenderer{}
	}
	if conf.Workers < 1 {
		conf.Workers = 1
	}
	if conf.QueueSize < 1 {
		conf.QueueSize = 64
	}
	gate := make(chan struct{})
	close(gate)
	p := &Plugin{
		log:       conf.Log,
		renderLog: conf.Log.With("subsystem", "render"),
		queue:     conf.Queue,
		renderer:  conf.Renderer,
		workers:   conf.Workers,
		worlds:    world.NewRegistry(),
		jobs:      make(chan job, conf.QueueSize),
		gate:      gate,
	}
	if _, err := p.Reload(conf.Worlds); err != nil {
		return nil, err
	}
	return p, nil
}

// Info returns information about the running plugin.
func (p *Plugin) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Info{Name: Name, Version: Version, Started: p.started}
}

// World resolves a platform world ID to its handle. It is safe for concurrent
// use and is the cmd.WorldResolver handed to platform adapters.
func (p *Plugin) World(id uuid.UUID) (*world.World, bool) {
	return p.worlds.World(id)
}

// WorldByName looks up a registered world by name or ID.
func (p *Plugin) WorldByName(name string) (*world.World, bool) {
	return p.worlds.ByName(name)
}

// Worlds returns all registered worlds sorted by name.
func (p *Plugin) Worlds() []*world.World {
	return p.worlds.Worlds()
}

// Reload replaces the registered worlds with the ones passed. Handles of
// worlds that did not change are kept along with their render state. The IDs
// of worlds that are no longer registered are returned.
func (p *Plugin) Reload(worlds []WorldConfig) ([]uuid.UUID, error) {
	handles := make([]*world.World, 0, len(worlds))
	seen := make(map[uuid.UUID]struct{}, len(worlds))
	for _, c := range worlds {
		if c.ID == uuid.Nil {
			return nil, fmt.Errorf("reload worlds: world %q has no id", c.Name)
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("reload worlds: %w: %s", world.ErrWorldExists, c.ID)
		}
		seen[c.ID] = struct{}{}
		handles = append(handles, c.world())
	}
	removed := p.worlds.Sync(handles)
	p.log.Info("Reloaded worlds.", "worlds", len(handles), "removed", len(removed))
	return removed, nil
}

// Status returns a snapshot of the render state.
func (p *Plugin) Status() Status {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()
	return Status{Paused: paused, Pending: len(p.jobs), Workers: p.workers, Worlds: p.worlds.Len()}
}

// Paused reports if rendering is paused.
func (p *Plugin) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Pause stops workers from starting new renders. Renders already running are
// finished. Pause returns false if rendering was already paused.
func (p *Plugin) Pause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return false
	}
	p.paused = true
	p.gate = make(chan struct{})
	p.renderLog.Info("Paused rendering.")
	return true
}

// Resume lets workers start renders again. It returns false if rendering was
// not paused.
func (p *Plugin) Resume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return false
	}
	p.paused = false
	close(p.gate)
	p.renderLog.Info("Resumed rendering.")
	return true
}

// Render queues w for rendering. src, if not nil, is notified on the main
// thread once the render finished or failed.
func (p *Plugin) Render(w *world.World, src cmd.Source) error {
	if w == nil {
		return ErrUnknownWorld
	}
	if registered, ok := p.worlds.World(w.ID()); !ok || registered != w {
		return fmt.Errorf("%w: %s", ErrUnknownWorld, w.Name())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if !w.MarkQueued() {
		return ErrAlreadyQueued
	}
	select {
	case p.jobs <- job{w: w, src: src}:
		return nil
	default:
		w.ClearQueued()
		return ErrQueueFull
	}
}

// Run starts the render workers and blocks until ctx is cancelled. Worlds
// still queued when Run returns are dropped.
func (p *Plugin) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.started = time.Now()
	p.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for i := range p.workers {
		g.Go(func() error {
			p.work(ctx, i)
			return nil
		})
	}
	err := g.Wait()

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	for {
		select {
		case j := <-p.jobs:
			j.w.ClearQueued()
		default:
			return err
		}
	}
}

func (p *Plugin) work(ctx context.Context, id int) {
	log := p.renderLog.With("worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			if err := p.waitResumed(ctx); err != nil {
				j.w.ClearQueued()
				return
			}
			p.render(ctx, log, j)
		}
	}
}

func (p *Plugin) waitResumed(ctx context.Context) error {
	p.mu.Lock()
	gate := p.gate
	p.mu.Unlock()
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Plugin) render(ctx context.Context, log *slog.Logger, j job) {
	if registered, ok := p.worlds.World(j.w.ID()); !ok || registered != j.w {
		j.w.ClearQueued()
		p.notify(j.src, text.Ofcf(text.Yellow, "World %s was removed before it could be rendered.", j.w.Name()))
		return
	}

	start := time.Now()
	err := p.renderer.Render(ctx, j.w)
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		j.w.ClearQueued()
	case err != nil:
		j.w.ClearQueued()
		log.Error("render world", "world", j.w.Name(), "err", err)
		p.notify(j.src, text.Ofcf(text.Red, "Rendering %s failed: %v", j.w.Name(), err))
	default:
		took := time.Since(start)
		j.w.MarkRendered(time.Now())
		log.Info("Rendered world.", "world", j.w.Name(), "took", took)
		p.notify(j.src, text.Of("Rendered ", text.Ofc(text.Aqua, j.w.Name()), text.Ofcf(text.Gray, " in %s.", took.Round(time.Millisecond))))
	}
}

func (p *Plugin) notify(src cmd.Source, t text.Text) {
	if src == nil {
		return
	}
	mainthread.Deliver(p.queue, src, t)
}
