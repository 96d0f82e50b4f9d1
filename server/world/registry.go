package world

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrWorldExists is returned when registering a World whose ID is taken.
var ErrWorldExists = errors.New("world already registered")

// Registry holds the Worlds known to the plugin, indexed by their unique ID.
// Lookups may run concurrently with each other and with updates.
type Registry struct {
	mu     sync.RWMutex
	worlds map[uuid.UUID]*World
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{worlds: make(map[uuid.UUID]*World)}
}

// Register adds w to the Registry.
func (r *Registry) Register(w *World) error {
	if w == nil {
		return errors.New("register world: world must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.worlds[w.id]; ok {
		return fmt.Errorf("%w: %s (%s)", ErrWorldExists, existing.name, w.id)
	}
	r.worlds[w.id] = w
	return nil
}

// Unregister removes the World with the id passed. It returns false if no
// such World was registered.
func (r *Registry) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.worlds[id]; !ok {
		return false
	}
	delete(r.worlds, id)
	return true
}

// World looks up the World registered under id.
func (r *Registry) World(id uuid.UUID) (*World, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.worlds[id]
	return w, ok
}

// ByName looks up a World by its case-insensitive name or by its ID in string
// form.
func (r *Registry) ByName(name string) (*World, bool) {
	name = strings.TrimSpace(name)
	if id, err := uuid.Parse(name); err == nil {
		return r.World(id)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.worlds {
		if strings.EqualFold(w.name, name) {
			return w, true
		}
	}
	return nil, false
}

// Worlds returns all registered Worlds sorted by name.
func (r *Registry) Worlds() []*World {
	r.mu.RLock()
	worlds := make([]*World, 0, len(r.worlds))
	for _, w := range r.worlds {
		worlds = append(worlds, w)
	}
	r.mu.RUnlock()

	slices.SortFunc(worlds, func(a, b *World) int {
		if c := strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
			return c
		}
		return strings.Compare(a.id.String(), b.id.String())
	})
	return worlds
}

// Len returns the number of registered Worlds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.worlds)
}

// Sync replaces the contents of the Registry with worlds. Handles already
// registered under the same ID are kept, so render state survives a reload.
// The IDs that were removed are returned.
func (r *Registry) Sync(worlds []*World) (removed []uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[uuid.UUID]*World, len(worlds))
	for _, w := range worlds {
		if w == nil {
			continue
		}
		if existing, ok := r.worlds[w.id]; ok && existing.name == w.name && existing.dimension == w.dimension {
			next[w.id] = existing
			continue
		}
		next[w.id] = w
	}
	for id := range r.worlds {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	r.worlds = next
	return removed
}
