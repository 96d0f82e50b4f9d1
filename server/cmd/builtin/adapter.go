package builtin

import (
	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/plugin"
	"github.com/dm-vev/bluemap/server/world"
)

type pluginAdapter interface {
	Info() plugin.Info
	Status() plugin.Status
	Worlds() []*world.World
	WorldByName(name string) (*world.World, bool)
	Render(w *world.World, src cmd.Source) error
	Pause() bool
	Resume() bool
	// Reload reloads the configuration and re-registers the configured worlds.
	Reload() error
}

type permissionStore interface {
	Grant(subject, node string) (bool, error)
	Deny(subject, node string) (bool, error)
	Unset(subject, node string) (bool, error)
	SetOperator(subject string, operator bool) (bool, error)
	Operators() []string
}
