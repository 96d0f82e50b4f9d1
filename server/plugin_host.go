package server

import (
	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/plugin"
	"github.com/dm-vev/bluemap/server/world"
)

// pluginHost exposes the plugin core to the built-in commands. Reload goes
// through the Server so that the configuration is read again.
type pluginHost struct {
	srv *Server
}

func (h pluginHost) Info() plugin.Info {
	return h.srv.plugin.Info()
}

func (h pluginHost) Status() plugin.Status {
	return h.srv.plugin.Status()
}

func (h pluginHost) Worlds() []*world.World {
	return h.srv.plugin.Worlds()
}

func (h pluginHost) WorldByName(name string) (*world.World, bool) {
	return h.srv.plugin.WorldByName(name)
}

func (h pluginHost) Render(w *world.World, src cmd.Source) error {
	return h.srv.plugin.Render(w, src)
}

func (h pluginHost) Pause() bool {
	return h.srv.plugin.Pause()
}

func (h pluginHost) Resume() bool {
	return h.srv.plugin.Resume()
}

func (h pluginHost) Reload() error {
	err := h.srv.Reload()
	if err != nil {
		h.srv.log.Error("reload", "err", err)
	}
	return err
}
