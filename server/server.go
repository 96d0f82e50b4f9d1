// Package server wires the BlueMap plugin core, the permission system, the
// main thread queue and the console together, and hands host platforms the
// configuration they need to build command sources.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/cmd/builtin"
	"github.com/dm-vev/bluemap/server/console"
	"github.com/dm-vev/bluemap/server/mainthread"
	"github.com/dm-vev/bluemap/server/permission"
	"github.com/dm-vev/bluemap/server/platform/bedrock"
	"github.com/dm-vev/bluemap/server/platform/java"
	"github.com/dm-vev/bluemap/server/plugin"
	"golang.org/x/sync/errgroup"
)

// Server runs BlueMap on behalf of a host platform.
type Server struct {
	conf    Config
	log     *slog.Logger
	queue   *mainthread.Queue
	plugin  *plugin.Plugin
	store   *permission.Store
	console *console.Console

	reloadMu sync.Mutex
}

// New creates a Server using fields of conf and registers the /bluemap
// command. Call Run to start processing commands and renders.
func (conf Config) New() (*Server, error) {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Permissions == nil {
		conf.Permissions = permission.NewStore()
	}
	srv := &Server{
		conf:  conf,
		log:   conf.Log,
		queue: mainthread.NewQueue(conf.MainThreadQueueSize, conf.Log.With("subsystem", "mainthread")),
		store: conf.Permissions,
	}
	p, err := plugin.New(plugin.Config{
		Log:       conf.Log,
		Queue:     srv.queue,
		Renderer:  conf.Renderer,
		Workers:   conf.RenderWorkers,
		QueueSize: conf.RenderQueueSize,
		Worlds:    conf.Worlds,
	})
	if err != nil {
		return nil, fmt.Errorf("create plugin: %w", err)
	}
	srv.plugin = p
	srv.console = console.New(srv.queue, conf.Console, conf.Log.With("subsystem", "console")).WithReader(conf.ConsoleInput)

	builtin.Register(pluginHost{srv: srv}, srv.store)
	return srv, nil
}

// Run runs the main thread queue and the render workers until ctx is
// cancelled. If the Config has a ConsoleInput, console commands are read from
// it in the background.
func (srv *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.queue.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return srv.plugin.Run(ctx)
	})
	if srv.conf.ConsoleInput != nil {
		// Reading the console blocks until a line arrives, so it is not
		// waited for on shutdown.
		go srv.console.Run(ctx)
	}
	srv.log.Info("BlueMap running.", "version", plugin.Version, "worlds", len(srv.plugin.Worlds()))
	err := g.Wait()
	srv.log.Info("BlueMap stopped.")
	return err
}

// Plugin returns the plugin core of the Server.
func (srv *Server) Plugin() *plugin.Plugin {
	return srv.plugin
}

// Queue returns the main thread queue of the Server.
func (srv *Server) Queue() *mainthread.Queue {
	return srv.queue
}

// Permissions returns the permission store of the Server.
func (srv *Server) Permissions() *permission.Store {
	return srv.store
}

// Console returns the console issuer of the Server.
func (srv *Server) Console() *console.Source {
	return srv.console.Source()
}

// ExecuteCommand runs commandLine for source on the main thread. The returned
// channel is closed once the command ran.
func (srv *Server) ExecuteCommand(source cmd.Source, commandLine string) <-chan struct{} {
	return srv.queue.Exec(func() {
		cmd.ExecuteLine(source, commandLine, nil)
	})
}

// Reload reads the permission file again and, if the Config has a Reload
// function, replaces the registered worlds with the ones it returns. The
// default permission policy, the console settings and the render settings
// keep the values the Server was created with.
func (srv *Server) Reload() error {
	srv.reloadMu.Lock()
	defer srv.reloadMu.Unlock()

	if err := srv.store.Reload(); err != nil {
		return fmt.Errorf("reload permissions: %w", err)
	}
	if srv.conf.Reload == nil {
		return nil
	}
	worlds, err := srv.conf.Reload()
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if _, err := srv.plugin.Reload(worlds); err != nil {
		return err
	}
	srv.log.Info("Reloaded configuration.")
	return nil
}

// Bedrock returns the configuration for command sources of a host that only
// supports formatting codes. Permissions are looked up in the permission
// store of the Server.
func (srv *Server) Bedrock() bedrock.Config {
	return bedrock.Config{
		Log:         srv.log.With("platform", "bedrock"),
		Worlds:      srv.plugin,
		Permissions: srv.store,
		Default:     srv.conf.DefaultPermission,
	}
}

// JavaConfig returns the configuration for command sources of a host with
// native text components of type T. def should mirror the default policy of
// the permission system of the host.
func JavaConfig[T any](srv *Server, codec java.Codec[T], def permission.Default) java.Config[T] {
	return java.Config[T]{
		Log:     srv.log.With("platform", "java"),
		Worlds:  srv.plugin,
		Codec:   codec,
		Default: def,
	}
}
