package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dm-vev/bluemap/server/console"
	"github.com/dm-vev/bluemap/server/permission"
	"github.com/dm-vev/bluemap/server/plugin"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding a UserConfig.
const EnvPrefix = "BLUEMAP_"

// worldNamespace derives stable IDs for configured worlds that have no ID.
var worldNamespace = uuid.MustParse("3a7e4c9d-52b1-4f0e-9c61-8d2f5b7a1e34")

// Config contains options for starting BlueMap.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set to
	// slog.Default().
	Log *slog.Logger
	// Permissions is the permission store used for issuers of hosts without a
	// permission system of their own. If nil, an empty in-memory store is
	// used.
	Permissions *permission.Store
	// DefaultPermission is the policy for permission nodes that are not
	// defined for an issuer.
	DefaultPermission permission.Default
	// Console configures the console issuer.
	Console console.Config
	// ConsoleInput is read for console commands. If nil, no console commands
	// are read, but the console issuer is still available.
	ConsoleInput io.Reader
	// Renderer renders worlds. If nil, renders complete immediately.
	Renderer plugin.Renderer
	// RenderWorkers is the number of worlds rendered at the same time.
	RenderWorkers int
	// RenderQueueSize is the number of worlds that may wait for a render
	// worker.
	RenderQueueSize int
	// MainThreadQueueSize is the number of tasks the main thread queue holds
	// before it grows.
	MainThreadQueueSize int
	// Worlds lists the worlds BlueMap renders.
	Worlds []plugin.WorldConfig
	// Reload, if set, is called by Server.Reload to obtain the new list of
	// worlds, typically by reading the configuration file again and calling
	// UserConfig.WorldConfigs. The permission policy, the console and the
	// render settings are not reloaded.
	Reload func() ([]plugin.WorldConfig, error)
}

// UserConfig is the user configuration of BlueMap. It may be serialised as
// TOML or YAML and can be converted to a Config by calling UserConfig.Config().
type UserConfig struct {
	Permissions struct {
		// Default is the policy for permission nodes that are not defined
		// for an issuer: "deny", "allow" or "op", which grants undefined nodes
		// to operators only.
		Default string `yaml:"default" env:"PERMISSIONS_DEFAULT"`
		// ConsoleDefault controls if the console holds permission nodes that
		// are not listed in Console.Permissions.
		ConsoleDefault bool `yaml:"console_default" env:"PERMISSIONS_CONSOLE_DEFAULT"`
		// File is the path to the TOML file holding the permissions of
		// issuers. Leave empty to keep permissions in memory only.
		File string `yaml:"file" env:"PERMISSIONS_FILE"`
	} `yaml:"permissions"`
	Console struct {
		// Name is the name the console is shown as.
		Name string `yaml:"name" env:"CONSOLE_NAME"`
		// Permissions lists permission nodes granted to the console. Nodes
		// prefixed with '-' are denied.
		Permissions []string `yaml:"permissions" env:"CONSOLE_PERMISSIONS" envSeparator:","`
	} `yaml:"console"`
	Render struct {
		// Workers is the number of worlds rendered at the same time.
		Workers int `yaml:"workers" env:"RENDER_WORKERS"`
		// QueueSize is the number of worlds that may wait for a render
		// worker.
		QueueSize int `yaml:"queue_size" env:"RENDER_QUEUE_SIZE"`
	} `yaml:"render"`
	// Worlds lists the worlds BlueMap renders.
	Worlds []WorldEntry `yaml:"worlds" envPrefix:"WORLDS_"`
}

// WorldEntry is a world in a UserConfig.
type WorldEntry struct {
	// ID is the unique ID of the world on the host platform. If empty, an ID
	// is derived from Name.
	ID string `yaml:"id" env:"ID"`
	// Name is the display name of the world.
	Name string `yaml:"name" env:"NAME"`
	// Dimension is "overworld", "nether" or "end".
	Dimension string `yaml:"dimension" env:"DIMENSION"`
}

// Config converts a UserConfig to a Config, so that it may be used for creating
// a Server. An error is returned if a value is invalid or if loading the
// permission file failed.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	def, err := permission.ParseDefault(uc.Permissions.Default)
	if err != nil {
		return Config{}, fmt.Errorf("parse default permission: %w", err)
	}
	worlds, err := uc.WorldConfigs()
	if err != nil {
		return Config{}, err
	}
	conf := Config{
		Log:               log,
		DefaultPermission: def,
		Console: console.Config{
			Name:        uc.Console.Name,
			Permissions: uc.Console.Permissions,
			Default:     uc.Permissions.ConsoleDefault,
		},
		RenderWorkers:   uc.Render.Workers,
		RenderQueueSize: uc.Render.QueueSize,
		Worlds:          worlds,
	}
	if file := strings.TrimSpace(uc.Permissions.File); file != "" {
		conf.Permissions, err = permission.LoadStore(file)
		if err != nil {
			return conf, fmt.Errorf("load permissions: %w", err)
		}
	}
	return conf, nil
}

// WorldConfigs converts the worlds of the UserConfig. Unlike Config, it does
// not touch the permission file, so it may be used to reload the worlds of a
// running Server.
func (uc UserConfig) WorldConfigs() ([]plugin.WorldConfig, error) {
	worlds := make([]plugin.WorldConfig, 0, len(uc.Worlds))
	for i, entry := range uc.Worlds {
		dim, ok := world.ParseDimension(entry.Dimension)
		if !ok {
			return nil, fmt.Errorf("world %d: unknown dimension %q", i, entry.Dimension)
		}
		var id uuid.UUID
		if s := strings.TrimSpace(entry.ID); s != "" {
			parsed, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("world %d: parse id: %w", i, err)
			}
			id = parsed
		} else if name := strings.TrimSpace(entry.Name); name != "" {
			id = uuid.NewSHA1(worldNamespace, []byte(strings.ToLower(name)))
		} else {
			return nil, fmt.Errorf("world %d: either id or name must be set", i)
		}
		worlds = append(worlds, plugin.WorldConfig{ID: id, Name: strings.TrimSpace(entry.Name), Dimension: dim})
	}
	return worlds, nil
}

// DefaultConfig returns a configuration with the default values filled out.
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.Permissions.Default = permission.DefaultOperator.String()
	c.Permissions.ConsoleDefault = true
	c.Permissions.File = "permissions.toml"
	c.Console.Name = "Console"
	c.Console.Permissions = []string{"bluemap.*"}
	c.Render.Workers = 1
	c.Render.QueueSize = 64
	c.Worlds = []WorldEntry{
		{Name: "world", Dimension: "overworld"},
		{Name: "world_nether", Dimension: "nether"},
		{Name: "world_the_end", Dimension: "end"},
	}
	return c
}

// ReadConfig reads the UserConfig stored at path, creating the file with the
// default configuration if it does not exist. Files ending in .yml or .yaml
// are read as YAML, all other files as TOML. Environment variables prefixed
// with EnvPrefix override values read from the file.
func ReadConfig(path string) (UserConfig, error) {
	c := DefaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		data, err := encodeConfig(path, c)
		if err != nil {
			return c, fmt.Errorf("encode default config: %w", err)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return c, fmt.Errorf("create config directory: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return c, fmt.Errorf("create default config: %w", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = toml.Unmarshal(data, &c)
	}
	if err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func encodeConfig(path string, c UserConfig) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(c)
	}
	return toml.Marshal(c)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
