package plugin

import (
	"errors"
	"time"
)

const (
	// Name is the display name of the plugin.
	Name = "BlueMap"
	// Version is the version of the plugin core.
	Version = "5.4"
)

// Info describes the running plugin.
type Info struct {
	Name    string
	Version string
	// Started is the time Run was first called, or the zero time if the
	// plugin is not running yet.
	Started time.Time
}

// Status is a snapshot of the render state of the plugin.
type Status struct {
	Paused  bool
	Pending int
	Workers int
	Worlds  int
}

var (
	// ErrAlreadyQueued is returned when a render is requested for a world
	// that already has one pending.
	ErrAlreadyQueued = errors.New("world render already queued")
	// ErrQueueFull is returned when the render queue cannot take more worlds.
	ErrQueueFull = errors.New("render queue full")
	// ErrUnknownWorld is returned when a world is not registered with the
	// plugin.
	ErrUnknownWorld = errors.New("unknown world")
	// ErrClosed is returned when a render is requested after Run returned.
	ErrClosed = errors.New("plugin closed")
)
