package server

import "github.com/dm-vev/bluemap/server/plugin"

type (
	WorldConfig  = plugin.WorldConfig
	Renderer     = plugin.Renderer
	RendererFunc = plugin.RendererFunc
	PluginInfo   = plugin.Info
)

var (
	ErrRenderQueued    = plugin.ErrAlreadyQueued
	ErrRenderQueueFull = plugin.ErrQueueFull
	ErrUnknownWorld    = plugin.ErrUnknownWorld
)
