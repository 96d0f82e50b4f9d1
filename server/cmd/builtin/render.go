package builtin

import (
	"errors"
	"strings"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/plugin"
	"github.com/dm-vev/bluemap/server/text"
)

type renderCommand struct {
	p pluginAdapter
}

func newRenderCommand(p pluginAdapter) cmd.Command {
	return cmd.New("render", "Renders a world, by default the one you are in.", nil, renderCommand{p: p}).
		WithPermission(PermissionRender).
		WithUsage("/bluemap render [world]")
}

func (r renderCommand) Run(src cmd.Source, args []string, o *cmd.Output) {
	if len(args) > 1 {
		args = []string{strings.Join(args, " ")}
	}
	w, ok := targetWorld(src, args, r.p, o)
	if !ok {
		return
	}
	switch err := r.p.Render(w, src); {
	case err == nil:
		o.Printt(text.Of("Queued ", worldLabel(w), text.Of(" for rendering.")))
	case errors.Is(err, plugin.ErrAlreadyQueued):
		o.Printt(text.Of("", worldLabel(w), text.Of(" is already queued for rendering.")))
	case errors.Is(err, plugin.ErrQueueFull):
		o.Error("The render queue is full, try again later.")
	case errors.Is(err, plugin.ErrUnknownWorld):
		o.Errort(cmd.MessageUnknownWorld, w.Name())
	default:
		o.Errorf("Could not queue %s: %v", w.Name(), err)
	}
}

type worldsCommand struct {
	p pluginAdapter
}

func newWorldsCommand(p pluginAdapter) cmd.Command {
	return cmd.New("worlds", "Lists the worlds rendered by BlueMap.", nil, worldsCommand{p: p}).
		WithPermission(PermissionStatus).
		WithUsage("/bluemap worlds")
}

func (c worldsCommand) Run(_ cmd.Source, _ []string, o *cmd.Output) {
	worlds := c.p.Worlds()
	o.Printf("BlueMap renders %d world(s).", len(worlds))
	for _, w := range worlds {
		state := w.RenderState()
		line := text.Of("", worldLabel(w).WithClick("/bluemap render "+w.ID().String()), text.Ofcf(text.Gray, " (%s) last render: %s", w.Dimension().Title(), since(state.LastRender)))
		if state.Queued {
			line = line.Append(text.Ofc(text.Yellow, " [queued]"))
		}
		o.Printt(line)
	}
}
