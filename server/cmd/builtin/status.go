package builtin

import (
	"time"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/text"
)

type statusCommand struct {
	p pluginAdapter
}

func newStatusCommand(p pluginAdapter) cmd.Command {
	return cmd.New("status", "Shows the render status of BlueMap.", nil, statusCommand{p: p}).
		WithPermission(PermissionStatus).
		WithUsage("/bluemap status")
}

func (s statusCommand) Run(src cmd.Source, _ []string, o *cmd.Output) {
	if !requirePermission(src, o, PermissionStatus) {
		return
	}
	info, status := s.p.Info(), s.p.Status()

	o.Printt(text.Of("", text.Ofc(text.Blue, info.Name).WithFormat(text.Bold), text.Ofc(text.Gray, " "+info.Version)))
	if status.Paused {
		o.Printt(text.Of("Rendering: ", text.Ofc(text.Red, "paused").WithHover(text.Of("Run /bluemap resume to continue.")).WithClick("/bluemap resume")))
	} else {
		o.Printt(text.Of("Rendering: ", text.Ofc(text.Green, "active")))
	}
	o.Printf("Pending renders: %d (%d workers)", status.Pending, status.Workers)
	o.Printf("Worlds: %d", status.Worlds)
	if !info.Started.IsZero() {
		o.Printf("Uptime: %s", time.Since(info.Started).Round(time.Second))
	}
}
