package builtin

import (
	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/text"
)

type reloadCommand struct {
	p pluginAdapter
}

func newReloadCommand(p pluginAdapter) cmd.Command {
	return cmd.New("reload", "Reloads the permissions and worlds of BlueMap.", nil, reloadCommand{p: p}).
		WithPermission(PermissionReload).
		WithUsage("/bluemap reload")
}

func (r reloadCommand) Run(_ cmd.Source, _ []string, o *cmd.Output) {
	if err := r.p.Reload(); err != nil {
		o.Errorf("Reload failed: %v", err)
		return
	}
	o.Printf("BlueMap reloaded: %d world(s) registered.", len(r.p.Worlds()))
	o.Printt(text.Ofc(text.Gray, "Changes to the default permission policy, the console and rendering apply after a restart."))
}

type pauseCommand struct {
	p pluginAdapter
}

func newPauseCommand(p pluginAdapter) cmd.Command {
	return cmd.New("pause", "Pauses all rendering.", nil, pauseCommand{p: p}).
		WithPermission(PermissionPause).
		WithUsage("/bluemap pause")
}

func (c pauseCommand) Run(_ cmd.Source, _ []string, o *cmd.Output) {
	if c.p.Pause() {
		o.Print("BlueMap rendering paused.")
		return
	}
	o.Print("BlueMap rendering is already paused.")
}

type resumeCommand struct {
	p pluginAdapter
}

func newResumeCommand(p pluginAdapter) cmd.Command {
	return cmd.New("resume", "Resumes rendering.", nil, resumeCommand{p: p}).
		WithPermission(PermissionResume).
		WithUsage("/bluemap resume")
}

func (c resumeCommand) Run(_ cmd.Source, _ []string, o *cmd.Output) {
	if c.p.Resume() {
		o.Print("BlueMap rendering resumed.")
		return
	}
	o.Print("BlueMap rendering is not paused.")
}
