package builtin

import (
	"github.com/dm-vev/bluemap/server/cmd"
)

// Permission nodes checked by the built-in commands.
const (
	PermissionStatus      = "bluemap.status"
	PermissionReload      = "bluemap.reload"
	PermissionPause       = "bluemap.pause"
	PermissionResume      = "bluemap.resume"
	PermissionRender      = "bluemap.render"
	PermissionDebug       = "bluemap.debug"
	PermissionPermissions = "bluemap.permissions"
)

// Register registers the /bluemap command. store may be nil, in which case
// the permission sub command is left out.
func Register(p pluginAdapter, store permissionStore) {
	cmd.Register(newBlueMapCommand(p, store))
}

func newBlueMapCommand(p pluginAdapter, store permissionStore) cmd.Command {
	subs := []cmd.Command{
		newStatusCommand(p),
		newHelpCommand(),
		newVersionCommand(p),
		newReloadCommand(p),
		newPauseCommand(p),
		newResumeCommand(p),
		newRenderCommand(p),
		newWorldsCommand(p),
		newDebugCommand(),
	}
	if store != nil {
		subs = append(subs, newPermissionCommand(store))
	}
	return cmd.New("bluemap", "Controls the BlueMap map renderer.", nil, statusCommand{p: p}).WithSub(subs...)
}
