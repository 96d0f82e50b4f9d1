package builtin

import (
	"runtime"
	"runtime/debug"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

type versionCommand struct {
	p pluginAdapter
}

func newVersionCommand(p pluginAdapter) cmd.Command {
	return cmd.New("version", "Displays BlueMap and build information.", []string{"about"}, versionCommand{p: p}).
		WithUsage("/bluemap version")
}

func (v versionCommand) Run(_ cmd.Source, _ []string, o *cmd.Output) {
	info := v.p.Info()
	o.Printf("%s %s", info.Name, info.Version)

	build, ok := debug.ReadBuildInfo()
	goVersion := runtime.Version()
	if ok && build != nil && build.GoVersion != "" {
		goVersion = build.GoVersion
	}

	o.Printf("Minecraft protocol: %s", protocol.CurrentVersion)
	o.Printf("Go runtime: %s", goVersion)

	if build != nil {
		for _, setting := range build.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				o.Printf("Commit: %s", setting.Value)
				break
			}
		}
	}
}
