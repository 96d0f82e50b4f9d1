package builtin

import (
	"fmt"
	"time"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/text"
	"github.com/dm-vev/bluemap/server/world"
)

// sourceName returns a user facing name for the source invoking a command.
func sourceName(src cmd.Source) string {
	if n, ok := src.(cmd.NamedSource); ok {
		return n.Name()
	}
	return "Server"
}

// requirePermission checks node for commands whose body is shared with a
// parent that has no permission of its own.
func requirePermission(src cmd.Source, o *cmd.Output, node string) bool {
	if src.HasPermission(node) {
		return true
	}
	o.Errort(cmd.MessagePermission)
	return false
}

// targetWorld resolves the world named by args, or the world of src if args
// is empty.
func targetWorld(src cmd.Source, args []string, p pluginAdapter, o *cmd.Output) (*world.World, bool) {
	if len(args) > 0 {
		w, ok := p.WorldByName(args[0])
		if !ok {
			o.Errort(cmd.MessageUnknownWorld, args[0])
		}
		return w, ok
	}
	if _, located := src.Position(); !located {
		o.Errort(cmd.MessageNoLocation)
		return nil, false
	}
	w, ok := src.World()
	if !ok {
		o.Error("The world you are in is not rendered by BlueMap.")
	}
	return w, ok
}

func worldLabel(w *world.World) text.Text {
	return text.Ofc(text.Aqua, w.Name()).WithHover(text.Of(w.ID().String()))
}

// since formats the time passed relative to now, or "never" for the zero time.
func since(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return fmt.Sprintf("%s ago", time.Since(t).Round(time.Second))
}
