package builtin

import (
	"math"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/text"
	"github.com/go-gl/mathgl/mgl64"
)

type debugCommand struct{}

func newDebugCommand() cmd.Command {
	return cmd.New("debug", "Shows what BlueMap knows about your location.", nil, debugCommand{}).
		WithPermission(PermissionDebug).
		WithUsage("/bluemap debug")
}

func (debugCommand) Run(src cmd.Source, _ []string, o *cmd.Output) {
	o.Printf("Source: %s", sourceName(src))
	pos, ok := src.Position()
	if !ok {
		o.Print("Position: no position")
		return
	}
	if x, y, z, ok := blockPos(pos); ok {
		o.Printf("Position: %.2f %.2f %.2f (block %d %d %d)", pos[0], pos[1], pos[2], x, y, z)
	} else {
		o.Printf("Position: %.2f %.2f %.2f (no block)", pos[0], pos[1], pos[2])
	}
	w, ok := src.World()
	if !ok {
		o.Printt(text.Of("World: ", text.Ofc(text.Yellow, "not registered with BlueMap")))
		return
	}
	o.Printt(text.Of("World: ", worldLabel(w), text.Ofcf(text.Gray, " (%s)", w.Dimension().Title())))
}

// blockPos returns the coordinates of the block containing pos. The bool is
// false if a coordinate is not finite or out of the range of an int32.
func blockPos(pos mgl64.Vec3) (x, y, z int, ok bool) {
	var b [3]int
	for i, v := range pos {
		v = math.Floor(v)
		if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, 0, 0, false
		}
		b[i] = int(v)
	}
	return b[0], b[1], b[2], true
}
