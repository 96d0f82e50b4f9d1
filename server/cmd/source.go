package cmd

import (
	"github.com/dm-vev/bluemap/server/text"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Source represents the issuer of a command: a player, the console or any
// other entity of a host platform able to run commands. A Source is created
// right before a command is dispatched and discarded afterwards. Every host
// platform ships its own implementation.
//
// None of the methods of a Source fail. Conditions that do not apply to an
// issuer, such as the position of the console, are reported as absence.
// Methods must be called on the goroutine the host platform requires for its
// native objects; see the mainthread package for handing work off to it.
type Source interface {
	// SendMessage delivers t to the issuer. Hosts without rich text support
	// receive the plain content. Delivery failures are logged, not returned,
	// and t is never modified.
	SendMessage(t text.Text)
	// HasPermission queries the host permission system for permission. Nodes
	// the host does not define resolve according to the default policy of the
	// host. An empty permission is never granted.
	HasPermission(permission string) bool
	// Position returns the position of the issuer. The bool is false if the
	// issuer has no location.
	Position() (mgl64.Vec3, bool)
	// World returns the plugin's handle of the world the issuer is in. The
	// bool is false if the issuer has no location or if its world is not
	// registered with the plugin.
	World() (*world.World, bool)
}

// NamedSource is a Source that has a name to display to other issuers.
type NamedSource interface {
	Source
	Name() string
}

// WorldResolver resolves a platform world ID to the plugin's World handle.
// Implementations must be safe for concurrent use by readers.
type WorldResolver interface {
	World(id uuid.UUID) (*world.World, bool)
}

// Placement is the location capability of an issuer, decided once when a
// Source is created. It is either Located, holding a position and the ID of
// the platform world, or Unlocated.
type Placement struct {
	located bool
	pos     mgl64.Vec3
	worldID uuid.UUID
}

// Located returns the Placement of an issuer at pos in the platform world
// with the ID passed.
func Located(pos mgl64.Vec3, worldID uuid.UUID) Placement {
	return Placement{located: true, pos: pos, worldID: worldID}
}

// Unlocated returns the Placement of an issuer without location, such as the
// console or a remote admin session.
func Unlocated() Placement {
	return Placement{}
}

// Location returns the position and platform world ID of the Placement. The
// bool is false for an Unlocated Placement.
func (p Placement) Location() (mgl64.Vec3, uuid.UUID, bool) {
	return p.pos, p.worldID, p.located
}

// Locator implements the Position and World methods of a Source. Platform
// adapters embed it.
type Locator struct {
	placement Placement
	worlds    WorldResolver
}

// NewLocator returns a Locator for the Placement passed that resolves worlds
// through worlds. worlds may be nil, in which case no world ever resolves.
func NewLocator(p Placement, worlds WorldResolver) Locator {
	return Locator{placement: p, worlds: worlds}
}

// Position ...
func (l Locator) Position() (mgl64.Vec3, bool) {
	pos, _, ok := l.placement.Location()
	return pos, ok
}

// World resolves the platform world of the issuer to the plugin's handle. The
// platform world may exist without the plugin knowing about it, in which case
// the bool is false even though Position reports a location.
func (l Locator) World() (*world.World, bool) {
	_, id, ok := l.placement.Location()
	if !ok || l.worlds == nil {
		return nil, false
	}
	return l.worlds.World(id)
}
