// Package bedrock implements cmd.Source for hosts whose chat only supports
// formatting codes, such as Dragonfly based servers. Hosts of this kind ship
// no permission system, so permissions are looked up in a permission.Checker
// supplied by the host, usually a permission.Store.
package bedrock

import (
	"errors"
	"log/slog"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/permission"
	"github.com/dm-vev/bluemap/server/text"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ErrDisconnected may be returned by Issuer.Message if the issuer is no longer
// connected.
var ErrDisconnected = errors.New("issuer disconnected")

// Issuer is the native command issuer of the host.
type Issuer interface {
	// Name returns the name the issuer is known by in the permission system.
	Name() string
	// Message sends a chat message containing formatting codes.
	Message(msg string) error
}

// Locatable is implemented by issuers that stand in a world, such as players.
type Locatable interface {
	Position() mgl64.Vec3
	WorldID() uuid.UUID
}

// Connectable may be implemented by issuers that can go offline while a
// command runs.
type Connectable interface {
	Connected() bool
}

// Config holds the settings shared by all Sources of a host.
type Config struct {
	// Log is used to report conversion and delivery failures. If nil,
	// slog.Default() is used.
	Log *slog.Logger
	// Worlds resolves the world of located issuers.
	Worlds cmd.WorldResolver
	// Permissions holds the permissions of issuers. If nil, no node is
	// defined and Default decides every check.
	Permissions permission.Checker
	// Default is the policy applied to nodes Permissions does not define.
	Default permission.Default
}

// Source is a cmd.Source wrapping an Issuer.
type Source struct {
	cmd.Locator

	issuer      Issuer
	log         *slog.Logger
	permissions permission.Checker
	def         permission.Default
}

// New wraps issuer in a Source. Whether the issuer has a location is decided
// here, once: issuers implementing Locatable are Located at their current
// position.
func (conf Config) New(issuer Issuer) *Source {
	if issuer == nil {
		panic("bedrock: issuer must not be nil")
	}
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Permissions == nil {
		conf.Permissions = permission.Nop{}
	}
	placement := cmd.Unlocated()
	if l, ok := issuer.(Locatable); ok {
		placement = cmd.Located(l.Position(), l.WorldID())
	}
	return &Source{
		Locator:     cmd.NewLocator(placement, conf.Worlds),
		issuer:      issuer,
		log:         conf.Log.With("source", issuer.Name()),
		permissions: conf.Permissions,
		def:         conf.Default,
	}
}

// Name returns the name of the issuer.
func (s *Source) Name() string {
	return s.issuer.Name()
}

// SendMessage renders t with formatting codes and sends it to the issuer.
// Section signs in the content of t are left out, as the client would read
// them as formatting codes. If t cannot be rendered, its plain content is sent
// instead.
func (s *Source) SendMessage(t text.Text) {
	if c, ok := s.issuer.(Connectable); ok && !c.Connected() {
		s.log.Debug("Dropped message for disconnected issuer.")
		return
	}
	msg, err := t.Legacy(text.SectionSign)
	if err != nil {
		s.log.Warn("Falling back to plain message.", "err", err)
		msg = t.MustLegacy(text.SectionSign)
	}
	if err := s.issuer.Message(msg); err != nil {
		s.log.Debug("deliver message", "err", err)
	}
}

// HasPermission looks the node up in the permission system, falling back to
// the default policy, which may depend on the issuer being an operator.
func (s *Source) HasPermission(node string) bool {
	if node == "" {
		return false
	}
	name := s.issuer.Name()
	return s.permissions.Lookup(name, node).Bool(s.def.Resolve(s.permissions.Operator(name)))
}

var _ cmd.NamedSource = (*Source)(nil)
