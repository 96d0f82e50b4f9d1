// Package java implements cmd.Source for hosts with their own rich text
// component type and a deserializer for JSON text components, such as Sponge
// servers. Text only crosses the boundary in JSON form.
package java

import (
	"log/slog"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/permission"
	"github.com/dm-vev/bluemap/server/text"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Issuer is the native command issuer of a host with component type T.
type Issuer[T any] interface {
	// SendMessage delivers a native component to the issuer.
	SendMessage(msg T) error
	// PermissionValue returns the value the host permission system holds for
	// node.
	PermissionValue(node string) permission.Tristate
}

// Locatable is implemented by issuers that stand in a world.
type Locatable interface {
	Position() mgl64.Vec3
	WorldID() uuid.UUID
}

// Operator may be implemented by issuers to report operator status, used by
// permission.DefaultOperator.
type Operator interface {
	Operator() bool
}

// Named may be implemented by issuers that have a name.
type Named interface {
	Name() string
}

// Codec converts text to the native component type T of the host.
type Codec[T any] struct {
	// Deserialize decodes a JSON text component. If nil, all messages are
	// sent as plain text.
	Deserialize func(data []byte) (T, error)
	// Plain builds a component holding unstyled text. It must not be nil.
	Plain func(s string) T
}

// Config holds the settings shared by all Sources of a host.
type Config[T any] struct {
	// Log is used to report conversion and delivery failures. If nil,
	// slog.Default() is used.
	Log *slog.Logger
	// Worlds resolves the world of located issuers.
	Worlds cmd.WorldResolver
	// Codec converts text to native components.
	Codec Codec[T]
	// Default is the policy applied to nodes the host does not define. It
	// should mirror the policy of the host itself.
	Default permission.Default
}

// Source is a cmd.Source wrapping an Issuer.
type Source[T any] struct {
	cmd.Locator

	issuer Issuer[T]
	codec  Codec[T]
	log    *slog.Logger
	def    permission.Default
}

// New wraps issuer in a Source. Whether the issuer has a location is decided
// here, once.
func (conf Config[T]) New(issuer Issuer[T]) *Source[T] {
	if issuer == nil {
		panic("java: issuer must not be nil")
	}
	if conf.Codec.Plain == nil {
		panic("java: codec requires a plain text constructor")
	}
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	placement := cmd.Unlocated()
	if l, ok := issuer.(Locatable); ok {
		placement = cmd.Located(l.Position(), l.WorldID())
	}
	s := &Source[T]{
		Locator: cmd.NewLocator(placement, conf.Worlds),
		issuer:  issuer,
		codec:   conf.Codec,
		def:     conf.Default,
	}
	s.log = conf.Log.With("source", s.Name())
	return s
}

// Name returns the name of the issuer, or "Server" if it has none.
func (s *Source[T]) Name() string {
	if n, ok := s.issuer.(Named); ok {
		return n.Name()
	}
	return "Server"
}

// SendMessage serialises t to JSON and hands it to the host deserializer. If
// either step fails, the plain content of t is sent instead.
func (s *Source[T]) SendMessage(t text.Text) {
	msg, err := s.convert(t)
	if err != nil {
		s.log.Warn("Falling back to plain message.", "err", err)
		msg = s.codec.Plain(t.Plain())
	}
	if err := s.issuer.SendMessage(msg); err != nil {
		s.log.Debug("deliver message", "err", err)
	}
}

func (s *Source[T]) convert(t text.Text) (T, error) {
	data, err := t.JSON()
	if err != nil {
		var zero T
		return zero, err
	}
	if s.codec.Deserialize == nil {
		return s.codec.Plain(t.Plain()), nil
	}
	return s.codec.Deserialize(data)
}

// HasPermission returns the host's value for node, or the default policy if
// the host leaves it undefined.
func (s *Source[T]) HasPermission(node string) bool {
	if node == "" {
		return false
	}
	op := false
	if o, ok := s.issuer.(Operator); ok {
		op = o.Operator()
	}
	return s.issuer.PermissionValue(node).Bool(s.def.Resolve(op))
}

var _ cmd.NamedSource = (*Source[string])(nil)
