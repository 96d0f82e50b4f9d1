// Package permission implements permission nodes, the tri-state values a host
// permission system reports for them and the configurable policy applied when
// a host leaves a node undefined.
package permission

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownDefault is returned by ParseDefault for unknown policy names.
	ErrUnknownDefault = errors.New("unknown permission default")
	// ErrInvalidNode is returned when a malformed permission node is passed to
	// an operation that stores it.
	ErrInvalidNode = errors.New("invalid permission node")
)

// Tristate is the value a permission system holds for a single node.
type Tristate uint8

const (
	// Undefined means the permission system has no value for the node.
	Undefined Tristate = iota
	// True means the node is explicitly granted.
	True
	// False means the node is explicitly denied.
	False
)

// Of converts a bool to True or False.
func Of(v bool) Tristate {
	if v {
		return True
	}
	return False
}

// Bool returns the value of t, or def if t is Undefined.
func (t Tristate) Bool(def bool) bool {
	switch t {
	case True:
		return true
	case False:
		return false
	}
	return def
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "undefined"
}

// Default is the policy a platform applies to nodes its permission system does
// not define. It is a configuration point of every platform adapter.
type Default uint8

const (
	// DefaultDeny denies undefined nodes.
	DefaultDeny Default = iota
	// DefaultAllow allows undefined nodes.
	DefaultAllow
	// DefaultOperator allows undefined nodes for operators only.
	DefaultOperator
)

// ParseDefault parses a policy name: "deny", "allow" or "op".
func ParseDefault(s string) (Default, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deny", "false", "none":
		return DefaultDeny, nil
	case "allow", "true", "all":
		return DefaultAllow, nil
	case "op", "ops", "operator":
		return DefaultOperator, nil
	}
	return DefaultDeny, fmt.Errorf("%w: %q", ErrUnknownDefault, s)
}

// Resolve reports if an undefined node is granted to an issuer under the
// policy.
func (d Default) Resolve(operator bool) bool {
	switch d {
	case DefaultAllow:
		return true
	case DefaultOperator:
		return operator
	}
	return false
}

// String returns the name accepted by ParseDefault.
func (d Default) String() string {
	switch d {
	case DefaultAllow:
		return "allow"
	case DefaultOperator:
		return "op"
	}
	return "deny"
}

// MarshalText implements encoding.TextMarshaler.
func (d Default) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Default) UnmarshalText(b []byte) error {
	parsed, err := ParseDefault(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidNode checks if node is a well-formed permission node: non-empty
// segments of lower case letters, digits, '_' and '-', separated by '.' or
// ':'. A segment may be the wildcard '*'.
func ValidNode(node string) bool {
	if node == "" {
		return false
	}
	for _, segment := range splitNode(node) {
		if segment == "" {
			return false
		}
		if segment == "*" {
			continue
		}
		for _, r := range segment {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			default:
				return false
			}
		}
	}
	return true
}

func splitNode(node string) []string {
	return strings.Split(strings.ReplaceAll(node, ":", "."), ".")
}

// Checker looks up the value a subject holds for a permission node.
type Checker interface {
	Lookup(subject, node string) Tristate
	Operator(subject string) bool
}

// Nop is a Checker that defines no nodes and knows no operators.
type Nop struct{}

func (Nop) Lookup(string, string) Tristate { return Undefined }
func (Nop) Operator(string) bool           { return false }
