package text

import "strings"

// SectionSign is the formatting code prefix understood by Minecraft clients.
const SectionSign = '§'

// Legacy renders the Text using formatting codes introduced by prefix, for
// hosts that only accept plain strings. Occurrences of prefix inside content
// are removed, so that content never changes the formatting shown by the
// client. Unstyled text without prefix runes renders to exactly its plain
// content. An error wrapping ErrConversion is returned if the Text is not
// valid.
func (t Text) Legacy(prefix rune) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	r := legacyRenderer{prefix: prefix}
	r.render(t, style{})
	return r.b.String(), nil
}

type legacyRenderer struct {
	prefix  rune
	b       strings.Builder
	current style
}

func (r *legacyRenderer) render(t Text, parent style) {
	s := parent.inherit(t)
	if t.content != "" {
		r.switchStyle(s)
		r.b.WriteString(StripPrefix(t.content, r.prefix))
	}
	for _, child := range t.children {
		r.render(child, s)
	}
}

func (r *legacyRenderer) switchStyle(s style) {
	if s == r.current {
		return
	}
	r.current = s
	if code, ok := s.colour.Code(); ok {
		// A colour code resets all formats set before it.
		r.code(code)
	} else {
		r.code('r')
	}
	for _, entry := range formatOrder {
		if s.formats.Has(entry.f) {
			r.code(entry.code)
		}
	}
}

func (r *legacyRenderer) code(c byte) {
	r.b.WriteRune(r.prefix)
	r.b.WriteByte(c)
}

// MustLegacy is like Legacy but falls back to the plain content of the Text,
// stripped of prefix runes, if it cannot be rendered.
func (t Text) MustLegacy(prefix rune) string {
	s, err := t.Legacy(prefix)
	if err != nil {
		return StripPrefix(strings.ToValidUTF8(t.Plain(), "\uFFFD"), prefix)
	}
	return s
}

// StripPrefix removes all occurrences of the formatting code prefix from s.
func StripPrefix(s string, prefix rune) string {
	if !strings.ContainsRune(s, prefix) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == prefix {
			return -1
		}
		return r
	}, s)
}
