package text

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrConversion is returned when a Text cannot be converted to or from one of
// its portable forms. It is never used to signal absence or a denied
// permission.
var ErrConversion = errors.New("text conversion failed")

// maxDepth is the deepest nesting of children and hover texts accepted when
// validating or parsing a Text.
const maxDepth = 32

// Text is a styled chat message. It holds plain content with an optional
// colour, a set of formats, a hover text, a command run when clicked and an
// ordered list of children that inherit its style. Text values are immutable:
// every With method returns a modified copy and leaves the receiver intact.
type Text struct {
	content  string
	colour   Colour
	formats  Format
	hover    *Text
	click    string
	children []Text
}

// Of returns an unstyled Text with the content passed and, optionally, a list
// of children appended after it.
func Of(content string, children ...Text) Text {
	return Text{content: content, children: slices.Clone(children)}
}

// Ofc returns a Text with the content passed, coloured with c.
func Ofc(c Colour, content string) Text {
	return Text{content: content, colour: c}
}

// Ofcf formats the content passed using fmt.Sprintf and colours it with c.
func Ofcf(c Colour, format string, a ...any) Text {
	return Ofc(c, fmt.Sprintf(format, a...))
}

// Join returns an empty Text holding all texts passed as children.
func Join(texts ...Text) Text {
	return Text{children: slices.Clone(texts)}
}

// Content returns the own content of the Text, excluding its children.
func (t Text) Content() string { return t.content }

// Colour returns the colour set on the Text, or ColourNone if it inherits the
// colour of its parent.
func (t Text) Colour() Colour { return t.colour }

// Formats returns the formats applied to the Text.
func (t Text) Formats() Format { return t.formats }

// Hover returns the text shown when hovering over the Text, if any.
func (t Text) Hover() (Text, bool) {
	if t.hover == nil {
		return Text{}, false
	}
	return *t.hover, true
}

// Click returns the command run when the Text is clicked, if any.
func (t Text) Click() (string, bool) {
	return t.click, t.click != ""
}

// Children returns a copy of the children of the Text.
func (t Text) Children() []Text {
	return slices.Clone(t.children)
}

// WithColour returns a copy of the Text coloured with c.
func (t Text) WithColour(c Colour) Text {
	t.colour = c
	return t
}

// WithFormat returns a copy of the Text with the formats passed added.
func (t Text) WithFormat(f ...Format) Text {
	for _, format := range f {
		t.formats |= format
	}
	return t
}

// WithHover returns a copy of the Text that shows h when hovered over.
func (t Text) WithHover(h Text) Text {
	t.hover = &h
	return t
}

// WithClick returns a copy of the Text that runs command when clicked.
func (t Text) WithClick(command string) Text {
	t.click = command
	return t
}

// Append returns a copy of the Text with the children passed appended.
func (t Text) Append(children ...Text) Text {
	t.children = append(slices.Clone(t.children), children...)
	return t
}

// Empty checks if the Text has no visible content.
func (t Text) Empty() bool {
	if t.content != "" {
		return false
	}
	for _, child := range t.children {
		if !child.Empty() {
			return false
		}
	}
	return true
}

// Plain returns the visible content of the Text and all of its children with
// every style dropped.
func (t Text) Plain() string {
	if len(t.children) == 0 {
		return t.content
	}
	var b strings.Builder
	t.writePlain(&b)
	return b.String()
}

func (t Text) writePlain(b *strings.Builder) {
	b.WriteString(t.content)
	for _, child := range t.children {
		child.writePlain(b)
	}
}

// String implements fmt.Stringer and returns the plain content of the Text.
func (t Text) String() string {
	return t.Plain()
}

// Validate checks if the Text can be converted to its portable forms. A
// non-nil error always wraps ErrConversion.
func (t Text) Validate() error {
	return t.validate(0)
}

func (t Text) validate(depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d levels", ErrConversion, maxDepth)
	}
	if !utf8.ValidString(t.content) {
		return fmt.Errorf("%w: content is not valid UTF-8", ErrConversion)
	}
	if !utf8.ValidString(t.click) {
		return fmt.Errorf("%w: click command is not valid UTF-8", ErrConversion)
	}
	if !t.colour.Valid() {
		return fmt.Errorf("%w: unknown colour %q", ErrConversion, string(t.colour))
	}
	if t.formats&^formatMask != 0 {
		return fmt.Errorf("%w: unknown format bits %#x", ErrConversion, uint8(t.formats&^formatMask))
	}
	if t.hover != nil {
		if err := t.hover.validate(depth + 1); err != nil {
			return err
		}
	}
	for _, child := range t.children {
		if err := child.validate(depth + 1); err != nil {
			return err
		}
	}
	return nil
}
