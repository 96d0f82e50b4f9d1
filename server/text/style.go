package text

import "strings"

// Colour is one of the sixteen chat colours, identified by the name used in
// JSON text components.
type Colour string

const (
	ColourNone  Colour = ""
	Black       Colour = "black"
	DarkBlue    Colour = "dark_blue"
	DarkGreen   Colour = "dark_green"
	DarkAqua    Colour = "dark_aqua"
	DarkRed     Colour = "dark_red"
	DarkPurple  Colour = "dark_purple"
	Gold        Colour = "gold"
	Gray        Colour = "gray"
	DarkGray    Colour = "dark_gray"
	Blue        Colour = "blue"
	Green       Colour = "green"
	Aqua        Colour = "aqua"
	Red         Colour = "red"
	LightPurple Colour = "light_purple"
	Yellow      Colour = "yellow"
	White       Colour = "white"
)

var colourCodes = map[Colour]byte{
	Black:       '0',
	DarkBlue:    '1',
	DarkGreen:   '2',
	DarkAqua:    '3',
	DarkRed:     '4',
	DarkPurple:  '5',
	Gold:        '6',
	Gray:        '7',
	DarkGray:    '8',
	Blue:        '9',
	Green:       'a',
	Aqua:        'b',
	Red:         'c',
	LightPurple: 'd',
	Yellow:      'e',
	White:       'f',
}

// Valid checks if the Colour is ColourNone or one of the named chat colours.
func (c Colour) Valid() bool {
	if c == ColourNone {
		return true
	}
	_, ok := colourCodes[c]
	return ok
}

// Code returns the formatting code character of the Colour.
func (c Colour) Code() (byte, bool) {
	code, ok := colourCodes[c]
	return code, ok
}

// Format is a bit set of text decorations.
type Format uint8

const (
	Obfuscated Format = 1 << iota
	Bold
	Strikethrough
	Underlined
	Italic

	formatMask = Obfuscated | Bold | Strikethrough | Underlined | Italic
)

// formatOrder lists formats in the order their codes are emitted.
var formatOrder = [...]struct {
	f    Format
	code byte
	name string
}{
	{Obfuscated, 'k', "obfuscated"},
	{Bold, 'l', "bold"},
	{Strikethrough, 'm', "strikethrough"},
	{Underlined, 'n', "underlined"},
	{Italic, 'o', "italic"},
}

// Has checks if all formats in f are set.
func (f Format) Has(other Format) bool {
	return f&other == other
}

// String returns the names of the formats set, joined with '|'.
func (f Format) String() string {
	names := make([]string, 0, len(formatOrder))
	for _, entry := range formatOrder {
		if f.Has(entry.f) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}

// style is the effective style of a text segment after inheritance.
type style struct {
	colour  Colour
	formats Format
}

func (s style) inherit(t Text) style {
	if t.colour != ColourNone {
		s.colour = t.colour
	}
	s.formats |= t.formats
	return s
}
