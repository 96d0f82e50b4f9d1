package world

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dimension is the dimension type of a World.
type Dimension uint8

const (
	Overworld Dimension = iota
	Nether
	End
)

// ParseDimension parses a dimension name as found in configuration files.
func ParseDimension(name string) (Dimension, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "overworld", "world", "default":
		return Overworld, true
	case "nether", "hell", "the_nether":
		return Nether, true
	case "end", "the_end", "end_dimension":
		return End, true
	}
	return Overworld, false
}

// String returns the configuration name of the Dimension.
func (d Dimension) String() string {
	switch d {
	case Nether:
		return "nether"
	case End:
		return "end"
	}
	return "overworld"
}

// Title returns the Dimension name formatted for display, such as "The End".
func (d Dimension) Title() string {
	name := d.String()
	if d == End {
		name = "the end"
	}
	return cases.Title(language.English).String(name)
}
