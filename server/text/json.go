package text

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// component is the JSON text component form of a Text.
type component struct {
	Text          string      `json:"text"`
	Color         string      `json:"color,omitempty"`
	Bold          bool        `json:"bold,omitempty"`
	Italic        bool        `json:"italic,omitempty"`
	Underlined    bool        `json:"underlined,omitempty"`
	Strikethrough bool        `json:"strikethrough,omitempty"`
	Obfuscated    bool        `json:"obfuscated,omitempty"`
	ClickEvent    *clickEvent `json:"clickEvent,omitempty"`
	HoverEvent    *hoverEvent `json:"hoverEvent,omitempty"`
	Extra         []component `json:"extra,omitempty"`
}

type clickEvent struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

type hoverEvent struct {
	Action string     `json:"action"`
	Value  *component `json:"value"`
}

// rawComponent mirrors component for decoding, where extra entries and hover
// values may be strings, objects or arrays.
type rawComponent struct {
	Text          string            `json:"text"`
	Color         string            `json:"color"`
	Bold          bool              `json:"bold"`
	Italic        bool              `json:"italic"`
	Underlined    bool              `json:"underlined"`
	Strikethrough bool              `json:"strikethrough"`
	Obfuscated    bool              `json:"obfuscated"`
	ClickEvent    *clickEvent       `json:"clickEvent"`
	HoverEvent    *rawHoverEvent    `json:"hoverEvent"`
	Extra         []json.RawMessage `json:"extra"`
}

type rawHoverEvent struct {
	Action   string          `json:"action"`
	Value    json.RawMessage `json:"value"`
	Contents json.RawMessage `json:"contents"`
}

const (
	actionRunCommand = "run_command"
	actionShowText   = "show_text"
)

// JSON encodes the Text as a JSON text component. An error wrapping
// ErrConversion is returned if the Text is not valid.
func (t Text) JSON() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(t.component())
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	return t.JSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Text) component() component {
	c := component{
		Text:          t.content,
		Color:         string(t.colour),
		Bold:          t.formats.Has(Bold),
		Italic:        t.formats.Has(Italic),
		Underlined:    t.formats.Has(Underlined),
		Strikethrough: t.formats.Has(Strikethrough),
		Obfuscated:    t.formats.Has(Obfuscated),
	}
	if t.click != "" {
		c.ClickEvent = &clickEvent{Action: actionRunCommand, Value: t.click}
	}
	if t.hover != nil {
		hover := t.hover.component()
		c.HoverEvent = &hoverEvent{Action: actionShowText, Value: &hover}
	}
	if len(t.children) != 0 {
		c.Extra = make([]component, len(t.children))
		for i, child := range t.children {
			c.Extra[i] = child.component()
		}
	}
	return c
}

// Parse decodes a JSON text component. Plain JSON strings and arrays, where
// the first element is the parent of the remaining ones, are accepted as
// well. An error wrapping ErrConversion is returned for malformed markup.
func Parse(data []byte) (Text, error) {
	t, err := decode(data, 0)
	if err != nil {
		return Text{}, err
	}
	if err := t.Validate(); err != nil {
		return Text{}, err
	}
	return t, nil
}

func decode(data []byte, depth int) (Text, error) {
	if depth > maxDepth {
		return Text{}, fmt.Errorf("%w: nesting deeper than %d levels", ErrConversion, maxDepth)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Text{}, fmt.Errorf("%w: empty markup", ErrConversion)
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Text{}, fmt.Errorf("%w: decode string: %v", ErrConversion, err)
		}
		return Of(s), nil
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return Text{}, fmt.Errorf("%w: decode array: %v", ErrConversion, err)
		}
		if len(elements) == 0 {
			return Text{}, fmt.Errorf("%w: empty component array", ErrConversion)
		}
		parent, err := decode(elements[0], depth+1)
		if err != nil {
			return Text{}, err
		}
		for _, element := range elements[1:] {
			child, err := decode(element, depth+1)
			if err != nil {
				return Text{}, err
			}
			parent.children = append(parent.children, child)
		}
		return parent, nil
	case '{':
		var raw rawComponent
		if err := json.Unmarshal(data, &raw); err != nil {
			return Text{}, fmt.Errorf("%w: decode component: %v", ErrConversion, err)
		}
		return raw.text(depth)
	}
	return Text{}, fmt.Errorf("%w: unexpected markup %q", ErrConversion, truncate(data, 16))
}

func (raw rawComponent) text(depth int) (Text, error) {
	t := Text{content: raw.Text, colour: Colour(raw.Color)}
	if !t.colour.Valid() {
		return Text{}, fmt.Errorf("%w: unknown colour %q", ErrConversion, raw.Color)
	}
	for f, set := range map[Format]bool{
		Bold:          raw.Bold,
		Italic:        raw.Italic,
		Underlined:    raw.Underlined,
		Strikethrough: raw.Strikethrough,
		Obfuscated:    raw.Obfuscated,
	} {
		if set {
			t.formats |= f
		}
	}
	if raw.ClickEvent != nil && raw.ClickEvent.Action == actionRunCommand {
		t.click = raw.ClickEvent.Value
	}
	if raw.HoverEvent != nil && raw.HoverEvent.Action == actionShowText {
		value := raw.HoverEvent.Value
		if len(value) == 0 {
			value = raw.HoverEvent.Contents
		}
		if len(value) != 0 {
			hover, err := decode(value, depth+1)
			if err != nil {
				return Text{}, err
			}
			t.hover = &hover
		}
	}
	for _, extra := range raw.Extra {
		child, err := decode(extra, depth+1)
		if err != nil {
			return Text{}, err
		}
		t.children = append(t.children, child)
	}
	return t, nil
}

func truncate(data []byte, n int) []byte {
	if len(data) > n {
		return data[:n]
	}
	return data
}
