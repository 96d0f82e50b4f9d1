package cmd

import (
	"fmt"

	"github.com/dm-vev/bluemap/server/text"
)

// Message is a format string for a message shown by many commands.
type Message string

const (
	MessageUnknown          Message = "Unknown command: %v. Please check that the command exists and that you have permission to use it."
	MessagePermission       Message = "You do not have permission to use this command."
	MessageUsage            Message = "Usage: %v"
	MessageParameterInvalid Message = "Invalid parameter: %v"
	MessageNoLocation       Message = "This command can only be used by an issuer that is in a world."
	MessageUnknownWorld     Message = "Unknown world: %v"
)

// Output holds the messages and errors produced by a command. Messages are
// delivered to the Source in the order they were added.
type Output struct {
	entries []entry
}

type entry struct {
	t   text.Text
	err bool
}

// Print adds a plain message to the Output.
func (o *Output) Print(a ...any) {
	o.entries = append(o.entries, entry{t: text.Of(fmt.Sprint(a...))})
}

// Printf adds a formatted plain message to the Output.
func (o *Output) Printf(format string, a ...any) {
	o.entries = append(o.entries, entry{t: text.Of(fmt.Sprintf(format, a...))})
}

// Printt adds a styled message to the Output.
func (o *Output) Printt(t text.Text) {
	o.entries = append(o.entries, entry{t: t})
}

// Error adds an error message to the Output.
func (o *Output) Error(a ...any) {
	o.entries = append(o.entries, entry{t: text.Ofc(text.Red, fmt.Sprint(a...)), err: true})
}

// Errorf adds a formatted error message to the Output.
func (o *Output) Errorf(format string, a ...any) {
	o.entries = append(o.entries, entry{t: text.Ofcf(text.Red, format, a...), err: true})
}

// Errort adds an error message built from the Message passed to the Output.
func (o *Output) Errort(m Message, a ...any) {
	o.Errorf(string(m), a...)
}

// Messages returns all messages added to the Output, errors included.
func (o *Output) Messages() []text.Text {
	msgs := make([]text.Text, len(o.entries))
	for i, e := range o.entries {
		msgs[i] = e.t
	}
	return msgs
}

// Errors returns the error messages added to the Output.
func (o *Output) Errors() []text.Text {
	var errs []text.Text
	for _, e := range o.entries {
		if e.err {
			errs = append(errs, e.t)
		}
	}
	return errs
}

// ErrorCount returns the number of errors added to the Output.
func (o *Output) ErrorCount() int {
	n := 0
	for _, e := range o.entries {
		if e.err {
			n++
		}
	}
	return n
}

func (o *Output) sendTo(src Source) {
	for _, e := range o.entries {
		src.SendMessage(e.t)
	}
}
