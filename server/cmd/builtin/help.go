package builtin

import (
	"strings"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/text"
)

type helpCommand struct{}

func newHelpCommand() cmd.Command {
	return cmd.New("help", "Shows the BlueMap commands you can use.", []string{"?"}, helpCommand{}).
		WithUsage("/bluemap help [command]")
}

func (helpCommand) Run(src cmd.Source, args []string, o *cmd.Output) {
	root, ok := cmd.ByAlias("bluemap")
	if !ok {
		o.Errort(cmd.MessageUnknown, "bluemap")
		return
	}
	if len(args) > 0 {
		name := strings.ToLower(args[0])
		sub, found := root.Sub(name)
		if !found || !sub.Allowed(src) {
			o.Errort(cmd.MessageUnknown, "bluemap "+name)
			return
		}
		if desc := sub.Description(); desc != "" {
			o.Print(desc)
		}
		o.Printf(string(cmd.MessageUsage), sub.Usage())
		return
	}

	var lines []text.Text
	for _, sub := range root.Subs() {
		if !sub.Allowed(src) {
			continue
		}
		line := text.Ofc(text.Aqua, sub.Usage()).
			WithClick("/bluemap " + sub.Name()).
			WithHover(text.Of("Click to run."))
		if desc := sub.Description(); desc != "" {
			line = line.Append(text.Ofc(text.Gray, " - "+desc))
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		o.Print("No commands available.")
		return
	}
	o.Printf("BlueMap commands (%d):", len(lines))
	for _, line := range lines {
		o.Printt(line)
	}
}
