package cmd

import (
	"strings"
	"sync"
)

// Runnable is the body of a command or sub command.
type Runnable interface {
	// Run runs the command for src. args holds the arguments following the
	// command or sub command name.
	Run(src Source, args []string, o *Output)
}

// RunnableFunc is a function implementing Runnable.
type RunnableFunc func(src Source, args []string, o *Output)

// Run ...
func (f RunnableFunc) Run(src Source, args []string, o *Output) {
	f(src, args, o)
}

// Allower may be implemented by a Runnable to hide it from some sources,
// regardless of their permissions.
type Allower interface {
	Allow(src Source) bool
}

// Command is a named command with an optional permission node, a body and
// any number of sub commands selected by the first argument.
type Command struct {
	name        string
	description string
	usage       string
	aliases     []string
	permission  string
	run         Runnable
	subs        []Command
}

// New returns a Command with the name, description and aliases passed. If
// run is nil, running the command without a matching sub command prints its
// usage.
func New(name, description string, aliases []string, run Runnable) Command {
	return Command{name: strings.ToLower(name), description: description, aliases: aliases, run: run}
}

// WithPermission returns a copy of the Command that requires permission.
func (c Command) WithPermission(permission string) Command {
	c.permission = permission
	return c
}

// WithUsage returns a copy of the Command with the usage line passed.
func (c Command) WithUsage(usage string) Command {
	c.usage = usage
	return c
}

// WithSub returns a copy of the Command with the sub commands passed added.
func (c Command) WithSub(subs ...Command) Command {
	c.subs = append(append([]Command(nil), c.subs...), subs...)
	return c
}

// Name returns the name of the Command.
func (c Command) Name() string { return c.name }

// Description returns the description of the Command.
func (c Command) Description() string { return c.description }

// Aliases returns the aliases of the Command, including its name.
func (c Command) Aliases() []string {
	return append([]string{c.name}, c.aliases...)
}

// Permission returns the permission node required to run the Command.
func (c Command) Permission() string { return c.permission }

// Usage returns the usage line of the Command.
func (c Command) Usage() string {
	return c.usageFrom("/" + c.name)
}

// Subs returns the sub commands of the Command.
func (c Command) Subs() []Command {
	return append([]Command(nil), c.subs...)
}

// Sub looks up a sub command by its case-insensitive name or alias.
func (c Command) Sub(name string) (Command, bool) {
	name = strings.ToLower(name)
	for _, sub := range c.subs {
		if sub.name == name {
			return sub, true
		}
		for _, alias := range sub.aliases {
			if strings.EqualFold(alias, name) {
				return sub, true
			}
		}
	}
	return Command{}, false
}

// Allowed reports if src may run the Command: it must hold the permission of
// the Command, if any, and the body must allow it.
func (c Command) Allowed(src Source) bool {
	if c.permission != "" && !src.HasPermission(c.permission) {
		return false
	}
	if a, ok := c.run.(Allower); ok && !a.Allow(src) {
		return false
	}
	return true
}

// Execute runs the Command for src with the arguments passed, descending into
// sub commands where the first argument names one. The output is sent to src
// once the command finishes.
func (c Command) Execute(src Source, args []string) {
	o := &Output{}
	defer o.sendTo(src)

	cur, path := c, "/"+c.name
	for {
		if !cur.Allowed(src) {
			o.Errort(MessagePermission)
			return
		}
		if len(args) == 0 {
			break
		}
		sub, ok := cur.Sub(args[0])
		if !ok {
			break
		}
		cur, path, args = sub, path+" "+sub.name, args[1:]
	}
	if cur.run == nil {
		o.Errort(MessageUsage, cur.usageFrom(path))
		return
	}
	cur.run.Run(src, args, o)
}

func (c Command) usageFrom(path string) string {
	if c.usage != "" {
		return c.usage
	}
	if len(c.subs) == 0 {
		return path
	}
	names := make([]string, len(c.subs))
	for i, sub := range c.subs {
		names[i] = sub.name
	}
	return path + " <" + strings.Join(names, "|") + ">"
}

var (
	commandsMu sync.RWMutex
	commands   = map[string]Command{}
)

// Register registers a Command under its name and aliases, replacing any
// command previously registered under them.
func Register(c Command) {
	commandsMu.Lock()
	defer commandsMu.Unlock()
	for _, alias := range c.Aliases() {
		commands[strings.ToLower(alias)] = c
	}
}

// Unregister removes the Command registered under name and all its aliases.
func Unregister(name string) {
	commandsMu.Lock()
	defer commandsMu.Unlock()
	c, ok := commands[strings.ToLower(name)]
	if !ok {
		return
	}
	for _, alias := range c.Aliases() {
		delete(commands, strings.ToLower(alias))
	}
}

// ByAlias looks up a Command by its name or one of its aliases.
func ByAlias(alias string) (Command, bool) {
	commandsMu.RLock()
	defer commandsMu.RUnlock()
	c, ok := commands[strings.ToLower(alias)]
	return c, ok
}
