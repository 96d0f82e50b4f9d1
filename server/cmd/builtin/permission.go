package builtin

import (
	"errors"
	"strings"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/permission"
)

type permissionNodeCommand struct {
	store permissionStore
	set   func(store permissionStore, subject, node string) (bool, error)
	done  string
	noop  string
}

type permissionOperatorCommand struct {
	store    permissionStore
	operator bool
}

type permissionOperatorsCommand struct {
	store permissionStore
}

func newPermissionCommand(store permissionStore) cmd.Command {
	return cmd.New("permission", "Manages BlueMap permissions of issuers.", []string{"perm"}, nil).
		WithPermission(PermissionPermissions).
		WithSub(
			cmd.New("grant", "Grants a permission node.", nil, permissionNodeCommand{
				store: store, set: permissionStore.Grant,
				done: "Granted %s to %s.", noop: "%s is already granted to %s.",
			}).WithUsage("/bluemap permission grant <subject> <node>"),
			cmd.New("deny", "Denies a permission node.", nil, permissionNodeCommand{
				store: store, set: permissionStore.Deny,
				done: "Denied %s to %s.", noop: "%s is already denied to %s.",
			}).WithUsage("/bluemap permission deny <subject> <node>"),
			cmd.New("unset", "Removes a permission node.", nil, permissionNodeCommand{
				store: store, set: permissionStore.Unset,
				done: "Unset %s for %s.", noop: "%s is not set for %s.",
			}).WithUsage("/bluemap permission unset <subject> <node>"),
			cmd.New("op", "Makes a subject an operator.", nil, permissionOperatorCommand{store: store, operator: true}).
				WithUsage("/bluemap permission op <subject>"),
			cmd.New("deop", "Removes operator status.", nil, permissionOperatorCommand{store: store}).
				WithUsage("/bluemap permission deop <subject>"),
			cmd.New("operators", "Lists operators.", []string{"ops"}, permissionOperatorsCommand{store: store}).
				WithUsage("/bluemap permission operators"),
		)
}

func (c permissionNodeCommand) Run(_ cmd.Source, args []string, o *cmd.Output) {
	if len(args) != 2 {
		o.Errort(cmd.MessageParameterInvalid, strings.Join(args, " "))
		return
	}
	subject, node := args[0], args[1]
	changed, err := c.set(c.store, subject, node)
	if err != nil {
		if errors.Is(err, permission.ErrInvalidNode) || errors.Is(err, permission.ErrInvalidSubject) {
			o.Errort(cmd.MessageParameterInvalid, err)
			return
		}
		o.Error(err)
		return
	}
	if changed {
		o.Printf(c.done, node, subject)
		return
	}
	o.Printf(c.noop, node, subject)
}

func (c permissionOperatorCommand) Run(_ cmd.Source, args []string, o *cmd.Output) {
	if len(args) != 1 {
		o.Errort(cmd.MessageParameterInvalid, strings.Join(args, " "))
		return
	}
	name := args[0]
	changed, err := c.store.SetOperator(name, c.operator)
	if err != nil {
		if errors.Is(err, permission.ErrInvalidSubject) {
			o.Errort(cmd.MessageParameterInvalid, name)
			return
		}
		o.Error(err)
		return
	}
	switch {
	case changed && c.operator:
		o.Printf("Made %s an operator.", name)
	case changed:
		o.Printf("%s is no longer an operator.", name)
	case c.operator:
		o.Printf("%s is already an operator.", name)
	default:
		o.Printf("%s is not an operator.", name)
	}
}

func (c permissionOperatorsCommand) Run(_ cmd.Source, _ []string, o *cmd.Output) {
	ops := c.store.Operators()
	o.Printf("Operators: %d.", len(ops))
	if len(ops) != 0 {
		o.Print(strings.Join(ops, ", "))
	}
}
