// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wangtaoking1/shopdesk/flag"
)

// Command is the Interface of command.
type Command interface {
	// AddCommands add children commands to the Command.
	AddCommands(cmds ...Command)
	// Command returns the cobra command instance of the Command.
	Command() *cobra.Command
}

// CommandRunFunc is the callback of a sub command. args are the positional
// arguments left after flag parsing.
type CommandRunFunc func(name string, args []string) error

// command is a sub command structure of an application.
// It is recommended that a command be created with the app.NewCommand()
// function.
type command struct {
	name        string
	short       string
	description string
	argsUsage   string
	args        cobra.PositionalArgs
	aliases     []string
	options     CmdOptions
	commands    []Command
	runFunc     CommandRunFunc
}

// CommandOption defines optional parameters for initializing the command
// structure.
type CommandOption func(*command)

// WithCmdOptions sets options read from the flags of the command. They are
// bound and validated before the command runs.
func WithCmdOptions(opt CmdOptions) CommandOption {
	return func(c *command) {
		c.options = opt
	}
}

// WithCmdDescription is used to set the description of the command.
func WithCmdDescription(desc string) CommandOption {
	return func(c *command) {
		c.description = desc
	}
}

// WithCmdRunFunc is used to set the application's command startup callback
// function option.
func WithCmdRunFunc(run CommandRunFunc) CommandOption {
	return func(c *command) {
		c.runFunc = run
	}
}

// WithCmdArgs declares the positional arguments of the command. usage is
// shown after the command name, like "ID STATUS".
func WithCmdArgs(usage string, args cobra.PositionalArgs) CommandOption {
	return func(c *command) {
		c.argsUsage = usage
		c.args = args
	}
}

// WithCmdAliases sets alternative names of the command.
func WithCmdAliases(aliases ...string) CommandOption {
	return func(c *command) {
		c.aliases = aliases
	}
}

// NewCommand creates a new sub command instance based on the given command name
// and other options.
func NewCommand(name string, short string, opts ...CommandOption) Command {
	c := &command{
		name:  name,
		short: short,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func (c *command) AddCommands(cmds ...Command) {
	c.commands = append(c.commands, cmds...)
}

func (c *command) Command() *cobra.Command {
	use := c.name
	if c.argsUsage != "" {
		use = strings.Join([]string{c.name, c.argsUsage}, " ")
	}
	cmd := &cobra.Command{
		Use:     use,
		Short:   c.short,
		Long:    c.description,
		Aliases: c.aliases,
		Args:    c.args,
	}
	cmd.Flags().SortFlags = false

	for _, sub := range c.commands {
		cmd.AddCommand(sub.Command())
	}
	if c.runFunc != nil {
		cmd.RunE = c.runCommand
	}

	var namedFlagSets flag.NamedFlagSets
	if c.options != nil {
		namedFlagSets = c.options.Flags()
		fs := cmd.Flags()
		for _, f := range namedFlagSets.FlagSets {
			fs.AddFlagSet(f)
		}
	}
	addHelpFlag(c.name, cmd.Flags())
	if len(namedFlagSets.Order) > 0 {
		addCmdTemplate(cmd, namedFlagSets)
	}

	return cmd
}

func (c *command) runCommand(cmd *cobra.Command, args []string) error {
	if c.options != nil {
		if err := bindOptions(cmd, c.options); err != nil {
			return err
		}
		if err := applyOptionRules(c.options, true); err != nil {
			return err
		}
	}

	return c.runFunc(c.name, args)
}
