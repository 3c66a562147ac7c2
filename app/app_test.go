// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/flag"
)

type greetOptions struct {
	Greeting string `mapstructure:"greeting"`
}

func (o *greetOptions) Flags() (fss flag.NamedFlagSets) {
	o.Greeting = "hello"
	fss.FlagSet("greet").StringVar(&o.Greeting, "greeting", o.Greeting, "Greeting word.")

	return fss
}

func (o *greetOptions) Validate() []error {
	if o.Greeting == "" {
		return []error{errors.New("greeting must not be empty")}
	}

	return nil
}

func TestCommandArgsAndOptions(t *testing.T) {
	var (
		gotName string
		gotArgs []string
	)
	opts := &greetOptions{}
	greet := NewCommand("greet", "Greet somebody",
		WithCmdOptions(opts),
		WithCmdArgs("NAME", cobra.ExactArgs(1)),
		WithCmdRunFunc(func(name string, args []string) error {
			gotName = name
			gotArgs = args

			return nil
		}),
	)
	a := NewApp("shoptest", "test application",
		WithSilence(), WithNoVersion(), WithNoConfig(), WithCommands(greet))

	cmd := a.Command()
	cmd.SetArgs([]string{"greet", "--greeting=hi", "bob"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "greet", gotName)
	assert.Equal(t, []string{"bob"}, gotArgs)
	assert.Equal(t, "hi", opts.Greeting)

	cmd.SetArgs([]string{"greet"})
	assert.Error(t, cmd.Execute())
}

func TestCommandValidationFailure(t *testing.T) {
	called := false
	greet := NewCommand("greet", "Greet somebody",
		WithCmdOptions(&greetOptions{}),
		WithCmdRunFunc(func(string, []string) error {
			called = true

			return nil
		}),
	)
	a := NewApp("shoptest", "test application",
		WithSilence(), WithNoVersion(), WithNoConfig(), WithCommands(greet))

	cmd := a.Command()
	cmd.SetArgs([]string{"greet", "--greeting="})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greeting must not be empty")
	assert.False(t, called)
}

func TestAppRunFunc(t *testing.T) {
	var got string
	a := NewApp("shoptest", "test application",
		WithSilence(), WithNoVersion(), WithNoConfig(), WithDefaultValidArgs(),
		WithOptions(&greetOptions{}),
		WithRunFunc(func(name string) error {
			got = name

			return nil
		}),
	)

	cmd := a.Command()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "shoptest", got)

	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}

func TestEnvPrefix(t *testing.T) {
	assert.Equal(t, "SHOP_SIM", envPrefix("shop-sim"))
}

func TestPrintCommands(t *testing.T) {
	noop := WithCmdRunFunc(func(string, []string) error { return nil })
	a := NewApp("shoptest", "test application", WithSilence(), WithNoVersion(), WithNoConfig(),
		WithCommands(
			NewCommand("brands", "List product brands", noop),
			NewCommand("order-status", "Move an order to another status", noop),
			NewCommand("hidden", "Not runnable"),
		))

	var buf bytes.Buffer
	printCommands(&buf, a.Command())
	out := buf.String()
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "  brands        List product brands\n")
	assert.Contains(t, out, "  order-status  Move an order to another status\n")
	assert.NotContains(t, out, "hidden")

	buf.Reset()
	printCommands(&buf, a.Command().Commands()[0])
	assert.Empty(t, buf.String())
}
