// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wangtaoking1/shopdesk/flag"
	"github.com/wangtaoking1/shopdesk/utils/term"
)

var progressMessage = color.GreenString("==>")

// FormatExecName is formatted as an executable file name under different
// operating systems according to the given name.
func FormatExecName(name string) string {
	// Make case-insensitive and strip executable suffix if present
	if runtime.GOOS == "windows" {
		name = strings.ToLower(name)
		name = strings.TrimSuffix(name, ".exe")
	}

	return name
}

// addHelpFlag adds help flag to the specified FlagSet object.
func addHelpFlag(name string, fs *pflag.FlagSet) {
	fs.BoolP("help", "h", false, fmt.Sprintf("Help for %s.", name))
}

func addCmdTemplate(cmd *cobra.Command, namedFlagSets flag.NamedFlagSets) {
	usageFmt := "Usage:\n  %s\n"
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		writeString(cmd.OutOrStderr(), fmt.Sprintf(usageFmt, cmd.UseLine()))
		printCommands(cmd.OutOrStderr(), cmd)
		flag.PrintSections(cmd.OutOrStderr(), namedFlagSets, cols)

		return nil
	})
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		long := cmd.Long
		if long == "" {
			long = cmd.Short
		}
		writeString(cmd.OutOrStdout(), fmt.Sprintf("%s\n\n"+usageFmt, long, cmd.UseLine()))
		printCommands(cmd.OutOrStdout(), cmd)
		flag.PrintSections(cmd.OutOrStdout(), namedFlagSets, cols)
	})
}

// printCommands lists the sub commands of cmd, aligned on their names.
func printCommands(w io.Writer, cmd *cobra.Command) {
	var subs []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		subs = append(subs, c)
		if len(c.Name()) > width {
			width = len(c.Name())
		}
	}
	if len(subs) == 0 {
		return
	}

	writeString(w, "\nAvailable Commands:\n")
	for _, c := range subs {
		writeString(w, fmt.Sprintf("  %-*s  %s\n", width, c.Name(), c.Short))
	}
	writeString(w, fmt.Sprintf("\nUse \"%s [command] --help\" for more information about a command.\n",
		cmd.CommandPath()))
}

func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

func printWorkingDir(cmd *cobra.Command) {
	wd, _ := os.Getwd()
	writeString(cmd.ErrOrStderr(), fmt.Sprintf("%v WorkingDir: %s\n", progressMessage, wd))
}
