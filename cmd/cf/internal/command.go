/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package internal implements the subcommands of the cf tool.
package internal

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Command is a cf subcommand.
type Command struct {
	// Run runs the command with the arguments left after flag parsing.
	Run func(cmd *Command, args []string)

	// UsageLine is the one line usage message, the first word is the command name.
	UsageLine string
	// Short is the description shown in the main usage.
	Short string
	// Long is the description shown in the command usage.
	Long string

	// Flag is the set of flags of this command.
	Flag flag.FlagSet
}

var (
	// CfCommands lists the available commands.
	CfCommands []*Command

	// ConsoleLog is logging for console.
	ConsoleLog = logrus.New()

	exitStatus = 0
	exitMu     sync.Mutex
)

func init() {
	ConsoleLog.SetOutput(os.Stderr)
	ConsoleLog.SetLevel(logrus.InfoLevel)
}

// Name returns the command name: the second word of the usage line.
func (c *Command) Name() string {
	fields := strings.Fields(c.UsageLine)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// Usage prints the usage of the command and exits.
func (c *Command) Usage() {
	fmt.Fprintf(os.Stderr, "usage: %s\n", c.UsageLine)
	fmt.Fprintf(os.Stderr, "%s\n", strings.TrimSpace(c.Long))
	c.Flag.PrintDefaults()
	SetExitStatus(2)
	Exit()
}

// Runnable reports whether the command can be run.
func (c *Command) Runnable() bool {
	return c.Run != nil
}

// SetExitStatus keeps the highest exit status set.
func SetExitStatus(n int) {
	exitMu.Lock()
	if exitStatus < n {
		exitStatus = n
	}
	exitMu.Unlock()
}

// ExitStatus returns the current exit status.
func ExitStatus() int {
	exitMu.Lock()
	defer exitMu.Unlock()
	return exitStatus
}

// Exit exits with the exit status.
func Exit() {
	os.Exit(ExitStatus())
}

// MainUsage prints the list of commands and exits.
func MainUsage() {
	fmt.Fprintf(os.Stderr, "cf is the command line client of the crowdfund ledger.\n\nUsage:\n\n\tcf <command> [params]\n\nThe commands are:\n\n")
	for _, cmd := range CfCommands {
		if cmd.Runnable() {
			fmt.Fprintf(os.Stderr, "\t%-14s %s\n", cmd.Name(), cmd.Short)
		}
	}
	fmt.Fprintf(os.Stderr, "\nUse \"cf help <command>\" for more information about a command.\n")
	SetExitStatus(2)
	Exit()
}
