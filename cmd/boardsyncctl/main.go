// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/service"
	"github.com/bureau-foundation/boardsync/lib/version"
)

const socketVariable = "BOARDSYNC_SOCKET"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// subcommand calls one socket action and prints its result.
type subcommand struct {
	summary string
	args    string
	call    func(ctx context.Context, client *service.ServiceClient, out *printer, args []string) error
}

var subcommands = map[string]subcommand{
	"sync": {
		summary: "post or edit the board message now",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, _ []string) error {
			var result boardsync.Result
			if err := client.Call(ctx, boardsync.ActionSync, nil, &result); err != nil {
				return err
			}
			return out.syncResult(result)
		},
	},
	"start-update": {
		summary: "start the periodic update loop",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, _ []string) error {
			var state boardsync.LoopState
			if err := client.Call(ctx, boardsync.ActionStartUpdate, nil, &state); err != nil {
				return err
			}
			return out.loopState(state)
		},
	},
	"stop-update": {
		summary: "stop the periodic update loop",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, _ []string) error {
			var state boardsync.LoopState
			if err := client.Call(ctx, boardsync.ActionStopUpdate, nil, &state); err != nil {
				return err
			}
			return out.loopState(state)
		},
	},
	"auto-pin": {
		summary: "toggle pinning of newly posted board messages",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, _ []string) error {
			var state boardsync.PinState
			if err := client.Call(ctx, boardsync.ActionAutoPin, nil, &state); err != nil {
				return err
			}
			return out.pinState(state)
		},
	},
	"task-desc": {
		summary: "show a task's description",
		args:    "<task name>",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("task-desc needs a task name")
			}
			var info boardsync.TaskInfo
			if err := client.Call(ctx, boardsync.ActionTaskDesc, map[string]any{"name": name}, &info); err != nil {
				return err
			}
			return out.taskInfo(name, info)
		},
	},
	"text-train": {
		summary: "post the training texts to the target room",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, _ []string) error {
			var result boardsync.BroadcastResult
			if err := client.Call(ctx, boardsync.ActionTextTrain, nil, &result); err != nil {
				return err
			}
			return out.broadcastResult(result)
		},
	},
	"status": {
		summary: "show the daemon's record and loop state",
		call: func(ctx context.Context, client *service.ServiceClient, out *printer, _ []string) error {
			var status boardsync.Status
			if err := client.Call(ctx, boardsync.ActionStatus, nil, &status); err != nil {
				return err
			}
			return out.status(status)
		},
	},
}

// subcommandOrder is the order subcommands appear in usage output.
var subcommandOrder = []string{"sync", "start-update", "stop-update", "auto-pin", "task-desc", "text-train", "status"}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		socketPath  string
		jsonOutput  bool
		timeout     time.Duration
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("boardsyncctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&socketPath, "socket", "s", os.Getenv(socketVariable), "control socket path (default: $"+socketVariable+")")
	flagSet.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	flagSet.DurationVar(&timeout, "timeout", 2*time.Minute, "how long to wait for the daemon")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if showVersion {
		fmt.Fprintf(stdout, "boardsyncctl %s\n", version.Info())
		return 0
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return 2
	}
	cmd, ok := subcommands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "error: unknown command %q\n", rest[0])
		printUsage(stderr, flagSet)
		return 2
	}
	if socketPath == "" {
		fmt.Fprintf(stderr, "error: no control socket, set --socket or %s\n", socketVariable)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out := newPrinter(stdout, jsonOutput, isTerminal(stdout))
	if err := cmd.call(ctx, service.NewServiceClient(socketPath), out, rest[1:]); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "usage: boardsyncctl [flags] <command> [args]\n\ncommands:\n")
	for _, name := range subcommandOrder {
		cmd := subcommands[name]
		usage := name
		if cmd.args != "" {
			usage += " " + cmd.args
		}
		fmt.Fprintf(w, "  %-24s %s\n", usage, cmd.summary)
	}
	fmt.Fprintf(w, "\nflags:\n%s", flagSet.FlagUsages())
}
