// ABOUTME: Interactive pending-action session for the coven-control CLI.
// ABOUTME: Proposes, lists, confirms, and cancels actions inside one process.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/coven-control/internal/actions"
)

// cmdActions runs an interactive session against an in-process action store.
// Pending actions live only as long as the session; confirmed changes are
// written to the settings database.
func cmdActions() error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	color.Cyan("Pending action session. Proposals expire after %s.", e.cfg.Actions.TTL)
	fmt.Println("Commands: propose <type> <op> <target> [k=v ...], pending, confirm <id>, cancel <id>, quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return scanner.Err()
		case "propose":
			replPropose(e, fields[1:])
		case "pending":
			replPending(e)
		case "confirm":
			replConfirm(e, fields[1:])
		case "cancel":
			replCancel(e, fields[1:])
		default:
			color.Yellow("Unknown command: %s", fields[0])
		}
	}
	return scanner.Err()
}

func replPropose(e *env, args []string) {
	if len(args) < 3 {
		color.Yellow("usage: propose <type> <op> <target> [k=v ...]")
		return
	}

	changes := make(map[string]any)
	for _, pair := range args[3:] {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			color.Yellow("ignoring malformed change %q (want k=v)", pair)
			continue
		}
		changes[k] = v
	}

	act := e.actions.Create(args[0], actions.Operation(args[1]), args[2], changes)
	color.Green("Staged: %s", act.Summary)
	fmt.Printf("  id: %s\n  expires: %s\n", act.ID, act.ExpiresAt.Format(time.RFC3339))
}

func replPending(e *env) {
	list := e.actions.List()
	if len(list) == 0 {
		fmt.Println("No pending actions.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUMMARY\tEXPIRES")
	for _, act := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", act.ID, act.Summary, act.ExpiresAt.Format(time.RFC3339))
	}
	w.Flush()
}

func replConfirm(e *env, args []string) {
	if len(args) != 1 {
		color.Yellow("usage: confirm <id>")
		return
	}

	res := e.actions.Confirm(context.Background(), args[0])
	if res.Success {
		color.Green("%s", res.Message)
	} else {
		color.Red("%s", res.Message)
	}
	for k, v := range res.Data {
		fmt.Printf("  %s: %v\n", k, v)
	}
}

func replCancel(e *env, args []string) {
	if len(args) != 1 {
		color.Yellow("usage: cancel <id>")
		return
	}

	if e.actions.Cancel(args[0]) {
		color.Green("Cancelled %s", args[0])
	} else {
		color.Red("Action %s not found or already resolved", args[0])
	}
}
