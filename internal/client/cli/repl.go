package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Filter(ctx context.Context, text string) error
	ClearFilter(ctx context.Context) error
	Export(ctx context.Context) error
	Snapshots(ctx context.Context) error
	PruneSnapshots(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command and dispatches
// to a. Unknown commands are reported back. Exits on EOF, "exit" or "quit".
// Command handlers print their own errors; the loop stays resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ck> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, edit, del, filter <text>, clear, export, snapshots, prune, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "del", "delete":
			_ = a.Delete(ctx)

		case "filter":
			_ = a.Filter(ctx, strings.Join(parts[1:], " "))

		case "clear":
			_ = a.ClearFilter(ctx)

		case "export":
			_ = a.Export(ctx)

		case "snapshots":
			_ = a.Snapshots(ctx)

		case "prune":
			_ = a.PruneSnapshots(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
