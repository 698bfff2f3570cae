package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/logging"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error

	List(ctx context.Context) error
	Open(ctx context.Context, ref string) error
	Import(ctx context.Context, path string) error
	Delete(ctx context.Context, ref string) error
	Export(ctx context.Context, ref, dir string) error
	Storage(ctx context.Context) error
	Sync(ctx context.Context) error

	Page(ctx context.Context, n int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	Zoom(ctx context.Context, dir string) error
	Rotate(ctx context.Context) error
	Pan(ctx context.Context, dx, dy float64) error
	Find(ctx context.Context, query string) error
	NextMatch(ctx context.Context) error
	PrevMatch(ctx context.Context) error
	SelectMatch(ctx context.Context, n int) error

	Search(ctx context.Context, args []string) error
	More(ctx context.Context) error
	Results(ctx context.Context) error
	CloseResults(ctx context.Context) error
	OpenHit(ctx context.Context, n int) error
}

const (
	helpLoggedOut = "Available commands: login, list, open <id>, page <n>, next, prev, zoom in|out|reset, rotate, pan <dx> <dy>, find <text>, n, N, match <n>, import <file>, export <id> [dir], delete <id>, storage, status, exit"
	helpLoggedIn  = "Available commands: (l)ist, open <id>, page <n>, next, prev, zoom in|out|reset, rotate, pan <dx> <dy>, find <text>, n, N, match <n>, search [flags] <query>, more, results, close-results, hit <n>, import <file>, export <id> [dir], delete <id>, sync, storage, status, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the reader.
//
// It reads a line from reader, splits it into words (quotes group words with
// spaces), and dispatches the first word as the command to methods on 'a'.
// Commands with missing or malformed arguments print their usage instead of
// running. Unknown commands are reported back to the user. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors through the notifier. This keeps the REPL loop resilient
// and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("reader %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := splitArgs(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		ctx := logging.ContextWith(ctx, "command", cmd)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "status":
			_ = a.Status(ctx)

		case "l", "list":
			_ = a.List(ctx)
		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <id>")
				continue
			}
			_ = a.Open(ctx, args[0])
		case "import":
			if len(args) != 1 {
				printlnFn("Usage: import <file>")
				continue
			}
			_ = a.Import(ctx, args[0])
		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])
		case "export":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: export <id> [dir]")
				continue
			}
			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}
			_ = a.Export(ctx, args[0], dir)
		case "storage":
			_ = a.Storage(ctx)
		case "sync":
			_ = a.Sync(ctx)

		case "page", "p":
			n, ok := intArg(args)
			if !ok {
				printlnFn("Usage: page <n>")
				continue
			}
			_ = a.Page(ctx, n)
		case "next", "j":
			_ = a.NextPage(ctx)
		case "prev", "k":
			_ = a.PrevPage(ctx)
		case "zoom":
			if len(args) != 1 {
				printlnFn("Usage: zoom in|out|reset")
				continue
			}
			_ = a.Zoom(ctx, args[0])
		case "rotate":
			_ = a.Rotate(ctx)
		case "pan":
			dx, dy, ok := panArgs(args)
			if !ok {
				printlnFn("Usage: pan <dx> <dy>")
				continue
			}
			_ = a.Pan(ctx, dx, dy)
		case "find", "/":
			_ = a.Find(ctx, strings.Join(args, " "))
		case "n":
			_ = a.NextMatch(ctx)
		case "N":
			_ = a.PrevMatch(ctx)
		case "match":
			n, ok := intArg(args)
			if !ok {
				printlnFn("Usage: match <n>")
				continue
			}
			_ = a.SelectMatch(ctx, n)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search [flags] <query>")
				continue
			}
			_ = a.Search(ctx, args)
		case "more":
			_ = a.More(ctx)
		case "results":
			_ = a.Results(ctx)
		case "close-results":
			_ = a.CloseResults(ctx)
		case "hit":
			n, ok := intArg(args)
			if !ok {
				printlnFn("Usage: hit <n>")
				continue
			}
			_ = a.OpenHit(ctx, n)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func intArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

func panArgs(args []string) (float64, float64, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	dx, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, false
	}
	dy, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return dx, dy, true
}
