package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	CreateKey(ctx context.Context) error
	Unlock(ctx context.Context) error
	Whoami(ctx context.Context) error

	Mute(ctx context.Context, args []string, private bool) error
	Unmute(ctx context.Context, args []string) error
	ShowMutes(ctx context.Context) error
	PushMutes(ctx context.Context) error
	PullMutes(ctx context.Context) error

	Protect(ctx context.Context, args []string) error
	Unprotect(ctx context.Context, args []string) error
	ShowProtected(ctx context.Context) error
	Block(ctx context.Context, args []string) error
	Unblock(ctx context.Context, args []string) error
	ShowBlacklist(ctx context.Context) error

	ShowPrefs(ctx context.Context) error
	SetPref(ctx context.Context, args []string) error
	ShowPacks(ctx context.Context) error
	ImportPack(ctx context.Context, args []string) error
	ForgetPack(ctx context.Context, args []string) error

	Backup(ctx context.Context) error
	Restore(ctx context.Context) error
	Sync(ctx context.Context) error
	Publish(ctx context.Context) error
	Discover(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the mutestr CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mutestr %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			printHelp(a.isUnlocked())
			continue
		}

		if !a.isUnlocked() {
			switch cmd {
			case "create":
				_ = a.CreateKey(ctx)
			case "unlock":
				_ = a.Unlock(ctx)
			default:
				printlnFn("Locked. Available commands: create, unlock, exit")
			}
			continue
		}

		switch cmd {
		case "whoami":
			_ = a.Whoami(ctx)

		case "mute":
			_ = a.Mute(ctx, args, false)
		case "mutep":
			_ = a.Mute(ctx, args, true)
		case "unmute":
			_ = a.Unmute(ctx, args)
		case "mutes":
			_ = a.ShowMutes(ctx)
		case "push":
			_ = a.PushMutes(ctx)
		case "pull":
			_ = a.PullMutes(ctx)

		case "protect":
			_ = a.Protect(ctx, args)
		case "unprotect":
			_ = a.Unprotect(ctx, args)
		case "protected":
			_ = a.ShowProtected(ctx)
		case "block":
			_ = a.Block(ctx, args)
		case "unblock":
			_ = a.Unblock(ctx, args)
		case "blocked":
			_ = a.ShowBlacklist(ctx)

		case "prefs":
			_ = a.ShowPrefs(ctx)
		case "set":
			_ = a.SetPref(ctx, args)
		case "packs":
			_ = a.ShowPacks(ctx)
		case "import":
			_ = a.ImportPack(ctx, args)
		case "forget":
			_ = a.ForgetPack(ctx, args)

		case "backup":
			_ = a.Backup(ctx)
		case "restore":
			_ = a.Restore(ctx)
		case "sync":
			_ = a.Sync(ctx)
		case "publish":
			_ = a.Publish(ctx)
		case "discover":
			_ = a.Discover(ctx, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func printHelp(unlocked bool) {
	if !unlocked {
		printlnFn("Available commands: create, unlock, exit")
		return
	}
	printlnFn("Mute list:  mute, mutep, unmute, mutes, push, pull")
	printlnFn("Moderation: protect, unprotect, protected, block, unblock, blocked")
	printlnFn("Settings:   prefs, set, packs, import, forget")
	printlnFn("Data:       backup, restore, sync, publish, discover")
	printlnFn("Other:      whoami, help, exit")
}
