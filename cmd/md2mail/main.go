// Command md2mail renders Markdown newsletter issues to HTML previews and
// MIME email messages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdHTML       = "html"
	cmdEmail      = "email"
	cmdCheck      = "check"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	if slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	command, rest := args[1], args[2:]

	var err error
	switch command {
	case cmdHTML:
		err = runHTML(ctx, rest, env)
	case cmdEmail:
		err = runEmail(ctx, rest, env)
	case cmdCheck:
		err = runCheck(ctx, rest, env)
	case cmdCompletion:
		err = runCompletion(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "md2mail %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", command)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
