package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2mail <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  html        Render an issue to an HTML preview")
	fmt.Fprintln(w, "  email       Render an issue to a MIME email message")
	fmt.Fprintln(w, "  check       Validate an issue and report image advisories")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2mail help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for html, email or check.
func printCommandUsage(w io.Writer, command string) {
	switch command {
	case cmdHTML:
		fmt.Fprintln(w, "Usage: md2mail html <issue.md> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Render an issue to a styled HTML document for browser preview.")
		fmt.Fprintln(w, "Images keep their original paths.")
	case cmdEmail:
		fmt.Fprintln(w, "Usage: md2mail email <issue.md> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Render an issue to a multipart MIME message (text, HTML, inline images).")
		fmt.Fprintln(w, "Writes to stdout unless --output or output.defaultDir is set.")
	case cmdCheck:
		fmt.Fprintln(w, "Usage: md2mail check <issue.md> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Parse an issue and dry-run image inlining without writing output.")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Input/Output:")
	if command == cmdCheck {
		fmt.Fprintln(w, "      --json                Print the report as JSON")
	} else {
		fmt.Fprintln(w, "  -o, --output <path>       Output file (\"-\" = stdout)")
	}
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sender:")
	fmt.Fprintln(w, "      --from-name <s>       Sender display name")
	fmt.Fprintln(w, "      --from-email <s>      Sender email address")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Message:")
	fmt.Fprintln(w, "      --subject <s>         Subject (default: metadata subject, or \"<title> #<issue>\")")
	fmt.Fprintln(w, "      --domain <s>          Domain for Content-IDs and Message-ID")
	fmt.Fprintln(w, "      --no-minify           Keep HTML whitespace and comments")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file path (default: default)")
	fmt.Fprintln(w, "      --template <name>     Template set name (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Issue format:")
	fmt.Fprintln(w, "  issue: 7                  \"key: value\" lines, then a blank line")
	fmt.Fprintln(w, "  title: My Newsletter      Optional: title, subject, date (\"auto\", \"auto:FORMAT\")")
	fmt.Fprintln(w, "  Preamble text...          Text before the first story")
	fmt.Fprintln(w, "  # Story title             Each story ends with a [link](url) line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2MAIL_CONFIG, MD2MAIL_STYLE, MD2MAIL_TEMPLATE, MD2MAIL_ASSET_PATH,")
	fmt.Fprintln(w, "  MD2MAIL_OUTPUT_DIR, MD2MAIL_FROM_NAME, MD2MAIL_FROM_EMAIL,")
	fmt.Fprintln(w, "  MD2MAIL_DOMAIN, MD2MAIL_DATE_FORMAT")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage/config, 3 I/O, 4 document")
}

// runHelp prints help for a command and returns the exit code.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdHTML, cmdEmail, cmdCheck:
		printCommandUsage(env.Stdout, args[0])
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2mail version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: md2mail help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
