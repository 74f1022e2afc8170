package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// senderFlags holds the From identity.
type senderFlags struct {
	name  string
	email string
}

// assetFlags holds style and template selection.
type assetFlags struct {
	style     string // Name, CSS file path, or inline CSS
	template  string // Template set name
	assetPath string // Override asset directory
	noStyle   bool   // Disable CSS styling
}

// emailFlags holds message assembly flags.
type emailFlags struct {
	subject  string
	domain   string
	noMinify bool
}

// renderFlags holds all flags for html, email and check.
type renderFlags struct {
	common commonFlags
	output string
	json   bool
	sender senderFlags
	assets assetFlags
	email  emailFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addSenderFlags adds sender flags to a FlagSet.
func addSenderFlags(fs *flag.FlagSet, f *senderFlags) {
	fs.StringVar(&f.name, "from-name", "", "sender display name")
	fs.StringVar(&f.email, "from-email", "", "sender email address")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.template, "template", "", "template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addEmailFlags adds message flags to a FlagSet.
func addEmailFlags(fs *flag.FlagSet, f *emailFlags) {
	fs.StringVar(&f.subject, "subject", "", "subject line (overrides metadata)")
	fs.StringVar(&f.domain, "domain", "", "domain used in Content-IDs and Message-ID")
	fs.BoolVar(&f.noMinify, "no-minify", false, "keep HTML whitespace and comments")
}

// newRenderFlagSet registers the flags of command into f.
// check reports instead of writing, so it takes --json in place of --output.
func newRenderFlagSet(command string, f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	if command == cmdCheck {
		fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	} else {
		fs.StringVarP(&f.output, "output", "o", "", `output file ("-" = stdout)`)
	}

	addCommonFlags(fs, &f.common)
	addSenderFlags(fs, &f.sender)
	addAssetFlags(fs, &f.assets)
	addEmailFlags(fs, &f.email)

	return fs
}

// parseRenderFlags parses command flags and returns positional args.
func parseRenderFlags(command string, args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(command, f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCommandUsage(stderr, command) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
