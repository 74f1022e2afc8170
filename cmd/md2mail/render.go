package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	md2mail "github.com/alnah/go-md2mail"
	"github.com/alnah/go-md2mail/internal/config"
	"github.com/alnah/go-md2mail/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input file specified")
	ErrTooManyInputs    = errors.New("exactly one input file expected")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrReadIssue        = errors.New("failed to read issue file")
	ErrWriteOutput      = errors.New("failed to write output")
)

// stdoutPath selects standard output as the destination.
const stdoutPath = "-"

// session is everything a command needs to render one issue.
type session struct {
	flags     *renderFlags
	log       zerolog.Logger
	cfg       *config.Config
	converter *md2mail.Converter
	inputPath string
	input     md2mail.Input
}

// newSession parses flags, loads configuration, builds the converter and
// reads the issue source.
func newSession(command string, args []string, env *Environment) (*session, error) {
	flags, positional, err := parseRenderFlags(command, args, env.Stderr)
	if err != nil {
		return nil, err
	}

	s := &session{
		flags: flags,
		log:   newLogger(env.Stderr, flags.common.quiet, flags.common.verbose),
	}
	warnUnknownEnvVars(env.Environ(), s.log)

	if s.inputPath, err = resolveInputPath(positional); err != nil {
		return nil, err
	}

	if s.cfg, err = loadConfig(flags, env); err != nil {
		return nil, err
	}

	if s.converter, err = md2mail.NewConverter(converterOptions(s.cfg, flags, env)...); err != nil {
		return nil, err
	}

	markdown, err := readIssue(s.inputPath)
	if err != nil {
		return nil, err
	}
	s.input = buildInput(s.inputPath, markdown, s.cfg)

	s.log.Debug().
		Str("input", s.inputPath).
		Str("style", displayStyle(s.cfg, flags.assets.noStyle)).
		Str("template", s.cfg.Template).
		Msg("session ready")

	return s, nil
}

// loadConfig builds the effective configuration.
// Precedence: CLI flags > config file > env vars > defaults.
func loadConfig(flags *renderFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags overrides config values with explicitly set CLI flags.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	setIfNotEmpty(&cfg.Sender.Name, flags.sender.name)
	setIfNotEmpty(&cfg.Sender.Email, flags.sender.email)
	setIfNotEmpty(&cfg.Style, flags.assets.style)
	setIfNotEmpty(&cfg.Template, flags.assets.template)
	setIfNotEmpty(&cfg.Assets.BasePath, flags.assets.assetPath)
	setIfNotEmpty(&cfg.Email.Subject, flags.email.subject)
	setIfNotEmpty(&cfg.Email.Domain, flags.email.domain)

	if flags.email.noMinify {
		off := false
		cfg.Email.Minify = &off
	}
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// converterOptions translates the configuration into converter options.
func converterOptions(cfg *config.Config, flags *renderFlags, env *Environment) []md2mail.Option {
	opts := []md2mail.Option{
		md2mail.WithTemplateSet(cfg.Template),
		md2mail.WithAssetPath(cfg.Assets.BasePath),
		md2mail.WithMinify(cfg.MinifyEnabled()),
		md2mail.WithDomain(cfg.Email.Domain),
		md2mail.WithDateFormat(cfg.Date.Format),
		md2mail.WithNow(env.Now),
	}
	if flags.assets.noStyle {
		opts = append(opts, md2mail.WithoutStyle())
	} else {
		opts = append(opts, md2mail.WithStyle(cfg.Style))
	}
	return opts
}

// buildInput assembles the converter input for one issue file.
// Relative image paths resolve against the issue's directory.
func buildInput(path, markdown string, cfg *config.Config) md2mail.Input {
	input := md2mail.Input{
		Markdown:  markdown,
		SourceDir: filepath.Dir(path),
		Subject:   cfg.Email.Subject,
	}
	if cfg.Sender.Name != "" || cfg.Sender.Email != "" {
		input.Sender = &md2mail.Sender{Name: cfg.Sender.Name, Email: cfg.Sender.Email}
	}
	return input
}

// resolveInputPath returns the single positional argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: got %d", ErrTooManyInputs, len(args))
	}
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// readIssue reads the Markdown source of an issue.
func readIssue(path string) (string, error) {
	if err := validateMarkdownExtension(path); err != nil {
		return "", err
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadIssue, err)
	}
	return string(content), nil
}

// resolveOutputPath picks where a command writes.
// An explicit --output wins; otherwise the input name with ext is placed in
// defaultDir, or next to the input when defaultDir is empty.
func resolveOutputPath(inputPath, flagOutput, defaultDir, ext string) string {
	if flagOutput != "" {
		return flagOutput
	}
	if defaultDir != "" {
		return filepath.Join(defaultDir, fileutil.ReplaceExt(filepath.Base(inputPath), ext))
	}
	return fileutil.ReplaceExt(inputPath, ext)
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte, env *Environment) error {
	if path == stdoutPath {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// displayStyle names the active style for debug output.
func displayStyle(cfg *config.Config, noStyle bool) string {
	switch {
	case noStyle:
		return "none"
	case cfg.Style == "":
		return "default"
	case fileutil.IsFilePath(cfg.Style):
		return filepath.Base(cfg.Style)
	default:
		return cfg.Style
	}
}
