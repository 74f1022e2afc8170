package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2mail/internal/dateutil"
	"github.com/alnah/go-md2mail/internal/fileutil"
	"github.com/alnah/go-md2mail/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits.
const (
	MaxNameLength    = 100  // Sender display name
	MaxEmailLength   = 254  // RFC 5321
	MaxSubjectLength = 200  // Subject line override
	MaxDomainLength  = 253  // DNS name
	MaxPathLength    = 4096 // Asset and output directories
	MaxAssetLength   = 100  // Style or template set name
)

// Config holds all configuration for rendering issues.
type Config struct {
	Sender   SenderConfig `yaml:"sender"`
	Style    string       `yaml:"style"`    // Style name, CSS file path, or empty for the default
	Template string       `yaml:"template"` // Template set name (empty = default)
	Assets   AssetsConfig `yaml:"assets"`
	Output   OutputConfig `yaml:"output"`
	Email    EmailConfig  `yaml:"email"`
	Date     DateConfig   `yaml:"date"`
}

// SenderConfig identifies who the email comes from.
type SenderConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// EmailConfig defines message assembly options.
type EmailConfig struct {
	Subject string `yaml:"subject"` // Overrides the subject derived from the issue
	Domain  string `yaml:"domain"`  // Right-hand side of generated Content-IDs
	Minify  *bool  `yaml:"minify"`  // nil = enabled
}

// DateConfig defines how issue dates are rendered.
type DateConfig struct {
	Format string `yaml:"format"` // Token format or preset (empty = ISO)
}

// MinifyEnabled reports whether HTML minification is on.
func (c *Config) MinifyEnabled() bool {
	return c.Email.Minify == nil || *c.Email.Minify
}

// Validate checks field lengths and formats.
// Called automatically by LoadConfig, but available for library users
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"sender.name", c.Sender.Name, MaxNameLength},
		{"sender.email", c.Sender.Email, MaxEmailLength},
		{"style", c.Style, MaxPathLength},
		{"template", c.Template, MaxAssetLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"email.subject", c.Email.Subject, MaxSubjectLength},
		{"email.domain", c.Email.Domain, MaxDomainLength},
		{"date.format", c.Date.Format, dateutil.MaxDateFormatLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Sender.Email != "" {
		if _, err := mail.ParseAddress(c.Sender.Email); err != nil {
			return fmt.Errorf("%w: sender.email %q: %v", ErrInvalidField, c.Sender.Email, err)
		}
	}
	if strings.ContainsAny(c.Email.Subject, "\r\n") {
		return fmt.Errorf("%w: email.subject must be a single line", ErrInvalidField)
	}
	if c.Email.Domain != "" && strings.ContainsAny(c.Email.Domain, "@<> \t") {
		return fmt.Errorf("%w: email.domain %q", ErrInvalidField, c.Email.Domain)
	}
	if c.Date.Format != "" {
		if _, err := dateutil.Layout(c.Date.Format); err != nil {
			return fmt.Errorf("date.format: %w", err)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{}
}

// NotFoundError lists every location searched for a named config.
type NotFoundError struct {
	Name          string
	SearchedPaths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.SearchedPaths, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2mail/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2mail", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", &NotFoundError{Name: name, SearchedPaths: tried}
}
