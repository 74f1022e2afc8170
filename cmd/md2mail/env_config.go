package main

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2mail/internal/config"
)

// envPrefix marks the environment variables md2mail reads.
const envPrefix = "MD2MAIL_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MD2MAIL_CONFIG: config file name or path
	Style      string // MD2MAIL_STYLE: style name or CSS path
	Template   string // MD2MAIL_TEMPLATE: template set name
	AssetPath  string // MD2MAIL_ASSET_PATH: custom asset directory
	OutputDir  string // MD2MAIL_OUTPUT_DIR: default output directory
	FromName   string // MD2MAIL_FROM_NAME: sender display name
	FromEmail  string // MD2MAIL_FROM_EMAIL: sender address
	Domain     string // MD2MAIL_DOMAIN: Content-ID domain
	DateFormat string // MD2MAIL_DATE_FORMAT: date token format or preset
}

// knownEnvVars lists valid MD2MAIL_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2MAIL_CONFIG":      true,
	"MD2MAIL_STYLE":       true,
	"MD2MAIL_TEMPLATE":    true,
	"MD2MAIL_ASSET_PATH":  true,
	"MD2MAIL_OUTPUT_DIR":  true,
	"MD2MAIL_FROM_NAME":   true,
	"MD2MAIL_FROM_EMAIL":  true,
	"MD2MAIL_DOMAIN":      true,
	"MD2MAIL_DATE_FORMAT": true,
}

// loadEnvConfig reads every recognized MD2MAIL_* variable.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("MD2MAIL_CONFIG"),
		Style:      getenv("MD2MAIL_STYLE"),
		Template:   getenv("MD2MAIL_TEMPLATE"),
		AssetPath:  getenv("MD2MAIL_ASSET_PATH"),
		OutputDir:  getenv("MD2MAIL_OUTPUT_DIR"),
		FromName:   getenv("MD2MAIL_FROM_NAME"),
		FromEmail:  getenv("MD2MAIL_FROM_EMAIL"),
		Domain:     getenv("MD2MAIL_DOMAIN"),
		DateFormat: getenv("MD2MAIL_DATE_FORMAT"),
	}
}

// warnUnknownEnvVars logs unrecognized MD2MAIL_* variables, which are
// usually typos such as MD2MAIL_FROM instead of MD2MAIL_FROM_EMAIL.
func warnUnknownEnvVars(environ []string, log zerolog.Logger) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			log.Warn().Str("var", name).Msg("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig fills config fields that the file left empty.
// Precedence: CLI flags > config file > env vars > defaults.
// Flags are applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIfEmpty(&cfg.Style, env.Style)
	setIfEmpty(&cfg.Template, env.Template)
	setIfEmpty(&cfg.Assets.BasePath, env.AssetPath)
	setIfEmpty(&cfg.Output.DefaultDir, env.OutputDir)
	setIfEmpty(&cfg.Sender.Name, env.FromName)
	setIfEmpty(&cfg.Sender.Email, env.FromEmail)
	setIfEmpty(&cfg.Email.Domain, env.Domain)
	setIfEmpty(&cfg.Date.Format, env.DateFormat)
}

func setIfEmpty(dst *string, value string) {
	if value != "" && *dst == "" {
		*dst = value
	}
}
