// Package config loads and validates md2mail configuration files.
//
// A configuration is a YAML file looked up by name in the current directory
// and then in the user config directory (~/.config/go-md2mail/), or given by
// path. Unknown keys are rejected.
package config
