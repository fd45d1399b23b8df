// Package config loads CLI configuration from file, environment
// variables and flags.
package config

import (
	"github.com/seaquel-labs/sqlkit/internal/conn"
)

// Defaults applied before any other configuration source.
const (
	DefaultDialect = "postgres"
	DefaultOutput  = "auto"
)

// Config is the fully resolved CLI configuration.
type Config struct {
	// Dialect selects the SQL dialect for statement handling and
	// introspection. Used directly and as the default for ad-hoc
	// connections.
	Dialect string `koanf:"dialect"`

	// Connection names an entry of Connections to use. When empty, the
	// ad-hoc connection fields below apply.
	Connection string `koanf:"connection"`

	// Connections holds named connection profiles.
	Connections map[string]conn.Config `koanf:"connections"`

	// Ad-hoc connection fields, used when no named connection is
	// selected.
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`

	// PromptPassword makes connection-using commands ask for a password
	// when none is configured.
	PromptPassword bool `koanf:"prompt_password"`

	// Output is the render mode: auto, text, json or markdown.
	Output string `koanf:"output"`

	Verbose bool `koanf:"verbose"`
}
