package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the shape written by sqlkit init.
type starterConfig struct {
	Dialect     string                       `yaml:"dialect"`
	Output      string                       `yaml:"output"`
	Connections map[string]starterConnection `yaml:"connections"`
}

type starterConnection struct {
	Dialect  string `yaml:"dialect"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Database string `yaml:"database"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter sqlkit.yaml",
		Long: `Write a starter sqlkit.yaml in the current directory.

The generated file shows the configuration shape: the default dialect,
the output mode, and example connection profiles. Secrets can reference
environment variables with ${VAR}.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const path = "sqlkit.yaml"

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := starterConfig{
				Dialect: "postgres",
				Output:  "auto",
				Connections: map[string]starterConnection{
					"local": {
						Dialect:  "postgres",
						Host:     "localhost",
						Port:     5432,
						Database: "postgres",
						Username: "postgres",
						Password: "${PGPASSWORD}",
					},
					"dev": {
						Dialect:  "sqlite",
						Database: "dev.db",
					},
				},
			}

			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			cmdCtx := NewCommandContext(cmd)
			cmdCtx.Renderer.Successf("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
