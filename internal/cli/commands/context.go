// Package commands implements the sqlkit subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seaquel-labs/sqlkit/internal/cli/config"
	"github.com/seaquel-labs/sqlkit/internal/cli/output"
	"github.com/seaquel-labs/sqlkit/internal/conn"
	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

// CommandContext bundles what every command needs: resolved config, a
// renderer bound to the command's streams, and the logger.
type CommandContext struct {
	Cfg      *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
}

// NewCommandContext builds the command context from the loaded config.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{Dialect: config.DefaultDialect, Output: config.DefaultOutput}
	}
	return &CommandContext{
		Cfg:      cfg,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
		Logger:   config.GetLogger(cmd.Context()),
	}
}

// Adapter resolves the configured dialect adapter.
func (c *CommandContext) Adapter() (dialect.Adapter, error) {
	return dialect.Get(c.Cfg.Dialect)
}

// ConnectionConfig resolves the target connection, prompting for a
// password when requested and none is configured.
func (c *CommandContext) ConnectionConfig() (conn.Config, error) {
	cc, err := c.Cfg.ResolveConnection()
	if err != nil {
		return conn.Config{}, err
	}
	if cc.Password == "" && c.Cfg.PromptPassword {
		pass, err := config.PromptPassword(os.Stderr, os.Stdin)
		if err != nil {
			return conn.Config{}, err
		}
		cc.Password = pass
	}
	return cc, nil
}

// Connect opens the configured database connection.
func (c *CommandContext) Connect(ctx context.Context) (*conn.Conn, error) {
	cc, err := c.ConnectionConfig()
	if err != nil {
		return nil, err
	}
	return conn.Open(ctx, cc, c.Logger)
}

// readSQL resolves the SQL text for a command: the positional argument,
// the --input file, or standard input, in that order.
func readSQL(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if inputFile != "" {
		data, err := os.ReadFile(inputFile) //nolint:gosec // user-provided path
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", inputFile, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no SQL given: pass it as an argument, via --input, or on stdin")
	}
	return string(data), nil
}
