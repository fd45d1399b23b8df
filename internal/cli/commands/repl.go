package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/seaquel-labs/sqlkit/internal/conn"
	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/statement"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive SQL shell",
		Long: `Start an interactive SQL shell against the configured connection.

A statement executes once the buffer is lexically complete: every
statement terminated and no open string, comment or quoted block. That
means multi-line statements and semicolons inside literals just work.

Several databases can be open at once: .connect opens another
configured profile and .use switches between them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

// replSession holds the connections the shell keeps open through a
// conn.Manager, addressed by profile name rather than raw handle. One
// connection is active at a time; .use switches between them.
type replSession struct {
	manager  *conn.Manager
	ids      map[string]string
	adapters map[string]dialect.Adapter
	current  string
}

func newREPLSession(logger *slog.Logger) *replSession {
	return &replSession{
		manager:  conn.NewManager(logger),
		ids:      make(map[string]string),
		adapters: make(map[string]dialect.Adapter),
	}
}

// open connects cc through the manager under name and makes it the
// active target.
func (s *replSession) open(ctx context.Context, name string, cc conn.Config) error {
	if _, ok := s.ids[name]; ok {
		return fmt.Errorf("connection %q is already open (.use %s to switch)", name, name)
	}
	a, err := dialect.Get(cc.Dialect)
	if err != nil {
		return err
	}
	id, err := s.manager.Open(ctx, cc)
	if err != nil {
		return err
	}
	s.ids[name] = id
	s.adapters[name] = a
	s.current = name
	return nil
}

// use switches the active connection to an already open one.
func (s *replSession) use(name string) error {
	if _, ok := s.ids[name]; !ok {
		return fmt.Errorf("no open connection named %q (open it with .connect %s)", name, name)
	}
	s.current = name
	return nil
}

// conn returns the active connection.
func (s *replSession) conn() (*conn.Conn, error) {
	return s.manager.Get(s.ids[s.current])
}

// adapter returns the active connection's dialect adapter.
func (s *replSession) adapter() dialect.Adapter {
	return s.adapters[s.current]
}

// names returns the open connection names in stable order.
func (s *replSession) names() []string {
	names := make([]string, 0, len(s.ids))
	for name := range s.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *replSession) closeAll() error {
	return s.manager.CloseAll()
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	s := newREPLSession(cmdCtx.Logger)
	defer func() { _ = s.closeAll() }()

	cc, err := cmdCtx.ConnectionConfig()
	if err != nil {
		return err
	}
	name := cmdCtx.Cfg.Connection
	if name == "" {
		name = "default"
	}
	if err := s.open(ctx, name, cc); err != nil {
		return err
	}
	a := s.adapter()
	c, err := s.conn()
	if err != nil {
		return err
	}

	historyFile := filepath.Join(os.TempDir(), "sqlkit_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqlkit> ",
		HistoryFile:     historyFile,
		AutoComplete:    newCompleter(ctx, c, a),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqlkit shell (%s)\n", a.Name())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("sqlkit> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if buffer.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ".") {
				if quit := handleDotCommand(ctx, cmd, cmdCtx, s, trimmed); quit {
					break
				}
				continue
			}
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		// Keep reading until the buffer is lexically complete; a
		// semicolon inside a string or comment does not end it. The
		// lexical options follow the active connection's dialect.
		opts := s.adapter().Options()
		if !statement.Complete(buffer.String(), opts) {
			rl.SetPrompt("   ...> ")
			continue
		}
		rl.SetPrompt("sqlkit> ")

		sql := buffer.String()
		buffer.Reset()

		c, err := s.conn()
		if err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
			continue
		}
		for _, span := range statement.Split(sql, opts) {
			if err := executeStatement(ctx, cmdCtx, c, span.Text); err != nil {
				cmdCtx.Renderer.Errorf("Error: %v", err)
				break
			}
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func executeStatement(ctx context.Context, cmdCtx *CommandContext, c *conn.Conn, sql string) error {
	res, err := c.Query(ctx, sql)
	if err != nil {
		return err
	}

	rows := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		cells := make([]string, len(res.Columns))
		for j, col := range res.Columns {
			v := r[col]
			if v == nil {
				cells[j] = "NULL"
			} else {
				cells[j] = fmt.Sprintf("%v", v)
			}
		}
		rows[i] = cells
	}
	cmdCtx.Renderer.Table(res.Columns, rows)
	return nil
}

// handleDotCommand runs a shell command; it returns true when the REPL
// should exit.
func handleDotCommand(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext, s *replSession, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".connect":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .connect <profile>")
			return false
		}
		cc, err := cmdCtx.Cfg.ResolveNamed(parts[1])
		if err == nil {
			err = s.open(ctx, parts[1], cc)
		}
		if err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
			return false
		}
		cmdCtx.Renderer.Successf("Connected to %q (%s)", parts[1], s.adapter().Name())

	case ".use":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .use <profile>")
			return false
		}
		if err := s.use(parts[1]); err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
			return false
		}
		cmdCtx.Renderer.Successf("Now using %q (%s)", parts[1], s.adapter().Name())

	case ".connections":
		rows := make([][]string, 0, len(s.ids))
		for _, name := range s.names() {
			active := ""
			if name == s.current {
				active = "*"
			}
			rows = append(rows, []string{active, name, s.adapters[name].Name()})
		}
		cmdCtx.Renderer.Table([]string{"", "Name", "Dialect"}, rows)

	default:
		c, err := s.conn()
		if err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
			return false
		}
		return handleIntrospectCommand(ctx, cmd, cmdCtx, c, s.adapter(), command, parts)
	}
	return false
}

// handleIntrospectCommand covers the dot-commands that query the active
// connection.
func handleIntrospectCommand(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext, c *conn.Conn, a dialect.Adapter, command string, parts []string) bool {
	switch command {
	case ".tables":
		if err := listTables(ctx, cmdCtx, c, a); err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .schema <table>")
			return false
		}
		if err := showColumns(ctx, cmdCtx, c, a, parts[1]); err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
		}

	case ".indexes":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .indexes <table>")
			return false
		}
		if err := showIndexes(ctx, cmdCtx, c, a, parts[1]); err != nil {
			cmdCtx.Renderer.Errorf("Error: %v", err)
		}

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func listTables(ctx context.Context, cmdCtx *CommandContext, c *conn.Conn, a dialect.Adapter) error {
	res, err := c.Query(ctx, a.SchemaQuery())
	if err != nil {
		return err
	}
	tables, err := a.ParseSchemaResult(res.Rows)
	if err != nil {
		return err
	}
	rows := make([][]string, len(tables))
	for i, t := range tables {
		rows[i] = []string{t.QualifiedName(), string(t.Type)}
	}
	cmdCtx.Renderer.Table([]string{"Name", "Type"}, rows)
	return nil
}

func showColumns(ctx context.Context, cmdCtx *CommandContext, c *conn.Conn, a dialect.Adapter, table string) error {
	schemaName, name := splitQualified(table)
	cols, err := fetchColumns(ctx, c, a, name, schemaName)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q not found", table)
	}
	cmdCtx.Renderer.Table([]string{"Column", "Type", "Nullable", "Default", "Key"}, columnRows(cols))
	return nil
}

func showIndexes(ctx context.Context, cmdCtx *CommandContext, c *conn.Conn, a dialect.Adapter, table string) error {
	schemaName, name := splitQualified(table)
	res, err := c.Query(ctx, a.IndexesQuery(name, schemaName))
	if err != nil {
		return err
	}
	idxs, err := a.ParseIndexesResult(res.Rows)
	if err != nil {
		return err
	}
	rows := make([][]string, len(idxs))
	for i, idx := range idxs {
		rows[i] = []string{idx.Name, strings.Join(idx.Columns, ", "), boolMark(idx.Unique)}
	}
	cmdCtx.Renderer.Table([]string{"Index", "Columns", "Unique"}, rows)
	return nil
}

// splitQualified splits schema.table input; an unqualified name gets
// the empty schema, which adapters map to their default.
func splitQualified(table string) (schemaName, name string) {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", table
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help               Show this help message
  .tables             List tables and views
  .schema <name>      Show the columns of a table
  .indexes <name>     Show the indexes of a table
  .connect <profile>  Open a configured connection profile
  .use <profile>      Switch to an open connection
  .connections        List open connections
  .clear              Clear the screen
  .quit / .exit       Exit the shell

Tips:
  - Statements run once the buffer is complete (terminated by ;)
  - Semicolons inside strings and comments do not end a statement
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newCompleter builds a readline completer from the connected
// database's table names.
func newCompleter(ctx context.Context, c *conn.Conn, a dialect.Adapter) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	if res, err := c.Query(ctx, a.SchemaQuery()); err == nil {
		if tables, err := a.ParseSchemaResult(res.Rows); err == nil {
			for _, t := range tables {
				items = append(items, readline.PcItem(t.Name))
			}
		}
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".indexes"),
		readline.PcItem(".connect"),
		readline.PcItem(".use"),
		readline.PcItem(".connections"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
