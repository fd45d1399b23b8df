package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seaquel-labs/sqlkit/internal/conn"
	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/schema"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and views",
		Long:  `List the tables and views of the connected database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)

			a, err := cmdCtx.Adapter()
			if err != nil {
				return err
			}
			c, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			res, err := c.Query(cmd.Context(), a.SchemaQuery())
			if err != nil {
				return err
			}
			tables, err := a.ParseSchemaResult(res.Rows)
			if err != nil {
				return err
			}

			if cmdCtx.Renderer.JSONMode() {
				return cmdCtx.Renderer.JSON(tables)
			}
			rows := make([][]string, len(tables))
			for i, t := range tables {
				rows[i] = []string{t.QualifiedName(), string(t.Type)}
			}
			cmdCtx.Renderer.Table([]string{"Name", "Type"}, rows)
			return nil
		},
	}
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var schemaName string

	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "List the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			a, err := cmdCtx.Adapter()
			if err != nil {
				return err
			}
			c, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			cols, err := fetchColumns(cmd.Context(), c, a, args[0], schemaName)
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				return fmt.Errorf("table %q not found", args[0])
			}

			if cmdCtx.Renderer.JSONMode() {
				return cmdCtx.Renderer.JSON(cols)
			}
			cmdCtx.Renderer.Table(
				[]string{"Column", "Type", "Nullable", "Default", "Key"},
				columnRows(cols))
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", "", "Schema the table lives in (dialect default when empty)")
	return cmd
}

// NewIndexesCommand creates the indexes command.
func NewIndexesCommand() *cobra.Command {
	var schemaName string

	cmd := &cobra.Command{
		Use:   "indexes <table>",
		Short: "List the indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			a, err := cmdCtx.Adapter()
			if err != nil {
				return err
			}
			c, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			res, err := c.Query(cmd.Context(), a.IndexesQuery(args[0], schemaName))
			if err != nil {
				return err
			}
			idxs, err := a.ParseIndexesResult(res.Rows)
			if err != nil {
				return err
			}

			if cmdCtx.Renderer.JSONMode() {
				return cmdCtx.Renderer.JSON(idxs)
			}
			rows := make([][]string, len(idxs))
			for i, idx := range idxs {
				rows[i] = []string{
					idx.Name,
					strings.Join(idx.Columns, ", "),
					boolMark(idx.Unique),
					orDash(idx.Type),
				}
			}
			cmdCtx.Renderer.Table([]string{"Index", "Columns", "Unique", "Type"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", "", "Schema the table lives in (dialect default when empty)")
	return cmd
}

// fetchColumns runs the columns query and, for adapters that keep
// foreign keys in a separate catalog, folds the FK constraints into the
// column list.
func fetchColumns(ctx context.Context, c *conn.Conn, a dialect.Adapter, table, schemaName string) ([]schema.Column, error) {
	res, err := c.Query(ctx, a.ColumnsQuery(table, schemaName))
	if err != nil {
		return nil, err
	}
	cols, err := a.ParseColumnsResult(res.Rows)
	if err != nil {
		return nil, err
	}

	fkq, ok := a.(dialect.ForeignKeyQuerier)
	if !ok || len(cols) == 0 {
		return cols, nil
	}
	fkRes, err := c.Query(ctx, fkq.ForeignKeysQuery(table, schemaName))
	if err != nil {
		return nil, err
	}
	fks, err := fkq.ParseForeignKeysResult(fkRes.Rows)
	if err != nil {
		return nil, err
	}
	byColumn := make(map[string]schema.ForeignKey, len(fks))
	for _, fk := range fks {
		byColumn[fk.Column] = fk
	}
	for i := range cols {
		if fk, ok := byColumn[cols[i].Name]; ok {
			cols[i].ForeignKey = true
			cols[i].References = &schema.ForeignKeyRef{Table: fk.RefTable, Column: fk.RefColumn}
		}
	}
	return cols, nil
}

func columnRows(cols []schema.Column) [][]string {
	rows := make([][]string, len(cols))
	for i, col := range cols {
		def := "-"
		if col.Default != nil {
			def = *col.Default
		}
		var key string
		switch {
		case col.PrimaryKey:
			key = "PK"
		case col.ForeignKey && col.References != nil:
			key = fmt.Sprintf("FK -> %s.%s", col.References.Table, col.References.Column)
		case col.ForeignKey:
			key = "FK"
		}
		rows[i] = []string{col.Name, col.Type, boolMark(col.Nullable), def, key}
	}
	return rows
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
