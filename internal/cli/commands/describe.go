package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seaquel-labs/sqlkit/pkg/schema"
)

// introspectionParallelism caps concurrent per-table queries during a
// full describe.
const introspectionParallelism = 4

// NewDescribeCommand creates the describe command, a full snapshot of
// the database: every table with its columns and indexes.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Describe the whole database",
		Long: `Describe every table and view: columns, keys and indexes.

Per-table introspection queries run concurrently.`,
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

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(introspectionParallelism)
			for i := range tables {
				g.Go(func() error {
					t := &tables[i]

					var err error
					if t.Columns, err = fetchColumns(ctx, c, a, t.Name, t.Schema); err != nil {
						return fmt.Errorf("columns of %s: %w", t.QualifiedName(), err)
					}

					if t.Type != schema.TypeTable {
						return nil
					}
					idxRes, err := c.Query(ctx, a.IndexesQuery(t.Name, t.Schema))
					if err != nil {
						return fmt.Errorf("indexes of %s: %w", t.QualifiedName(), err)
					}
					if t.Indexes, err = a.ParseIndexesResult(idxRes.Rows); err != nil {
						return fmt.Errorf("indexes of %s: %w", t.QualifiedName(), err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if cmdCtx.Renderer.JSONMode() {
				return cmdCtx.Renderer.JSON(tables)
			}
			for _, t := range tables {
				title := "Table"
				if t.Type == schema.TypeView {
					title = "View"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", title, t.QualifiedName())
				cmdCtx.Renderer.Table(
					[]string{"Column", "Type", "Nullable", "Default", "Key"},
					columnRows(t.Columns))
				if len(t.Indexes) > 0 {
					rows := make([][]string, len(t.Indexes))
					for i, idx := range t.Indexes {
						rows[i] = []string{idx.Name, strings.Join(idx.Columns, ", "), boolMark(idx.Unique)}
					}
					cmdCtx.Renderer.Table([]string{"Index", "Columns", "Unique"}, rows)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
