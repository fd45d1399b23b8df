package commands

import (
	"github.com/spf13/cobra"
)

// ExplainOptions holds options for the explain command.
type ExplainOptions struct {
	Analyze bool
	Input   string
}

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	opts := &ExplainOptions{}

	cmd := &cobra.Command{
		Use:   "explain [SQL]",
		Short: "Show the execution plan of a query",
		Long: `Show the execution plan of a query as a tree of operators.

With --analyze the query is actually executed and the plan includes
measured row counts and timings where the engine reports them.`,
		Example: `  sqlkit explain "SELECT * FROM users WHERE email = 'a@example.com'"
  sqlkit explain --analyze "SELECT count(*) FROM orders"
  sqlkit explain "SELECT 1" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Analyze, "analyze", false, "Execute the query and include actual statistics")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	return cmd
}

func runExplain(cmd *cobra.Command, args []string, opts *ExplainOptions) error {
	cmdCtx := NewCommandContext(cmd)

	sql, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}

	a, err := cmdCtx.Adapter()
	if err != nil {
		return err
	}
	c, err := cmdCtx.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	res, err := c.Query(cmd.Context(), a.ExplainQuery(sql, opts.Analyze))
	if err != nil {
		return err
	}
	plan, err := a.ParseExplainResult(res.Rows, opts.Analyze)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Plan(plan)
}
