package commands

import (
	"github.com/spf13/cobra"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			names := dialect.List()

			if cmdCtx.Renderer.JSONMode() {
				return cmdCtx.Renderer.JSON(names)
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				a, err := dialect.Get(name)
				if err != nil {
					return err
				}
				opts := a.Options()
				var extras []string
				if opts.DollarQuotes {
					extras = append(extras, "dollar quotes")
				}
				if opts.BacktickQuotes {
					extras = append(extras, "backtick identifiers")
				}
				if opts.BracketQuotes {
					extras = append(extras, "bracket identifiers")
				}
				if opts.BackslashEscapes {
					extras = append(extras, "backslash escapes")
				}
				rows = append(rows, []string{name, joinOrDash(extras)})
			}
			cmdCtx.Renderer.Table([]string{"Dialect", "Lexical extensions"}, rows)
			return nil
		},
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}
