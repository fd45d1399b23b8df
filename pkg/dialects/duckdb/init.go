package duckdb

import (
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func init() {
	dialect.Register("duckdb", func(logger *slog.Logger) dialect.Adapter {
		return New(logger)
	})
}
