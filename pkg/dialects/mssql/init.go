package mssql

import (
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func init() {
	dialect.Register("mssql", func(logger *slog.Logger) dialect.Adapter {
		return New(logger)
	})
}
