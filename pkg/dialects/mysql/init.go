package mysql

import (
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func init() {
	dialect.Register("mysql", func(logger *slog.Logger) dialect.Adapter {
		return New(logger)
	})
}
