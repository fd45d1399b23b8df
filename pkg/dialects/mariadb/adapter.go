// Package mariadb provides the MariaDB dialect adapter. MariaDB shares
// MySQL's information_schema layout, lexical extensions and EXPLAIN
// formats, so the adapter reuses the MySQL implementation under its own
// registration.
package mariadb

import (
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
	"github.com/seaquel-labs/sqlkit/pkg/dialects/mysql"
)

// New creates a MariaDB adapter. If logger is nil, a discard logger is
// used.
func New(logger *slog.Logger) *mysql.Adapter {
	return mysql.NewNamed("mariadb", logger)
}

func init() {
	dialect.Register("mariadb", func(logger *slog.Logger) dialect.Adapter {
		return New(logger)
	})
}
