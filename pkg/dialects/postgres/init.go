// This file registers the PostgreSQL adapter with the dialect registry.
// Import the package with a blank identifier to register it:
//
//	import _ "github.com/seaquel-labs/sqlkit/pkg/dialects/postgres"
package postgres

import (
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func init() {
	dialect.Register("postgres", func(l *slog.Logger) dialect.Adapter { return New(l) })
}
