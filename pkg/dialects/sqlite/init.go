// This file registers the SQLite adapter with the dialect registry.
// Import the package with a blank identifier to register it:
//
//	import _ "github.com/seaquel-labs/sqlkit/pkg/dialects/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func init() {
	dialect.Register("sqlite", func(l *slog.Logger) dialect.Adapter { return New(l) })
}
