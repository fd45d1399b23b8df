// Package all registers every built-in dialect adapter. Import it for
// its side effects:
//
//	import _ "github.com/seaquel-labs/sqlkit/pkg/dialects/all"
//
// Programs that only need a subset can import the individual dialect
// packages instead.
package all

import (
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/duckdb"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/mariadb"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/mssql"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/mysql"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/postgres"
	_ "github.com/seaquel-labs/sqlkit/pkg/dialects/sqlite"
)
