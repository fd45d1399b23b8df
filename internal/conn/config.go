package conn

import (
	"fmt"
	"net/url"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

// Config describes one database connection. File-backed engines (sqlite,
// duckdb) use Database as the file path; ":memory:" and "" open an
// in-memory database.
type Config struct {
	Dialect  string            `koanf:"dialect"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`
}

// driverName maps a dialect to its database/sql driver.
func driverName(dialectName string) (string, error) {
	switch dialectName {
	case "postgres":
		return "pgx", nil
	case "sqlite":
		return "sqlite", nil
	case "duckdb":
		return "duckdb", nil
	case "mysql", "mariadb":
		return "mysql", nil
	case "mssql":
		return "sqlserver", nil
	}
	return "", &dialect.UnsupportedDialectError{Name: dialectName, Available: dialect.List()}
}

// buildDSN constructs the driver connection string for cfg.
func buildDSN(cfg Config) (string, error) {
	switch cfg.Dialect {
	case "postgres":
		return buildPostgresDSN(cfg), nil
	case "sqlite", "duckdb":
		return buildFileDSN(cfg), nil
	case "mysql", "mariadb":
		return buildMySQLDSN(cfg), nil
	case "mssql":
		return buildMSSQLDSN(cfg), nil
	}
	return "", &dialect.UnsupportedDialectError{Name: cfg.Dialect, Available: dialect.List()}
}

// buildPostgresDSN constructs a key=value connection string.
func buildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

// buildFileDSN returns the database path for file-backed engines.
func buildFileDSN(cfg Config) string {
	if cfg.Database == "" {
		return ":memory:"
	}
	return cfg.Database
}

// buildMySQLDSN constructs a go-sql-driver/mysql connection string.
func buildMySQLDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	cred := ""
	if cfg.Username != "" {
		cred = cfg.Username
		if cfg.Password != "" {
			cred += ":" + cfg.Password
		}
		cred += "@"
	}

	// parseTime makes the driver hand back time.Time instead of []byte.
	dsn := fmt.Sprintf("%stcp(%s:%d)/%s?parseTime=true", cred, host, port, cfg.Database)
	for k, v := range cfg.Options {
		dsn += fmt.Sprintf("&%s=%s", url.QueryEscape(k), url.QueryEscape(v))
	}
	return dsn
}

// buildMSSQLDSN constructs a sqlserver:// connection URL.
func buildMSSQLDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 1433
	}

	u := &url.URL{
		Scheme: "sqlserver",
		Host:   fmt.Sprintf("%s:%d", host, port),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	q := url.Values{}
	q.Set("database", cfg.Database)
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
