// Package conn is the query-execution channel the dialect layer stays
// deliberately ignorant of: it opens database/sql connections for every
// supported engine and hands back raw rows for the adapters to parse.
package conn

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/seaquel-labs/sqlkit/pkg/schema"
)

// Conn wraps one open database handle together with its configuration.
type Conn struct {
	DB     *sql.DB
	Cfg    Config
	logger *slog.Logger
}

// Open establishes a connection for cfg and verifies it with a ping.
// If logger is nil, a discard logger is used.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Conn, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	driver, err := driverName(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("opening connection",
		slog.String("dialect", cfg.Dialect),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Dialect, err)
	}

	return &Conn{DB: db, Cfg: cfg, logger: logger}, nil
}

// Result carries the rows of one query together with the column order,
// which map-shaped rows cannot preserve on their own.
type Result struct {
	Columns []string
	Rows    []schema.Row
}

// Query executes sqlStr and collects all rows. Driver []byte values are
// converted to string so the adapters' row accessors see text.
func (c *Conn) Query(ctx context.Context, sqlStr string) (*Result, error) {
	if c.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := c.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(schema.Row, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Exec executes a statement that does not return rows.
func (c *Conn) Exec(ctx context.Context, sqlStr string) error {
	if c.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := c.DB.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (c *Conn) Close() error {
	if c.DB != nil {
		c.logger.Debug("closing connection", slog.String("dialect", c.Cfg.Dialect))
		return c.DB.Close()
	}
	return nil
}
