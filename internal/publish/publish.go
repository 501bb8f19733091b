// Package publish uploads the fixture index of a fill report to MySQL so
// fixture consumers can look up which keys exist and at which hash.
package publish

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"evmfill/internal/domain"
)

// BatchSize is the number of rows sent per INSERT statement.
const BatchSize = 100

// DBConfig holds the connection settings for the index database.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Table    string
}

// LoadDBConfig reads EVMFILL_DB_* variables, loading envPath first if it
// exists. Unset variables fall back to a local MySQL.
func LoadDBConfig(envPath string) DBConfig {
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}
	return DBConfig{
		Host:     getenv("EVMFILL_DB_HOST", "127.0.0.1"),
		Port:     getenv("EVMFILL_DB_PORT", "3306"),
		User:     getenv("EVMFILL_DB_USERNAME", "root"),
		Password: os.Getenv("EVMFILL_DB_PASSWORD"),
		Database: getenv("EVMFILL_DB_DATABASE", "evmfill"),
		Table:    getenv("EVMFILL_DB_TABLE", "fixture_index"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DSN returns the go-sql-driver connection string.
func (c DBConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	cfg.DBName = c.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Execer is the subset of *sql.DB the publisher needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Publisher upserts index entries into one table.
type Publisher struct {
	db    Execer
	table string
	close func() error
}

// New creates a Publisher on an open connection.
func New(db Execer, table string) (*Publisher, error) {
	if !isValidTableName(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}
	return &Publisher{db: db, table: table}, nil
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg DBConfig) (*Publisher, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	p, err := New(db, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	p.close = db.Close
	return p, nil
}

// Close releases the connection opened by Open.
func (p *Publisher) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// EnsureTable creates the index table if it does not exist.
func (p *Publisher) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"`file` VARCHAR(255) NOT NULL, "+
		"`fixture_key` VARCHAR(255) NOT NULL, "+
		"`fork` VARCHAR(64) NOT NULL DEFAULT '', "+
		"`hash` CHAR(66) NOT NULL DEFAULT '', "+
		"`published_at` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP, "+
		"PRIMARY KEY (`file`, `fixture_key`))", p.table)
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", p.table, err)
	}
	return nil
}

// Publish upserts the entries in batches and returns the number of rows sent.
// onBatch, if set, is called with the running total after each batch.
func (p *Publisher) Publish(ctx context.Context, entries []domain.IndexEntry, onBatch func(done int)) (int, error) {
	done := 0
	for start := 0; start < len(entries); start += BatchSize {
		end := start + BatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		query, args := p.upsert(batch)
		if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
			return done, fmt.Errorf("publish rows %d-%d: %w", start, end-1, err)
		}
		done += len(batch)
		log.Debug("Published index batch", "rows", len(batch), "total", done)
		if onBatch != nil {
			onBatch(done)
		}
	}
	return done, nil
}

func (p *Publisher) upsert(batch []domain.IndexEntry) (string, []any) {
	placeholders := make([]string, len(batch))
	args := make([]any, 0, len(batch)*4)
	for i, e := range batch {
		placeholders[i] = "(?, ?, ?, ?)"
		args = append(args, e.File, e.Key, e.Fork, e.Hash)
	}
	query := fmt.Sprintf("INSERT INTO `%s` (`file`, `fixture_key`, `fork`, `hash`) VALUES %s "+
		"ON DUPLICATE KEY UPDATE `fork` = VALUES(`fork`), `hash` = VALUES(`hash`)",
		p.table, strings.Join(placeholders, ", "))
	return query, args
}

// isValidTableName validates the table name (basic check)
func isValidTableName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// Summary describes a publish run for the console.
func Summary(report *domain.FillReport, rows int, cfg DBConfig) string {
	return fmt.Sprintf("Published %d fixture keys from %d files to %s.%s",
		rows, report.Meta.FixtureFiles, cfg.Database, cfg.Table)
}
