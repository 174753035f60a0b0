package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	MYSQL_CONN_MAX_LIFETIME = 5 * time.Minute
	MYSQL_MAX_OPEN_CONNS    = 10
	MYSQL_MAX_IDLE_CONNS    = 10
	MYSQL_TIMEOUT           = 10 * time.Second
)

// OpenMySQL opens the pool and checks connectivity. Time columns are always
// parsed into time.Time regardless of the DSN, and RowsAffected counts
// matched rows so an update that changes nothing is not mistaken for a miss.
func OpenMySQL(ctx context.Context, uri string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(uri)
	if err != nil {
		return nil, fmt.Errorf("[MySQL] invalid MYSQL_URI: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["charset"] = "utf8mb4"

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("[MySQL] cannot build connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(MYSQL_CONN_MAX_LIFETIME)
	db.SetMaxOpenConns(MYSQL_MAX_OPEN_CONNS)
	db.SetMaxIdleConns(MYSQL_MAX_IDLE_CONNS)

	pingCtx, cancel := context.WithTimeout(ctx, MYSQL_TIMEOUT)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("[MySQL] cannot connect: %w", err)
	}

	return db, nil
}

// Beginner is satisfied by *sql.DB; repositories take it to run transactions.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn inside a transaction, rolling back on error.
func WithTx(ctx context.Context, db Beginner, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
