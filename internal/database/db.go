// Package database opens the MySQL pool shared by every repository.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool and I/O limits. Measurement ingestion is the hot path; the per-query
// timeouts keep a slow node report from pinning a connection.
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
	ioTimeout       = 5 * time.Second
	pingTimeout     = 5 * time.Second
)

// dsn builds the connection string. parseTime maps DATETIME to time.Time;
// loc=UTC matches the UTC stamps the handlers write.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf(
		"%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&timeout=%s&readTimeout=%s&writeTimeout=%s",
		auth, host, port, name, ioTimeout, ioTimeout, ioTimeout)
}

// Open connects to MySQL, configures the pool and verifies the connection
// with a bounded ping.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
