package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// mysqlSchema creates the three tables the service reads and writes when
// they do not exist yet. It never alters existing tables.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		userID   INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movieLog (
		movielogID INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title      VARCHAR(255) NOT NULL,
		director   VARCHAR(255) NOT NULL,
		genre      VARCHAR(64)  NOT NULL,
		year       INT          NOT NULL,
		rating     DECIMAL(3,1) NOT NULL,
		comments   TEXT         NULL,
		userID     INT UNSIGNED NULL,
		KEY idx_movielog_user (userID)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token_hash CHAR(64)     NOT NULL PRIMARY KEY,
		user_id    INT UNSIGNED NOT NULL,
		username   VARCHAR(255) NOT NULL,
		expires_at DATETIME     NOT NULL,
		KEY idx_sessions_expires (expires_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		userID   INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movieLog (
		movielogID INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT    NOT NULL,
		director   TEXT    NOT NULL,
		genre      TEXT    NOT NULL,
		year       INTEGER NOT NULL,
		rating     REAL    NOT NULL,
		comments   TEXT,
		userID     INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movielog_user ON movieLog(userID)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token_hash TEXT     PRIMARY KEY,
		user_id    INTEGER  NOT NULL,
		username   TEXT     NOT NULL,
		expires_at DATETIME NOT NULL
	)`,
}

// EnsureSchema creates missing tables for the connection's driver.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := mysqlSchema
	if db.DriverName() == "sqlite" {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
