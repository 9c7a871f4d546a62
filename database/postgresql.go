package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql
)

var db *sql.DB

// GetDB returns the shared database handle.
func GetDB() *sql.DB {
	return db
}

// StartPostgreSQL opens the connection pool and creates the tables if
// they do not exist yet.
func StartPostgreSQL(uri string) error {
	var err error
	db, err = sql.Open("pgx", uri)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		return fmt.Errorf("cannot connect to PostgreSQL: %w", err)
	}

	log.Println("Connected to PostgreSQL successfully")

	if err := createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

func createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id VARCHAR(50) PRIMARY KEY,
		owner INTEGER NOT NULL REFERENCES users(id),
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority VARCHAR(10) NOT NULL DEFAULT 'Low',
		due_date VARCHAR(50) NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS tasks_owner_idx ON tasks (owner, created_at DESC)
	`
	_, err := db.Exec(query)
	return err
}

// ClosePostgreSQL closes the connection pool.
func ClosePostgreSQL() {
	if db != nil {
		if err := db.Close(); err != nil {
			log.Printf("error closing database: %v", err)
			return
		}
		log.Println("Database connection closed")
	}
}
