package database

import (
	"database/sql"
	"log"
)

// CreateSchema creates the managers and users tables if they do not exist.
// Uniqueness is enforced at the store level: manager emails are globally
// unique, mobile and PAN numbers are unique among active user rows only,
// so retired versions of a user never block a new active row.
func CreateSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS managers (
			id UUID PRIMARY KEY,
			full_name VARCHAR(120) NOT NULL,
			email VARCHAR(120) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			CONSTRAINT managers_email_key UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			full_name VARCHAR(120) NOT NULL,
			mob_num VARCHAR(15) NOT NULL,
			pan_num VARCHAR(10) NOT NULL,
			manager_id UUID REFERENCES managers(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			is_active BOOLEAN NOT NULL DEFAULT true
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_mob_num_active_key ON users (mob_num) WHERE is_active`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_pan_num_active_key ON users (pan_num) WHERE is_active`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Failed to run schema statement: %v", err)
			return err
		}
	}
	return nil
}

// WipeDatabase drops both tables and recreates them empty. Destructive.
func WipeDatabase(db *sql.DB) error {
	drops := []string{
		`DROP TABLE IF EXISTS users CASCADE`,
		`DROP TABLE IF EXISTS managers CASCADE`,
	}
	for _, stmt := range drops {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Failed to drop table: %v", err)
			return err
		}
	}
	return CreateSchema(db)
}
