package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/whovivekshukla/dailype/app/models"
)

// ErrDuplicateEmail means another manager already holds the email, whether
// detected by the pre-check or by the unique constraint.
var ErrDuplicateEmail = errors.New("manager with the same email already exists")

func ManagerEmailExists(db *sql.DB, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM managers WHERE email = $1)`
	err := db.QueryRow(query, email).Scan(&exists)
	return exists, err
}

// ManagerExists reports whether a manager row with the given id exists,
// active or not. A malformed id simply matches nothing.
func ManagerExists(db *sql.DB, managerID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM managers WHERE id::text = $1)`
	err := db.QueryRow(query, managerID).Scan(&exists)
	return exists, err
}

func ActiveManagerExists(db *sql.DB, managerID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM managers WHERE id::text = $1 AND is_active = true)`
	err := db.QueryRow(query, managerID).Scan(&exists)
	return exists, err
}

// CreateManager inserts a new active manager and fills in its generated id.
func CreateManager(db *sql.DB, manager *models.Manager) error {
	manager.ID = uuid.New().String()
	manager.IsActive = true

	query := `INSERT INTO managers (id, full_name, email, is_active) VALUES ($1, $2, $3, $4)`
	_, err := db.Exec(query, manager.ID, manager.FullName, manager.Email, manager.IsActive)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func GetActiveManagers(db *sql.DB) ([]models.Manager, error) {
	query := `SELECT id, full_name, email, is_active FROM managers WHERE is_active = true`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := make([]models.Manager, 0)
	for rows.Next() {
		var m models.Manager
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.IsActive); err != nil {
			return nil, err
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}
