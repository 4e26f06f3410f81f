package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/whovivekshukla/dailype/app/models"
)

var (
	// ErrDuplicateMobile / ErrDuplicatePAN mean another active user already
	// holds the number, whether caught by the pre-check or the partial
	// unique index.
	ErrDuplicateMobile = errors.New("active user with the same mobile number already exists")
	ErrDuplicatePAN    = errors.New("active user with the same PAN number already exists")

	// ErrUsersNotFound means at least one requested user id did not resolve
	// to an active row.
	ErrUsersNotFound = errors.New("one or more user ids not found")
)

// ManagerAlreadySetError aborts a bulk update when a user already has the
// requested manager. Its message is surfaced to the caller verbatim.
type ManagerAlreadySetError struct {
	UserID    string
	ManagerID string
}

func (e *ManagerAlreadySetError) Error() string {
	return fmt.Sprintf("Manager ID is already '%s' for user %s", e.ManagerID, e.UserID)
}

func ActiveUserExistsByMobile(db *sql.DB, mobNum string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE mob_num = $1 AND is_active = true)`
	err := db.QueryRow(query, mobNum).Scan(&exists)
	return exists, err
}

func ActiveUserExistsByPAN(db *sql.DB, panNum string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE pan_num = $1 AND is_active = true)`
	err := db.QueryRow(query, panNum).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new active user row and fills in its generated id
// and created_at. MobNum and PanNum must already be normalized.
func CreateUser(db *sql.DB, user *models.User) error {
	user.ID = uuid.New().String()
	user.IsActive = true

	query := `INSERT INTO users (id, full_name, mob_num, pan_num, manager_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, true)
			  RETURNING created_at`
	err := db.QueryRow(query, user.ID, user.FullName, user.MobNum, user.PanNum, user.ManagerID).
		Scan(&user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_pan_num_active_key" {
				return ErrDuplicatePAN
			}
			return ErrDuplicateMobile
		}
		return err
	}
	return nil
}

// UserFilters narrows GetUsers by exact match; empty fields are ignored.
type UserFilters struct {
	UserID    string
	MobNum    string
	ManagerID string
}

func GetUsers(db *sql.DB, filters UserFilters) ([]models.User, error) {
	query := `SELECT id, full_name, mob_num, pan_num, manager_id, created_at, updated_at, is_active
			  FROM users WHERE is_active = true`
	args := []interface{}{}

	if filters.UserID != "" {
		args = append(args, filters.UserID)
		query += fmt.Sprintf(" AND id::text = $%d", len(args))
	}
	if filters.MobNum != "" {
		args = append(args, filters.MobNum)
		query += fmt.Sprintf(" AND mob_num = $%d", len(args))
	}
	if filters.ManagerID != "" {
		args = append(args, filters.ManagerID)
		query += fmt.Sprintf(" AND manager_id::text = $%d", len(args))
	}

	return queryUsers(db, query, args...)
}

func GetInactiveUsers(db *sql.DB) ([]models.User, error) {
	query := `SELECT id, full_name, mob_num, pan_num, manager_id, created_at, updated_at, is_active
			  FROM users WHERE is_active = false`
	return queryUsers(db, query)
}

func queryUsers(db *sql.DB, query string, args ...interface{}) ([]models.User, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.MobNum, &u.PanNum, &u.ManagerID,
			&u.CreatedAt, &u.UpdatedAt, &u.IsActive); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindActiveUser looks up one active user by id or, failing that, by mobile
// number. Returns sql.ErrNoRows when nothing matches.
func FindActiveUser(db *sql.DB, userID, mobNum string) (*models.User, error) {
	query := `SELECT id, full_name, mob_num, pan_num, manager_id, created_at, updated_at, is_active
			  FROM users WHERE is_active = true AND `
	var arg string
	if userID != "" {
		query += `id::text = $1`
		arg = userID
	} else {
		query += `mob_num = $1`
		arg = mobNum
	}

	user := &models.User{}
	err := db.QueryRow(query, arg).Scan(&user.ID, &user.FullName, &user.MobNum, &user.PanNum,
		&user.ManagerID, &user.CreatedAt, &user.UpdatedAt, &user.IsActive)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the row entirely. This is the one hard delete in the
// system; reassignment history uses soft deletes instead.
func DeleteUser(db *sql.DB, userID string) error {
	_, err := db.Exec(`DELETE FROM users WHERE id::text = $1`, userID)
	return err
}

// ReassignUsersManager applies the bulk manager update to every active user
// in userIDs, all-or-nothing. managerID is the parsed target (nil means
// unassign), requestedID the caller-supplied string used in error messages.
//
// Every transition is validated before any write is staged:
//   - target equals the user's current manager: the whole batch fails with
//     ManagerAlreadySetError
//   - user currently has a manager: the row is retired (is_active=false) and
//     a fresh row is inserted carrying the same identity fields and
//     created_at, with the new manager and no updated_at
//   - user has no manager yet: the row is updated in place and updated_at set
func ReassignUsersManager(db *sql.DB, userIDs []string, managerID *string, requestedID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT id, full_name, mob_num, pan_num, manager_id, created_at
		 FROM users WHERE id::text = ANY($1) AND is_active = true`,
		pq.Array(userIDs))
	if err != nil {
		return err
	}

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.MobNum, &u.PanNum, &u.ManagerID, &u.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(users) != len(userIDs) {
		return ErrUsersNotFound
	}

	// Validate the whole batch before touching anything.
	for _, u := range users {
		if sameManager(u.ManagerID, managerID) {
			return &ManagerAlreadySetError{UserID: u.ID, ManagerID: requestedID}
		}
	}

	for _, u := range users {
		if u.ManagerID != nil {
			// Reassignment away from an existing manager: never mutate the
			// old row beyond retiring it. History stays queryable.
			if _, err := tx.Exec(`UPDATE users SET is_active = false WHERE id::text = $1`, u.ID); err != nil {
				return err
			}
			_, err := tx.Exec(
				`INSERT INTO users (id, full_name, mob_num, pan_num, manager_id, created_at, is_active)
				 VALUES ($1, $2, $3, $4, $5, $6, true)`,
				uuid.New().String(), u.FullName, u.MobNum, u.PanNum, managerID, u.CreatedAt)
			if err != nil {
				return err
			}
		} else {
			// First assignment: in-place update.
			if _, err := tx.Exec(
				`UPDATE users SET manager_id = $1, updated_at = NOW() WHERE id::text = $2`,
				managerID, u.ID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func sameManager(current, target *string) bool {
	if current == nil || target == nil {
		return current == nil && target == nil
	}
	return *current == *target
}
