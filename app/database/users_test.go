package database

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/whovivekshukla/dailype/app/models"
)

func newTestUser() *models.User {
	return &models.User{FullName: "Ravi Kumar", MobNum: "9876543210", PanNum: "ABCDE1234F"}
}

const (
	userA    = "aaaaaaaa-1111-4111-8111-111111111111"
	userB    = "bbbbbbbb-2222-4222-8222-222222222222"
	managerX = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	managerY = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

var reassignSelect = regexp.QuoteMeta(
	`SELECT id, full_name, mob_num, pan_num, manager_id, created_at FROM users WHERE id::text = ANY($1) AND is_active = true`)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "mob_num", "pan_num", "manager_id", "created_at"})
}

func TestReassignFirstAssignmentUpdatesInPlace(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(reassignSelect).
		WithArgs(pq.Array([]string{userA})).
		WillReturnRows(userRows().AddRow(userA, "Ravi Kumar", "9876543210", "ABCDE1234F", nil, created))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET manager_id = $1, updated_at = NOW() WHERE id::text = $2`)).
		WithArgs(managerX, userA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	target := managerX
	if err := ReassignUsersManager(db, []string{userA}, &target, managerX); err != nil {
		t.Fatalf("ReassignUsersManager: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReassignExistingManagerVersionsRow(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(reassignSelect).
		WithArgs(pq.Array([]string{userA})).
		WillReturnRows(userRows().AddRow(userA, "Ravi Kumar", "9876543210", "ABCDE1234F", managerX, created))
	// Old row is retired, never mutated further.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_active = false WHERE id::text = $1`)).
		WithArgs(userA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Fresh row keeps identity fields and created_at, gets the new manager
	// and no updated_at.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, full_name, mob_num, pan_num, manager_id, created_at, is_active) VALUES ($1, $2, $3, $4, $5, $6, true)`)).
		WithArgs(sqlmock.AnyArg(), "Ravi Kumar", "9876543210", "ABCDE1234F", managerY, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	target := managerY
	if err := ReassignUsersManager(db, []string{userA}, &target, managerY); err != nil {
		t.Fatalf("ReassignUsersManager: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReassignUnassignVersionsRowWithNullManager(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(reassignSelect).
		WithArgs(pq.Array([]string{userA})).
		WillReturnRows(userRows().AddRow(userA, "Ravi Kumar", "9876543210", "ABCDE1234F", managerX, created))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_active = false WHERE id::text = $1`)).
		WithArgs(userA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(sqlmock.AnyArg(), "Ravi Kumar", "9876543210", "ABCDE1234F", nil, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := ReassignUsersManager(db, []string{userA}, nil, ""); err != nil {
		t.Fatalf("ReassignUsersManager: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReassignSameManagerConflictAbortsBatch(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(reassignSelect).
		WithArgs(pq.Array([]string{userA, userB})).
		WillReturnRows(userRows().
			AddRow(userA, "Ravi Kumar", "9876543210", "ABCDE1234F", nil, created).
			AddRow(userB, "Meena Iyer", "8876543210", "FGHIJ5678K", managerX, created))
	// No staged writes: validation runs over the whole batch first.
	mock.ExpectRollback()

	target := managerX
	err := ReassignUsersManager(db, []string{userA, userB}, &target, managerX)
	var conflict *ManagerAlreadySetError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ManagerAlreadySetError, got %v", err)
	}
	if conflict.UserID != userB || conflict.ManagerID != managerX {
		t.Errorf("conflict = %+v", conflict)
	}
	want := "Manager ID is already '" + managerX + "' for user " + userB
	if conflict.Error() != want {
		t.Errorf("message = %q, want %q", conflict.Error(), want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReassignBothUnassignedConflicts(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(reassignSelect).
		WithArgs(pq.Array([]string{userA})).
		WillReturnRows(userRows().AddRow(userA, "Ravi Kumar", "9876543210", "ABCDE1234F", nil, created))
	mock.ExpectRollback()

	err := ReassignUsersManager(db, []string{userA}, nil, "")
	var conflict *ManagerAlreadySetError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ManagerAlreadySetError, got %v", err)
	}
}

func TestReassignMissingUserFailsBeforeValidation(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(reassignSelect).
		WithArgs(pq.Array([]string{userA, userB})).
		WillReturnRows(userRows().AddRow(userA, "Ravi Kumar", "9876543210", "ABCDE1234F", nil,
			time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	mock.ExpectRollback()

	target := managerX
	err := ReassignUsersManager(db, []string{userA, userB}, &target, managerX)
	if !errors.Is(err, ErrUsersNotFound) {
		t.Fatalf("expected ErrUsersNotFound, got %v", err)
	}
}

func TestCreateUserMapsUniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"mobile index", "users_mob_num_active_key", ErrDuplicateMobile},
		{"pan index", "users_pan_num_active_key", ErrDuplicatePAN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			user := newTestUser()
			if err := CreateUser(db, user); !errors.Is(err, tt.want) {
				t.Errorf("CreateUser error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateUserFillsGeneratedFields(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, full_name, mob_num, pan_num, manager_id, is_active) VALUES ($1, $2, $3, $4, $5, true) RETURNING created_at`)).
		WithArgs(sqlmock.AnyArg(), "Ravi Kumar", "9876543210", "ABCDE1234F", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	user := newTestUser()
	if err := CreateUser(db, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}
	if !user.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", user.CreatedAt, created)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
}

func TestGetUsersAppliesFilters(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE is_active = true AND id::text = $1 AND mob_num = $2 AND manager_id::text = $3`)).
		WithArgs(userA, "9876543210", managerX).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "mob_num", "pan_num", "manager_id", "created_at", "updated_at", "is_active"}))

	users, err := GetUsers(db, UserFilters{UserID: userA, MobNum: "9876543210", ManagerID: managerX})
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", users)
	}
}
