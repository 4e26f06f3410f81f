package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestWipeDatabaseDropsThenRecreates(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`DROP TABLE IF EXISTS users CASCADE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS managers CASCADE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS managers`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS users_mob_num_active_key`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS users_pan_num_active_key`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := WipeDatabase(db); err != nil {
		t.Fatalf("WipeDatabase: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
