package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_WithTx(t *testing.T) {
	opErr := errors.New("operation failed")

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		fn      func(*sql.Tx) error
		wantErr []string
		isOpErr bool
	}{
		{
			name: "commits_on_success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(*sql.Tx) error { return nil },
		},
		{
			name: "rolls_back_on_error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(*sql.Tx) error { return opErr },
			isOpErr: true,
		},
		{
			name: "begin_failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin failed"))
			},
			fn:      func(*sql.Tx) error { return nil },
			wantErr: []string{"failed to begin transaction"},
		},
		{
			name: "commit_failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			fn:      func(*sql.Tx) error { return nil },
			wantErr: []string{"failed to commit transaction"},
		},
		{
			name: "rollback_failure_keeps_both_errors",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn:      func(*sql.Tx) error { return opErr },
			wantErr: []string{"operation failed", "rollback failed"},
			isOpErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)
			err = NewTxManager(db).WithTx(context.Background(), tt.fn)

			if len(tt.wantErr) == 0 && !tt.isOpErr {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantErr {
				assert.ErrorContains(t, err, want)
			}
			if tt.isOpErr {
				assert.ErrorIs(t, err, opErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
