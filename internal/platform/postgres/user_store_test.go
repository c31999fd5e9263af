package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/studybuddy/studybuddy-api/internal/store"
)

// stubDBTX satisfies store.DBTX for tests that never reach the database.
type stubDBTX struct{}

func (stubDBTX) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errors.New("stub")
}

func (stubDBTX) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errors.New("stub")
}

func (stubDBTX) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("stub")
}

func (stubDBTX) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func TestMapUserUniqueViolation(t *testing.T) {
	s := NewPostgresUserStore(stubDBTX{}, 12, nil)

	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email index", usersEmailUniqueConstraint, store.ErrEmailExists},
		{"username index", usersUsernameUniqueConstraint, store.ErrUsernameExists},
		{"unknown unique constraint", "users_other_idx", store.ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.mapUserUniqueViolation(&pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: tt.constraint,
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Everything else is left for the generic mapper.
	assert.Nil(t, s.mapUserUniqueViolation(errors.New("boom")))
	assert.Nil(t, s.mapUserUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
}
