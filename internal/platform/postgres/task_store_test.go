package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// nopConnector lets tests build a *sql.DB without a registered driver.
// Nothing ever connects through it.
type nopConnector struct{}

func (nopConnector) Connect(context.Context) (driver.Conn, error) {
	return nil, errors.New("no live connection")
}

func (nopConnector) Driver() driver.Driver { return nil }

func TestTaskStoreDBHandle(t *testing.T) {
	db := sql.OpenDB(nopConnector{})
	t.Cleanup(func() { _ = db.Close() })

	s := NewPostgresTaskStore(db, nil)
	assert.Same(t, db, s.DB())

	// A store scoped to a transaction has no root handle to hand out,
	// which stops services from nesting transactions through it.
	scoped := NewPostgresTaskStore(stubDBTX{}, nil)
	assert.Nil(t, scoped.DB())
}
