package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txRecorder is a minimal database/sql driver that records transaction
// outcomes. database/sql supplies the *sql.Tx plumbing; the driver only
// counts what happens underneath it.
type txRecorder struct {
	begins    atomic.Int32
	commits   atomic.Int32
	rollbacks atomic.Int32
	beginErr  error
}

func (d *txRecorder) Open(name string) (driver.Conn, error) {
	return &txRecorderConn{driver: d}, nil
}

type txRecorderConn struct {
	driver *txRecorder
}

func (c *txRecorderConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("txrecorder: statements not supported")
}

func (c *txRecorderConn) Close() error { return nil }

func (c *txRecorderConn) Begin() (driver.Tx, error) {
	if c.driver.beginErr != nil {
		return nil, c.driver.beginErr
	}
	c.driver.begins.Add(1)
	return &txRecorderTx{driver: c.driver}, nil
}

type txRecorderTx struct {
	driver *txRecorder
}

func (t *txRecorderTx) Commit() error {
	t.driver.commits.Add(1)
	return nil
}

func (t *txRecorderTx) Rollback() error {
	t.driver.rollbacks.Add(1)
	return nil
}

// driver names must be unique per sql.Register call
var txRecorderSeq atomic.Int64

func newTxRecorderDB(t *testing.T, rec *txRecorder) *sql.DB {
	t.Helper()

	name := fmt.Sprintf("txrecorder-%d", txRecorderSeq.Add(1))
	sql.Register(name, rec)

	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunInTransactionCommitsOnSuccess(t *testing.T) {
	rec := &txRecorder{}
	db := newTxRecorderDB(t, rec)

	var sawTx bool
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		sawTx = tx != nil
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	assert.Equal(t, int32(1), rec.begins.Load())
	assert.Equal(t, int32(1), rec.commits.Load())
	assert.Equal(t, int32(0), rec.rollbacks.Load())
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	rec := &txRecorder{}
	db := newTxRecorderDB(t, rec)

	boom := errors.New("boom")
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return boom
	})

	// The original error comes back unwrapped so errors.Is keeps working
	// upstream.
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), rec.commits.Load())
	assert.Equal(t, int32(1), rec.rollbacks.Load())
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	rec := &txRecorder{}
	db := newTxRecorderDB(t, rec)

	require.PanicsWithValue(t, "kaboom", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("kaboom")
		})
	})

	assert.Equal(t, int32(0), rec.commits.Load())
	assert.Equal(t, int32(1), rec.rollbacks.Load())
}

func TestRunInTransactionBeginFailure(t *testing.T) {
	rec := &txRecorder{beginErr: errors.New("no connection")}
	db := newTxRecorderDB(t, rec)

	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})

	assert.ErrorIs(t, err, ErrTransactionFailed)
}
