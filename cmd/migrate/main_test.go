package main

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConn keeps every statement executed on it.
type recordingConn struct {
	execs   []string
	failOn  string
	failErr error
}

func (c *recordingConn) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	c.execs = append(c.execs, query)
	if query == c.failOn {
		return nil, c.failErr
	}
	return driver.RowsAffected(0), nil
}

func (c *recordingConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (c *recordingConn) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

const (
	replica = "SET session_replication_role = 'replica'"
	origin  = "SET session_replication_role = 'origin'"
)

func TestWithoutFKChecks(t *testing.T) {
	conn := &recordingConn{}
	err := withoutFKChecks(context.Background(), conn, func() error {
		_, err := conn.ExecContext(context.Background(), "INSERT rounds")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{replica, "INSERT rounds", origin}, conn.execs, "inserts share the connection that disabled the checks")
}

func TestWithoutFKChecksRestoresOnError(t *testing.T) {
	conn := &recordingConn{}
	boom := errors.New("boom")
	err := withoutFKChecks(context.Background(), conn, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{replica, origin}, conn.execs)
}

func TestWithoutFKChecksDisableFails(t *testing.T) {
	conn := &recordingConn{failOn: replica, failErr: errors.New("permission denied")}
	called := false
	err := withoutFKChecks(context.Background(), conn, func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestWithoutFKChecksReenableFails(t *testing.T) {
	conn := &recordingConn{failOn: origin, failErr: errors.New("conn lost")}
	err := withoutFKChecks(context.Background(), conn, func() error { return nil })
	assert.ErrorIs(t, err, conn.failErr)
}
