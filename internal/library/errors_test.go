package library

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrDuplicate), "ErrNotFound should not match ErrDuplicate")
	assert.False(t, errors.Is(ErrNotFound, ErrConstraint), "ErrNotFound should not match ErrConstraint")
	assert.False(t, errors.Is(ErrDuplicate, ErrConstraint), "ErrDuplicate should not match ErrConstraint")
}

func TestErrors_CanBeWrapped(t *testing.T) {
	wrapped := fmt.Errorf("get title 123: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound), "wrapped error should match ErrNotFound")
}

func TestMapSQLiteError(t *testing.T) {
	assert.Nil(t, mapSQLiteError(nil))
	assert.ErrorIs(t, mapSQLiteError(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapSQLiteError(errors.New("constraint failed: UNIQUE constraint failed: episodes.series_id")), ErrDuplicate)
	assert.ErrorIs(t, mapSQLiteError(errors.New("FOREIGN KEY constraint failed (787)")), ErrConstraint)
	assert.ErrorIs(t, mapSQLiteError(errors.New("CHECK constraint failed: kind")), ErrConstraint)

	assert.ErrorIs(t, mapSQLiteError(fmt.Errorf("scan: %w", sql.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, mapSQLiteError(errors.New("NOT NULL constraint failed: titles.name")), ErrConstraint)

	other := errors.New("disk I/O error")
	assert.Equal(t, other, mapSQLiteError(other))
}

func TestMapSQLiteError_DriverErrors(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (id, name) VALUES (1, 'a')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO t (id, name) VALUES (2, 'a')`)
	assert.ErrorIs(t, mapSQLiteError(err), ErrDuplicate)

	_, err = db.Exec(`INSERT INTO t (id, name) VALUES (3, NULL)`)
	assert.ErrorIs(t, mapSQLiteError(err), ErrConstraint)
}
