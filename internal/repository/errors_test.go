package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("first: %w", gorm.ErrRecordNotFound)), ErrNotFound)

	pgDup := &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	err := mapError(fmt.Errorf("insert: %w", pgDup))
	assert.ErrorIs(t, err, ErrConflict)
	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got), "driver error stays reachable")

	assert.ErrorIs(t, mapError(&pq.Error{Code: "23505"}), ErrConflict)
	assert.ErrorIs(t, mapError(gorm.ErrDuplicatedKey), ErrConflict)

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, error(fk), mapError(fk))

	other := errors.New("connection refused")
	assert.Equal(t, other, mapError(other))
}
