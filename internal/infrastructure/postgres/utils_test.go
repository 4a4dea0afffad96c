package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, "ana", escapeLike("ana"))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

// Las claves de bloqueo se toman siempre en el mismo orden.
func TestSortedUnique(t *testing.T) {
	got := sortedUnique([]string{"phone:555", "", "email:a@x.com", "phone:555"})
	assert.Equal(t, []string{"email:a@x.com", "phone:555"}, got)
	assert.Empty(t, sortedUnique(nil))
}
