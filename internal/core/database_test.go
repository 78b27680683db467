// AngelaMos | 2026
// database_test.go

package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `first\_solo`, EscapeLike("first_solo"))
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, "Earhart", EscapeLike("Earhart"))
}

func TestPgErrorCodes(t *testing.T) {
	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert lesson: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, IsDuplicateKeyError(dup))
	assert.False(t, IsForeignKeyError(dup))
	assert.True(t, IsForeignKeyError(fk))
	assert.False(t, IsDuplicateKeyError(fmt.Errorf("plain")))
}

func TestJitter(t *testing.T) {
	assert.Zero(t, jitter(0))

	base := 70 * time.Minute
	for range 20 {
		got := jitter(base)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/7)
	}
}
