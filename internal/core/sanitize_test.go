// AngelaMos | 2026
// sanitize_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimToNull(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.Nil(t, TrimToNull(nil))
	assert.Nil(t, TrimToNull(str("")))
	assert.Nil(t, TrimToNull(str("  \t\n")))
	assert.Equal(t, "N12345", *TrimToNull(str("  N12345 ")))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "amelia@example.com", NormalizeEmail("  Amelia@Example.COM "))
	assert.Equal(t, "", StringValue(nil))
}
