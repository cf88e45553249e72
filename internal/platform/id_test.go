package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewID_ReturnsValidUUIDString(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
}

func TestNewID_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestNewCode_Format(t *testing.T) {
	at := time.Date(2026, 1, 14, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		prefix   string
		expected string
	}{
		{BudgetCodePrefix, `^ORC-20260114-[A-Z2-9]{6}$`},
		{ServiceCodePrefix, `^SRV-20260114-[A-Z2-9]{6}$`},
		{InvoiceCodePrefix, `^FAT-20260114-[A-Z2-9]{6}$`},
	}
	for _, tt := range tests {
		assert.Regexp(t, tt.expected, NewCode(tt.prefix, at), "prefix=%s", tt.prefix)
	}
}

func TestNewCode_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	at := time.Date(2026, 1, 14, 22, 30, 0, 0, loc)
	assert.Regexp(t, `^ORC-20260115-`, NewCode(BudgetCodePrefix, at))
}

func TestNewCode_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	now := time.Now()
	for i := 0; i < 100; i++ {
		code := NewCode("ORC", now)
		assert.False(t, seen[code], "duplicate code generated: %s", code)
		seen[code] = true
	}
}
