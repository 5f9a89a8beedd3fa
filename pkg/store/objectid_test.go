package store

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/core"
)

func TestNewIDShape(t *testing.T) {
	before := time.Now().Unix()
	id := NewID()
	after := time.Now().Unix()

	if len(id) != 24 {
		t.Fatalf("NewID length = %d, want 24", len(id))
	}
	raw, err := hex.DecodeString(id)
	if err != nil {
		t.Fatalf("NewID not hex: %v", err)
	}
	ts := int64(binary.BigEndian.Uint32(raw[:4]))
	if ts < before || ts > after {
		t.Errorf("embedded timestamp %d outside [%d, %d]", ts, before, after)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"valid", "507f1f77bcf86cd799439011", true},
		{"valid generated", NewID(), true},
		{"too short", "507f1f77bcf86cd7994390", false},
		{"too long", "507f1f77bcf86cd79943901122", false},
		{"non hex", "507f1f77bcf86cd79943901z", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.ok {
				if err != nil {
					t.Fatalf("ValidateID(%q) = %v, want nil", tt.id, err)
				}
				return
			}
			var coreErr *core.Error
			if !errors.As(err, &coreErr) {
				t.Fatalf("ValidateID(%q) = %v, want *core.Error", tt.id, err)
			}
			if coreErr.Type != core.ErrInvalidInput {
				t.Errorf("error type = %s, want %s", coreErr.Type, core.ErrInvalidInput)
			}
			if coreErr.Param != "company_id" {
				t.Errorf("error param = %q, want company_id", coreErr.Param)
			}
		})
	}
}
