package store

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/Parthsawant1298/Veritas/pkg/core"
)

// NewID returns a 24-character hex identifier: a 4-byte big-endian unix
// timestamp followed by 8 random bytes. IDs generated in the same process
// sort roughly by creation time.
func NewID() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		panic("store: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(raw[:])
}

// ValidateID checks that id is a well-formed 24-character hex identifier.
func ValidateID(id string) error {
	if len(id) != 24 {
		return core.NewInvalidInputErrorWithParam("Invalid company ID format", "company_id")
	}
	if _, err := hex.DecodeString(id); err != nil {
		return core.NewInvalidInputErrorWithParam("Invalid company ID format", "company_id")
	}
	return nil
}
