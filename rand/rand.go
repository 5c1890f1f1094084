package rand

import (
	"github.com/google/uuid"
)

// GenerateUuid returns a UUID in string format (including hyphens).
func GenerateUuid() string {
	return uuid.NewString()
}

// ScratchName returns a hidden, unique file name derived from base, for
// temporary files that are later renamed over base.
func ScratchName(base string) string {
	return ".tmp-" + base + "-" + GenerateUuid()
}
