package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID produces random v4 identifiers without dashes, the form Jellyfin uses
// for device and play session ids.
type UUID struct{}

func (UUID) New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
