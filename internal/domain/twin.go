package domain

import (
	"encoding/json"
	"time"
)

// Twin represents a digital twin profile owned by a single user. The
// configuration payload is opaque to the platform and stored verbatim.
type Twin struct {
	ID        string
	OwnerID   string
	Config    json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
