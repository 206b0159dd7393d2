package ports

import (
	"time"

	"digitpad/domain/core"
)

// SessionRepository defines the interface for sketch session storage
type SessionRepository[S any] interface {
	// Put stores a session under id.
	Put(id core.SessionID, value S)

	// Get returns the session and refreshes its last-seen time.
	// Missing sessions return core.ErrSessionNotFound.
	Get(id core.SessionID) (S, error)

	// Delete removes a session; deleting a missing session is not an error.
	Delete(id core.SessionID)

	// Expire removes sessions idle since before cutoff and returns them.
	Expire(cutoff time.Time) []S

	// Len returns the number of stored sessions.
	Len() int
}
