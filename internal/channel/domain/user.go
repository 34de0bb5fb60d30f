package domain

import "time"

// User is the customer record keyed by mobile number. Users are owned by the
// ticketing system; the channel adapter creates fallback users for unknown
// senders but never deletes them.
type User struct {
	ID        int64
	Firstname string
	Mobile    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor identifies on whose behalf a persistence call is made, for audit
// attribution. It is threaded explicitly through every mutating repository
// call instead of living in process-global state.
type Actor struct {
	UserID int64
}

// systemUserID is the ticketing system's built-in technical user.
const systemUserID = 1

// SystemActor attributes a mutation to the technical user, used before a
// concrete customer has been resolved.
func SystemActor() Actor {
	return Actor{UserID: systemUserID}
}
