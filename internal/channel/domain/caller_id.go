package domain

// Caller-ID confidence levels and target types as recorded by the ticketing
// system's contact-preference log. Only a "known" entry pointing at a user is
// trusted during identity resolution.
const (
	CallerIDLevelKnown = "known"
	CallerIDObjectUser = "User"
)

// CallerIDEntry is one contact-preference record for a caller id, ordered
// most relevant first by the repository.
type CallerIDEntry struct {
	Level    string
	Object   string
	ObjectID int64
}
