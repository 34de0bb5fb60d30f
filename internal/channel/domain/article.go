package domain

import "time"

// Article is one SMS recorded against a ticket.
type Article struct {
	ID       int64
	TicketID int64
	TypeID   int64
	SenderID int64
	From     string
	To       string
	Body     string
	// MessageID is the provider-assigned message identifier. It must be
	// unique across all articles ever processed; it is what makes inbound
	// processing idempotent under webhook retries.
	MessageID   string
	ContentType string
	Preferences TicketPreferences
	CreatedAt   time.Time
}

// ArticleType is a named article channel type, e.g. "sms".
type ArticleType struct {
	ID   int64
	Name string
}

// ArticleSender is a named sender role, e.g. "Customer".
type ArticleSender struct {
	ID   int64
	Name string
}
