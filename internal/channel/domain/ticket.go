package domain

import "time"

// Ticket states that end a conversation. A ticket in any of these states is
// never reused for a new inbound message; a fresh ticket is created instead.
var ClosedStateNames = []string{"closed", "merged", "removed"}

// SMSPreferences captures the gateway metadata of the message that created or
// touched a ticket, kept for replay and audit. The field names follow the
// webhook parameter names on purpose.
type SMSPreferences struct {
	AccountSid string `json:"AccountSid"`
	From       string `json:"From"`
	To         string `json:"To"`
}

// TicketPreferences is the preferences block stored on tickets and articles.
type TicketPreferences struct {
	ChannelID int64          `json:"channel_id"`
	SMS       SMSPreferences `json:"sms"`
}

// Ticket is the threaded unit of customer interaction. It belongs to exactly
// one customer and carries a lifecycle state out of a small closed set.
type Ticket struct {
	ID         int64
	GroupID    int64
	Title      string
	StateID    int64
	PriorityID int64
	CustomerID int64
	// CreateArticleTypeID records the channel type of the article that
	// created the ticket; the reuse lookup filters on it so an SMS never
	// lands in, say, an open email ticket of the same customer.
	CreateArticleTypeID int64
	Preferences         TicketPreferences
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TicketState is one of the named lifecycle states. The ticketing system
// flags exactly one state as the default for newly created tickets and one as
// the default follow-up state.
type TicketState struct {
	ID              int64
	Name            string
	DefaultCreate   bool
	DefaultFollowUp bool
}

// TicketPriority mirrors TicketState for priorities.
type TicketPriority struct {
	ID            int64
	Name          string
	DefaultCreate bool
}

// Group is the ticketing system's destination group for new tickets.
type Group struct {
	ID     int64
	Name   string
	Active bool
}

// titleMaxLen is the maximum ticket title length derived from the message
// body before truncation kicks in.
const titleMaxLen = 40

// TicketTitle derives a ticket title from a message body: the first 40
// characters, with an ellipsis marker appended when the body was longer.
func TicketTitle(body string) string {
	runes := []rune(body)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return body
}
