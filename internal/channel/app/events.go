package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessedEventSubject is the NATS subject notified after an inbound message
// mutated ticket state.
const ProcessedEventSubject = "sms.inbound.processed"

// EventPublisher is the slice of the message broker the processor needs. A
// nil publisher disables event publication.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ProcessedEvent announces that an inbound SMS was appended to a ticket.
type ProcessedEvent struct {
	EventID     string    `json:"event_id"`
	Status      string    `json:"status"` // "created" or "updated"
	TicketID    int64     `json:"ticket_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	MessageID   string    `json:"message_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

// publishProcessed emits a ProcessedEvent. Publication is observational: a
// failure is logged and never alters the pipeline result.
func (p *Processor) publishProcessed(ctx context.Context, status string, ticketID int64, from, to, messageID string) {
	if p.events == nil {
		return
	}

	event := ProcessedEvent{
		EventID:     uuid.NewString(),
		Status:      status,
		TicketID:    ticketID,
		From:        from,
		To:          to,
		MessageID:   messageID,
		ProcessedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to marshal processed event", "error", err, "ticket_id", ticketID)
		return
	}
	if err := p.events.Publish(ctx, ProcessedEventSubject, data); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish processed event", "error", err, "subject", ProcessedEventSubject, "ticket_id", ticketID)
	}
}
