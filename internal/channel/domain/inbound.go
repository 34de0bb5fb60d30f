package domain

// InboundMessage is one decoded webhook callback from the gateway. It is
// immutable and lives only for the duration of a single processing call; the
// transport boundary validates it before it reaches the pipeline.
type InboundMessage struct {
	// MessageID is the provider-assigned identifier, used as the dedup key.
	MessageID string
	// AccountID is the gateway account the callback belongs to.
	AccountID string
	From      string
	To        string
	Body      string
}
