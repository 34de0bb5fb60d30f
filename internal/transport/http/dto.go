package http

// WebhookRequest mirrors the NowSMS callback parameters. NowSMS is configured
// to call the webhook as
// /?SmsMessageSid=...&AccountSid=...&From=...&To=...&Body=...
// with the parameters in the query string or the POST form.
type WebhookRequest struct {
	SmsMessageSid string `validate:"required"`
	AccountSid    string `validate:"required"`
	From          string `validate:"required"`
	To            string `validate:"required"`
	Body          string
}

// SendMessageRequest is the body of POST /api/v1/messages.
type SendMessageRequest struct {
	ChannelID int64  `json:"channel_id" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Message   string `json:"message" validate:"required,min=1"`
}
