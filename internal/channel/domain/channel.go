package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"
)

// ChannelOptions are the per-installation gateway settings entered by an
// administrator. They are read-only to the pipeline.
type ChannelOptions struct {
	// Gateway is the base URL of the NowSMS server, e.g. "http://10.0.0.5:8800".
	Gateway string `json:"gateway"`
	// WebhookToken authenticates inbound callbacks; it is generated once
	// when the channel is created and never shown for editing.
	WebhookToken string `json:"webhook_token"`
	// AccountID and Token are the NowSMS username and password.
	AccountID string `json:"account_id"`
	Token     string `json:"token"`
	// Sender is the number outbound messages are sent from.
	Sender string `json:"sender"`
	// RejectMsg and RejectSender are optional regular expressions; an empty
	// pattern disables the corresponding rejection stage.
	RejectMsg    string `json:"reject_msg"`
	RejectSender string `json:"reject_sender"`
}

// Channel is one configured SMS channel.
type Channel struct {
	ID      int64
	Options ChannelOptions
	// GroupID is the destination group for newly created tickets. Zero means
	// unset; ticket creation fails on it.
	GroupID   int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWebhookToken derives a fresh webhook token from 32 bytes of randomness
// hashed with SHA3-256.
func NewWebhookToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook token: %w", err)
	}
	sum := sha3.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}

// DefinitionField describes one field of the administrative configuration
// schema.
type DefinitionField struct {
	Name        string `json:"name"`
	Display     string `json:"display"`
	Tag         string `json:"tag"`
	Type        string `json:"type,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Null        bool   `json:"null"`
	Placeholder string `json:"placeholder,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
	Readonly    bool   `json:"readonly,omitempty"`
	Relation    string `json:"relation,omitempty"`
	Nulloption  bool   `json:"nulloption,omitempty"`
}

// ChannelDefinition is the static schema of the NowSMS channel: the fields an
// administrator fills in for a full account channel and for the outbound-only
// notification context.
type ChannelDefinition struct {
	Name         string            `json:"name"`
	Adapter      string            `json:"adapter"`
	Account      []DefinitionField `json:"account"`
	Notification []DefinitionField `json:"notification"`
}

// Definition returns the configuration schema of the NowSMS channel.
func Definition() ChannelDefinition {
	gateway := DefinitionField{
		Name: "options::gateway", Display: "Gateway URL", Tag: "input", Type: "text",
		Limit: 200, Placeholder: "http://server.ip.addr:8800",
	}
	accountID := DefinitionField{
		Name: "options::account_id", Display: "NowSMS username", Tag: "input", Type: "text",
		Limit: 200, Placeholder: "XXXXXX",
	}
	token := DefinitionField{
		Name: "options::token", Display: "NowSMS password", Tag: "input", Type: "text",
		Limit: 200,
	}
	sender := DefinitionField{
		Name: "options::sender", Display: "Sender", Tag: "input", Type: "text",
		Limit: 200, Placeholder: "+41790000000",
	}

	return ChannelDefinition{
		Name:    "nowsms",
		Adapter: "sms/nowsms",
		Account: []DefinitionField{
			gateway,
			{
				Name: "options::webhook_token", Display: "Webhook Token", Tag: "input", Type: "text",
				Limit: 200, Disabled: true, Readonly: true,
			},
			accountID,
			token,
			sender,
			{
				Name: "options::reject_msg", Display: "Reject messages (regexp)", Tag: "input", Type: "text",
				Limit: 200, Placeholder: ".*loop_check.*|.*test_only.*",
			},
			{
				Name: "options::reject_sender", Display: "Reject senders (regexp)", Tag: "input", Type: "text",
				Limit: 200, Placeholder: `spam_number|\+4199.*`,
			},
			{
				Name: "group_id", Display: "Destination Group", Tag: "select",
				Relation: "Group", Nulloption: true,
			},
		},
		Notification: []DefinitionField{gateway, accountID, token, sender},
	}
}
