package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/sysdesk/nowsms_channel/internal/channel/app"
	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

// InboundProcessor is the pipeline slice the webhook handler needs.
type InboundProcessor interface {
	Process(ctx context.Context, channel *domain.Channel, msg domain.InboundMessage) (app.Result, error)
}

// WebhookHandler terminates the NowSMS inbound callback. It authenticates the
// call by webhook token, decodes the flat parameter set into a validated
// value object and hands it to the pipeline. The pipeline's content type and
// body are returned to the gateway unchanged.
type WebhookHandler struct {
	channels  domain.ChannelRepository
	processor InboundProcessor
	logger    *slog.Logger
	validate  *validator.Validate
}

func NewWebhookHandler(channels domain.ChannelRepository, processor InboundProcessor, logger *slog.Logger, validate *validator.Validate) *WebhookHandler {
	return &WebhookHandler{
		channels:  channels,
		processor: processor,
		logger:    logger.With("handler", "webhook"),
		validate:  validate,
	}
}

// RegisterRoutes mounts the webhook. NowSMS delivers callbacks as GET by
// default but can be configured for POST; both are accepted.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/webhooks/nowsms/{webhook_token}", h.handleCallback)
	r.Post("/webhooks/nowsms/{webhook_token}", h.handleCallback)
}

func (h *WebhookHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	token := chi.URLParam(r, "webhook_token")
	channel, err := h.channels.GetByWebhookToken(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to look up channel by webhook token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if channel == nil || subtle.ConstantTimeCompare([]byte(channel.Options.WebhookToken), []byte(token)) != 1 {
		logger.WarnContext(ctx, "Webhook token did not match any channel")
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	logger = logger.With("channel_id", channel.ID)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Failed to parse webhook parameters", "error", err)
		http.Error(w, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	req := WebhookRequest{
		SmsMessageSid: r.Form.Get("SmsMessageSid"),
		AccountSid:    r.Form.Get("AccountSid"),
		From:          r.Form.Get("From"),
		To:            r.Form.Get("To"),
		Body:          r.Form.Get("Body"),
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Webhook request failed validation", "error", err)
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.processor.Process(ctx, channel, domain.InboundMessage{
		MessageID: req.SmsMessageSid,
		AccountID: req.AccountSid,
		From:      req.From,
		To:        req.To,
		Body:      req.Body,
	})
	if err != nil {
		if domain.IsUnprocessableEntity(err) {
			logger.WarnContext(ctx, "Inbound message unprocessable", "error", err)
			writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		logger.ErrorContext(ctx, "Inbound processing failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	body, err := result.JSON()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to render acknowledgement", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
