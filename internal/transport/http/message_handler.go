package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
	"github.com/sysdesk/nowsms_channel/internal/nowsms"
)

// OutboundSender is the gateway client slice the handler needs.
type OutboundSender interface {
	Send(ctx context.Context, cfg nowsms.GatewayConfig, recipient, text string) error
}

// MessageHandler exposes outbound sending to the ticketing system. The caller
// owns retry policy; a gateway failure is reported as 502 with the gateway's
// response detail and never retried here.
type MessageHandler struct {
	channels domain.ChannelRepository
	sender   OutboundSender
	logger   *slog.Logger
	validate *validator.Validate
}

func NewMessageHandler(channels domain.ChannelRepository, sender OutboundSender, logger *slog.Logger, validate *validator.Validate) *MessageHandler {
	return &MessageHandler{
		channels: channels,
		sender:   sender,
		logger:   logger.With("handler", "message"),
		validate: validate,
	}
}

func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSend)
}

func (h *MessageHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "Failed to decode send request", "error", err)
		writeJSONError(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Send request failed validation", "error", err)
		writeJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	channel, err := h.channels.GetByID(ctx, req.ChannelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSONError(w, "Channel not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "Failed to load channel", "error", err, "channel_id", req.ChannelID)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	cfg := nowsms.GatewayConfig{
		Gateway:   channel.Options.Gateway,
		AccountID: channel.Options.AccountID,
		Token:     channel.Options.Token,
		Sender:    channel.Options.Sender,
	}
	if err := h.sender.Send(ctx, cfg, req.Recipient, req.Message); err != nil {
		var gwErr *nowsms.GatewayError
		if errors.As(err, &gwErr) {
			logger.WarnContext(ctx, "Gateway rejected outbound message", "detail", gwErr.Detail, "channel_id", channel.ID)
			writeJSONError(w, gwErr.Detail, http.StatusBadGateway)
			return
		}
		logger.ErrorContext(ctx, "Outbound send failed", "error", err, "channel_id", channel.ID)
		writeJSONError(w, "Failed to reach gateway", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}
