package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
	"github.com/sysdesk/nowsms_channel/internal/nowsms"
)

type MockOutboundSender struct {
	mock.Mock
}

func (m *MockOutboundSender) Send(ctx context.Context, cfg nowsms.GatewayConfig, recipient, text string) error {
	args := m.Called(ctx, cfg, recipient, text)
	return args.Error(0)
}

func newMessageTestServer(channels *MockChannelRepository, sender *MockOutboundSender) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewMessageHandler(channels, sender, logger, validator.New())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return httptest.NewServer(router)
}

func postMessage(t *testing.T, server *httptest.Server, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestSendMessage_Success(t *testing.T) {
	channels := new(MockChannelRepository)
	sender := new(MockOutboundSender)
	channel := &domain.Channel{
		ID: 7,
		Options: domain.ChannelOptions{
			Gateway:   "https://nowsms.example.com",
			AccountID: "nowsms-user",
			Token:     "nowsms-pass",
			Sender:    "+41790000000",
		},
		Active: true,
	}

	channels.On("GetByID", mock.Anything, int64(7)).Return(channel, nil)
	sender.On("Send", mock.Anything, nowsms.GatewayConfig{
		Gateway:   "https://nowsms.example.com",
		AccountID: "nowsms-user",
		Token:     "nowsms-pass",
		Sender:    "+41790000000",
	}, "+41791112233", "your ticket was updated").Return(nil)

	server := newMessageTestServer(channels, sender)
	defer server.Close()

	resp := postMessage(t, server, SendMessageRequest{ChannelID: 7, Recipient: "+41791112233", Message: "your ticket was updated"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"sent"}`, string(body))
	sender.AssertExpectations(t)
}

func TestSendMessage_UnknownChannelIsNotFound(t *testing.T) {
	channels := new(MockChannelRepository)
	sender := new(MockOutboundSender)
	channels.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	server := newMessageTestServer(channels, sender)
	defer server.Close()

	resp := postMessage(t, server, SendMessageRequest{ChannelID: 99, Recipient: "+41791112233", Message: "hello"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	sender.AssertNotCalled(t, "Send")
}

func TestSendMessage_MissingFieldsFailValidation(t *testing.T) {
	channels := new(MockChannelRepository)
	sender := new(MockOutboundSender)

	server := newMessageTestServer(channels, sender)
	defer server.Close()

	resp := postMessage(t, server, map[string]any{"channel_id": 7})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	channels.AssertNotCalled(t, "GetByID")
}

func TestSendMessage_GatewayRejectionIsBadGatewayWithDetail(t *testing.T) {
	channels := new(MockChannelRepository)
	sender := new(MockOutboundSender)
	channel := &domain.Channel{ID: 7, Active: true}

	channels.On("GetByID", mock.Anything, int64(7)).Return(channel, nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&nowsms.GatewayError{Detail: "ERROR: invalid credentials"})

	server := newMessageTestServer(channels, sender)
	defer server.Close()

	resp := postMessage(t, server, SendMessageRequest{ChannelID: 7, Recipient: "+41791112233", Message: "hello"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"ERROR: invalid credentials"}`, string(body))
}

func TestSendMessage_TransportFailureIsBadGateway(t *testing.T) {
	channels := new(MockChannelRepository)
	sender := new(MockOutboundSender)
	channel := &domain.Channel{ID: 7, Active: true}

	channels.On("GetByID", mock.Anything, int64(7)).Return(channel, nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	server := newMessageTestServer(channels, sender)
	defer server.Close()

	resp := postMessage(t, server, SendMessageRequest{ChannelID: 7, Recipient: "+41791112233", Message: "hello"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
