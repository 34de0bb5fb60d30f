package nowsms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// successMarker is the literal substring NowSMS puts into the response body
// of an accepted submission. Anything else is a failure; the gateway has no
// structured response format worth parsing beyond this.
const successMarker = "Message Submitted"

// GatewayConfig carries the per-channel settings needed for one send. It is
// the notification-context subset of the channel options.
type GatewayConfig struct {
	// Gateway is the base URL of the NowSMS server.
	Gateway string
	// AccountID and Token are the NowSMS username and password.
	AccountID string
	Token     string
	// Sender is the configured sender number. NowSMS picks the sender from
	// the authenticated account; the value is kept here for audit logging.
	Sender string
}

// Modes are the process-wide send bypasses. Import short-circuits the whole
// send before developer mode is even considered, so bulk historical imports
// can never trigger live sends. Developer mode skips only the network call.
type Modes struct {
	Developer bool
	Import    bool
}

// GatewayError is a non-success response from the gateway. Detail is the raw
// response body.
type GatewayError struct {
	Detail string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("nowsms gateway rejected message: %s", e.Detail)
}

// Client submits messages to a NowSMS gateway. One Send is one blocking HTTP
// GET; retry policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	modes      Modes
	logger     *slog.Logger
}

// NewClient creates a gateway client. A nil httpClient gets a 10 second
// timeout default.
func NewClient(logger *slog.Logger, modes Modes, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		modes:      modes,
		logger:     logger.With("provider", "nowsms"),
	}
}

var nonDigits = regexp.MustCompile(`\D`)

// Send submits one message. The recipient is reduced to its digits before
// transmission. Success is detected purely by substring match on the response
// body; any other body or transport error is returned as a failure.
func (c *Client) Send(ctx context.Context, cfg GatewayConfig, recipient, text string) error {
	logger := c.logger.With("recipient", recipient)
	logger.InfoContext(ctx, "Sending SMS")

	if c.modes.Import {
		logger.InfoContext(ctx, "Import mode enabled, send short-circuited")
		outboundSendCounter.WithLabelValues("import_mode").Inc()
		return nil
	}
	if c.modes.Developer {
		logger.InfoContext(ctx, "Developer mode enabled, skipping gateway call")
		outboundSendCounter.WithLabelValues("developer_mode").Inc()
		return nil
	}

	endpoint, err := url.Parse(strings.TrimRight(cfg.Gateway, "/") + "/")
	if err != nil {
		return fmt.Errorf("invalid gateway URL %q: %w", cfg.Gateway, err)
	}
	query := endpoint.Query()
	query.Set("User", cfg.AccountID)
	query.Set("Password", cfg.Token)
	query.Set("PhoneNumber", nonDigits.ReplaceAllString(recipient, ""))
	query.Set("Text", text)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("building gateway request: %w", err)
	}

	timer := prometheus.NewTimer(outboundSendDurationHist)
	resp, err := c.httpClient.Do(req)
	timer.ObserveDuration()
	if err != nil {
		logger.ErrorContext(ctx, "Gateway request failed", "error", err)
		outboundSendCounter.WithLabelValues("transport_error").Inc()
		return fmt.Errorf("sending to nowsms gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outboundSendCounter.WithLabelValues("transport_error").Inc()
		return fmt.Errorf("reading gateway response: %w", err)
	}

	if !strings.Contains(string(body), successMarker) {
		logger.WarnContext(ctx, "Gateway did not accept message", "status_code", resp.StatusCode, "body", string(body))
		outboundSendCounter.WithLabelValues("rejected").Inc()
		return &GatewayError{Detail: string(body)}
	}

	logger.InfoContext(ctx, "Gateway accepted message", "status_code", resp.StatusCode)
	outboundSendCounter.WithLabelValues("sent").Inc()
	return nil
}
