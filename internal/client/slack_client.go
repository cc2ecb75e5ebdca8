package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"polarad-admin-api/internal/metrics"
)

// slackClient posts admin notifications to a fixed Slack channel
type slackClient struct {
	botToken   string
	channel    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewSlackClient creates a Slack chat.postMessage channel
func NewSlackClient(botToken, channel string, logger *zap.Logger, m *metrics.Metrics) Channel {
	return &slackClient{
		botToken: botToken,
		channel:  channel,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		metrics: m,
	}
}

func (c *slackClient) Name() string {
	return "slack"
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *slackClient) Send(ctx context.Context, msg OutboundMessage) error {
	endpoint := "https://slack.com/api/chat.postMessage"

	payload := map[string]interface{}{
		"channel": c.channel,
		"text":    fmt.Sprintf("*%s*\n%s", msg.Title, msg.Body),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall("slack/chat.postMessage", http.MethodPost, statusCode, duration, err)
	}

	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed slackResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("slack returned error: %s", parsed.Error)
	}

	c.logger.Debug("Slack message sent", zap.String("channel", c.channel))
	return nil
}
