package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"polarad-admin-api/internal/metrics"
)

// SENSConfig NCP SENS SMS 설정 구조체
type SENSConfig struct {
	ServiceID string
	AccessKey string
	SecretKey string
	From      string
}

// smsClient NCP SENS를 통한 SMS 발송 채널
type smsClient struct {
	config     SENSConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewSMSClient NCP SENS SMS 채널 생성
func NewSMSClient(cfg SENSConfig, logger *zap.Logger, m *metrics.Metrics) Channel {
	return &smsClient{
		config:  cfg,
		baseURL: "https://sens.apigw.ntruss.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		metrics: m,
	}
}

func (c *smsClient) Name() string {
	return "sms"
}

// makeSignature builds the NCP API gateway HMAC-SHA256 signature
func (c *smsClient) makeSignature(method, uri, timestamp string) string {
	message := method + " " + uri + "\n" + timestamp + "\n" + c.config.AccessKey
	mac := hmac.New(sha256.New, []byte(c.config.SecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *smsClient) Send(ctx context.Context, msg OutboundMessage) error {
	if msg.Phone == "" {
		return fmt.Errorf("수신자 전화번호가 없습니다")
	}

	uri := fmt.Sprintf("/sms/v2/services/%s/messages", c.config.ServiceID)

	payload := map[string]interface{}{
		"type":    "SMS",
		"from":    c.config.From,
		"content": msg.Body,
		"messages": []map[string]string{
			{"to": msg.Phone},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("x-ncp-apigw-timestamp", timestamp)
	req.Header.Set("x-ncp-iam-access-key", c.config.AccessKey)
	req.Header.Set("x-ncp-apigw-signature-v2", c.makeSignature(http.MethodPost, uri, timestamp))

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall("sens/sms", http.MethodPost, statusCode, duration, err)
	}

	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	// SENS는 접수 성공 시 202를 반환한다
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sens returned status %d", resp.StatusCode)
	}

	c.logger.Debug("SMS 발송 접수", zap.String("to", msg.Phone))
	return nil
}
