package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"polarad-admin-api/internal/metrics"
)

// InsightRecord is one row returned by the Meta insights API,
// broken down by platform and device
type InsightRecord struct {
	Date         string `json:"date_start"`
	AdID         string `json:"ad_id"`
	AdName       string `json:"ad_name"`
	CampaignName string `json:"campaign_name"`
	Platform     string `json:"publisher_platform"`
	Device       string `json:"impression_device"`
	Impressions  int64  `json:"impressions,string"`
	Clicks       int64  `json:"clicks,string"`
	Spend        string `json:"spend"`
	Conversions  int64  `json:"conversions,string"`
}

// TokenInfo describes a validated Meta access token
type TokenInfo struct {
	AccountID string
	ExpiresAt *time.Time
}

// MetaClient defines the interface for Meta Graph API communication
type MetaClient interface {
	// GetInsights fetches ads insights for one date window
	GetInsights(ctx context.Context, accountID, token string, since, until time.Time) ([]InsightRecord, error)
	// ValidateToken checks the token and resolves its linked ad account
	ValidateToken(ctx context.Context, token string) (*TokenInfo, error)
}

// metaClient implements MetaClient against the Graph API
type metaClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewMetaClient creates a new Meta Graph API client
func NewMetaClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) MetaClient {
	return &metaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

type insightsResponse struct {
	Data   []InsightRecord `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *graphError `json:"error"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *graphError) Error() string {
	return fmt.Sprintf("graph api error %d (%s): %s", e.Code, e.Type, e.Message)
}

// GetInsights fetches one window of daily insights with platform/device breakdowns
func (c *metaClient) GetInsights(ctx context.Context, accountID, token string, since, until time.Time) ([]InsightRecord, error) {
	endpoint := fmt.Sprintf("%s/act_%s/insights", c.baseURL, accountID)

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("level", "ad")
	params.Set("time_increment", "1")
	params.Set("breakdowns", "publisher_platform,impression_device")
	params.Set("fields", "ad_id,ad_name,campaign_name,impressions,clicks,spend,conversions")
	params.Set("time_range", fmt.Sprintf(`{"since":"%s","until":"%s"}`,
		since.Format("2006-01-02"), until.Format("2006-01-02")))
	params.Set("limit", "500")

	var all []InsightRecord
	next := endpoint + "?" + params.Encode()

	// 페이지네이션 추적 (next 링크 따라가기)
	for next != "" {
		records, nextURL, err := c.fetchPage(ctx, endpoint, next)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		next = nextURL
	}

	return all, nil
}

func (c *metaClient) fetchPage(ctx context.Context, endpoint, pageURL string) ([]InsightRecord, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, http.MethodGet, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to call Meta insights API", zap.Error(err))
		return nil, "", fmt.Errorf("insights request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read insights response: %w", err)
	}

	var parsed insightsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", fmt.Errorf("failed to decode insights response: %w", err)
	}
	if parsed.Error != nil {
		return nil, "", parsed.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("insights request returned status %d", resp.StatusCode)
	}

	return parsed.Data, parsed.Paging.Next, nil
}

type adAccountsResponse struct {
	Data []struct {
		AccountID string `json:"account_id"`
	} `json:"data"`
	Error *graphError `json:"error"`
}

// ValidateToken resolves the token's first ad account via /me/adaccounts
func (c *metaClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	endpoint := fmt.Sprintf("%s/me/adaccounts", c.baseURL)

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("fields", "account_id")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, http.MethodGet, statusCode, duration, err)
	}

	if err != nil {
		return nil, fmt.Errorf("token validation request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed adAccountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode token validation response: %w", err)
	}
	if parsed.Error != nil {
		return nil, parsed.Error
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("token has no linked ad account")
	}

	// 장기 토큰은 약 60일 유효
	expiresAt := time.Now().Add(60 * 24 * time.Hour)
	return &TokenInfo{
		AccountID: parsed.Data[0].AccountID,
		ExpiresAt: &expiresAt,
	}, nil
}
