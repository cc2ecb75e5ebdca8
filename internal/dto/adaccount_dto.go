package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"polarad-admin-api/internal/domain"
)

// CreateAdAccountRequest is the payload for registering a Meta ad account
type CreateAdAccountRequest struct {
	Name         string     `json:"name" binding:"required,max=255"`
	ServiceStart *time.Time `json:"service_start,omitempty" time_format:"2006-01-02"`
	ServiceEnd   *time.Time `json:"service_end,omitempty" time_format:"2006-01-02"`
}

// ConnectAdAccountRequest carries a raw Meta access token to validate and store
type ConnectAdAccountRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// BackfillRequest is the payload for starting a historical data collection
type BackfillRequest struct {
	Since time.Time `json:"since" binding:"required" time_format:"2006-01-02"`
	Until time.Time `json:"until" binding:"required" time_format:"2006-01-02"`
}

// AdAccountResponse is the API representation of an ad account.
// 액세스 토큰은 절대 내려가지 않음.
type AdAccountResponse struct {
	ID             uuid.UUID                  `json:"id"`
	Name           string                     `json:"name"`
	MetaAccountID  string                     `json:"meta_account_id,omitempty"`
	AuthStatus     domain.AdAccountAuthStatus `json:"auth_status"`
	TokenExpiresAt *time.Time                 `json:"token_expires_at,omitempty"`
	ServiceStart   *time.Time                 `json:"service_start,omitempty"`
	ServiceEnd     *time.Time                 `json:"service_end,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// ToAdAccountResponse converts a domain model to its API representation
func ToAdAccountResponse(a *domain.AdAccount) *AdAccountResponse {
	return &AdAccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		MetaAccountID:  a.MetaAccountID,
		AuthStatus:     a.AuthStatus,
		TokenExpiresAt: a.TokenExpiresAt,
		ServiceStart:   a.ServiceStart,
		ServiceEnd:     a.ServiceEnd,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// RawDataResponse is one collected performance row
type RawDataResponse struct {
	Date         time.Time       `json:"date"`
	AdID         string          `json:"ad_id"`
	AdName       string          `json:"ad_name,omitempty"`
	CampaignName string          `json:"campaign_name,omitempty"`
	Platform     string          `json:"platform"`
	Device       string          `json:"device"`
	Impressions  int64           `json:"impressions"`
	Clicks       int64           `json:"clicks"`
	Spend        decimal.Decimal `json:"spend"`
	Conversions  int64           `json:"conversions"`
}

// ToRawDataResponse converts a domain row to its API representation
func ToRawDataResponse(r *domain.RawData) *RawDataResponse {
	return &RawDataResponse{
		Date:         r.Date,
		AdID:         r.AdID,
		AdName:       r.AdName,
		CampaignName: r.CampaignName,
		Platform:     r.Platform,
		Device:       r.Device,
		Impressions:  r.Impressions,
		Clicks:       r.Clicks,
		Spend:        r.Spend,
		Conversions:  r.Conversions,
	}
}
