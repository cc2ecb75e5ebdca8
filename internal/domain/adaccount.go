package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdAccountAuthStatus represents the health of the stored Meta access token
type AdAccountAuthStatus string

const (
	AdAccountAuthActive       AdAccountAuthStatus = "ACTIVE"
	AdAccountAuthRequired     AdAccountAuthStatus = "AUTH_REQUIRED"
	AdAccountAuthTokenExpired AdAccountAuthStatus = "TOKEN_EXPIRED"
)

// AdAccount is a client's connected Meta ads account
type AdAccount struct {
	BaseModel
	Name           string              `gorm:"type:varchar(255);not null" json:"name"`
	MetaAccountID  string              `gorm:"type:varchar(100);index:idx_ad_accounts_meta_account_id" json:"meta_account_id"`
	AccessTokenEnc string              `gorm:"type:text" json:"-"`
	AuthStatus     AdAccountAuthStatus `gorm:"type:varchar(20);not null;default:'AUTH_REQUIRED';index:idx_ad_accounts_auth_status" json:"auth_status"`
	TokenExpiresAt *time.Time          `gorm:"type:timestamp" json:"token_expires_at,omitempty"`
	ServiceStart   *time.Time          `gorm:"type:date" json:"service_start,omitempty"`
	ServiceEnd     *time.Time          `gorm:"type:date" json:"service_end,omitempty"`
}

// RawData is one ad/day/platform/device performance row, the backfill upsert target.
// 복합 유니크 키로 중복 적재 대신 갱신됨.
type RawData struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AdAccountID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_raw_data_key,priority:1;index:idx_raw_data_ad_account_id" json:"ad_account_id"`
	Date         time.Time       `gorm:"type:date;not null;uniqueIndex:uq_raw_data_key,priority:2" json:"date"`
	AdID         string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_raw_data_key,priority:3" json:"ad_id"`
	Platform     string          `gorm:"type:varchar(50);not null;uniqueIndex:uq_raw_data_key,priority:4" json:"platform"`
	Device       string          `gorm:"type:varchar(50);not null;uniqueIndex:uq_raw_data_key,priority:5" json:"device"`
	AdName       string          `gorm:"type:varchar(255)" json:"ad_name"`
	CampaignName string          `gorm:"type:varchar(255)" json:"campaign_name"`
	Impressions  int64           `gorm:"default:0" json:"impressions"`
	Clicks       int64           `gorm:"default:0" json:"clicks"`
	Spend        decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"spend"`
	Conversions  int64           `gorm:"default:0" json:"conversions"`
	CreatedAt    time.Time       `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"type:timestamp;not null;default:now()" json:"updated_at"`
}

// TableName specifies the table name for AdAccount
func (AdAccount) TableName() string {
	return "ad_accounts"
}

// TableName specifies the table name for RawData
func (RawData) TableName() string {
	return "raw_data"
}
