package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"polarad-admin-api/internal/domain"
)

// AdAccountRepository defines the interface for ad account and raw data access
type AdAccountRepository interface {
	Create(ctx context.Context, account *domain.AdAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error)
	FindAll(ctx context.Context) ([]*domain.AdAccount, error)
	FindWithExpiredTokens(ctx context.Context, now time.Time) ([]*domain.AdAccount, error)
	Update(ctx context.Context, account *domain.AdAccount) error
	UpsertRawData(ctx context.Context, row *domain.RawData) error
	FindRawData(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*domain.RawData, error)
}

// adAccountRepositoryImpl is the GORM implementation of AdAccountRepository
type adAccountRepositoryImpl struct {
	db *gorm.DB
}

// NewAdAccountRepository creates a new instance of AdAccountRepository
func NewAdAccountRepository(db *gorm.DB) AdAccountRepository {
	return &adAccountRepositoryImpl{db: db}
}

func (r *adAccountRepositoryImpl) Create(ctx context.Context, account *domain.AdAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *adAccountRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error) {
	var account domain.AdAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *adAccountRepositoryImpl) FindAll(ctx context.Context) ([]*domain.AdAccount, error) {
	var accounts []*domain.AdAccount
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindWithExpiredTokens returns accounts still marked ACTIVE whose token expiry passed
func (r *adAccountRepositoryImpl) FindWithExpiredTokens(ctx context.Context, now time.Time) ([]*domain.AdAccount, error) {
	var accounts []*domain.AdAccount
	if err := r.db.WithContext(ctx).
		Where("auth_status = ? AND token_expires_at IS NOT NULL AND token_expires_at < ?",
			domain.AdAccountAuthActive, now).
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *adAccountRepositoryImpl) Update(ctx context.Context, account *domain.AdAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// UpsertRawData writes one metric row keyed by the composite unique constraint;
// re-running a backfill updates metrics in place instead of duplicating rows
func (r *adAccountRepositoryImpl) UpsertRawData(ctx context.Context, row *domain.RawData) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ad_account_id"},
			{Name: "date"},
			{Name: "ad_id"},
			{Name: "platform"},
			{Name: "device"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"ad_name", "campaign_name", "impressions", "clicks", "spend", "conversions", "updated_at",
		}),
	}).Create(row).Error
}

func (r *adAccountRepositoryImpl) FindRawData(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*domain.RawData, error) {
	var rows []*domain.RawData
	if err := r.db.WithContext(ctx).
		Where("ad_account_id = ? AND date >= ? AND date <= ?", accountID, from, to).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
