package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
)

func setupAdAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create tables for SQLite compatibility
	db.Exec(`CREATE TABLE ad_accounts (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		name TEXT NOT NULL,
		meta_account_id TEXT,
		access_token_enc TEXT,
		auth_status TEXT NOT NULL DEFAULT 'AUTH_REQUIRED',
		token_expires_at DATETIME,
		service_start DATETIME,
		service_end DATETIME
	)`)

	db.Exec(`CREATE TABLE raw_data (
		id TEXT PRIMARY KEY,
		ad_account_id TEXT NOT NULL,
		date DATETIME NOT NULL,
		ad_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		device TEXT NOT NULL,
		ad_name TEXT,
		campaign_name TEXT,
		impressions INTEGER DEFAULT 0,
		clicks INTEGER DEFAULT 0,
		spend TEXT DEFAULT '0',
		conversions INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (ad_account_id, date, ad_id, platform, device)
	)`)

	return db
}

func newTestAdAccount(status domain.AdAccountAuthStatus, expiresAt *time.Time) *domain.AdAccount {
	return &domain.AdAccount{
		BaseModel:      domain.BaseModel{ID: uuid.New()},
		Name:           "골드핸즈 부동산",
		MetaAccountID:  "act_1234567890",
		AuthStatus:     status,
		TokenExpiresAt: expiresAt,
	}
}

func newTestRawData(accountID uuid.UUID, date time.Time) *domain.RawData {
	return &domain.RawData{
		ID:           uuid.New(),
		AdAccountID:  accountID,
		Date:         date,
		AdID:         "ad-001",
		Platform:     "instagram",
		Device:       "mobile",
		AdName:       "가을 분양 캠페인 A",
		CampaignName: "9월 리드 캠페인",
		Impressions:  1000,
		Clicks:       50,
		Spend:        decimal.NewFromFloat(12345.67),
		Conversions:  3,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestAdAccountRepository_UpsertRawData(t *testing.T) {
	db := setupAdAccountTestDB(t)
	repo := NewAdAccountRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Given: 같은 복합 키의 첫 적재
	first := newTestRawData(accountID, date)
	if err := repo.UpsertRawData(ctx, first); err != nil {
		t.Fatalf("first UpsertRawData() error = %v", err)
	}

	// When: 같은 키로 갱신된 지표를 재적재
	second := newTestRawData(accountID, date)
	second.AdName = "가을 분양 캠페인 A (수정)"
	second.Impressions = 1500
	second.Clicks = 80
	second.Spend = decimal.NewFromFloat(20000.00)
	second.Conversions = 7
	if err := repo.UpsertRawData(ctx, second); err != nil {
		t.Fatalf("second UpsertRawData() error = %v", err)
	}

	// Then: 행이 중복되지 않고 지표가 갱신되어야 한다
	var count int64
	db.Model(&domain.RawData{}).Count(&count)
	if count != 1 {
		t.Fatalf("raw_data count = %d, want 1", count)
	}

	rows, err := repo.FindRawData(ctx, accountID, date, date)
	if err != nil {
		t.Fatalf("FindRawData() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("FindRawData() returned %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Impressions != 1500 || row.Clicks != 80 || row.Conversions != 7 {
		t.Errorf("metrics = (%d, %d, %d), want (1500, 80, 7)", row.Impressions, row.Clicks, row.Conversions)
	}
	if !row.Spend.Equal(decimal.NewFromFloat(20000.00)) {
		t.Errorf("spend = %s, want 20000", row.Spend)
	}
	if row.AdName != "가을 분양 캠페인 A (수정)" {
		t.Errorf("ad_name = %q", row.AdName)
	}
}

func TestAdAccountRepository_UpsertRawData_DistinctKeys(t *testing.T) {
	db := setupAdAccountTestDB(t)
	repo := NewAdAccountRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Given: 같은 광고라도 디바이스가 다르면 별개의 행
	mobile := newTestRawData(accountID, date)
	desktop := newTestRawData(accountID, date)
	desktop.Device = "desktop"

	// When
	if err := repo.UpsertRawData(ctx, mobile); err != nil {
		t.Fatalf("UpsertRawData(mobile) error = %v", err)
	}
	if err := repo.UpsertRawData(ctx, desktop); err != nil {
		t.Fatalf("UpsertRawData(desktop) error = %v", err)
	}

	// Then
	var count int64
	db.Model(&domain.RawData{}).Count(&count)
	if count != 2 {
		t.Errorf("raw_data count = %d, want 2", count)
	}
}

func TestAdAccountRepository_FindWithExpiredTokens(t *testing.T) {
	db := setupAdAccountTestDB(t)
	repo := NewAdAccountRepository(db)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	// Given: 만료 지난 ACTIVE, 유효한 ACTIVE, 만료 지난 TOKEN_EXPIRED, 만료일 미지정 ACTIVE
	expired := newTestAdAccount(domain.AdAccountAuthActive, &past)
	db.Create(expired)
	db.Create(newTestAdAccount(domain.AdAccountAuthActive, &future))
	db.Create(newTestAdAccount(domain.AdAccountAuthTokenExpired, &past))
	db.Create(newTestAdAccount(domain.AdAccountAuthActive, nil))

	// When
	found, err := repo.FindWithExpiredTokens(ctx, now)
	if err != nil {
		t.Fatalf("FindWithExpiredTokens() error = %v", err)
	}

	// Then: ACTIVE 이면서 만료 시각이 지난 계정만 잡혀야 한다
	if len(found) != 1 {
		t.Fatalf("found %d accounts, want 1", len(found))
	}
	if found[0].ID != expired.ID {
		t.Errorf("found account %v, want %v", found[0].ID, expired.ID)
	}
}

func TestAdAccountRepository_FindRawData_Range(t *testing.T) {
	db := setupAdAccountTestDB(t)
	repo := NewAdAccountRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	for day := 1; day <= 5; day++ {
		row := newTestRawData(accountID, time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC))
		row.AdID = "ad-00" + string(rune('0'+day))
		if err := repo.UpsertRawData(ctx, row); err != nil {
			t.Fatalf("UpsertRawData() error = %v", err)
		}
	}
	// 다른 계정의 행은 제외되어야 한다
	other := newTestRawData(uuid.New(), time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC))
	if err := repo.UpsertRawData(ctx, other); err != nil {
		t.Fatalf("UpsertRawData(other) error = %v", err)
	}

	// When: 2일~4일 범위 조회
	rows, err := repo.FindRawData(ctx, accountID,
		time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FindRawData() error = %v", err)
	}

	// Then: 날짜 오름차순 3건
	if len(rows) != 3 {
		t.Fatalf("rows count = %d, want 3", len(rows))
	}
	for i, row := range rows {
		wantDay := i + 2
		if row.Date.Day() != wantDay {
			t.Errorf("rows[%d].date day = %d, want %d", i, row.Date.Day(), wantDay)
		}
	}
}
