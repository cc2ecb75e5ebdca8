package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
)

// ErrPendingContractExists is returned when the user already has a PENDING contract
var ErrPendingContractExists = errors.New("user already has a pending contract")

// SequenceKindContract names the daily sequence used for contract numbering
const SequenceKindContract = "CONTRACT"

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	CreateWithNumber(ctx context.Context, contract *domain.Contract, initialLog *domain.ContractLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	FindByIDWithLogs(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Contract, error)
	FindByStatus(ctx context.Context, status domain.ContractStatus, page, limit int) ([]*domain.Contract, int64, error)
	FindActivePastEndDate(ctx context.Context, now time.Time) ([]*domain.Contract, error)
	UpdateStatusWithLog(ctx context.Context, contractID uuid.UUID, updates map[string]interface{}, log *domain.ContractLog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// contractRepositoryImpl is the GORM implementation of ContractRepository
type contractRepositoryImpl struct {
	db *gorm.DB
}

// NewContractRepository creates a new instance of ContractRepository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepositoryImpl{db: db}
}

// nextSequence atomically increments and returns the per-day counter.
// 읽고-세고-쓰는 방식 대신 단일 upsert 로 동시 생성에도 중복이 없다.
func nextSequence(tx *gorm.DB, seqDate, kind string) (int, error) {
	var count int
	err := tx.Raw(`
		INSERT INTO daily_sequences (seq_date, kind, count) VALUES (?, ?, 1)
		ON CONFLICT (seq_date, kind) DO UPDATE SET count = daily_sequences.count + 1
		RETURNING count`,
		seqDate, kind,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FormatContractNumber renders the YYYYMMDD-XXXX contract number
func FormatContractNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", day.Format("20060102"), seq)
}

// CreateWithNumber inserts the contract with a race-free daily sequence number,
// the single-pending-per-user check, and the initial log row, all in one transaction
func (r *contractRepositoryImpl) CreateWithNumber(ctx context.Context, contract *domain.Contract, initialLog *domain.ContractLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&domain.Contract{}).
			Where("user_id = ? AND status = ?", contract.UserID, domain.ContractStatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingContractExists
		}

		now := time.Now()
		seq, err := nextSequence(tx, now.Format("20060102"), SequenceKindContract)
		if err != nil {
			return err
		}
		contract.ContractNumber = FormatContractNumber(now, seq)

		if err := tx.Create(contract).Error; err != nil {
			return err
		}

		initialLog.ContractID = contract.ID
		return tx.Create(initialLog).Error
	})
}

func (r *contractRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepositoryImpl) FindByIDWithLogs(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.db.WithContext(ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("contract_logs.created_at ASC")
		}).
		First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Contract, error) {
	var contracts []*domain.Contract
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepositoryImpl) FindByStatus(ctx context.Context, status domain.ContractStatus, page, limit int) ([]*domain.Contract, int64, error) {
	var contracts []*domain.Contract
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Contract{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contracts).Error; err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

// FindActivePastEndDate returns ACTIVE contracts whose end date has passed
func (r *contractRepositoryImpl) FindActivePastEndDate(ctx context.Context, now time.Time) ([]*domain.Contract, error) {
	var contracts []*domain.Contract
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", domain.ContractStatusActive, now).
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// UpdateStatusWithLog mirrors the workflow helper: row update plus log append
// inside one transaction
func (r *contractRepositoryImpl) UpdateStatusWithLog(ctx context.Context, contractID uuid.UUID, updates map[string]interface{}, log *domain.ContractLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Contract{}).
			Where("id = ?", contractID).
			Updates(updates).Error; err != nil {
			return err
		}
		log.ContractID = contractID
		return tx.Create(log).Error
	})
}

// Delete hard-deletes the contract and its logs
func (r *contractRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", id).Delete(&domain.ContractLog{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&domain.Contract{}, "id = ?", id).Error
	})
}
