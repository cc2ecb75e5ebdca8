package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the lifecycle status of a billing contract
type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusSubmitted ContractStatus = "SUBMITTED"
	ContractStatusApproved  ContractStatus = "APPROVED"
	ContractStatusRejected  ContractStatus = "REJECTED"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusExpired   ContractStatus = "EXPIRED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// contractTransitions: REJECTED/EXPIRED/CANCELLED 는 종료 상태
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusPending:   {ContractStatusSubmitted},
	ContractStatusSubmitted: {ContractStatusApproved, ContractStatusRejected},
	ContractStatusApproved:  {ContractStatusActive},
	ContractStatusActive:    {ContractStatusExpired},
}

// IsTerminal reports whether the contract status is final
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusRejected || s == ContractStatusExpired || s == ContractStatusCancelled
}

// CanTransition reports whether a contract may move from one status to another.
// Any non-terminal status may be cancelled.
func (s ContractStatus) CanTransition(to ContractStatus) bool {
	if to == ContractStatusCancelled {
		return !s.IsTerminal()
	}
	for _, next := range contractTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Package is a service plan contracts are priced from
type Package struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	MonthlyFee  decimal.Decimal `gorm:"type:numeric(12,0);not null" json:"monthly_fee"`
	SetupFee    decimal.Decimal `gorm:"type:numeric(12,0);not null" json:"setup_fee"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
}

// Contract represents a billing agreement with a client
type Contract struct {
	BaseModel
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_contracts_user_id" json:"user_id"`
	PackageID       uuid.UUID       `gorm:"type:uuid;not null" json:"package_id"`
	ContractNumber  string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_contracts_number" json:"contract_number"`
	Status          ContractStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_contracts_status" json:"status"`
	ContractPeriod  int             `gorm:"not null" json:"contract_period"`
	MonthlyFee      decimal.Decimal `gorm:"type:numeric(12,0);not null" json:"monthly_fee"`
	SetupFee        decimal.Decimal `gorm:"type:numeric(12,0);not null" json:"setup_fee"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,0);not null" json:"total_amount"`
	PromoCode       string          `gorm:"type:varchar(50)" json:"promo_code,omitempty"`
	StartDate       *time.Time      `gorm:"type:date" json:"start_date,omitempty"`
	EndDate         *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	ApprovedAt      *time.Time      `gorm:"type:timestamp" json:"approved_at,omitempty"`
	RejectedAt      *time.Time      `gorm:"type:timestamp" json:"rejected_at,omitempty"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	Package         Package         `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Logs            []ContractLog   `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
}

// ContractLog records a single contract status change, append-only
type ContractLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ContractID uuid.UUID       `gorm:"type:uuid;not null;index:idx_contract_logs_contract_id" json:"contract_id"`
	FromStatus *ContractStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   ContractStatus  `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  uuid.UUID       `gorm:"type:uuid;not null" json:"changed_by"`
	Note       string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time       `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

// DailySequence backs per-day sequential numbering with an atomic upsert,
// replacing the read-count-then-format approach that raced under concurrency
type DailySequence struct {
	SeqDate string `gorm:"type:varchar(8);primaryKey" json:"seq_date"`
	Kind    string `gorm:"type:varchar(20);primaryKey" json:"kind"`
	Count   int    `gorm:"not null;default:0" json:"count"`
}

// TableName specifies the table name for Package
func (Package) TableName() string {
	return "packages"
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// TableName specifies the table name for ContractLog
func (ContractLog) TableName() string {
	return "contract_logs"
}

// TableName specifies the table name for DailySequence
func (DailySequence) TableName() string {
	return "daily_sequences"
}
