package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"polarad-admin-api/internal/domain"
)

// CreateContractRequest is the payload for creating a contract from a package.
// MonthlyFee and SetupFee override the package pricing for this contract
// when present; omitted fields fall back to the package values.
type CreateContractRequest struct {
	UserID         uuid.UUID        `json:"user_id" binding:"required"`
	PackageID      uuid.UUID        `json:"package_id" binding:"required"`
	ContractPeriod int              `json:"contract_period" binding:"required,min=1,max=60"`
	MonthlyFee     *decimal.Decimal `json:"monthly_fee,omitempty"`
	SetupFee       *decimal.Decimal `json:"setup_fee,omitempty"`
	PromoCode      string           `json:"promo_code" binding:"max=50"`
}

// RejectContractRequest carries the mandatory rejection reason
type RejectContractRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ActivateContractRequest sets the billing period start
type ActivateContractRequest struct {
	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
}

// ContractResponse is the API representation of a contract
type ContractResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	PackageID       uuid.UUID              `json:"package_id"`
	PackageName     string                 `json:"package_name,omitempty"`
	ContractNumber  string                 `json:"contract_number"`
	Status          domain.ContractStatus  `json:"status"`
	ContractPeriod  int                    `json:"contract_period"`
	MonthlyFee      decimal.Decimal        `json:"monthly_fee"`
	SetupFee        decimal.Decimal        `json:"setup_fee"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	PromoCode       string                 `json:"promo_code,omitempty"`
	StartDate       *time.Time             `json:"start_date,omitempty"`
	EndDate         *time.Time             `json:"end_date,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	RejectedAt      *time.Time             `json:"rejected_at,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	Logs            []*ContractLogResponse `json:"logs,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ContractLogResponse is one entry of the contract status history
type ContractLogResponse struct {
	ID         uuid.UUID              `json:"id"`
	FromStatus *domain.ContractStatus `json:"from_status"`
	ToStatus   domain.ContractStatus  `json:"to_status"`
	ChangedBy  uuid.UUID              `json:"changed_by"`
	Note       string                 `json:"note,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ToContractResponse converts a domain model to its API representation
func ToContractResponse(c *domain.Contract) *ContractResponse {
	resp := &ContractResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		PackageID:       c.PackageID,
		PackageName:     c.Package.Name,
		ContractNumber:  c.ContractNumber,
		Status:          c.Status,
		ContractPeriod:  c.ContractPeriod,
		MonthlyFee:      c.MonthlyFee,
		SetupFee:        c.SetupFee,
		TotalAmount:     c.TotalAmount,
		PromoCode:       c.PromoCode,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		ApprovedAt:      c.ApprovedAt,
		RejectedAt:      c.RejectedAt,
		RejectionReason: c.RejectionReason,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for i := range c.Logs {
		l := &c.Logs[i]
		resp.Logs = append(resp.Logs, &ContractLogResponse{
			ID:         l.ID,
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			ChangedBy:  l.ChangedBy,
			Note:       l.Note,
			CreatedAt:  l.CreatedAt,
		})
	}
	return resp
}

// ContractListResponse is a paginated contract list
type ContractListResponse struct {
	Contracts []*ContractResponse `json:"contracts"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
}

// CreatePackageRequest is the payload for registering a service plan
type CreatePackageRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee" binding:"required"`
	SetupFee    decimal.Decimal `json:"setup_fee"`
}

// UpdatePackageRequest is the payload for editing a service plan
type UpdatePackageRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string          `json:"description,omitempty"`
	MonthlyFee  *decimal.Decimal `json:"monthly_fee,omitempty"`
	SetupFee    *decimal.Decimal `json:"setup_fee,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// PackageResponse is the API representation of a service plan
type PackageResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	SetupFee    decimal.Decimal `json:"setup_fee"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPackageResponse converts a domain model to its API representation
func ToPackageResponse(p *domain.Package) *PackageResponse {
	return &PackageResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		MonthlyFee:  p.MonthlyFee,
		SetupFee:    p.SetupFee,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
