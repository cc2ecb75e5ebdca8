package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"polarad-admin-api/internal/service"
)

// ContractExpiryJob sweeps ACTIVE contracts past their end date to EXPIRED
type ContractExpiryJob struct {
	contractService service.ContractService
	logger          *zap.Logger
}

// NewContractExpiryJob creates a new ContractExpiryJob instance
func NewContractExpiryJob(contractService service.ContractService, logger *zap.Logger) *ContractExpiryJob {
	return &ContractExpiryJob{
		contractService: contractService,
		logger:          logger,
	}
}

// Run executes the contract expiry sweep
func (j *ContractExpiryJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting contract expiry sweep")

	expired, err := j.contractService.ExpireOverdue(ctx, time.Now())
	if err != nil {
		j.logger.Error("Contract expiry sweep failed", zap.Error(err))
		return
	}

	if expired > 0 {
		j.logger.Info("Contract expiry sweep completed",
			zap.Int("expired", expired),
		)
	}
}
