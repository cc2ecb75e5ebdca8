package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"polarad-admin-api/internal/service"
)

// TokenExpiryJob marks ad accounts whose Meta access token has expired
type TokenExpiryJob struct {
	adAccountService service.AdAccountService
	logger           *zap.Logger
}

// NewTokenExpiryJob creates a new TokenExpiryJob instance
func NewTokenExpiryJob(adAccountService service.AdAccountService, logger *zap.Logger) *TokenExpiryJob {
	return &TokenExpiryJob{
		adAccountService: adAccountService,
		logger:           logger,
	}
}

// Run executes the token expiry sweep
func (j *TokenExpiryJob) Run() {
	ctx := context.Background()

	marked, err := j.adAccountService.MarkExpiredTokens(ctx, time.Now())
	if err != nil {
		j.logger.Error("Token expiry sweep failed", zap.Error(err))
		return
	}

	if marked > 0 {
		j.logger.Info("Token expiry sweep completed",
			zap.Int("marked", marked),
		)
	}
}
