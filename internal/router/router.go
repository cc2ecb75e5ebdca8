package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	// swaggerFiles "github.com/swaggo/files"
	// ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/config"
	"polarad-admin-api/internal/handler"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/middleware"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/service"
	"polarad-admin-api/internal/util"
)

// Deps carries the services the router and the cron scheduler share
type Deps struct {
	ContractService  service.ContractService
	AdAccountService service.AdAccountService
}

// Setup wires repositories, services and handlers into a gin engine
func Setup(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, cipher *util.TokenCipher, logger *zap.Logger) (*gin.Engine, *Deps) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(m))

	// Initialize repositories
	submissionRepo := repository.NewSubmissionRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	designRepo := repository.NewDesignRepository(db)
	contractRepo := repository.NewContractRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	adAccountRepo := repository.NewAdAccountRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize outbound clients
	metaClient := client.NewMetaClient(cfg.Meta.BaseURL, cfg.Meta.Timeout, logger, m)
	channels := buildChannels(cfg, logger, m)

	// Initialize services
	notifier := service.NewNotificationService(notificationRepo, channels, m, logger)
	reconciler := service.NewWorkflowReconciler(workflowRepo, m, logger)
	submissionService := service.NewSubmissionService(submissionRepo, workflowRepo, notifier, m, logger)
	workflowService := service.NewWorkflowService(workflowRepo, notifier, m, logger)
	designService := service.NewDesignService(designRepo, workflowRepo, reconciler, notifier, m, logger)
	contractService := service.NewContractService(contractRepo, packageRepo, notifier, m, logger)
	packageService := service.NewPackageService(packageRepo, logger)
	adAccountService := service.NewAdAccountService(adAccountRepo, metaClient, cipher, logger)
	backfillService := service.NewBackfillService(adAccountRepo, metaClient, cipher, notifier, m, logger)

	// Initialize handlers
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	workflowHandler := handler.NewWorkflowHandler(workflowService)
	designHandler := handler.NewDesignHandler(designService)
	contractHandler := handler.NewContractHandler(contractService)
	packageHandler := handler.NewPackageHandler(packageService)
	adAccountHandler := handler.NewAdAccountHandler(adAccountService, backfillService, logger)
	notificationHandler := handler.NewNotificationHandler(notifier)
	healthHandler := handler.NewHealthHandler()

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation (disabled for faster builds)
	// r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes with base path
	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// Authenticated admin routes
		admin := api.Group("")
		admin.Use(middleware.Auth(cfg.JWT.Secret))
		admin.Use(middleware.RequireRole(cfg.Server.BasePath))
		{
			admin.POST("/submissions", submissionHandler.CreateSubmission)
			admin.GET("/submissions", submissionHandler.ListSubmissions)
			admin.GET("/submissions/:id", submissionHandler.GetSubmission)
			admin.POST("/submissions/:id/submit", submissionHandler.Submit)
			admin.POST("/submissions/:id/review", submissionHandler.StartReview)
			admin.POST("/submissions/:id/approve", submissionHandler.Approve)
			admin.POST("/submissions/:id/reject", submissionHandler.Reject)

			admin.GET("/workflows", workflowHandler.ListByStatus)
			admin.GET("/workflows/user/:userId", workflowHandler.ListByUser)
			admin.GET("/workflows/:id", workflowHandler.GetWorkflow)
			admin.PATCH("/workflows/:id/status", workflowHandler.SetStatus)

			admin.GET("/designs/workflow/:workflowId", designHandler.GetOrCreateByWorkflow)
			admin.GET("/designs/:id", designHandler.GetDesign)
			admin.POST("/designs/:id/versions", designHandler.UploadVersion)
			admin.POST("/designs/:id/request-review", designHandler.RequestReview)
			admin.POST("/designs/:id/request-revision", designHandler.RequestRevision)
			admin.POST("/designs/:id/reset", designHandler.ResetToDraft)
			admin.POST("/designs/:id/approve", designHandler.Approve)
			admin.POST("/designs/feedbacks", designHandler.RecordFeedback)

			admin.POST("/contracts", contractHandler.CreateContract)
			admin.GET("/contracts", contractHandler.ListByStatus)
			admin.GET("/contracts/user/:userId", contractHandler.ListByUser)
			admin.GET("/contracts/:id", contractHandler.GetContract)
			admin.POST("/contracts/:id/submit", contractHandler.Submit)
			admin.POST("/contracts/:id/approve", contractHandler.Approve)
			admin.POST("/contracts/:id/reject", contractHandler.Reject)
			admin.POST("/contracts/:id/activate", contractHandler.Activate)
			admin.POST("/contracts/:id/cancel", contractHandler.Cancel)
			admin.DELETE("/contracts/:id", contractHandler.DeleteContract)

			admin.POST("/packages", packageHandler.CreatePackage)
			admin.GET("/packages", packageHandler.ListPackages)
			admin.GET("/packages/:id", packageHandler.GetPackage)
			admin.PATCH("/packages/:id", packageHandler.UpdatePackage)

			admin.POST("/ad-accounts", adAccountHandler.CreateAdAccount)
			admin.GET("/ad-accounts", adAccountHandler.ListAdAccounts)
			admin.GET("/ad-accounts/:id", adAccountHandler.GetAdAccount)
			admin.POST("/ad-accounts/:id/connect", adAccountHandler.Connect)
			admin.GET("/ad-accounts/:id/raw-data", adAccountHandler.ListRawData)
			admin.POST("/ad-accounts/:id/backfill", adAccountHandler.Backfill)

			admin.GET("/notifications/user/:userId", notificationHandler.ListByUser)
			admin.POST("/notifications/user/:userId/:id/read", notificationHandler.MarkAsRead)
		}
	}

	return r, &Deps{
		ContractService:  contractService,
		AdAccountService: adAccountService,
	}
}

// buildChannels assembles the enabled notification channels
func buildChannels(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) []client.Channel {
	var channels []client.Channel
	if cfg.Channels.Telegram.Enabled {
		channels = append(channels, client.NewTelegramClient(
			cfg.Channels.Telegram.BotToken, cfg.Channels.Telegram.AdminChat, logger, m))
	}
	if cfg.Channels.Slack.Enabled {
		channels = append(channels, client.NewSlackClient(
			cfg.Channels.Slack.BotToken, cfg.Channels.Slack.Channel, logger, m))
	}
	if cfg.Channels.Email.Enabled {
		channels = append(channels, client.NewEmailClient(client.SMTPConfig{
			Host:     cfg.Channels.Email.Host,
			Port:     cfg.Channels.Email.Port,
			Username: cfg.Channels.Email.Username,
			Password: cfg.Channels.Email.Password,
			From:     cfg.Channels.Email.From,
		}, logger))
	}
	if cfg.Channels.SMS.Enabled {
		channels = append(channels, client.NewSMSClient(client.SENSConfig{
			ServiceID: cfg.Channels.SMS.ServiceID,
			AccessKey: cfg.Channels.SMS.AccessKey,
			SecretKey: cfg.Channels.SMS.SecretKey,
			From:      cfg.Channels.SMS.CallerID,
		}, logger, m))
	}
	return channels
}
