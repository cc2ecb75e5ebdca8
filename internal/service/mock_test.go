package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
)

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	CreateFunc       func(ctx context.Context, submission *domain.Submission) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	FindByUserIDFunc func(ctx context.Context, userID uuid.UUID) (*domain.Submission, error)
	FindByStatusFunc func(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error)
	UpdateFunc       func(ctx context.Context, submission *domain.Submission) error
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, submission)
	}
	return nil
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSubmissionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Submission, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSubmissionRepository) FindByStatus(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status, page, limit)
	}
	return nil, 0, nil
}

func (m *MockSubmissionRepository) Update(ctx context.Context, submission *domain.Submission) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, submission)
	}
	return nil
}

// MockWorkflowRepository is a mock implementation of WorkflowRepository
type MockWorkflowRepository struct {
	CreateFunc              func(ctx context.Context, workflow *domain.Workflow, initialLog *domain.WorkflowLog) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	FindByIDWithLogsFunc    func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	FindByUserIDFunc        func(ctx context.Context, userID uuid.UUID) ([]*domain.Workflow, error)
	FindTypesByUserIDFunc   func(ctx context.Context, userID uuid.UUID) (map[domain.WorkflowType]bool, error)
	FindByStatusFunc        func(ctx context.Context, status domain.WorkflowStatus, page, limit int) ([]*domain.Workflow, int64, error)
	UpdateStatusWithLogFunc func(ctx context.Context, workflowID uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error
}

func (m *MockWorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow, initialLog *domain.WorkflowLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, workflow, initialLog)
	}
	return nil
}

func (m *MockWorkflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) FindByIDWithLogs(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	if m.FindByIDWithLogsFunc != nil {
		return m.FindByIDWithLogsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workflow, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) FindTypesByUserID(ctx context.Context, userID uuid.UUID) (map[domain.WorkflowType]bool, error) {
	if m.FindTypesByUserIDFunc != nil {
		return m.FindTypesByUserIDFunc(ctx, userID)
	}
	return map[domain.WorkflowType]bool{}, nil
}

func (m *MockWorkflowRepository) FindByStatus(ctx context.Context, status domain.WorkflowStatus, page, limit int) ([]*domain.Workflow, int64, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status, page, limit)
	}
	return nil, 0, nil
}

func (m *MockWorkflowRepository) UpdateStatusWithLog(ctx context.Context, workflowID uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
	if m.UpdateStatusWithLogFunc != nil {
		return m.UpdateStatusWithLogFunc(ctx, workflowID, updates, log)
	}
	return nil
}

// MockDesignRepository is a mock implementation of DesignRepository
type MockDesignRepository struct {
	CreateFunc                 func(ctx context.Context, design *domain.Design) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Design, error)
	FindByIDWithVersionsFunc   func(ctx context.Context, id uuid.UUID) (*domain.Design, error)
	FindByWorkflowIDFunc       func(ctx context.Context, workflowID uuid.UUID) (*domain.Design, error)
	UpdateFunc                 func(ctx context.Context, design *domain.Design) error
	AppendVersionFunc          func(ctx context.Context, designID uuid.UUID, version *domain.DesignVersion) error
	FindVersionByIDFunc        func(ctx context.Context, versionID uuid.UUID) (*domain.DesignVersion, error)
	AppendFeedbackFunc         func(ctx context.Context, feedback *domain.DesignFeedback) error
	FindFeedbacksByVersionFunc func(ctx context.Context, versionID uuid.UUID) ([]*domain.DesignFeedback, error)
}

func (m *MockDesignRepository) Create(ctx context.Context, design *domain.Design) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, design)
	}
	return nil
}

func (m *MockDesignRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDesignRepository) FindByIDWithVersions(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	if m.FindByIDWithVersionsFunc != nil {
		return m.FindByIDWithVersionsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDesignRepository) FindByWorkflowID(ctx context.Context, workflowID uuid.UUID) (*domain.Design, error) {
	if m.FindByWorkflowIDFunc != nil {
		return m.FindByWorkflowIDFunc(ctx, workflowID)
	}
	return nil, nil
}

func (m *MockDesignRepository) Update(ctx context.Context, design *domain.Design) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, design)
	}
	return nil
}

func (m *MockDesignRepository) AppendVersion(ctx context.Context, designID uuid.UUID, version *domain.DesignVersion) error {
	if m.AppendVersionFunc != nil {
		return m.AppendVersionFunc(ctx, designID, version)
	}
	return nil
}

func (m *MockDesignRepository) FindVersionByID(ctx context.Context, versionID uuid.UUID) (*domain.DesignVersion, error) {
	if m.FindVersionByIDFunc != nil {
		return m.FindVersionByIDFunc(ctx, versionID)
	}
	return nil, nil
}

func (m *MockDesignRepository) AppendFeedback(ctx context.Context, feedback *domain.DesignFeedback) error {
	if m.AppendFeedbackFunc != nil {
		return m.AppendFeedbackFunc(ctx, feedback)
	}
	return nil
}

func (m *MockDesignRepository) FindFeedbacksByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.DesignFeedback, error) {
	if m.FindFeedbacksByVersionFunc != nil {
		return m.FindFeedbacksByVersionFunc(ctx, versionID)
	}
	return nil, nil
}

// MockContractRepository is a mock implementation of ContractRepository
type MockContractRepository struct {
	CreateWithNumberFunc      func(ctx context.Context, contract *domain.Contract, initialLog *domain.ContractLog) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	FindByIDWithLogsFunc      func(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	FindByUserIDFunc          func(ctx context.Context, userID uuid.UUID) ([]*domain.Contract, error)
	FindByStatusFunc          func(ctx context.Context, status domain.ContractStatus, page, limit int) ([]*domain.Contract, int64, error)
	FindActivePastEndDateFunc func(ctx context.Context, now time.Time) ([]*domain.Contract, error)
	UpdateStatusWithLogFunc   func(ctx context.Context, contractID uuid.UUID, updates map[string]interface{}, log *domain.ContractLog) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
}

func (m *MockContractRepository) CreateWithNumber(ctx context.Context, contract *domain.Contract, initialLog *domain.ContractLog) error {
	if m.CreateWithNumberFunc != nil {
		return m.CreateWithNumberFunc(ctx, contract, initialLog)
	}
	return nil
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockContractRepository) FindByIDWithLogs(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	if m.FindByIDWithLogsFunc != nil {
		return m.FindByIDWithLogsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockContractRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Contract, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockContractRepository) FindByStatus(ctx context.Context, status domain.ContractStatus, page, limit int) ([]*domain.Contract, int64, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status, page, limit)
	}
	return nil, 0, nil
}

func (m *MockContractRepository) FindActivePastEndDate(ctx context.Context, now time.Time) ([]*domain.Contract, error) {
	if m.FindActivePastEndDateFunc != nil {
		return m.FindActivePastEndDateFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockContractRepository) UpdateStatusWithLog(ctx context.Context, contractID uuid.UUID, updates map[string]interface{}, log *domain.ContractLog) error {
	if m.UpdateStatusWithLogFunc != nil {
		return m.UpdateStatusWithLogFunc(ctx, contractID, updates, log)
	}
	return nil
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPackageRepository is a mock implementation of PackageRepository
type MockPackageRepository struct {
	CreateFunc     func(ctx context.Context, pkg *domain.Package) error
	FindByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	FindActiveFunc func(ctx context.Context) ([]*domain.Package, error)
	UpdateFunc     func(ctx context.Context, pkg *domain.Package) error
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pkg)
	}
	return nil
}

func (m *MockPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPackageRepository) FindActive(ctx context.Context) ([]*domain.Package, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return nil, nil
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, pkg)
	}
	return nil
}

// MockAdAccountRepository is a mock implementation of AdAccountRepository
type MockAdAccountRepository struct {
	CreateFunc                func(ctx context.Context, account *domain.AdAccount) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error)
	FindAllFunc               func(ctx context.Context) ([]*domain.AdAccount, error)
	FindWithExpiredTokensFunc func(ctx context.Context, now time.Time) ([]*domain.AdAccount, error)
	UpdateFunc                func(ctx context.Context, account *domain.AdAccount) error
	UpsertRawDataFunc         func(ctx context.Context, row *domain.RawData) error
	FindRawDataFunc           func(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*domain.RawData, error)
}

func (m *MockAdAccountRepository) Create(ctx context.Context, account *domain.AdAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil
}

func (m *MockAdAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAdAccountRepository) FindAll(ctx context.Context) ([]*domain.AdAccount, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockAdAccountRepository) FindWithExpiredTokens(ctx context.Context, now time.Time) ([]*domain.AdAccount, error) {
	if m.FindWithExpiredTokensFunc != nil {
		return m.FindWithExpiredTokensFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockAdAccountRepository) Update(ctx context.Context, account *domain.AdAccount) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	return nil
}

func (m *MockAdAccountRepository) UpsertRawData(ctx context.Context, row *domain.RawData) error {
	if m.UpsertRawDataFunc != nil {
		return m.UpsertRawDataFunc(ctx, row)
	}
	return nil
}

func (m *MockAdAccountRepository) FindRawData(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*domain.RawData, error) {
	if m.FindRawDataFunc != nil {
		return m.FindRawDataFunc(ctx, accountID, from, to)
	}
	return nil, nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	CreateFunc       func(ctx context.Context, notification *domain.Notification) error
	FindByUserIDFunc func(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) ([]*domain.Notification, int64, error)
	MarkAsReadFunc   func(ctx context.Context, id, userID uuid.UUID) error
	UnreadCountFunc  func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, notification)
	}
	return nil
}

func (m *MockNotificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) ([]*domain.Notification, int64, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID, page, limit, unreadOnly)
	}
	return nil, 0, nil
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, id, userID)
	}
	return nil
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

// MockMetaClient is a mock implementation of client.MetaClient
type MockMetaClient struct {
	GetInsightsFunc   func(ctx context.Context, accountID, token string, since, until time.Time) ([]client.InsightRecord, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*client.TokenInfo, error)
}

func (m *MockMetaClient) GetInsights(ctx context.Context, accountID, token string, since, until time.Time) ([]client.InsightRecord, error) {
	if m.GetInsightsFunc != nil {
		return m.GetInsightsFunc(ctx, accountID, token, since, until)
	}
	return nil, nil
}

func (m *MockMetaClient) ValidateToken(ctx context.Context, token string) (*client.TokenInfo, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, nil
}

// MockChannel is a mock implementation of client.Channel
type MockChannel struct {
	NameValue string
	SendFunc  func(ctx context.Context, msg client.OutboundMessage) error
}

func (m *MockChannel) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *MockChannel) Send(ctx context.Context, msg client.OutboundMessage) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

// MockNotifier is a mock implementation of NotificationService
type MockNotifier struct {
	NotifyFunc     func(ctx context.Context, notification *domain.Notification, msg client.OutboundMessage)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) (*dto.NotificationListResponse, error)
	MarkAsReadFunc func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *MockNotifier) Notify(ctx context.Context, notification *domain.Notification, msg client.OutboundMessage) {
	if m.NotifyFunc != nil {
		m.NotifyFunc(ctx, notification, msg)
	}
}

func (m *MockNotifier) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) (*dto.NotificationListResponse, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, page, limit, unreadOnly)
	}
	return nil, nil
}

func (m *MockNotifier) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, id, userID)
	}
	return nil
}

// MockReconciler is a mock implementation of WorkflowReconciler
type MockReconciler struct {
	OnDesignStatusChangedFunc func(ctx context.Context, ev DesignStatusEvent) error
}

func (m *MockReconciler) OnDesignStatusChanged(ctx context.Context, ev DesignStatusEvent) error {
	if m.OnDesignStatusChangedFunc != nil {
		return m.OnDesignStatusChangedFunc(ctx, ev)
	}
	return nil
}

// mockDecrypter is a pass-through token decrypter
type mockDecrypter struct {
	DecryptFunc func(encoded string) (string, error)
}

func (m *mockDecrypter) Decrypt(encoded string) (string, error) {
	if m.DecryptFunc != nil {
		return m.DecryptFunc(encoded)
	}
	return encoded, nil
}
