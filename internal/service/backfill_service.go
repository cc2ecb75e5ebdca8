package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
)

const (
	// maxSingleWindowDays is the span up to which one API call covers the
	// whole range
	maxSingleWindowDays = 90
	// backfillWindowDays is the chunk size for longer spans
	backfillWindowDays = 30
	// windowPause throttles consecutive Graph API calls
	windowPause = time.Second
)

// BackfillEventType classifies streamed backfill progress events
type BackfillEventType string

const (
	BackfillEventLog      BackfillEventType = "log"
	BackfillEventProgress BackfillEventType = "progress"
	BackfillEventComplete BackfillEventType = "complete"
	BackfillEventError    BackfillEventType = "error"
)

// BackfillEvent is one progress update streamed while a backfill runs
type BackfillEvent struct {
	Type            BackfillEventType `json:"type"`
	Message         string            `json:"message"`
	Window          int               `json:"window,omitempty"`
	TotalWindows    int               `json:"total_windows,omitempty"`
	RecordsUpserted int               `json:"records_upserted"`
	WindowsFailed   int               `json:"windows_failed"`
}

// BackfillSink receives progress events. Implementations must not block for
// long; a slow sink stalls the collection loop.
type BackfillSink interface {
	Emit(ev BackfillEvent)
}

// BackfillSinkFunc adapts a function to BackfillSink
type BackfillSinkFunc func(ev BackfillEvent)

// Emit calls the wrapped function
func (f BackfillSinkFunc) Emit(ev BackfillEvent) {
	f(ev)
}

// dateWindow is one inclusive [Since, Until] collection range
type dateWindow struct {
	Since time.Time
	Until time.Time
}

// BackfillService collects historical Meta ads performance data
type BackfillService interface {
	// Backfill walks the date range window by window, upserting every
	// returned row. Window failures are reported and skipped; the run only
	// aborts on invalid input, bad account state, or context cancellation.
	Backfill(ctx context.Context, adAccountID, actorID uuid.UUID, start, end time.Time, sink BackfillSink) error
}

// backfillServiceImpl is the implementation of BackfillService
type backfillServiceImpl struct {
	adAccountRepo repository.AdAccountRepository
	metaClient    client.MetaClient
	cipher        tokenDecrypter
	notifier      NotificationService
	metrics       *metrics.Metrics
	logger        *zap.Logger
	pause         time.Duration
}

// tokenDecrypter is the slice of util.TokenCipher the backfill needs
type tokenDecrypter interface {
	Decrypt(encoded string) (string, error)
}

// NewBackfillService creates a new instance of BackfillService
func NewBackfillService(
	adAccountRepo repository.AdAccountRepository,
	metaClient client.MetaClient,
	cipher tokenDecrypter,
	notifier NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) BackfillService {
	return &backfillServiceImpl{
		adAccountRepo: adAccountRepo,
		metaClient:    metaClient,
		cipher:        cipher,
		notifier:      notifier,
		metrics:       m,
		logger:        logger,
		pause:         windowPause,
	}
}

// splitWindows chunks [start, end] into collection windows. Spans up to 90
// days go out as a single call; longer spans are cut into 30-day pieces.
func splitWindows(start, end time.Time) []dateWindow {
	start = truncateToDay(start)
	end = truncateToDay(end)

	spanDays := int(end.Sub(start).Hours()/24) + 1
	if spanDays <= maxSingleWindowDays {
		return []dateWindow{{Since: start, Until: end}}
	}

	var windows []dateWindow
	cur := start
	for !cur.After(end) {
		wEnd := cur.AddDate(0, 0, backfillWindowDays-1)
		if wEnd.After(end) {
			wEnd = end
		}
		windows = append(windows, dateWindow{Since: cur, Until: wEnd})
		cur = wEnd.AddDate(0, 0, 1)
	}
	return windows
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// notifyFailure fires the one best-effort run-failure notification.
// 취소된 요청 컨텍스트 때문에 실패 알림까지 죽지 않도록 취소를 끊어서 넘긴다.
func (s *backfillServiceImpl) notifyFailure(ctx context.Context, actorID uuid.UUID, accountID *uuid.UUID, body string) {
	s.notifier.Notify(context.WithoutCancel(ctx), &domain.Notification{
		TargetUserID: actorID,
		Type:         domain.NotificationBackfillFailed,
		Title:        "데이터 수집 실패",
		Body:         body,
		ResourceType: "ad_account",
		ResourceID:   accountID,
	}, client.OutboundMessage{
		Title: "데이터 수집 실패",
		Body:  body,
	})
}

// Backfill runs the sequential window collection
func (s *backfillServiceImpl) Backfill(ctx context.Context, adAccountID, actorID uuid.UUID, start, end time.Time, sink BackfillSink) error {
	if end.Before(start) {
		s.notifyFailure(ctx, actorID, nil, "수집 기간이 올바르지 않습니다")
		return response.NewAppError(response.ErrCodeValidation, "수집 기간이 올바르지 않습니다", "")
	}

	account, err := s.adAccountRepo.FindByID(ctx, adAccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.notifyFailure(ctx, actorID, nil, "광고 계정을 찾을 수 없습니다")
			return response.NewAppError(response.ErrCodeNotFound, "광고 계정을 찾을 수 없습니다", "")
		}
		s.notifyFailure(ctx, actorID, nil, "광고 계정 조회에 실패했습니다")
		return response.NewAppError(response.ErrCodeInternal, "광고 계정 조회에 실패했습니다", err.Error())
	}
	if account.AuthStatus != domain.AdAccountAuthActive {
		body := fmt.Sprintf("인증 상태(%s)에서는 데이터를 수집할 수 없습니다", account.AuthStatus)
		s.notifyFailure(ctx, actorID, &account.ID, body)
		return response.NewAppError(response.ErrCodeInvalidState, body, "")
	}

	token, err := s.cipher.Decrypt(account.AccessTokenEnc)
	if err != nil {
		s.notifyFailure(ctx, actorID, &account.ID, "토큰 복호화에 실패했습니다")
		return response.NewAppError(response.ErrCodeInternal, "토큰 복호화에 실패했습니다", err.Error())
	}

	windows := splitWindows(start, end)
	sink.Emit(BackfillEvent{
		Type:         BackfillEventLog,
		Message:      fmt.Sprintf("%d개 구간으로 수집을 시작합니다", len(windows)),
		TotalWindows: len(windows),
	})

	upserted := 0
	failed := 0
	for i, w := range windows {
		// 구간 사이에서만 취소를 확인한다
		if err := ctx.Err(); err != nil {
			sink.Emit(BackfillEvent{
				Type:            BackfillEventError,
				Message:         "수집이 중단되었습니다",
				RecordsUpserted: upserted,
				WindowsFailed:   failed,
			})
			s.notifyFailure(ctx, actorID, &account.ID,
				fmt.Sprintf("%s 계정 데이터 수집 중단: %d건 저장 후 중단됨", account.Name, upserted))
			return err
		}
		if i > 0 {
			time.Sleep(s.pause)
		}

		records, err := s.metaClient.GetInsights(ctx, account.MetaAccountID, token, w.Since, w.Until)
		if err != nil {
			failed++
			if s.metrics != nil {
				s.metrics.IncrementBackfillWindowFailed()
			}
			s.logger.Warn("Backfill window failed",
				zap.String("ad_account_id", adAccountID.String()),
				zap.Time("since", w.Since),
				zap.Time("until", w.Until),
				zap.Error(err))
			sink.Emit(BackfillEvent{
				Type:    BackfillEventError,
				Message: fmt.Sprintf("구간 %s~%s 수집 실패: %v", w.Since.Format("2006-01-02"), w.Until.Format("2006-01-02"), err),
				Window:  i + 1, TotalWindows: len(windows),
				RecordsUpserted: upserted,
				WindowsFailed:   failed,
			})
			continue
		}

		saved := s.saveRecords(ctx, account.ID, records)
		upserted += saved
		if s.metrics != nil {
			s.metrics.AddBackfillRecordsUpserted(saved)
		}
		sink.Emit(BackfillEvent{
			Type:    BackfillEventProgress,
			Message: fmt.Sprintf("구간 %d/%d 완료 (%d건 저장)", i+1, len(windows), saved),
			Window:  i + 1, TotalWindows: len(windows),
			RecordsUpserted: upserted,
			WindowsFailed:   failed,
		})
	}

	sink.Emit(BackfillEvent{
		Type:            BackfillEventComplete,
		Message:         fmt.Sprintf("수집 완료: %d건 저장, %d개 구간 실패", upserted, failed),
		TotalWindows:    len(windows),
		RecordsUpserted: upserted,
		WindowsFailed:   failed,
	})

	body := fmt.Sprintf("%s 계정 데이터 수집 완료: %d건 저장, %d개 구간 실패", account.Name, upserted, failed)
	s.notifier.Notify(ctx, &domain.Notification{
		TargetUserID: actorID,
		Type:         domain.NotificationBackfillDone,
		Title:        "데이터 수집 완료",
		Body:         body,
		ResourceType: "ad_account",
		ResourceID:   &account.ID,
	}, client.OutboundMessage{
		Title: "데이터 수집 완료",
		Body:  body,
	})

	return nil
}

// saveRecords upserts one window's rows on the composite key. A bad row is
// logged and skipped, the batch continues.
func (s *backfillServiceImpl) saveRecords(ctx context.Context, adAccountID uuid.UUID, records []client.InsightRecord) int {
	saved := 0
	for _, rec := range records {
		row, err := toRawData(adAccountID, rec)
		if err != nil {
			s.logger.Warn("Skipping malformed insight record",
				zap.String("ad_id", rec.AdID),
				zap.String("date", rec.Date),
				zap.Error(err))
			continue
		}
		if err := s.adAccountRepo.UpsertRawData(ctx, row); err != nil {
			s.logger.Warn("Failed to upsert raw data row",
				zap.String("ad_id", rec.AdID),
				zap.String("date", rec.Date),
				zap.Error(err))
			continue
		}
		saved++
	}
	return saved
}

func toRawData(adAccountID uuid.UUID, rec client.InsightRecord) (*domain.RawData, error) {
	date, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", rec.Date, err)
	}
	spend := decimal.Zero
	if rec.Spend != "" {
		spend, err = decimal.NewFromString(rec.Spend)
		if err != nil {
			return nil, fmt.Errorf("invalid spend %q: %w", rec.Spend, err)
		}
	}
	return &domain.RawData{
		AdAccountID:  adAccountID,
		Date:         date,
		AdID:         rec.AdID,
		Platform:     rec.Platform,
		Device:       rec.Device,
		AdName:       rec.AdName,
		CampaignName: rec.CampaignName,
		Impressions:  rec.Impressions,
		Clicks:       rec.Clicks,
		Spend:        spend,
		Conversions:  rec.Conversions,
	}, nil
}
