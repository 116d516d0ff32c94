package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/domain"
	"github.com/stocktrail/stocktrail/internal/models"
)

// SummaryReader is the aggregate data-access interface SummaryService
// depends on.
type SummaryReader interface {
	Totals(ctx context.Context, from, to time.Time) (added, deducted models.QuantityCount, err error)
	TopItems(ctx context.Context, from, to time.Time, direction models.AdjustDirection, limit int) ([]models.ItemTotal, error)
	UserActivity(ctx context.Context, from, to time.Time) ([]models.UserActivity, error)
}

// Compile-time check: *SummaryService must satisfy domain.SummaryService.
var _ domain.SummaryService = (*SummaryService)(nil)

// SummaryService assembles windowed reports from the audit log. It is
// strictly read-only: every number it returns is recomputed from the
// log on demand, never from cached state.
type SummaryService struct {
	reader SummaryReader
	audit  TransactionReader
	log    *logrus.Logger
}

// TransactionReader is the audit query interface used for drill-downs.
type TransactionReader interface {
	QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
}

// NewSummaryService creates a SummaryService.
func NewSummaryService(reader SummaryReader, audit TransactionReader, log *logrus.Logger) *SummaryService {
	return &SummaryService{reader: reader, audit: audit, log: log}
}

// Summarize computes the full report for the closed window [from, to]:
// totals, net change, top-N rankings in both directions, and per-user
// activity. A window with no transactions yields a zero-filled summary.
func (s *SummaryService) Summarize(ctx context.Context, from, to time.Time, topLimit int) (*models.Summary, error) {
	added, deducted, err := s.reader.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	mostAdded, err := s.reader.TopItems(ctx, from, to, models.DirectionAdd, topLimit)
	if err != nil {
		return nil, err
	}

	mostDeducted, err := s.reader.TopItems(ctx, from, to, models.DirectionDeduct, topLimit)
	if err != nil {
		return nil, err
	}

	activity, err := s.reader.UserActivity(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if mostAdded == nil {
		mostAdded = []models.ItemTotal{}
	}
	if mostDeducted == nil {
		mostDeducted = []models.ItemTotal{}
	}
	if activity == nil {
		activity = []models.UserActivity{}
	}

	return &models.Summary{
		StartDate:     from,
		EndDate:       to,
		TotalAdded:    added,
		TotalDeducted: deducted,
		NetChange:     added.Quantity - deducted.Quantity,
		TopItems: models.TopItems{
			MostAdded:    mostAdded,
			MostDeducted: mostDeducted,
		},
		UserActivity: activity,
	}, nil
}

// DrillDown returns the transactions behind a ranking entry: the filter
// carries the summary window plus one key (item id or actor).
func (s *SummaryService) DrillDown(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error) {
	return s.audit.QueryTransactions(ctx, f)
}
