package services

import (
	"context"
	"time"

	"civic-feedback-server/models"
)

// DashboardQuery is everything a dashboard view depends on besides the data
type DashboardQuery struct {
	Criteria models.FilterCriteria
	Table    TableView
}

// BuildDashboard filters once and derives every view from the same subset
func BuildDashboard(records []models.Feedback, query DashboardQuery, now time.Time) (models.Dashboard, error) {
	filtered := FilterFeedback(records, query.Criteria, now)

	stats, err := AggregateStats(filtered)
	if err != nil {
		return models.Dashboard{}, err
	}

	table, err := query.Table.Render(filtered)
	if err != nil {
		return models.Dashboard{}, err
	}

	return models.Dashboard{
		Criteria:       query.Criteria,
		Stats:          stats,
		Table:          table,
		SentimentChart: RenderSentimentDonut(stats),
		ServiceChart:   RenderServiceRatingsBar(filtered),
		LocationMap:    RenderLocationMap(filtered),
		GeneratedAt:    now,
	}, nil
}

// DashboardService loads feedback from a store and builds dashboard views
type DashboardService struct {
	store    FeedbackStore
	now      func() time.Time
	pageSize int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store FeedbackStore, pageSize int) *DashboardService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &DashboardService{store: store, now: time.Now, pageSize: pageSize}
}

// WithClock replaces the time source, used by tests
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// DefaultTable returns a fresh table state with the configured page size
func (s *DashboardService) DefaultTable() TableView {
	return NewTableView(s.pageSize)
}

// Store exposes the underlying feedback store
func (s *DashboardService) Store() FeedbackStore {
	return s.store
}

// Build loads the current feedback and renders the dashboard for query
func (s *DashboardService) Build(ctx context.Context, query DashboardQuery) (models.Dashboard, error) {
	records, err := s.store.GetAllFeedback(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	return s.BuildFrom(records, query)
}

// BuildFrom renders query over records already loaded from the store, so
// one fetch can serve many sessions
func (s *DashboardService) BuildFrom(records []models.Feedback, query DashboardQuery) (models.Dashboard, error) {
	if query.Table.PageSize <= 0 {
		query.Table.PageSize = s.pageSize
	}
	return BuildDashboard(records, query, s.now())
}
