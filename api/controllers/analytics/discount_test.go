package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	"github.com/dmcastillo/ofertazo-backend/pkg/db/models"
	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
)

type stubService struct {
	summaryFn    func(context.Context, engagement.Scope, engagement.Filter) (*engagement.Summary, error)
	timeSeriesFn func(context.Context, engagement.Scope, engagement.Filter, enums.Granularity) ([]engagement.TimeBucket, error)
	totalsFn     func(context.Context, engagement.Scope, engagement.Filter) (*engagement.Totals, error)
	topFn        func(context.Context, enums.Action, int, engagement.Filter) ([]engagement.TopDiscount, error)
	recordFn     func(context.Context, engagement.RecordEventInput) (*models.EngagementEvent, bool, error)
}

func (s *stubService) Record(ctx context.Context, input engagement.RecordEventInput) (*models.EngagementEvent, bool, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return &models.EngagementEvent{ID: uuid.New()}, true, nil
}

func (s *stubService) Summary(ctx context.Context, scope engagement.Scope, filter engagement.Filter) (*engagement.Summary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx, scope, filter)
	}
	return &engagement.Summary{}, nil
}

func (s *stubService) Demographics(context.Context, engagement.Scope, engagement.Filter) (*engagement.Demographics, error) {
	return &engagement.Demographics{}, nil
}

func (s *stubService) GroupByDimension(context.Context, engagement.Scope, engagement.Filter, enums.Dimension) ([]engagement.DimensionBucket, error) {
	return nil, nil
}

func (s *stubService) TimeSeries(ctx context.Context, scope engagement.Scope, filter engagement.Filter, g enums.Granularity) ([]engagement.TimeBucket, error) {
	if s.timeSeriesFn != nil {
		return s.timeSeriesFn(ctx, scope, filter, g)
	}
	return nil, nil
}

func (s *stubService) TimeSeriesByAction(context.Context, engagement.Scope, engagement.Filter, enums.Granularity) ([]engagement.ActionTimeBucket, error) {
	return nil, nil
}

func (s *stubService) ActiveTime(context.Context, engagement.Scope, engagement.Filter) (*engagement.ActiveTime, error) {
	return &engagement.ActiveTime{}, nil
}

func (s *stubService) Retention(context.Context, engagement.Scope, engagement.Filter) (*engagement.Retention, error) {
	return &engagement.Retention{}, nil
}

func (s *stubService) Totals(ctx context.Context, scope engagement.Scope, filter engagement.Filter) (*engagement.Totals, error) {
	if s.totalsFn != nil {
		return s.totalsFn(ctx, scope, filter)
	}
	return &engagement.Totals{}, nil
}

func (s *stubService) TopByAction(ctx context.Context, action enums.Action, limit int, filter engagement.Filter) ([]engagement.TopDiscount, error) {
	if s.topFn != nil {
		return s.topFn(ctx, action, limit, filter)
	}
	return nil, nil
}

func discountRouter(handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/v1/discounts/{discountId}/analytics/summary", handler)
	return r
}

func TestDiscountSummaryPassesFilterToService(t *testing.T) {
	discountID := uuid.New()
	ctr := 0.25

	svc := &stubService{
		summaryFn: func(_ context.Context, _ engagement.Scope, filter engagement.Filter) (*engagement.Summary, error) {
			assert.Equal(t, "ios", filter.DeviceType)
			require.NotNil(t, filter.From)
			assert.Equal(t, "2025-03-01T00:00:00Z", filter.From.Format("2006-01-02T15:04:05Z07:00"))
			return &engagement.Summary{
				ByAction: []engagement.ActionCount{{Action: "view", Total: 4}, {Action: "clicked", Total: 1}},
				CTR:      &ctr,
			}, nil
		},
	}

	r := discountRouter(DiscountSummary(svc, nil))
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/discounts/"+discountID.String()+"/analytics/summary?device_type=ios&from=2025-03-01T00:00:00Z", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data engagement.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data.ByAction, 2)
	require.NotNil(t, body.Data.CTR)
	assert.Equal(t, 0.25, *body.Data.CTR)
}

func TestDiscountSummaryRejectsMalformedWindow(t *testing.T) {
	r := discountRouter(DiscountSummary(&stubService{}, nil))

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/discounts/"+uuid.NewString()+"/analytics/summary?from=yesterday", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/discounts/"+uuid.NewString()+"/analytics/summary?from=2025-03-02T00:00:00Z&to=2025-03-01T00:00:00Z", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDiscountTimeSeriesGranularity(t *testing.T) {
	var got enums.Granularity
	svc := &stubService{
		timeSeriesFn: func(_ context.Context, _ engagement.Scope, _ engagement.Filter, g enums.Granularity) ([]engagement.TimeBucket, error) {
			got = g
			return []engagement.TimeBucket{{Bucket: "2025-W10", Total: 3}}, nil
		},
	}

	r := chi.NewRouter()
	r.Get("/api/v1/discounts/{discountId}/analytics/time-series", DiscountTimeSeries(svc, nil))

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/discounts/"+uuid.NewString()+"/analytics/time-series?granularity=week", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.GranularityWeek, got)

	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/discounts/"+uuid.NewString()+"/analytics/time-series?granularity=hourly", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
