package analytics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maikimilk/KyuyoBiyori/internal/analytics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAnalyticsService struct {
	summaryFn   func(ctx context.Context) (analytics.SummaryResponse, error)
	statsFn     func(ctx context.Context, req analytics.StatsRequest) (analytics.StatsResponse, error)
	breakdownFn func(ctx context.Context, req analytics.BreakdownRequest) ([]analytics.BreakdownEntry, error)
}

func (f *fakeAnalyticsService) Summary(ctx context.Context) (analytics.SummaryResponse, error) {
	if f.summaryFn != nil {
		return f.summaryFn(ctx)
	}
	return analytics.SummaryResponse{}, nil
}

func (f *fakeAnalyticsService) Stats(ctx context.Context, req analytics.StatsRequest) (analytics.StatsResponse, error) {
	if f.statsFn != nil {
		return f.statsFn(ctx, req)
	}
	return analytics.StatsResponse{}, nil
}

func (f *fakeAnalyticsService) Breakdown(ctx context.Context, req analytics.BreakdownRequest) ([]analytics.BreakdownEntry, error) {
	if f.breakdownFn != nil {
		return f.breakdownFn(ctx, req)
	}
	return nil, nil
}

func setupAnalyticsRouter(svc analytics.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	analytics.RegisterRoutes(api, analytics.NewHandler(svc))
	return router
}

func TestStatsHandlerPassesQuery(t *testing.T) {
	var gotReq analytics.StatsRequest
	svc := &fakeAnalyticsService{
		statsFn: func(ctx context.Context, req analytics.StatsRequest) (analytics.StatsResponse, error) {
			gotReq = req
			return analytics.StatsResponse{
				Labels: []string{"2024-01", "2024-03"},
				Data:   []int{200000, 210000},
			}, nil
		},
	}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats?target=net&period=monthly&kind=salary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "net", gotReq.Target)
	assert.Equal(t, "monthly", gotReq.Period)
	assert.Equal(t, "salary", gotReq.Kind)
	assert.Contains(t, w.Body.String(), "2024-03")
}

func TestStatsHandlerRejectsBadPeriod(t *testing.T) {
	router := setupAnalyticsRouter(&fakeAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats?period=2024", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsHandlerRejectsBadTarget(t *testing.T) {
	router := setupAnalyticsRouter(&fakeAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/stats?target=bogus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryHandler(t *testing.T) {
	svc := &fakeAnalyticsService{
		summaryFn: func(ctx context.Context) (analytics.SummaryResponse, error) {
			return analytics.SummaryResponse{
				LatestMonth: "2024-06",
				Latest:      analytics.MonthTotals{Gross: 275000, Deduction: 13000, Net: 262000},
			}, nil
		},
	}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2024-06")
}

func TestBreakdownHandler(t *testing.T) {
	svc := &fakeAnalyticsService{
		breakdownFn: func(ctx context.Context, req analytics.BreakdownRequest) ([]analytics.BreakdownEntry, error) {
			return []analytics.BreakdownEntry{{Name: "基本給", Total: 269000}}, nil
		},
	}
	router := setupAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/breakdown?year=2024&category=payment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "基本給")
}
