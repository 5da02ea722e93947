package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/graalonline/support-service/internal/service"
)

type fakeStatsService struct {
	stats *service.Statistics
	err   error
}

func (f *fakeStatsService) Overview(ctx context.Context) (*service.Statistics, error) {
	return f.stats, f.err
}

func TestStatisticsOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStatsHandler(&fakeStatsService{stats: &service.Statistics{
		NewTickets24h:      3,
		AvgResponseTime24h: 120.5,
		TotalTickets:       12,
		TotalUsers:         7,
		AgentPerformance: []service.AgentPerformance{
			{Email: "admin@example.com", TicketsHandled: 2, AvgResponseTime: 90},
		},
	}})
	r := gin.New()
	r.GET("/api/admin/statistics", h.Overview)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/statistics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp service.Statistics
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalTickets != 12 || resp.NewTickets24h != 3 || resp.TotalUsers != 7 {
		t.Fatalf("unexpected statistics: %+v", resp)
	}
	if len(resp.AgentPerformance) != 1 || resp.AgentPerformance[0].TicketsHandled != 2 {
		t.Fatalf("unexpected agent performance: %+v", resp.AgentPerformance)
	}
}

func TestStatisticsOverviewFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStatsHandler(&fakeStatsService{err: errors.New("query failed")})
	r := gin.New()
	r.GET("/api/admin/statistics", h.Overview)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/statistics", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
