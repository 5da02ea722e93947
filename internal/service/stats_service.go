package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/graalonline/support-service/internal/model"
)

// AgentPerformance aggregates one agent's closed tickets from the last day.
type AgentPerformance struct {
	Email           string  `json:"email"`
	TicketsHandled  int64   `json:"ticketsHandled"`
	AvgResponseTime float64 `json:"avgResponseTime"`
}

// Statistics is the superadmin dashboard payload. Durations are seconds.
type Statistics struct {
	NewTickets24h      int64              `json:"newTickets24h"`
	AvgResponseTime24h float64            `json:"avgResponseTime24h"`
	TotalTickets       int64              `json:"totalTickets"`
	TotalUsers         int64              `json:"totalUsers"`
	AgentPerformance   []AgentPerformance `json:"agentPerformance"`
}

type StatsServicer interface {
	Overview(ctx context.Context) (*Statistics, error)
}

type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// Overview computes the aggregate counters: tickets created in the last 24h,
// their mean first-response time, totals, and per-agent figures over tickets
// closed in the same window.
func (s *StatsService) Overview(ctx context.Context) (*Statistics, error) {
	since := s.now().Add(-24 * time.Hour)
	db := s.db.WithContext(ctx)
	stats := &Statistics{AgentPerformance: []AgentPerformance{}}

	err := db.Model(&model.Ticket{}).Where("created_at >= ?", since).Count(&stats.NewTickets24h).Error
	if err != nil {
		return nil, fmt.Errorf("count new tickets: %w", err)
	}
	if err := db.Model(&model.Ticket{}).Count(&stats.TotalTickets).Error; err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	// Mean time to the first reply, over tickets created in the window that
	// have at least one reply.
	err = db.Raw(`
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (r.first_reply - t.created_at))), 0)
		FROM tickets t
		JOIN (
			SELECT ticket_id, MIN(date) AS first_reply
			FROM replies
			GROUP BY ticket_id
		) r ON r.ticket_id = t.id
		WHERE t.created_at >= ?`, since).
		Scan(&stats.AvgResponseTime24h).Error
	if err != nil {
		return nil, fmt.Errorf("average response time: %w", err)
	}

	// Per-agent figures over tickets created in the window, closed, and
	// sticky-assigned to a current admin or superadmin.
	err = db.Raw(`
		SELECT t.assigned_admin AS email,
		       COUNT(*) AS tickets_handled,
		       AVG(EXTRACT(EPOCH FROM (t.updated_at - t.created_at))) AS avg_response_time
		FROM tickets t
		JOIN users u ON u.email = t.assigned_admin
		WHERE t.created_at >= ?
		  AND t.status = ?
		  AND t.assigned_admin IS NOT NULL
		  AND u.role IN ?
		GROUP BY t.assigned_admin
		ORDER BY tickets_handled DESC`,
		since, model.TicketStatusClosed, []model.Role{model.RoleAdmin, model.RoleSuperadmin}).
		Scan(&stats.AgentPerformance).Error
	if err != nil {
		return nil, fmt.Errorf("agent performance: %w", err)
	}
	return stats, nil
}
