package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
)

// A user may hold at most this many open/waiting tickets at once.
const maxActiveTickets = 3

// TicketServicer is the ticket surface the handlers consume (mockable in
// tests).
type TicketServicer interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	List(ctx context.Context, p ListParams) ([]model.Ticket, int64, error)
	Update(ctx context.Context, caller *model.User, in UpdateInput) (*model.Ticket, *TicketChange, error)
}

// ListParams selects a page of tickets. All=false scopes to Email; All=true
// (elevated callers only, decided by the handler) lists everything with an
// optional case-insensitive substring Search over owner email or graalid.
type ListParams struct {
	Email  string
	All    bool
	Search string
	Page   int
	Limit  int
	Sort   string
}

// UpdateInput carries the reply and/or status change of one update request.
type UpdateInput struct {
	TicketID string
	Response string
	Status   string
}

type TicketService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db, now: time.Now}
}

// Create inserts a new open ticket after checking the per-user active cap.
// The check-then-insert is not serialized; near-simultaneous creations can
// overshoot the cap (accepted best-effort limit).
func (s *TicketService) Create(ctx context.Context, t *model.Ticket) error {
	var active int64
	err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("email = ? AND status IN ?", t.Email, model.ActiveStatuses()).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("count active tickets: %w", err)
	}
	if active >= maxActiveTickets {
		return errs.ErrActiveTicketLimit
	}
	t.Status = model.TicketStatusOpen
	t.AssignedAdmin = nil
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (s *TicketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errs.ErrTicketNotFound
	}
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, id ASC") }).
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, fmt.Errorf("look up ticket: %w", err)
	}
	return &t, nil
}

func (s *TicketService) List(ctx context.Context, p ListParams) ([]model.Ticket, int64, error) {
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	if p.All {
		if p.Search != "" {
			q := "%" + p.Search + "%"
			tx = tx.Where("email ILIKE ? OR graalid ILIKE ?", q, q)
		}
	} else {
		tx = tx.Where("email = ?", p.Email)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = 10
	}
	order := "created_at DESC"
	if p.Sort == "oldest" {
		order = "created_at ASC"
	}

	var items []model.Ticket
	err := tx.Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, id ASC") }).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return items, total, nil
}

// Update applies a reply and/or status change as one transaction and returns
// the refreshed ticket together with the computed change, so the caller can
// dispatch the follow-up notifications.
func (s *TicketService) Update(ctx context.Context, caller *model.User, in UpdateInput) (*model.Ticket, *TicketChange, error) {
	if _, err := uuid.Parse(in.TicketID); err != nil {
		return nil, nil, errs.ErrTicketNotFound
	}
	var change *TicketChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.Ticket
		if err := tx.First(&t, "id = ?", in.TicketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTicketNotFound
			}
			return fmt.Errorf("look up ticket: %w", err)
		}
		var err error
		change, err = ComputeTicketChange(caller, &t, in.Response, model.TicketStatus(in.Status), s.now())
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"updated_at": change.UpdatedAt}
		if change.AssignAdmin != nil {
			updates["assigned_admin"] = *change.AssignAdmin
		}
		if change.Status != "" {
			updates["status"] = change.Status
		}
		if err := tx.Model(&t).Updates(updates).Error; err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}
		if change.Reply != nil {
			if err := tx.Create(change.Reply).Error; err != nil {
				return fmt.Errorf("append reply: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	t, err := s.GetByID(ctx, in.TicketID)
	if err != nil {
		return nil, nil, err
	}
	return t, change, nil
}
