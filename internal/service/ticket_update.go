package service

import (
	"time"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
)

// TicketChange is the mutation computed for one update request, applied as a
// single transaction and echoed back so the handler can fan out
// notifications after the write.
type TicketChange struct {
	UpdatedAt   time.Time
	AssignAdmin *string
	// Status is the resulting status; empty means unchanged.
	Status model.TicketStatus
	Reply  *model.Reply

	// NotifyOwnerEmail: an agent replied, mail the ticket owner.
	NotifyOwnerEmail bool
	// NotifyWebhook: the owner replied as a plain user, alert the support
	// channel.
	NotifyWebhook bool
}

// ComputeTicketChange applies the update rules: only the owner or an
// elevated caller may touch the ticket; the first elevated responder is
// sticky-assigned; a reply sets the waiting/open status by caller role; an
// explicit status is assigned last, so it wins over the reply-derived one.
func ComputeTicketChange(caller *model.User, t *model.Ticket, response string, status model.TicketStatus, now time.Time) (*TicketChange, error) {
	if t.Email != caller.Email && !caller.Role.Elevated() {
		return nil, errs.ErrForbidden
	}
	ch := &TicketChange{UpdatedAt: now}
	if caller.Role.Elevated() && t.AssignedAdmin == nil {
		email := caller.Email
		ch.AssignAdmin = &email
	}
	if response != "" {
		by := caller.Email
		st := model.TicketStatusOpen
		if caller.Role.Elevated() {
			by = model.ReplyBySupport
			st = model.TicketStatusWaiting
		}
		ch.Reply = &model.Reply{
			TicketID: t.ID,
			Text:     response,
			By:       by,
			Date:     now,
		}
		ch.Status = st
		if caller.Email == t.Email && caller.Role == model.RoleUser {
			ch.NotifyWebhook = true
		} else if caller.Role.Elevated() {
			ch.NotifyOwnerEmail = true
		}
	}
	if status != "" {
		ch.Status = status
	}
	return ch, nil
}
