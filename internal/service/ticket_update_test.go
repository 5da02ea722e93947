package service

import (
	"errors"
	"testing"
	"time"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
)

var updateNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ticketFor(owner string) *model.Ticket {
	return &model.Ticket{ID: "t-1", Email: owner, Status: model.TicketStatusOpen}
}

func TestComputeTicketChangeForbidden(t *testing.T) {
	caller := &model.User{Email: "other@example.com", Role: model.RoleUser}
	_, err := ComputeTicketChange(caller, ticketFor("owner@example.com"), "hi", "", updateNow)
	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestComputeTicketChangeOwnerReply(t *testing.T) {
	caller := &model.User{Email: "owner@example.com", Role: model.RoleUser}
	ch, err := ComputeTicketChange(caller, ticketFor("owner@example.com"), "still broken", "", updateNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Reply == nil || ch.Reply.By != "owner@example.com" || ch.Reply.Text != "still broken" {
		t.Fatalf("unexpected reply %+v", ch.Reply)
	}
	if ch.Status != model.TicketStatusOpen {
		t.Fatalf("owner reply must reopen, got %q", ch.Status)
	}
	if !ch.NotifyWebhook || ch.NotifyOwnerEmail {
		t.Fatalf("owner reply must alert the channel only, got %+v", ch)
	}
	if ch.AssignAdmin != nil {
		t.Fatal("owner reply must not assign an admin")
	}
}

func TestComputeTicketChangeAdminReply(t *testing.T) {
	caller := &model.User{Email: "admin@example.com", Role: model.RoleAdmin}
	ch, err := ComputeTicketChange(caller, ticketFor("owner@example.com"), "please retry", "", updateNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Reply == nil || ch.Reply.By != model.ReplyBySupport {
		t.Fatalf("agent replies must show as %q, got %+v", model.ReplyBySupport, ch.Reply)
	}
	if ch.Status != model.TicketStatusWaiting {
		t.Fatalf("agent reply must set the waiting status, got %q", ch.Status)
	}
	if !ch.NotifyOwnerEmail || ch.NotifyWebhook {
		t.Fatalf("agent reply must mail the owner only, got %+v", ch)
	}
	if ch.AssignAdmin == nil || *ch.AssignAdmin != "admin@example.com" {
		t.Fatalf("first responder must be assigned, got %v", ch.AssignAdmin)
	}
}

func TestComputeTicketChangeAssignmentIsSticky(t *testing.T) {
	caller := &model.User{Email: "second@example.com", Role: model.RoleAdmin}
	tk := ticketFor("owner@example.com")
	first := "first@example.com"
	tk.AssignedAdmin = &first
	ch, err := ComputeTicketChange(caller, tk, "taking over the thread", "", updateNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.AssignAdmin != nil {
		t.Fatal("an already-assigned ticket must keep its admin")
	}
}

func TestComputeTicketChangeExplicitStatusWins(t *testing.T) {
	caller := &model.User{Email: "admin@example.com", Role: model.RoleSuperadmin}
	ch, err := ComputeTicketChange(caller, ticketFor("owner@example.com"), "resolved", model.TicketStatusClosed, updateNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Status != model.TicketStatusClosed {
		t.Fatalf("explicit status must win over the reply-derived one, got %q", ch.Status)
	}
}

func TestComputeTicketChangeStatusOnly(t *testing.T) {
	caller := &model.User{Email: "admin@example.com", Role: model.RoleAdmin}
	ch, err := ComputeTicketChange(caller, ticketFor("owner@example.com"), "", model.TicketStatusClosed, updateNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Reply != nil {
		t.Fatal("status-only updates must not create a reply")
	}
	if ch.NotifyOwnerEmail || ch.NotifyWebhook {
		t.Fatal("status-only updates must not notify")
	}
	if ch.Status != model.TicketStatusClosed {
		t.Fatalf("expected closed, got %q", ch.Status)
	}
}
