package handler

import (
	"context"
	"sync"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
	"github.com/graalonline/support-service/internal/service"
)

type fakeAuthService struct {
	issuedCode string
	issueErr   error
	verifyErr  error

	issuedFor  string
	verifiedAs string
}

func (f *fakeAuthService) IssueCode(ctx context.Context, email, ip string) (string, error) {
	f.issuedFor = email
	return f.issuedCode, f.issueErr
}

func (f *fakeAuthService) VerifyCode(ctx context.Context, email, code string) error {
	f.verifiedAs = email
	return f.verifyErr
}

type fakeUserService struct {
	users   map[string]*model.User
	roleSet map[string]model.Role
}

func newFakeUserService(users ...*model.User) *fakeUserService {
	f := &fakeUserService{users: map[string]*model.User{}, roleSet: map[string]model.Role{}}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.users[model.NormalizeEmail(email)]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserService) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserService) RecordLogin(ctx context.Context, email, ip string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if u, ok := f.users[email]; ok {
		u.LastLoginIP = ip
		return u, nil
	}
	u := &model.User{Email: email, Role: model.RoleUser, FirstLoginIP: ip, LastLoginIP: ip}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserService) SetRole(ctx context.Context, email string, role model.Role) error {
	f.roleSet[model.NormalizeEmail(email)] = role
	return nil
}

type fakeTicketService struct {
	createErr  error
	created    *model.Ticket
	tickets    map[string]*model.Ticket
	listResult []model.Ticket
	listTotal  int64
	listParams service.ListParams
	updateErr  error
	updated    *model.Ticket
	change     *service.TicketChange
}

func (f *fakeTicketService) Create(ctx context.Context, t *model.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	if t.ID == "" {
		t.ID = "11111111-1111-1111-1111-111111111111"
	}
	f.created = t
	return nil
}

func (f *fakeTicketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTicketService) List(ctx context.Context, p service.ListParams) ([]model.Ticket, int64, error) {
	f.listParams = p
	return f.listResult, f.listTotal, nil
}

func (f *fakeTicketService) Update(ctx context.Context, caller *model.User, in service.UpdateInput) (*model.Ticket, *service.TicketChange, error) {
	if f.updateErr != nil {
		return nil, nil, f.updateErr
	}
	return f.updated, f.change, nil
}

type fakeNotifier struct {
	mu          sync.Mutex
	newTickets  []*model.Ticket
	replyAlerts []string
}

func (f *fakeNotifier) NewTicketAsync(t *model.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newTickets = append(f.newTickets, t)
}

func (f *fakeNotifier) NewReplyAsync(ticketID, by, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyAlerts = append(f.replyAlerts, ticketID)
}

type fakeMailer struct {
	codeErr     error
	codesSent   []string
	updatesSent []string
}

func (f *fakeMailer) SendAuthCode(to, code string) error {
	if f.codeErr != nil {
		return f.codeErr
	}
	f.codesSent = append(f.codesSent, to)
	return nil
}

func (f *fakeMailer) SendTicketUpdateAsync(to, ticketID string) {
	f.updatesSent = append(f.updatesSent, to)
}

type fakeProducer struct {
	events []string
}

func (f *fakeProducer) PublishAsync(event string, t *model.Ticket) {
	f.events = append(f.events, event)
}
