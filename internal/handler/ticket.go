package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/events"
	"github.com/graalonline/support-service/internal/middleware"
	"github.com/graalonline/support-service/internal/model"
	"github.com/graalonline/support-service/internal/service"
)

// TicketNotifier alerts the support chat channel (mockable in tests).
type TicketNotifier interface {
	NewTicketAsync(t *model.Ticket)
	NewReplyAsync(ticketID, by, text string)
}

// UpdateMailer notifies ticket owners of agent replies.
type UpdateMailer interface {
	SendTicketUpdateAsync(to, ticketID string)
}

type TicketHandler struct {
	svc     service.TicketServicer
	users   service.UserServicer
	webhook TicketNotifier
	mail    UpdateMailer
	events  events.TicketEventProducer
}

func NewTicketHandler(svc service.TicketServicer, users service.UserServicer, webhook TicketNotifier, mail UpdateMailer, producer events.TicketEventProducer) *TicketHandler {
	return &TicketHandler{svc: svc, users: users, webhook: webhook, mail: mail, events: producer}
}

type createTicketRequest struct {
	GraalID     string `json:"graalid"`
	Game        string `json:"game"`
	Installed   string `json:"installed"`
	Started     string `json:"started"`
	ProblemType string `json:"problemType"`
	SubProblem  string `json:"subProblem"`
	Description string `json:"description"`
}

// missingRequired mirrors the intake questionnaire: started is only required
// once the game is installed, problemType only once it starts.
func (r createTicketRequest) missingRequired() bool {
	return r.GraalID == "" || r.Game == "" || r.Installed == "" ||
		(r.Installed == "1" && r.Started == "") ||
		(r.Started == "1" && r.ProblemType == "")
}

func (h *TicketHandler) Create(c *gin.Context) {
	id, _ := middleware.Identity(c)
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.missingRequired() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All required fields must be completed"})
		return
	}

	t := model.Ticket{
		Email:     model.NormalizeEmail(id.Email),
		GraalID:   req.GraalID,
		Game:      req.Game,
		Installed: req.Installed,
		Description: model.ComposeDescription(model.Intake{
			Game:        req.Game,
			Installed:   req.Installed,
			Started:     req.Started,
			ProblemType: req.ProblemType,
			SubProblem:  req.SubProblem,
			Description: req.Description,
		}),
		Status: model.TicketStatusOpen,
	}
	if req.Installed == "1" {
		t.Started = &req.Started
	}
	if req.Started == "1" {
		t.ProblemType = &req.ProblemType
	}
	if req.SubProblem != "" {
		t.SubProblem = &req.SubProblem
	}

	if err := h.svc.Create(c.Request.Context(), &t); err != nil {
		if errors.Is(err, errs.ErrActiveTicketLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Maximum of 3 active tickets allowed per user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create ticket"})
		return
	}

	h.webhook.NewTicketAsync(&t)
	h.events.PublishAsync(events.TicketCreated, &t)
	c.JSON(http.StatusCreated, gin.H{"message": "Ticket created", "ticketId": t.ID})
}

// ListOrGet serves both modes of GET /api/tickets: a single ticket by id for
// agents, or a paginated listing.
func (h *TicketHandler) ListOrGet(c *gin.Context) {
	id, _ := middleware.Identity(c)
	dbUser, err := h.users.GetByEmail(c.Request.Context(), id.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"message": "User not found in database"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list tickets"})
		return
	}

	if ticketID := c.Query("ticketId"); ticketID != "" {
		if !dbUser.Role.Elevated() {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		t, err := h.svc.GetByID(c.Request.Context(), ticketID)
		if err != nil {
			if errors.Is(err, errs.ErrTicketNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Ticket not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get ticket"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticket": t})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, total, err := h.svc.List(c.Request.Context(), service.ListParams{
		Email:  dbUser.Email,
		All:    c.Query("allTickets") == "true" && dbUser.Role.Elevated(),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
		Sort:   c.DefaultQuery("sort", "newest"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list tickets"})
		return
	}
	if !dbUser.Role.Elevated() {
		// Plain users never see which agent a ticket is assigned to.
		for i := range items {
			items[i].AssignedAdmin = nil
		}
	}
	c.JSON(http.StatusOK, gin.H{"tickets": items, "total": total})
}

type updateTicketRequest struct {
	TicketID string `json:"ticketId"`
	Response string `json:"response"`
	Status   string `json:"status"`
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, _ := middleware.Identity(c)
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ticket ID and either response or status required"})
		return
	}
	if req.TicketID == "" || (req.Response == "" && req.Status == "") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ticket ID and either response or status required"})
		return
	}

	dbUser, err := h.users.GetByEmail(c.Request.Context(), id.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"message": "User not found in database"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update ticket"})
		return
	}

	t, change, err := h.svc.Update(c.Request.Context(), dbUser, service.UpdateInput{
		TicketID: req.TicketID,
		Response: req.Response,
		Status:   req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Ticket not found"})
		case errors.Is(err, errs.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update ticket"})
		}
		return
	}

	if change.NotifyWebhook {
		h.webhook.NewReplyAsync(t.ID, dbUser.Email, req.Response)
	}
	if change.NotifyOwnerEmail {
		h.mail.SendTicketUpdateAsync(t.Email, t.ID)
	}
	h.events.PublishAsync(events.TicketUpdated, t)
	c.JSON(http.StatusOK, gin.H{"message": "Ticket updated", "ticket": t})
}
