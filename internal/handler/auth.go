package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
	"github.com/graalonline/support-service/internal/service"
	"github.com/graalonline/support-service/internal/token"
)

var validate = validator.New()

// CodeMailer delivers one-time login codes (mockable in tests).
type CodeMailer interface {
	SendAuthCode(to, code string) error
}

type AuthHandler struct {
	auth   service.AuthServicer
	users  service.UserServicer
	tokens *token.Service
	mail   CodeMailer
}

func NewAuthHandler(auth service.AuthServicer, users service.UserServicer, tokens *token.Service, mail CodeMailer) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, tokens: tokens, mail: mail}
}

type authRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Authenticate drives both halves of the login flow: with no code it issues
// and mails one, with a code it exchanges it for a session token.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and optional code required"})
		return
	}
	email := model.NormalizeEmail(req.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
		return
	}

	if req.Code == "" {
		h.requestCode(c, email)
		return
	}
	h.submitCode(c, email, req.Code)
}

func (h *AuthHandler) requestCode(c *gin.Context, email string) {
	code, err := h.auth.IssueCode(c.Request.Context(), email, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send code email"})
		return
	}
	// Synchronous on purpose: without the email the flow cannot proceed.
	if err := h.mail.SendAuthCode(email, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send code email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code sent"})
}

func (h *AuthHandler) submitCode(c *gin.Context, email, code string) {
	if err := h.auth.VerifyCode(c.Request.Context(), email, code); err != nil {
		if errors.Is(err, errs.ErrInvalidCode) || errors.Is(err, errs.ErrCodeExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Authentication failed"})
		return
	}
	user, err := h.users.RecordLogin(c.Request.Context(), email, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Authentication failed"})
		return
	}
	tok, err := h.tokens.Issue(user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Authentication failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Authenticated", "token": tok})
}
