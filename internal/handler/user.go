package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graalonline/support-service/internal/errs"
	"github.com/graalonline/support-service/internal/model"
	"github.com/graalonline/support-service/internal/service"
)

// UserHandler is the superadmin user-administration surface. The router
// gates both routes on the superadmin role.
type UserHandler struct {
	users service.UserServicer
}

func NewUserHandler(users service.UserServicer) *UserHandler {
	return &UserHandler{users: users}
}

// Get looks a user up by exact (normalized) email, or lists all users when
// no email is given.
func (h *UserHandler) Get(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		u, err := h.users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, errs.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
		return
	}
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type updateRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateRole assigns one of the three known roles to an email, creating the
// user row when absent.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || !model.Role(req.Role).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or role"})
		return
	}
	if err := h.users.SetRole(c.Request.Context(), req.Email, model.Role(req.Role)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}
