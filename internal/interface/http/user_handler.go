package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/louiecodes/auth-service/internal/domain/entity"
	"github.com/louiecodes/auth-service/internal/domain/repository"
	"github.com/louiecodes/auth-service/internal/interface/middleware"
	"github.com/louiecodes/auth-service/pkg/response"
)

type UserHandler struct {
	Users  repository.UserRepository
	Logger *logrus.Logger
}

func NewUserHandler(users repository.UserRepository, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func userBody(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"role":       u.RoleName,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// Me GET /api/users/me (auth required)
func (h *UserHandler) Me(c *gin.Context) {
	p, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":         p.UserID,
		"email":      p.Email,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"role":       p.Role,
	}, "profile", nil)
}

// Get GET /api/users/:id (admin roles only)
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	u, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get user failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, userBody(u), "user", nil)
}
