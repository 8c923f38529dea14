package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/louiecodes/auth-service/internal/domain/entity"
	"github.com/louiecodes/auth-service/internal/domain/repository"
	handlers "github.com/louiecodes/auth-service/internal/interface/http"
	"github.com/louiecodes/auth-service/internal/interface/middleware"
	"github.com/louiecodes/auth-service/pkg/helpers"
)

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, users repository.UserRepository) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.JWT, m.Users))
	{
		users.GET("/me", m.Handler.Me)
		users.GET("/:id", middleware.RequireRoles(entity.RoleSuperAdmin, entity.RoleAdmin), m.Handler.Get)
	}
}
