package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/louiecodes/auth-service/internal/domain/repository"
	handlers "github.com/louiecodes/auth-service/internal/interface/http"
	"github.com/louiecodes/auth-service/internal/interface/middleware"
	"github.com/louiecodes/auth-service/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, users repository.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", m.Handler.Signup)
	rg.POST("/auth/signin", m.Handler.Signin)
	rg.POST("/auth/forgot-password", m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", m.Handler.ResetPassword)

	rg.POST("/auth/refresh", middleware.RefreshGuard(m.JWT), m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.PATCH("/auth/change-password", m.Handler.ChangePassword)
	}
}
