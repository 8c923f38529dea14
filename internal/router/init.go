package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/louiecodes/auth-service/config"
	"github.com/louiecodes/auth-service/internal/application"
	pginfra "github.com/louiecodes/auth-service/internal/infrastructure/postgres"
	handlers "github.com/louiecodes/auth-service/internal/interface/http"
	"github.com/louiecodes/auth-service/internal/router/modules"
	"github.com/louiecodes/auth-service/pkg/helpers"
)

// Deps carries the shared infrastructure handed to the modules. Everything is
// passed explicitly; there is no ambient container.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	JWT    *helpers.JWTManager
	Mail   application.MailQueue
}

// InitModules wires the feature modules and registers them with the registry.
func InitModules(r *Registry, d Deps) {
	repo := pginfra.NewUserRepository(d.Pool)
	hasher := helpers.NewArgon2Hasher()

	authSvc := application.NewAuthService(repo, d.JWT, hasher, d.Mail, d.Logger, d.Cfg.FrontendURL, d.Cfg.AppName)

	authHandler := handlers.NewAuthHandler(authSvc, d.Logger, d.Cfg.CookieDomain, d.Cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(repo, d.Logger)

	r.Add(modules.NewAuthModule(authHandler, d.JWT, repo))
	r.Add(modules.NewUserModule(userHandler, d.JWT, repo))
}
