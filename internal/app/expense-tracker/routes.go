// Package expensetracker собирает HTTP-приложение учёта расходов: маршруты, зависимости и сервер.
package expensetracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация описания API для /docs.
	_ "github.com/magabrotheeeer/expense-tracker/docs"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/analytics/progress"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/analytics/total"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/analytics/unpaid"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/create"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/list"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/pay"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/read"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/remove"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/update"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/health"
	userupdate "github.com/magabrotheeeer/expense-tracker/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/metrics"
	authservice "github.com/magabrotheeeer/expense-tracker/internal/services/auth"
	expenseservice "github.com/magabrotheeeer/expense-tracker/internal/services/expense"
)

// Services — зависимости, которые нужны маршрутам.
type Services struct {
	Auth        *authservice.Service
	Expenses    *expenseservice.Service
	Health      health.Checker
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer
	MaxFileSize int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		s.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth, s.MaxFileSize).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Get("/me", me.New(logger, s.Auth).ServeHTTP)
			r.Get("/user", me.New(logger, s.Auth).ServeHTTP)
			r.Put("/user", userupdate.New(logger, s.Auth, s.MaxFileSize).ServeHTTP)

			r.Post("/expenses", create.New(logger, s.Expenses).ServeHTTP)
			r.Get("/expenses", list.New(logger, s.Expenses).ServeHTTP)
			r.Get("/expenses/{id}", read.New(logger, s.Expenses).ServeHTTP)
			r.Put("/expenses/{id}", update.New(logger, s.Expenses).ServeHTTP)
			r.Delete("/expenses/{id}", remove.New(logger, s.Expenses).ServeHTTP)
			r.Put("/expenses/{id}/pay", pay.New(logger, s.Expenses).ServeHTTP)

			r.Get("/analytics/total-expenses", total.New(logger, s.Expenses).ServeHTTP)
			r.Get("/analytics/expense-progress", progress.New(logger, s.Expenses).ServeHTTP)
			r.Get("/analytics/unpaid-summary", unpaid.New(logger, s.Expenses).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", metrics.Handler(s.Gatherer))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
