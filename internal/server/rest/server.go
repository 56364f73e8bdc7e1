// Package rest exposes the expense tracker over HTTP and guards
// identity-scoped routes with a bearer-token middleware.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/config"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr        string
	logger      logging.Logger
	users       *services.UserService
	expenses    *services.ExpenseService
	jwtSecret   []byte
	corsOrigins []string
}

func NewServer(cfg *config.Config, logger logging.Logger, users *services.UserService, expenses *services.ExpenseService) *Server {
	return &Server{
		addr:        cfg.Addr,
		logger:      logger.With("module", "rest"),
		users:       users,
		expenses:    expenses,
		jwtSecret:   []byte(cfg.SecretKey),
		corsOrigins: cfg.CORSAllowedOrigins,
	}
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		// identity is proven by email + current password
		r.Put("/change-password", s.handleChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.handleMe)
			r.Put("/update-income", s.handleUpdateIncome)
			r.Get("/get-income", s.handleGetIncome)
			r.Post("/verify-email", s.handleVerifyEmail)
			r.Post("/resend-verification-code", s.handleResendVerificationCode)
			r.Delete("/delete-user/{id}", s.handleDeleteUser)
		})
	})

	r.Route("/api/expenses", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/add-expense", s.handleAddExpense)
		r.Post("/add-expenses", s.handleAddExpenses)
		r.Get("/user-expenses", s.handleListExpenses)
		r.Delete("/delete-expense/{expenseId}", s.handleDeleteExpense)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
