// Package api exposes the tracker core over a JSON HTTP interface. The
// handlers are deliberately thin: they resolve the caller's scope, decode
// the request, and delegate to the repositories and the messaging index.
// All authorization decisions live in the core, not here.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/softcentric/tracker/internal/auth"
	"github.com/softcentric/tracker/internal/messaging"
	"github.com/softcentric/tracker/internal/middleware"
	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/repo"
	"github.com/softcentric/tracker/internal/scope"
)

// Server holds the repositories and collaborators the handlers delegate to.
type Server struct {
	users    *repo.Users
	projects *repo.Projects
	expenses *repo.Expenses
	progress *repo.Progress
	misc     *repo.MiscExpenses
	messages *messaging.Index

	authenticator *auth.Authenticator
	jwt           *auth.JWTManager
	logger        *slog.Logger
}

// New wires a server over the given collaborators.
func New(
	users *repo.Users,
	projects *repo.Projects,
	expenses *repo.Expenses,
	progress *repo.Progress,
	misc *repo.MiscExpenses,
	messages *messaging.Index,
	authenticator *auth.Authenticator,
	jwt *auth.JWTManager,
	logger *slog.Logger,
) *Server {
	return &Server{
		users:         users,
		projects:      projects,
		expenses:      expenses,
		progress:      progress,
		misc:          misc,
		messages:      messages,
		authenticator: authenticator,
		jwt:           jwt,
		logger:        logger,
	}
}

// Routes builds the HTTP handler: public login and metrics, then the
// authenticated API behind the bearer-token middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Post("/api/login", s.handleLogin)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwt))

		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.admin(s.handleCreateProject))
			r.Get("/{id}", s.handleGetProject)
			r.Put("/{id}", s.admin(s.handleUpdateProject))
			r.Delete("/{id}", s.admin(s.handleDeleteProject))
			r.Post("/{id}/complete", s.admin(s.handleCompleteProject))
		})

		r.Route("/api/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/{id}", s.handleGetExpense)
		})

		r.Route("/api/progress", func(r chi.Router) {
			r.Get("/", s.handleListProgress)
			r.Post("/", s.handleCreateProgress)
			r.Get("/{id}", s.handleGetProgress)
			r.Post("/{id}/instructions", s.admin(s.handleSetInstructions))
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", s.admin(s.handleListUsers))
			r.Post("/", s.admin(s.handleCreateUser))
			r.Post("/password", s.handleChangePassword)
			r.Put("/{username}", s.admin(s.handleUpdateUser))
			r.Delete("/{username}", s.admin(s.handleDeleteUser))
		})

		r.Route("/api/messages", func(r chi.Router) {
			r.Get("/", s.handleConversations)
			r.Post("/", s.handleSendMessage)
			r.Get("/unread", s.handleUnread)
			r.Get("/{counterpart}", s.handleThread)
		})

		r.Route("/api/misc", func(r chi.Router) {
			r.Get("/", s.handleListMisc)
			r.Post("/", s.handleCreateMisc)
			r.Get("/options", s.handleMiscOptions)
			r.Get("/{id}", s.handleGetMisc)
		})
	})

	return r
}

// admin guards a handler so only admin callers reach it.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetRole(r.Context()) != models.RoleAdmin {
			s.writeError(w, r, repo.ErrAccessDenied)
			return
		}
		next(w, r)
	}
}

// scopeFromRequest resolves the caller's authorization scope against the
// current project collection.
func (s *Server) scopeFromRequest(r *http.Request) (scope.Scope, error) {
	ctx := r.Context()
	return s.projects.ScopeFor(ctx, middleware.GetUsername(ctx), middleware.GetRole(ctx))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *repo.ValidationError
	var status int
	message := err.Error()
	switch {
	case errors.Is(err, repo.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repo.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
		message = "internal error"
		s.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	s.writeJSON(w, status, map[string]string{"error": message})
}

// decode unmarshals the request body into v, reporting malformed input
// as a validation failure rather than a server error.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &repo.ValidationError{Field: "body", Reason: "malformed request"}
	}
	return nil
}
