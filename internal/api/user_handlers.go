package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softcentric/tracker/internal/middleware"
	"github.com/softcentric/tracker/internal/models"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// userView is the listing shape; passwords never leave the server.
type userView struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]userView, len(users))
	for i, u := range users {
		views[i] = userView{Username: u.Username, Role: string(u.Role)}
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.users.Create(r.Context(), models.User{
		Username: req.Username,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("User created", "username", user.Username, "role", user.Role)
	s.writeJSON(w, http.StatusCreated, userView{Username: user.Username, Role: string(user.Role)})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.users.Update(r.Context(), chi.URLParam(r, "username"), req.Username, models.Role(req.Role))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, userView{Username: user.Username, Role: string(user.Role)})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	removed, err := s.users.Delete(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": removed})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	username := middleware.GetUsername(r.Context())
	err := s.users.ChangePassword(r.Context(), username, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Password changed", "username", username)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
