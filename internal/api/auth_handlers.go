package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/softcentric/tracker/internal/repo"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Username)
		s.writeError(w, r, err)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("User logged in", "username", user.Username, "role", user.Role)
	s.writeJSON(w, http.StatusOK, loginResponse{
		Username: user.Username,
		Role:     string(user.Role),
		Token:    token,
	})
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, &repo.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}
