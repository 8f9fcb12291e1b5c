package api

import (
	"net/http"
	"strconv"

	"github.com/softcentric/tracker/internal/middleware"
	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/repo"
)

type progressRequest struct {
	ProjectID int    `json:"project_id"`
	Update    string `json:"update"`
	Date      string `json:"date"`
}

type instructionsRequest struct {
	Instructions string `json:"instructions"`
}

type progressListResponse struct {
	Entries []models.ProgressEntry `json:"entries"`
	Authors []string               `json:"authors"`
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := repo.ProgressFilter{
		User: r.URL.Query().Get("user"),
	}
	if p := r.URL.Query().Get("project"); p != "" {
		id, err := strconv.Atoi(p)
		if err != nil {
			s.writeError(w, r, &repo.ValidationError{Field: "project", Reason: "must be an integer"})
			return
		}
		filter.ProjectID = id
	}
	entries, err := s.progress.List(r.Context(), sc, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, progressListResponse{
		Entries: entries,
		Authors: repo.Authors(entries),
	})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.progress.Get(r.Context(), sc, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCreateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !sc.AllowsProject(req.ProjectID) {
		s.writeError(w, r, repo.ErrAccessDenied)
		return
	}
	// The author is always the caller, never a request field.
	entry, err := s.progress.Create(r.Context(), models.ProgressEntry{
		ProjectID: req.ProjectID,
		Update:    req.Update,
		Date:      req.Date,
		User:      middleware.GetUsername(r.Context()),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Progress logged", "progress_id", entry.ID, "project_id", entry.ProjectID, "user", entry.User)
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleSetInstructions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req instructionsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.progress.SetInstructions(r.Context(), id, req.Instructions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}
