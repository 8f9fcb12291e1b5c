package api

import "net/http"

type projectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// The dashboard shows in-progress projects unless completed=true.
	completed := r.URL.Query().Get("completed") == "true"
	projects, err := s.projects.ListByStatus(r.Context(), sc, completed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
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
	project, err := s.projects.Get(r.Context(), sc, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	project, err := s.projects.Create(r.Context(), req.Name, req.Description, req.Users)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Project created", "project_id", project.ID, "name", project.Name)
	s.writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req projectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	project, err := s.projects.Update(r.Context(), id, req.Name, req.Description, req.Users)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleCompleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	project, err := s.projects.Complete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Project completed", "project_id", project.ID, "name", project.Name)
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	removed, err := s.projects.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": removed})
}
