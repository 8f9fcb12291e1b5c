package api

import (
	"net/http"
	"strconv"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/repo"
)

type expenseRequest struct {
	ProjectID   int     `json:"project_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type expenseListResponse struct {
	Expenses     []models.Expense `json:"expenses"`
	Descriptions []string         `json:"descriptions"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := repo.ExpenseFilter{
		Description: r.URL.Query().Get("description"),
	}
	if p := r.URL.Query().Get("project"); p != "" {
		id, err := strconv.Atoi(p)
		if err != nil {
			s.writeError(w, r, &repo.ValidationError{Field: "project", Reason: "must be an integer"})
			return
		}
		filter.ProjectID = id
	}
	expenses, err := s.expenses.List(r.Context(), sc, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, expenseListResponse{
		Expenses:     expenses,
		Descriptions: repo.Descriptions(expenses),
	})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
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
	expense, err := s.expenses.Get(r.Context(), sc, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Members may only log expenses against their own projects.
	if !sc.AllowsProject(req.ProjectID) {
		s.writeError(w, r, repo.ErrAccessDenied)
		return
	}
	expense, err := s.expenses.Create(r.Context(), models.Expense{
		ProjectID:   req.ProjectID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Expense logged", "expense_id", expense.ID, "project_id", expense.ProjectID)
	s.writeJSON(w, http.StatusCreated, expense)
}
