package api

import (
	"net/http"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/repo"
)

type miscRequest struct {
	Date        string  `json:"date"`
	User        string  `json:"user"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PaidBy      string  `json:"paid_by"`
	Remarks     string  `json:"remarks"`
}

type miscListResponse struct {
	Expenses []models.MiscExpense `json:"expenses"`
	Total    float64              `json:"total"`
}

func (s *Server) handleListMisc(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scopeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := repo.MiscFilter{
		User:        q.Get("user"),
		Description: q.Get("description"),
		PaidBy:      q.Get("paid_by"),
		Month:       q.Get("month"),
		Previous:    q.Get("previous") == "true",
	}
	expenses, err := s.misc.List(r.Context(), sc, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, miscListResponse{
		Expenses: expenses,
		Total:    repo.Total(expenses),
	})
}

func (s *Server) handleGetMisc(w http.ResponseWriter, r *http.Request) {
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
	expense, err := s.misc.Get(r.Context(), sc, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreateMisc(w http.ResponseWriter, r *http.Request) {
	var req miscRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	expense, err := s.misc.Create(r.Context(), models.MiscExpense{
		Date:        req.Date,
		User:        req.User,
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		Remarks:     req.Remarks,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Misc expense added", "misc_id", expense.ID, "user", expense.User)
	s.writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleMiscOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.misc.FilterOptions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, opts)
}
