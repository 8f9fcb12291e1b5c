package models

// Expense is a cost logged against a project. ProjectID may reference a
// project that has since been deleted; such rows remain listable.
type Expense struct {
	ID          int     `json:"id"`
	ProjectID   int     `json:"project_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}
