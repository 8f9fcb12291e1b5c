package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/scope"
	"github.com/softcentric/tracker/internal/storage"
)

// Expenses is the repository over the project expenses collection.
type Expenses struct {
	col *storage.Collection[models.Expense]
}

// NewExpenses creates the expenses repository on the given backend.
func NewExpenses(backend storage.Backend) *Expenses {
	return &Expenses{col: storage.NewCollection[models.Expense](backend, "expenses")}
}

// ExpenseFilter narrows an expense listing. Zero values mean "no filter".
// Description matches whole values case-insensitively.
type ExpenseFilter struct {
	ProjectID   int
	Description string
}

// List returns the expenses whose project is inside sc, then applies the
// caller's filter. Out-of-scope rows are excluded silently; an empty
// result is not an error.
func (r *Expenses) List(ctx context.Context, sc scope.Scope, f ExpenseFilter) ([]models.Expense, error) {
	expenses, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !sc.AllowsProject(e.ProjectID) {
			continue
		}
		if f.ProjectID != 0 && e.ProjectID != f.ProjectID {
			continue
		}
		if f.Description != "" && !strings.EqualFold(e.Description, f.Description) {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

// Get returns the expense with the given id. Missing id is ErrNotFound;
// an id whose project is outside sc is ErrAccessDenied.
func (r *Expenses) Get(ctx context.Context, sc scope.Scope, id int) (models.Expense, error) {
	expenses, err := r.col.Load(ctx)
	if err != nil {
		return models.Expense{}, err
	}
	for _, e := range expenses {
		if e.ID == id {
			if !sc.AllowsProject(e.ProjectID) {
				return models.Expense{}, ErrAccessDenied
			}
			return e, nil
		}
	}
	return models.Expense{}, ErrNotFound
}

// Create appends a new expense with an allocator-assigned id. The
// project_id is recorded as given: whether it references a live project
// is a convention, not a constraint, and is not checked here.
func (r *Expenses) Create(ctx context.Context, expense models.Expense) (models.Expense, error) {
	if expense.Amount < 0 {
		return models.Expense{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if err := required("description", expense.Description); err != nil {
		return models.Expense{}, err
	}
	err := r.col.Update(ctx, func(expenses []models.Expense) ([]models.Expense, error) {
		expense.ID = storage.NextID(expenses)
		return append(expenses, expense), nil
	})
	if err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

// Update replaces the expense's mutable fields in place.
func (r *Expenses) Update(ctx context.Context, id int, expense models.Expense) (models.Expense, error) {
	if expense.Amount < 0 {
		return models.Expense{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	var updated models.Expense
	err := r.col.Update(ctx, func(expenses []models.Expense) ([]models.Expense, error) {
		for i := range expenses {
			if expenses[i].ID == id {
				expenses[i].ProjectID = expense.ProjectID
				expenses[i].Amount = expense.Amount
				expenses[i].Description = expense.Description
				expenses[i].Date = expense.Date
				updated = expenses[i]
				return expenses, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.Expense{}, err
	}
	return updated, nil
}

// Delete removes the expense and reports whether anything was removed.
func (r *Expenses) Delete(ctx context.Context, id int) (bool, error) {
	removed := false
	err := r.col.Update(ctx, func(expenses []models.Expense) ([]models.Expense, error) {
		kept := expenses[:0]
		for _, e := range expenses {
			if e.ID == id {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Descriptions returns the distinct non-empty descriptions of the given
// expenses, sorted. The UI uses this to populate its filter dropdown.
func Descriptions(expenses []models.Expense) []string {
	seen := make(map[string]struct{})
	for _, e := range expenses {
		if e.Description != "" {
			seen[e.Description] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
