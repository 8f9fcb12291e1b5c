package repo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/scope"
	"github.com/softcentric/tracker/internal/storage"
)

// MiscExpenses is the repository over the miscellaneous expenses
// collection. Rows belong to a user by name and the default listing is
// partitioned by wall-clock month, so the repository carries an
// injectable clock.
type MiscExpenses struct {
	col *storage.Collection[models.MiscExpense]
	now func() time.Time
}

// NewMiscExpenses creates the repository on the given backend using the
// real clock.
func NewMiscExpenses(backend storage.Backend) *MiscExpenses {
	return NewMiscExpensesAt(backend, time.Now)
}

// NewMiscExpensesAt creates the repository with an explicit clock, for
// tests that pin "now".
func NewMiscExpensesAt(backend storage.Backend, now func() time.Time) *MiscExpenses {
	return &MiscExpenses{
		col: storage.NewCollection[models.MiscExpense](backend, "misc_expenses"),
		now: now,
	}
}

// MiscFilter narrows a misc expense listing. Zero values mean "no
// filter". Month is a "YYYY-MM" prefix of the date field. Previous
// selects the rows from months before the current one; by default only
// the current month's rows are listed. User is honored for admins only;
// members are always pinned to their own rows by the scope.
type MiscFilter struct {
	User        string
	Description string
	PaidBy      string
	Month       string
	Previous    bool
}

// List returns the misc expenses visible inside sc, partitioned against
// the current month and narrowed by the caller's filter.
func (r *MiscExpenses) List(ctx context.Context, sc scope.Scope, f MiscFilter) ([]models.MiscExpense, error) {
	expenses, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	currentMonth := r.now().Format("2006-01")
	visible := make([]models.MiscExpense, 0, len(expenses))
	for _, e := range expenses {
		if !sc.AllowsMisc(e) {
			continue
		}
		if f.Previous {
			if e.Month() >= currentMonth {
				continue
			}
		} else if e.Month() != currentMonth {
			continue
		}
		if f.User != "" && sc.IsAdmin() && e.User != f.User {
			continue
		}
		if f.Description != "" && e.Description != f.Description {
			continue
		}
		if f.PaidBy != "" && e.PaidBy != f.PaidBy {
			continue
		}
		if f.Month != "" && !strings.HasPrefix(e.Date, f.Month) {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

// Get returns the misc expense with the given id. Missing id is
// ErrNotFound; a row owned by another user is ErrAccessDenied for
// non-admins.
func (r *MiscExpenses) Get(ctx context.Context, sc scope.Scope, id int) (models.MiscExpense, error) {
	expenses, err := r.col.Load(ctx)
	if err != nil {
		return models.MiscExpense{}, err
	}
	for _, e := range expenses {
		if e.ID == id {
			if !sc.AllowsMisc(e) {
				return models.MiscExpense{}, ErrAccessDenied
			}
			return e, nil
		}
	}
	return models.MiscExpense{}, ErrNotFound
}

// Create appends a new misc expense with an allocator-assigned id.
func (r *MiscExpenses) Create(ctx context.Context, expense models.MiscExpense) (models.MiscExpense, error) {
	if expense.Amount < 0 {
		return models.MiscExpense{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if err := required("date", expense.Date); err != nil {
		return models.MiscExpense{}, err
	}
	if err := required("user", expense.User); err != nil {
		return models.MiscExpense{}, err
	}
	if err := required("description", expense.Description); err != nil {
		return models.MiscExpense{}, err
	}
	if err := required("paid_by", expense.PaidBy); err != nil {
		return models.MiscExpense{}, err
	}
	err := r.col.Update(ctx, func(expenses []models.MiscExpense) ([]models.MiscExpense, error) {
		expense.ID = storage.NextID(expenses)
		return append(expenses, expense), nil
	})
	if err != nil {
		return models.MiscExpense{}, err
	}
	return expense, nil
}

// Update replaces the row's mutable fields in place.
func (r *MiscExpenses) Update(ctx context.Context, id int, expense models.MiscExpense) (models.MiscExpense, error) {
	if expense.Amount < 0 {
		return models.MiscExpense{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	var updated models.MiscExpense
	err := r.col.Update(ctx, func(expenses []models.MiscExpense) ([]models.MiscExpense, error) {
		for i := range expenses {
			if expenses[i].ID == id {
				expenses[i].Date = expense.Date
				expenses[i].User = expense.User
				expenses[i].Description = expense.Description
				expenses[i].Amount = expense.Amount
				expenses[i].PaidBy = expense.PaidBy
				expenses[i].Remarks = expense.Remarks
				updated = expenses[i]
				return expenses, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.MiscExpense{}, err
	}
	return updated, nil
}

// Delete removes the row and reports whether anything was removed.
func (r *MiscExpenses) Delete(ctx context.Context, id int) (bool, error) {
	removed := false
	err := r.col.Update(ctx, func(expenses []models.MiscExpense) ([]models.MiscExpense, error) {
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

// Options lists the distinct filter values present across the whole
// collection, regardless of scope, matching what the filter dropdowns
// have always offered.
type Options struct {
	Users        []string `json:"users"`
	Descriptions []string `json:"descriptions"`
	PaidBy       []string `json:"paid_by"`
	Months       []string `json:"months"` // newest first
}

// FilterOptions derives the distinct users, descriptions, payers and
// months across all stored rows.
func (r *MiscExpenses) FilterOptions(ctx context.Context) (Options, error) {
	expenses, err := r.col.Load(ctx)
	if err != nil {
		return Options{}, err
	}
	users := make(map[string]struct{})
	descriptions := make(map[string]struct{})
	paidBy := make(map[string]struct{})
	months := make(map[string]struct{})
	for _, e := range expenses {
		if e.User != "" {
			users[e.User] = struct{}{}
		}
		if e.Description != "" {
			descriptions[e.Description] = struct{}{}
		}
		if e.PaidBy != "" {
			paidBy[e.PaidBy] = struct{}{}
		}
		if m := e.Month(); m != "" {
			months[m] = struct{}{}
		}
	}
	opts := Options{
		Users:        sortedKeys(users),
		Descriptions: sortedKeys(descriptions),
		PaidBy:       sortedKeys(paidBy),
		Months:       sortedKeys(months),
	}
	// Months read newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(opts.Months)))
	return opts, nil
}

// Total sums the amounts of the given rows.
func Total(expenses []models.MiscExpense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
