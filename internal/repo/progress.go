package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/scope"
	"github.com/softcentric/tracker/internal/storage"
)

// Progress is the repository over the progress entries collection.
type Progress struct {
	col *storage.Collection[models.ProgressEntry]
}

// NewProgress creates the progress repository on the given backend.
func NewProgress(backend storage.Backend) *Progress {
	return &Progress{col: storage.NewCollection[models.ProgressEntry](backend, "progress")}
}

// ProgressFilter narrows a progress listing. User matches as a
// case-insensitive substring of the author username.
type ProgressFilter struct {
	ProjectID int
	User      string
}

// List returns the entries whose project is inside sc, then applies the
// caller's filter.
func (r *Progress) List(ctx context.Context, sc scope.Scope, f ProgressFilter) ([]models.ProgressEntry, error) {
	entries, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.ProgressEntry, 0, len(entries))
	for _, e := range entries {
		if !sc.AllowsProject(e.ProjectID) {
			continue
		}
		if f.ProjectID != 0 && e.ProjectID != f.ProjectID {
			continue
		}
		if f.User != "" && !strings.Contains(strings.ToLower(e.User), strings.ToLower(f.User)) {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

// Get returns the entry with the given id. Missing id is ErrNotFound; an
// id whose project is outside sc is ErrAccessDenied.
func (r *Progress) Get(ctx context.Context, sc scope.Scope, id int) (models.ProgressEntry, error) {
	entries, err := r.col.Load(ctx)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			if !sc.AllowsProject(e.ProjectID) {
				return models.ProgressEntry{}, ErrAccessDenied
			}
			return e, nil
		}
	}
	return models.ProgressEntry{}, ErrNotFound
}

// Create appends a new entry with an allocator-assigned id. Instructions
// start absent; only SetInstructions fills them in later.
func (r *Progress) Create(ctx context.Context, entry models.ProgressEntry) (models.ProgressEntry, error) {
	if err := required("update", entry.Update); err != nil {
		return models.ProgressEntry{}, err
	}
	if err := required("user", entry.User); err != nil {
		return models.ProgressEntry{}, err
	}
	entry.Instructions = ""
	err := r.col.Update(ctx, func(entries []models.ProgressEntry) ([]models.ProgressEntry, error) {
		entry.ID = storage.NextID(entries)
		return append(entries, entry), nil
	})
	if err != nil {
		return models.ProgressEntry{}, err
	}
	return entry, nil
}

// Update replaces the entry's update text and date in place. The author
// and instructions are not touched.
func (r *Progress) Update(ctx context.Context, id int, update, date string) (models.ProgressEntry, error) {
	if err := required("update", update); err != nil {
		return models.ProgressEntry{}, err
	}
	var updated models.ProgressEntry
	err := r.col.Update(ctx, func(entries []models.ProgressEntry) ([]models.ProgressEntry, error) {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Update = update
				entries[i].Date = date
				updated = entries[i]
				return entries, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.ProgressEntry{}, err
	}
	return updated, nil
}

// SetInstructions sets only the instructions field of the entry,
// leaving every other field untouched. Blank instruction text is a
// validation failure; a missing id is ErrNotFound.
func (r *Progress) SetInstructions(ctx context.Context, id int, instructions string) (models.ProgressEntry, error) {
	if strings.TrimSpace(instructions) == "" {
		return models.ProgressEntry{}, &ValidationError{Field: "instructions", Reason: "must not be empty"}
	}
	var updated models.ProgressEntry
	err := r.col.Update(ctx, func(entries []models.ProgressEntry) ([]models.ProgressEntry, error) {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Instructions = instructions
				updated = entries[i]
				return entries, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.ProgressEntry{}, err
	}
	return updated, nil
}

// Delete removes the entry and reports whether anything was removed.
func (r *Progress) Delete(ctx context.Context, id int) (bool, error) {
	removed := false
	err := r.col.Update(ctx, func(entries []models.ProgressEntry) ([]models.ProgressEntry, error) {
		kept := entries[:0]
		for _, e := range entries {
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

// Authors returns the distinct non-empty author usernames of the given
// entries, sorted.
func Authors(entries []models.ProgressEntry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.User != "" {
			seen[e.User] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
