package repo

import (
	"context"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/scope"
	"github.com/softcentric/tracker/internal/storage"
)

// Projects is the repository over the projects collection.
type Projects struct {
	col *storage.Collection[models.Project]
}

// NewProjects creates the projects repository on the given backend.
func NewProjects(backend storage.Backend) *Projects {
	return &Projects{col: storage.NewCollection[models.Project](backend, "projects")}
}

// ScopeFor resolves the authorization scope of username/role against the
// current project collection. The returned scope is the single source of
// truth for project visibility and for the transitive filtering of
// expenses and progress entries.
func (r *Projects) ScopeFor(ctx context.Context, username string, role models.Role) (scope.Scope, error) {
	projects, err := r.col.Load(ctx)
	if err != nil {
		return scope.Scope{}, err
	}
	return scope.For(username, role, projects), nil
}

// List returns the projects visible inside sc, in stored order.
func (r *Projects) List(ctx context.Context, sc scope.Scope) ([]models.Project, error) {
	projects, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if sc.Allows(p) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// ListByStatus returns the visible projects whose completion state
// matches completed. This backs the dashboard's in-progress/completed
// toggle.
func (r *Projects) ListByStatus(ctx context.Context, sc scope.Scope, completed bool) ([]models.Project, error) {
	projects, err := r.List(ctx, sc)
	if err != nil {
		return nil, err
	}
	filtered := projects[:0]
	for _, p := range projects {
		if p.Completed() == completed {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Get returns the project with the given id. A missing id is ErrNotFound;
// an id that exists but is outside sc is ErrAccessDenied, never an empty
// result.
func (r *Projects) Get(ctx context.Context, sc scope.Scope, id int) (models.Project, error) {
	projects, err := r.col.Load(ctx)
	if err != nil {
		return models.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			if !sc.Allows(p) {
				return models.Project{}, ErrAccessDenied
			}
			return p, nil
		}
	}
	return models.Project{}, ErrNotFound
}

// Create appends a new project with an allocator-assigned id and status
// in-progress.
func (r *Projects) Create(ctx context.Context, name, description string, users []string) (models.Project, error) {
	if err := required("name", name); err != nil {
		return models.Project{}, err
	}
	if users == nil {
		users = []string{}
	}
	var created models.Project
	err := r.col.Update(ctx, func(projects []models.Project) ([]models.Project, error) {
		created = models.Project{
			ID:          storage.NextID(projects),
			Name:        name,
			Description: description,
			Users:       users,
			Status:      models.StatusInProgress,
		}
		return append(projects, created), nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return created, nil
}

// Update replaces the project's name, description and membership in
// place. Status is not touched here; use Complete for the lifecycle
// transition.
func (r *Projects) Update(ctx context.Context, id int, name, description string, users []string) (models.Project, error) {
	if err := required("name", name); err != nil {
		return models.Project{}, err
	}
	if users == nil {
		users = []string{}
	}
	var updated models.Project
	err := r.col.Update(ctx, func(projects []models.Project) ([]models.Project, error) {
		for i := range projects {
			if projects[i].ID == id {
				projects[i].Name = name
				projects[i].Description = description
				projects[i].Users = users
				updated = projects[i]
				return projects, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.Project{}, err
	}
	return updated, nil
}

// Complete marks the project completed. Completed projects stay in the
// collection; completion is the only terminal state a project reaches.
func (r *Projects) Complete(ctx context.Context, id int) (models.Project, error) {
	var completed models.Project
	err := r.col.Update(ctx, func(projects []models.Project) ([]models.Project, error) {
		for i := range projects {
			if projects[i].ID == id {
				projects[i].Status = models.StatusCompleted
				completed = projects[i]
				return projects, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.Project{}, err
	}
	return completed, nil
}

// Delete removes the project outright. There is no cascade: expenses and
// progress entries keep their project_id and become orphaned rows, which
// listings continue to return.
func (r *Projects) Delete(ctx context.Context, id int) (bool, error) {
	removed := false
	err := r.col.Update(ctx, func(projects []models.Project) ([]models.Project, error) {
		kept := projects[:0]
		for _, p := range projects {
			if p.ID == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
