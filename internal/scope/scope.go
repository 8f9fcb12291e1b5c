// Package scope resolves a (username, role) pair into the set of records
// that user may observe.
//
// Authorization rules:
//   - Admins see every project, and transitively every expense and
//     progress entry.
//   - Members see exactly the projects whose membership list contains
//     their username; expenses and progress entries are scoped through
//     project membership, never through their own fields.
//   - Misc expenses are scoped by owning username instead: members see
//     only their own rows.
//
// A Scope is resolved once per operation against a loaded project list
// and then used as a pure predicate; it never reaches back into storage.
package scope

import "github.com/softcentric/tracker/internal/models"

// Scope is the resolved visibility of one user for one operation.
type Scope struct {
	Username string
	Role     models.Role

	all        bool
	projectIDs map[int]struct{}
}

// For derives the scope of username/role over the given projects.
// For admins the project allow-list is unbounded; for every other role it
// is the set of project ids whose users list contains username.
func For(username string, role models.Role, projects []models.Project) Scope {
	s := Scope{Username: username, Role: role}
	if role == models.RoleAdmin {
		s.all = true
		return s
	}
	s.projectIDs = make(map[int]struct{})
	for _, p := range projects {
		if p.HasMember(username) {
			s.projectIDs[p.ID] = struct{}{}
		}
	}
	return s
}

// IsAdmin reports whether the scope is unrestricted.
func (s Scope) IsAdmin() bool { return s.all }

// AllowsProject reports whether the project id is inside the scope.
func (s Scope) AllowsProject(id int) bool {
	if s.all {
		return true
	}
	_, ok := s.projectIDs[id]
	return ok
}

// Allows reports whether the project itself is inside the scope. This is
// the membership predicate applied directly, so it holds even for a
// project loaded after the scope was resolved.
func (s Scope) Allows(p models.Project) bool {
	return s.all || p.HasMember(s.Username)
}

// AllowsMisc reports whether the misc expense is visible: admins see all
// rows, members only rows attributed to them.
func (s Scope) AllowsMisc(e models.MiscExpense) bool {
	return s.all || e.User == s.Username
}
