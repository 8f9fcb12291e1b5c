package models

// Project lifecycle states. Projects are never deleted as part of normal
// flow; completion is the terminal transition.
const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Project groups expenses and progress entries and carries the membership
// list that authorization scopes are derived from.
type Project struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	Status      string   `json:"status"`
}

// HasMember reports whether the given username is on the project.
func (p Project) HasMember(username string) bool {
	for _, u := range p.Users {
		if u == username {
			return true
		}
	}
	return false
}

// Completed reports whether the project has been marked completed.
func (p Project) Completed() bool {
	return p.Status == StatusCompleted
}
