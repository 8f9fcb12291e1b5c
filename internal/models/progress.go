package models

// ProgressEntry is a status update a member logs against a project.
// Instructions is set later by an admin in response to the update; it is
// absent in older data files, which unmarshals to the empty string.
type ProgressEntry struct {
	ID           int    `json:"id"`
	ProjectID    int    `json:"project_id"`
	Update       string `json:"update"`
	Date         string `json:"date"`
	User         string `json:"user"`
	Instructions string `json:"instructions,omitempty"`
}
