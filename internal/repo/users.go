package repo

import (
	"context"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/storage"
)

// Users is the repository over the users collection, keyed by username.
type Users struct {
	col *storage.Collection[models.User]
}

// NewUsers creates the users repository on the given backend.
func NewUsers(backend storage.Backend) *Users {
	return &Users{col: storage.NewCollection[models.User](backend, "users")}
}

// List returns every user account.
func (r *Users) List(ctx context.Context) ([]models.User, error) {
	return r.col.Load(ctx)
}

// Get returns the first user with the given username, or ErrNotFound.
func (r *Users) Get(ctx context.Context, username string) (models.User, error) {
	users, err := r.col.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// Create appends a new user account. Username uniqueness is deliberately
// NOT enforced: the system has always accepted a second account with the
// same username, and existing data files may contain such pairs. Login
// resolves to the first match, so the duplicate is effectively shadowed
// rather than rejected.
func (r *Users) Create(ctx context.Context, user models.User) (models.User, error) {
	if err := required("username", user.Username); err != nil {
		return models.User{}, err
	}
	if err := required("password", user.Password); err != nil {
		return models.User{}, err
	}
	if err := required("role", string(user.Role)); err != nil {
		return models.User{}, err
	}
	err := r.col.Update(ctx, func(users []models.User) ([]models.User, error) {
		return append(users, user), nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Update renames a user and/or changes their role. Both fields are
// required; an empty value is a validation failure, not a partial update.
func (r *Users) Update(ctx context.Context, username, newUsername string, newRole models.Role) (models.User, error) {
	if err := required("username", newUsername); err != nil {
		return models.User{}, err
	}
	if err := required("role", string(newRole)); err != nil {
		return models.User{}, err
	}
	var updated models.User
	err := r.col.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].Username == username {
				users[i].Username = newUsername
				users[i].Role = newRole
				updated = users[i]
				return users, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// Delete removes every account with the given username and reports
// whether anything was removed.
func (r *Users) Delete(ctx context.Context, username string) (bool, error) {
	removed := false
	err := r.col.Update(ctx, func(users []models.User) ([]models.User, error) {
		kept := users[:0]
		for _, u := range users {
			if u.Username == username {
				removed = true
				continue
			}
			kept = append(kept, u)
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// ChangePassword replaces the user's password after verifying the old
// one. The old password must match the stored value exactly (passwords
// are stored as entered, case-sensitive) and the new password must match
// its confirmation; either mismatch is a validation failure.
func (r *Users) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	if err := required("new_password", newPassword); err != nil {
		return err
	}
	return r.col.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].Username != username {
				continue
			}
			if users[i].Password != oldPassword {
				return nil, &ValidationError{Field: "old_password", Reason: "does not match current password"}
			}
			if newPassword != confirm {
				return nil, &ValidationError{Field: "confirm_password", Reason: "does not match new password"}
			}
			users[i].Password = newPassword
			return users, nil
		}
		return nil, ErrNotFound
	})
}
