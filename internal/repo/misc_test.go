package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/scope"
	"github.com/softcentric/tracker/internal/storage/memory"
)

func TestMiscExpenses(t *testing.T) {
	ctx := context.Background()
	// Pin "now" to March 2024 so the month partition is stable.
	now := func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	adminScope := scope.For("root", models.RoleAdmin, nil)

	seed := func(t *testing.T) *MiscExpenses {
		t.Helper()
		misc := NewMiscExpensesAt(memory.New(), now)
		rows := []models.MiscExpense{
			{Date: "2024-03-02", User: "bob", Description: "snacks", Amount: 12.5, PaidBy: "bob"},
			{Date: "2024-03-20 09:30", User: "dana", Description: "cab", Amount: 30, PaidBy: "office"},
			{Date: "2024-02-28", User: "bob", Description: "snacks", Amount: 8, PaidBy: "office"},
			{Date: "2023-12-01", User: "dana", Description: "decor", Amount: 50, PaidBy: "dana"},
		}
		for _, r := range rows {
			if _, err := misc.Create(ctx, r); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}
		return misc
	}

	t.Run("default listing is the current month", func(t *testing.T) {
		misc := seed(t)
		got, err := misc.List(ctx, adminScope, MiscFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("current month rows = %d, want 2", len(got))
		}
		if total := Total(got); total != 42.5 {
			t.Errorf("Total = %v, want 42.5", total)
		}
	})

	t.Run("previous selects strictly earlier months", func(t *testing.T) {
		misc := seed(t)
		got, err := misc.List(ctx, adminScope, MiscFilter{Previous: true})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("previous rows = %d, want 2", len(got))
		}
		for _, e := range got {
			if e.Month() >= "2024-03" {
				t.Errorf("row %d from %q leaked into previous partition", e.ID, e.Date)
			}
		}
	})

	t.Run("month filter matches the date prefix regardless of the rest", func(t *testing.T) {
		misc := seed(t)
		got, err := misc.List(ctx, adminScope, MiscFilter{Month: "2024-03"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("month filter rows = %d, want 2", len(got))
		}
		for _, e := range got {
			if e.Month() != "2024-03" {
				t.Errorf("unexpected row dated %q", e.Date)
			}
		}
	})

	t.Run("members see only their own rows", func(t *testing.T) {
		misc := seed(t)
		bob := scope.For("bob", models.RoleMember, nil)
		got, err := misc.List(ctx, bob, MiscFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		for _, e := range got {
			if e.User != "bob" {
				t.Errorf("bob sees %q's row", e.User)
			}
		}
		// Direct lookup of another user's row is an explicit denial.
		if _, err := misc.Get(ctx, bob, 2); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("user filter applies for admins only", func(t *testing.T) {
		misc := seed(t)
		got, err := misc.List(ctx, adminScope, MiscFilter{User: "dana"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].User != "dana" {
			t.Errorf("admin user filter = %v", got)
		}

		// For a member the filter is ignored; the scope already pins the user.
		bob := scope.For("bob", models.RoleMember, nil)
		got, err = misc.List(ctx, bob, MiscFilter{User: "dana"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].User != "bob" {
			t.Errorf("member user filter = %v", got)
		}
	})

	t.Run("filter options cover the whole collection", func(t *testing.T) {
		misc := seed(t)
		opts, err := misc.FilterOptions(ctx)
		if err != nil {
			t.Fatalf("FilterOptions failed: %v", err)
		}
		if len(opts.Users) != 2 || opts.Users[0] != "bob" {
			t.Errorf("Users = %v", opts.Users)
		}
		if len(opts.Months) != 3 || opts.Months[0] != "2024-03" {
			t.Errorf("Months (newest first) = %v", opts.Months)
		}
		if len(opts.PaidBy) != 3 {
			t.Errorf("PaidBy = %v", opts.PaidBy)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		misc := seed(t)
		updated, err := misc.Update(ctx, 1, models.MiscExpense{
			Date: "2024-03-02", User: "bob", Description: "snacks", Amount: 15, PaidBy: "office", Remarks: "receipt attached",
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.ID != 1 || updated.Amount != 15 || updated.Remarks != "receipt attached" {
			t.Errorf("updated = %+v", updated)
		}
		if _, err := misc.Update(ctx, 99, models.MiscExpense{Date: "2024-03-02", User: "bob", Description: "x", PaidBy: "bob"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		removed, err := misc.Delete(ctx, 1)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if !removed {
			t.Error("expected a removal")
		}
		if _, err := misc.Get(ctx, adminScope, 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("create validates required fields", func(t *testing.T) {
		misc := NewMiscExpensesAt(memory.New(), now)
		var ve *ValidationError
		_, err := misc.Create(ctx, models.MiscExpense{Date: "2024-03-01", User: "bob", Description: "x", PaidBy: "bob", Amount: -5})
		if !errors.As(err, &ve) {
			t.Errorf("negative amount: expected validation error, got %v", err)
		}
		_, err = misc.Create(ctx, models.MiscExpense{User: "bob", Description: "x", PaidBy: "bob"})
		if !errors.As(err, &ve) {
			t.Errorf("missing date: expected validation error, got %v", err)
		}
	})
}
