package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/softcentric/tracker/internal/auth"
	"github.com/softcentric/tracker/internal/messaging"
	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/repo"
	"github.com/softcentric/tracker/internal/storage/memory"
)

// newTestServer builds a server over an in-memory backend seeded with an
// admin, a member, and two projects (bob is on project 1 only).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	backend := memory.New()
	users := repo.NewUsers(backend)
	projects := repo.NewProjects(backend)

	ctx := context.Background()
	seedUsers := []models.User{
		{Username: "root", Password: "rootpass", Role: models.RoleAdmin},
		{Username: "bob", Password: "bobpass", Role: models.RoleMember},
	}
	for _, u := range seedUsers {
		if _, err := users.Create(ctx, u); err != nil {
			t.Fatalf("seeding user %s: %v", u.Username, err)
		}
	}
	if _, err := projects.Create(ctx, "Warehouse", "fit-out", []string{"bob"}); err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	if _, err := projects.Create(ctx, "Office", "renovation", nil); err != nil {
		t.Fatalf("seeding project: %v", err)
	}

	srv := New(
		users,
		projects,
		repo.NewExpenses(backend),
		repo.NewProgress(backend),
		repo.NewMiscExpenses(backend),
		messaging.NewIndex(repo.NewMessages(backend)),
		auth.NewAuthenticator(users),
		auth.NewJWTManager("test-secret", time.Hour),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

// login obtains a bearer token through the real login endpoint.
func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	body, status := doJSON(t, ts, http.MethodPost, "/api/login", "",
		map[string]string{"username": username, "password": password})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, status, body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.Token
}

// doJSON issues a request with an optional bearer token and JSON body,
// returning the response body and status code.
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, payload any) ([]byte, int) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encoding request: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	return data, resp.StatusCode
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("valid credentials return a token", func(t *testing.T) {
		token := login(t, ts, "root", "rootpass")
		if token == "" {
			t.Fatal("expected a non-empty token")
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodPost, "/api/login", "",
			map[string]string{"username": "root", "password": "ROOTPASS"})
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/login", bytes.NewBufferString("{"))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no token is 401", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/projects", "", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/projects", "not.a.token", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("metrics endpoint is public", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/metrics", "", nil)
		if status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})
}

func TestProjectVisibility(t *testing.T) {
	ts := newTestServer(t)
	rootToken := login(t, ts, "root", "rootpass")
	bobToken := login(t, ts, "bob", "bobpass")

	t.Run("admin sees all in-progress projects", func(t *testing.T) {
		body, status := doJSON(t, ts, http.MethodGet, "/api/projects", rootToken, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %s", status, body)
		}
		var projects []models.Project
		if err := json.Unmarshal(body, &projects); err != nil {
			t.Fatalf("decoding projects: %v", err)
		}
		if len(projects) != 2 {
			t.Errorf("got %d projects, want 2", len(projects))
		}
	})

	t.Run("member sees only assigned projects", func(t *testing.T) {
		body, _ := doJSON(t, ts, http.MethodGet, "/api/projects", bobToken, nil)
		var projects []models.Project
		if err := json.Unmarshal(body, &projects); err != nil {
			t.Fatalf("decoding projects: %v", err)
		}
		if len(projects) != 1 || projects[0].Name != "Warehouse" {
			t.Errorf("projects = %+v, want only Warehouse", projects)
		}
	})

	t.Run("member fetching an unassigned project is 403", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/projects/2", bobToken, nil)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("missing project is 404", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/projects/99", rootToken, nil)
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/projects/first", rootToken, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})
}

func TestAdminGuard(t *testing.T) {
	ts := newTestServer(t)
	rootToken := login(t, ts, "root", "rootpass")
	bobToken := login(t, ts, "bob", "bobpass")

	t.Run("member cannot create projects", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodPost, "/api/projects", bobToken,
			map[string]any{"name": "Sneaky"})
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("member cannot list users", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/users", bobToken, nil)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("admin creates a project", func(t *testing.T) {
		body, status := doJSON(t, ts, http.MethodPost, "/api/projects", rootToken,
			map[string]any{"name": "Depot", "users": []string{"bob"}})
		if status != http.StatusCreated {
			t.Fatalf("status = %d, body %s", status, body)
		}
		var project models.Project
		if err := json.Unmarshal(body, &project); err != nil {
			t.Fatalf("decoding project: %v", err)
		}
		if project.ID != 3 || project.Status != models.StatusInProgress {
			t.Errorf("project = %+v", project)
		}
	})

	t.Run("create without a name is 400", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodPost, "/api/projects", rootToken,
			map[string]any{"description": "nameless"})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})
}

func TestExpenseScoping(t *testing.T) {
	ts := newTestServer(t)
	rootToken := login(t, ts, "root", "rootpass")
	bobToken := login(t, ts, "bob", "bobpass")

	// Expenses on both projects. Bob is only on project 1.
	for i, exp := range []map[string]any{
		{"project_id": 1, "amount": 120.0, "description": "Cement", "date": "2024-03-01"},
		{"project_id": 2, "amount": 80.0, "description": "Paint", "date": "2024-03-02"},
	} {
		body, status := doJSON(t, ts, http.MethodPost, "/api/expenses", rootToken, exp)
		if status != http.StatusCreated {
			t.Fatalf("seeding expense %d: status %d, body %s", i, status, body)
		}
	}

	t.Run("member lists only expenses of assigned projects", func(t *testing.T) {
		body, _ := doJSON(t, ts, http.MethodGet, "/api/expenses", bobToken, nil)
		var resp struct {
			Expenses     []models.Expense `json:"expenses"`
			Descriptions []string         `json:"descriptions"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decoding expenses: %v", err)
		}
		if len(resp.Expenses) != 1 || resp.Expenses[0].Description != "Cement" {
			t.Errorf("expenses = %+v, want only Cement", resp.Expenses)
		}
		if len(resp.Descriptions) != 1 || resp.Descriptions[0] != "Cement" {
			t.Errorf("descriptions = %v, want [Cement]", resp.Descriptions)
		}
	})

	t.Run("member cannot add an expense to an unassigned project", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodPost, "/api/expenses", bobToken,
			map[string]any{"project_id": 2, "amount": 5.0, "description": "Nails", "date": "2024-03-03"})
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("direct lookup outside scope is 403", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodGet, "/api/expenses/2", bobToken, nil)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})
}

func TestMessagingEndpoints(t *testing.T) {
	ts := newTestServer(t)
	rootToken := login(t, ts, "root", "rootpass")
	bobToken := login(t, ts, "bob", "bobpass")

	_, status := doJSON(t, ts, http.MethodPost, "/api/messages", rootToken,
		map[string]string{"receiver": "bob", "message": "site visit at 9"})
	if status != http.StatusCreated {
		t.Fatalf("send: status = %d", status)
	}

	unreadOf := func(t *testing.T, token string) []models.Message {
		t.Helper()
		body, status := doJSON(t, ts, http.MethodGet, "/api/messages/unread", token, nil)
		if status != http.StatusOK {
			t.Fatalf("unread: status = %d, body %s", status, body)
		}
		var resp struct {
			Unread []models.Message `json:"unread"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decoding unread: %v", err)
		}
		return resp.Unread
	}

	t.Run("recipient sees one unread message", func(t *testing.T) {
		unread := unreadOf(t, bobToken)
		if len(unread) != 1 || unread[0].Message != "site visit at 9" {
			t.Errorf("unread = %+v, want one message", unread)
		}
	})

	t.Run("opening the thread marks it read", func(t *testing.T) {
		body, status := doJSON(t, ts, http.MethodGet, "/api/messages/root", bobToken, nil)
		if status != http.StatusOK {
			t.Fatalf("thread: status = %d, body %s", status, body)
		}
		if unread := unreadOf(t, bobToken); len(unread) != 0 {
			t.Errorf("unread = %+v, want none after reading", unread)
		}
	})

	t.Run("sender's own unread list is unaffected", func(t *testing.T) {
		if unread := unreadOf(t, rootToken); len(unread) != 0 {
			t.Errorf("unread = %+v, want none", unread)
		}
	})
}

func TestPasswordChangeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	bobToken := login(t, ts, "bob", "bobpass")

	t.Run("wrong current password is 400", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodPost, "/api/users/password", bobToken,
			map[string]string{"old_password": "wrong", "new_password": "next", "confirm_password": "next"})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("successful change invalidates the old password", func(t *testing.T) {
		_, status := doJSON(t, ts, http.MethodPost, "/api/users/password", bobToken,
			map[string]string{"old_password": "bobpass", "new_password": "next", "confirm_password": "next"})
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if _, status := doJSON(t, ts, http.MethodPost, "/api/login", "",
			map[string]string{"username": "bob", "password": "bobpass"}); status != http.StatusUnauthorized {
			t.Errorf("old password login status = %d, want 401", status)
		}
		login(t, ts, "bob", "next")
	})
}
