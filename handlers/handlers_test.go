package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subhrajit77/DoDeck-The-Task-manager/config"
	"github.com/subhrajit77/DoDeck-The-Task-manager/handlers"
	"github.com/subhrajit77/DoDeck-The-Task-manager/middleware"
	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
	"github.com/subhrajit77/DoDeck-The-Task-manager/router"
)

// fakeUsers is an in-memory credential store with the same contract as
// database.Users.
type fakeUsers struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return nil, models.ErrConflict
		}
	}
	f.seq++
	u := &models.User{ID: f.seq, Name: name, Email: email, Password: passwordHash}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUsers) ByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, name, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for otherID, u := range f.byID {
		if otherID != id && u.Email == email {
			return nil, models.ErrConflict
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Name, u.Email = name, email
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUsers) delete(id int64) {
	f.mu.Lock()
	delete(f.byID, id)
	f.mu.Unlock()
}

// fakeTasks is an in-memory task store. Creation timestamps increase
// monotonically so list ordering is deterministic.
type fakeTasks struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.Task
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{byID: map[string]*models.Task{}}
}

func (f *fakeTasks) Create(_ context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = fmt.Sprintf("task-%04d", f.seq)
	t.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
	copied := *t
	f.byID[t.ID] = &copied
	return nil
}

func (f *fakeTasks) ByOwner(_ context.Context, owner int64) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Task{}
	for _, t := range f.byID {
		if t.Owner == owner {
			out = append(out, *t)
		}
	}
	// Newest first.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeTasks) ByID(_ context.Context, owner int64, id string) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.Owner != owner {
		return nil, models.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTasks) Update(_ context.Context, owner int64, id string, patch models.TaskPatch) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.Owner != owner {
		return nil, models.ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTasks) Delete(_ context.Context, owner int64, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.Owner != owner {
		return models.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// testEnv is one wired app with in-memory stores.
type testEnv struct {
	app   *fiber.App
	cfg   *config.Config
	users *fakeUsers
	tasks *fakeTasks
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     []byte("test-secret"),
		TokenLifetime: 24 * time.Hour,
	}
	users := newFakeUsers()
	tasks := newFakeTasks()

	app := fiber.New()
	protect := middleware.Protected(cfg, users)
	auth := handlers.NewAuthHandler(cfg, users)
	taskHandler := handlers.NewTaskHandler(tasks, nil)
	router.SetupRoutes(app, protect, auth, taskHandler, handlers.NewEventHub())

	return &testEnv{app: app, cfg: cfg, users: users, tasks: tasks}
}

// request performs one call against the app and decodes the JSON body.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, name, email, password string) string {
	t.Helper()
	status, body := e.request(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", email, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in %v", email, body)
	}
	return token
}

func taskField(t *testing.T, body map[string]any, field string) any {
	t.Helper()
	task, ok := body["task"].(map[string]any)
	if !ok {
		t.Fatalf("no task object in %v", body)
	}
	return task[field]
}
