package client

import (
	"github.com/valyala/fasthttp"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// TaskForm is the task shape at the form edge. Completed travels as
// "Yes"/"No" strings here; the server normalizes to a boolean.
type TaskForm struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   string `json:"completed,omitempty"`
}

type taskResponse struct {
	Success bool        `json:"success"`
	Task    models.Task `json:"task"`
}

// CreateTask stores a new task and returns the server's copy.
func (s *Session) CreateTask(form TaskForm) (*models.Task, error) {
	var out taskResponse
	if err := s.do(fasthttp.MethodPost, "/tasks", form, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// Tasks fetches the full task list, newest first.
func (s *Session) Tasks() ([]models.Task, error) {
	var out struct {
		Success bool          `json:"success"`
		Tasks   []models.Task `json:"tasks"`
	}
	if err := s.do(fasthttp.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// Task fetches one task by id.
func (s *Session) Task(id string) (*models.Task, error) {
	var out taskResponse
	if err := s.do(fasthttp.MethodGet, "/tasks/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// UpdateTask sends a partial update; only the keys present in fields
// are touched on the server.
func (s *Session) UpdateTask(id string, fields map[string]any) (*models.Task, error) {
	var out taskResponse
	if err := s.do(fasthttp.MethodPut, "/tasks/"+id, fields, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// DeleteTask removes a task.
func (s *Session) DeleteTask(id string) error {
	return s.do(fasthttp.MethodDelete, "/tasks/"+id, nil, nil)
}

// ToggleComplete flips a task's completed flag, sending the form-edge
// "Yes"/"No" representation.
func (s *Session) ToggleComplete(t models.Task) (*models.Task, error) {
	completed := "Yes"
	if t.Completed {
		completed = "No"
	}
	return s.UpdateTask(t.ID, map[string]any{"completed": completed})
}
