package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/subhrajit77/DoDeck-The-Task-manager/middleware"
	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// TaskStore is what the task endpoints need from the task store. Every
// implementation must scope reads and writes to the owner argument.
type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	ByOwner(ctx context.Context, owner int64) ([]models.Task, error)
	ByID(ctx context.Context, owner int64, id string) (*models.Task, error)
	Update(ctx context.Context, owner int64, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, owner int64, id string) error
}

// TaskHandler serves the owner-scoped task CRUD. events may be nil;
// when set, mutations notify the owner's open change streams.
type TaskHandler struct {
	tasks  TaskStore
	events *EventHub
}

func NewTaskHandler(tasks TaskStore, events *EventHub) *TaskHandler {
	return &TaskHandler{tasks: tasks, events: events}
}

type createTaskInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     string      `json:"dueDate"`
	Completed   models.Flag `json:"completed"`
}

// Create stores a new task owned by the caller.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	in := new(createTaskInput)
	if err := c.BodyParser(in); err != nil {
		if models.IsValidation(err) {
			return fail(c, err)
		}
		return respond(c, fiber.StatusBadRequest, "invalid request body")
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return respond(c, fiber.StatusBadRequest, "title is required")
	}

	priority := models.PriorityLow
	if in.Priority != "" {
		p, err := models.ParsePriority(in.Priority)
		if err != nil {
			return fail(c, err)
		}
		priority = p
	}

	dueDate, err := models.NormalizeDueDate(in.DueDate)
	if err != nil {
		return fail(c, err)
	}

	owner := middleware.Identity(c).ID
	task := &models.Task{
		Owner:       owner,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		DueDate:     dueDate,
		Completed:   bool(in.Completed),
	}
	if err := h.tasks.Create(c.UserContext(), task); err != nil {
		return fail(c, err)
	}

	h.events.NotifyTasksChanged(owner)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"task":    task,
	})
}

// List returns all of the caller's tasks, newest first.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.tasks.ByOwner(c.UserContext(), middleware.Identity(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"tasks":   tasks,
	})
}

// Get returns one task. A task owned by someone else looks exactly
// like a missing one.
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, err := h.tasks.ByID(c.UserContext(), middleware.Identity(c).ID, c.Params("id"))
	if errors.Is(err, models.ErrNotFound) {
		return respond(c, fiber.StatusNotFound, "task not found")
	}
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"task":    task,
	})
}

type updateTaskInput struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Priority    *string      `json:"priority"`
	DueDate     *string      `json:"dueDate"`
	Completed   *models.Flag `json:"completed"`
}

// Update applies only the fields present in the body.
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	in := new(updateTaskInput)
	if err := c.BodyParser(in); err != nil {
		if models.IsValidation(err) {
			return fail(c, err)
		}
		return respond(c, fiber.StatusBadRequest, "invalid request body")
	}

	var patch models.TaskPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return respond(c, fiber.StatusBadRequest, "title is required")
		}
		patch.Title = &title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		patch.Description = &desc
	}
	if in.Priority != nil {
		p, err := models.ParsePriority(*in.Priority)
		if err != nil {
			return fail(c, err)
		}
		patch.Priority = &p
	}
	if in.DueDate != nil {
		due, err := models.NormalizeDueDate(*in.DueDate)
		if err != nil {
			return fail(c, err)
		}
		patch.DueDate = &due
	}
	if in.Completed != nil {
		completed := bool(*in.Completed)
		patch.Completed = &completed
	}

	owner := middleware.Identity(c).ID
	task, err := h.tasks.Update(c.UserContext(), owner, c.Params("id"), patch)
	if errors.Is(err, models.ErrNotFound) {
		return respond(c, fiber.StatusNotFound, "task not found")
	}
	if err != nil {
		return fail(c, err)
	}

	h.events.NotifyTasksChanged(owner)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"task":    task,
	})
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	owner := middleware.Identity(c).ID
	err := h.tasks.Delete(c.UserContext(), owner, c.Params("id"))
	if errors.Is(err, models.ErrNotFound) {
		return respond(c, fiber.StatusNotFound, "task not found")
	}
	if err != nil {
		return fail(c, err)
	}

	h.events.NotifyTasksChanged(owner)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "task deleted successfully",
	})
}
