package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound             = errors.New("task not found")
	ErrTitleRequired            = errors.New("task title is required")
	ErrTitleEmpty               = errors.New("title cannot be empty")
	ErrInvalidTitle             = errors.New("title must be a string")
	ErrInvalidCompleted         = errors.New("completed must be a boolean")
	ErrUnknownTaskField         = errors.New("field cannot be updated")
	ErrNoTaskChanges            = errors.New("at least one of title or completed is required")
	ErrTextRequired             = errors.New("text is required")
	ErrSuggestionsNotConfigured = errors.New("AI service is not configured")
	ErrNoSuggestionsGenerated   = errors.New("AI did not suggest any tasks")
)

// TaskService handles task business logic. Every operation is scoped to the caller's owner ID.
type TaskService struct {
	taskRepo  repository.TaskRepository
	suggester TaskSuggester
	now       func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil.
func NewTaskService(taskRepo repository.TaskRepository, suggester TaskSuggester) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		suggester: suggester,
		now:       time.Now,
	}
}

// UpdateTaskInput represents the mutable fields of a task. Nil means unchanged.
type UpdateTaskInput struct {
	Title     *string
	Completed *bool
}

// ParseTaskPatch turns a JSON patch body into an UpdateTaskInput.
// Only title and completed may be changed; anything else is rejected.
func ParseTaskPatch(raw map[string]json.RawMessage) (UpdateTaskInput, error) {
	var input UpdateTaskInput

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		switch key {
		case "title":
			var title *string
			if err := json.Unmarshal(value, &title); err != nil || title == nil {
				return UpdateTaskInput{}, ErrInvalidTitle
			}
			input.Title = title
		case "completed":
			var completed *bool
			if err := json.Unmarshal(value, &completed); err != nil || completed == nil {
				return UpdateTaskInput{}, ErrInvalidCompleted
			}
			input.Completed = completed
		default:
			return UpdateTaskInput{}, fmt.Errorf("%w: %s", ErrUnknownTaskField, key)
		}
	}

	return input, nil
}

// ListTasks returns the owner's tasks, newest first. Never nil.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// CreateTask creates a new incomplete task owned by ownerID
func (s *TaskService) CreateTask(ctx context.Context, ownerID, title string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	now := s.now()
	task := &models.Task{
		Title:     title,
		Completed: false,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns one of the owner's tasks. Tasks owned by someone else are reported as not found.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask merges the provided fields into an owned task and refreshes updated_at
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) error {
	if input.Title == nil && input.Completed == nil {
		return ErrNoTaskChanges
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return ErrTitleEmpty
	}

	matched, err := s.taskRepo.UpdateOwned(ctx, ownerID, taskID, repository.TaskChanges{
		Title:     input.Title,
		Completed: input.Completed,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if !matched {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask permanently removes an owned task
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	matched, err := s.taskRepo.DeleteOwned(ctx, ownerID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !matched {
		return ErrTaskNotFound
	}

	return nil
}

// SuggestTasks extracts task titles from free text. Nothing is persisted.
func (s *TaskService) SuggestTasks(ctx context.Context, text string) ([]string, error) {
	if s.suggester == nil {
		return nil, ErrSuggestionsNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	titles, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	suggestions := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		suggestions = append(suggestions, title)
		if len(suggestions) == constants.MaxSuggestedTasks {
			break
		}
	}

	if len(suggestions) == 0 {
		return nil, ErrNoSuggestionsGenerated
	}

	return suggestions, nil
}
