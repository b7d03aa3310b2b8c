package repository

import (
	"context"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every read and write is scoped to an owner.
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// ListByOwner returns the owner's tasks, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)

	// FindOwned finds a task by ID among the owner's tasks
	FindOwned(ctx context.Context, ownerID, id string) (*models.Task, error)

	// UpdateOwned applies the changes to an owned task and reports whether it matched
	UpdateOwned(ctx context.Context, ownerID, id string, changes TaskChanges) (bool, error)

	// DeleteOwned permanently removes an owned task and reports whether it matched
	DeleteOwned(ctx context.Context, ownerID, id string) (bool, error)
}

// TaskChanges holds the mutable task columns. Nil fields are left untouched.
type TaskChanges struct {
	Title     *string
	Completed *bool
	UpdatedAt time.Time
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
