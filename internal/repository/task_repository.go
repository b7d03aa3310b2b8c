package repository

import (
	"context"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// ListByOwner retrieves all tasks of one owner, newest first
func (r *GormTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(ownerID), database.NewestFirst).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOwned finds a task by ID that belongs to ownerID
func (r *GormTaskRepository) FindOwned(ctx context.Context, ownerID, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateOwned updates the given columns in a single statement filtered by id and owner
func (r *GormTaskRepository) UpdateOwned(ctx context.Context, ownerID, id string, changes TaskChanges) (bool, error) {
	columns := map[string]any{
		"updated_at": changes.UpdatedAt,
	}
	if changes.Title != nil {
		columns["title"] = *changes.Title
	}
	if changes.Completed != nil {
		columns["completed"] = *changes.Completed
	}

	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(ownerID)).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteOwned hard deletes a task in a single statement filtered by id and owner
func (r *GormTaskRepository) DeleteOwned(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
