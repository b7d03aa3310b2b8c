package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a to-do item owned by exactly one user. Deletes are permanent.
type Task struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_tasks_user_created,priority:1" json:"user_id"`
	CreatedAt time.Time `gorm:"index:idx_tasks_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a store-side identifier when none is set
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
