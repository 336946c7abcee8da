package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID            string     `gorm:"type:varchar(36);primarykey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Priority      int        `gorm:"not null;default:2" json:"priority"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'to-do'" json:"status"`
	Deadline      time.Time  `gorm:"not null" json:"deadline"`
	ActualTime    float64    `gorm:"not null;default:0" json:"actual_time"`
	PublisherID   string     `gorm:"type:varchar(36);not null" json:"publisher"`
	ResponsibleID *string    `gorm:"type:varchar(36)" json:"responsible"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsResponsible reports whether userID is the current assignee.
func (t *Task) IsResponsible(userID string) bool {
	return t.ResponsibleID != nil && *t.ResponsibleID != "" && *t.ResponsibleID == userID
}
