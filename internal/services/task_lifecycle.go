package services

import (
	"errors"
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
)

var (
	ErrTaskAlreadyDone   = errors.New("task is already done")
	ErrInvalidTransition = errors.New("task must be in progress to be marked done")
	ErrNotResponsible    = errors.New("only the responsible user can mark this task done")
	ErrAssigneeRequired  = errors.New("user ID is required")
	ErrTaskChanged       = errors.New("task was changed by another request")
)

// taskWrite is the column write of a transition. guard holds the column values
// the stored task must still have for the write to apply; a nil guard writes
// unconditionally.
type taskWrite struct {
	fields map[string]any
	guard  map[string]any
}

// assignTransition moves a task to in progress under uid, replacing any previous assignee.
func assignTransition(task *models.Task, uid string) (taskWrite, error) {
	if uid == "" {
		return taskWrite{}, ErrAssigneeRequired
	}
	if task.Status == models.TaskStatusDone {
		return taskWrite{}, ErrTaskAlreadyDone
	}
	return taskWrite{
		fields: map[string]any{
			"responsible_id": uid,
			"status":         models.TaskStatusInProgress,
		},
		guard: map[string]any{
			"status": []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress},
		},
	}, nil
}

// unassignTransition clears the assignee and puts the task back on the to-do column,
// whatever its current status.
func unassignTransition() taskWrite {
	return taskWrite{
		fields: map[string]any{
			"responsible_id": nil,
			"status":         models.TaskStatusTodo,
		},
	}
}

// markDoneTransition is only open to the responsible user of an in-progress task.
func markDoneTransition(task *models.Task, callerID string) (taskWrite, error) {
	if task.Status != models.TaskStatusInProgress {
		return taskWrite{}, ErrInvalidTransition
	}
	if !task.IsResponsible(callerID) {
		return taskWrite{}, ErrNotResponsible
	}
	return taskWrite{
		fields: map[string]any{
			"status": models.TaskStatusDone,
		},
		guard: map[string]any{
			"status":         models.TaskStatusInProgress,
			"responsible_id": callerID,
		},
	}, nil
}

// applyFields mirrors a successful column write onto the in-memory task.
func applyFields(task *models.Task, fields map[string]any) {
	for column, value := range fields {
		switch column {
		case "responsible_id":
			if uid, ok := value.(string); ok {
				task.ResponsibleID = &uid
			} else {
				task.ResponsibleID = nil
			}
		case "status":
			task.Status = value.(models.TaskStatus)
		case "title":
			task.Title = value.(string)
		case "description":
			task.Description = value.(string)
		case "priority":
			task.Priority = value.(int)
		case "deadline":
			task.Deadline = value.(time.Time)
		}
	}
}
