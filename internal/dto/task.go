package dto

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    *string   `json:"username"`
	DisplayName string    `json:"display_name"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    int               `json:"priority"`
	Status      models.TaskStatus `json:"status"`
	Deadline    time.Time         `json:"deadline"`
	ActualTime  float64           `json:"actual_time"`
	Publisher   string            `json:"publisher"`
	Responsible *string           `json:"responsible"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TaskListResponse is one board snapshot. There is no pagination.
type TaskListResponse struct {
	Tasks  []TaskDTO         `json:"tasks"`
	Status models.TaskStatus `json:"status"`
	User   string            `json:"user"`
	Query  string            `json:"q"`
	Sort   services.SortMode `json:"sort"`
	Count  int               `json:"count"`
}

// TaskDraftDTO represents a generated, not yet created task
type TaskDraftDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Provider:    user.Provider,
		CreatedAt:   user.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		Deadline:    task.Deadline,
		ActualTime:  task.ActualTime,
		Publisher:   task.PublisherID,
		Responsible: task.ResponsibleID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a board snapshot and the query that produced it
func ToTaskListResponse(tasks []models.Task, q services.TaskQuery) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:  items,
		Status: q.Status,
		User:   q.UserFilter,
		Query:  q.Search,
		Sort:   q.Sort,
		Count:  len(items),
	}
}

// ToTaskDraftDTOs converts generated drafts
func ToTaskDraftDTOs(drafts []services.TaskDraft) []TaskDraftDTO {
	items := make([]TaskDraftDTO, len(drafts))
	for i, draft := range drafts {
		items[i] = TaskDraftDTO{
			Title:       draft.Title,
			Description: draft.Description,
			Priority:    draft.Priority,
			Deadline:    draft.Deadline,
		}
	}
	return items
}
