package repository

import (
	"errors"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// ErrConditionNotMet is returned by a guarded write when the record exists but
// no longer holds the expected values.
var ErrConditionNotMet = errors.New("record no longer matches the write condition")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// ListAll returns every task in creation order
	ListAll() ([]models.Task, error)

	// UpdateFieldsWhere writes only the given columns of a task, and only while it
	// still has the column values in guard (nil guard: always)
	UpdateFieldsWhere(id string, guard, fields map[string]any) error
}

// CommentRepository defines the interface for the per-task comment thread
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment of a task with its reactions
	FindByID(taskID, commentID string) (*models.Comment, error)

	// ListByTask lists the comments of a task oldest first, with reactions
	ListByTask(taskID string) ([]models.Comment, error)

	// UpdateDescription replaces the text of a comment
	UpdateDescription(commentID, description string) error

	// Delete removes a comment and its reactions
	Delete(commentID string) error

	// FindReaction finds the reaction slot of a user on a comment
	FindReaction(commentID, userID string) (*models.CommentReaction, error)

	// SetReaction creates or replaces the reaction slot of a user
	SetReaction(commentID, userID, emoji string) error

	// RemoveReaction clears the reaction slot of a user
	RemoveReaction(commentID, userID string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists every user
	List() ([]models.User, error)
}
