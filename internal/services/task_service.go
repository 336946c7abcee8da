package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/live"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrInvalidPriority        = errors.New("priority must be 1, 2 or 3")
	ErrDeadlineRequired       = errors.New("deadline is required")
	ErrNoFieldsToUpdate       = errors.New("no fields to update")
	ErrAssigneeNotFound       = errors.New("assignee does not exist")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskDraftGenerator extracts task drafts from free text.
type TaskDraftGenerator interface {
	GenerateTaskDrafts(ctx context.Context, text string) ([]TaskDraft, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	hub       *live.Hub
	generator TaskDraftGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, hub *live.Hub, generator TaskDraftGenerator) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		hub:       hub,
		generator: generator,
		now:       time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    int
	Deadline    time.Time
	PublisherID string
}

// UpdateTaskInput represents an in-place edit of the task fields
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *int
	Deadline    *time.Time
}

// ListTasks returns the board for q computed over the current task set
func (s *TaskService) ListTasks(q TaskQuery) ([]models.Task, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return s.loadBoard(q)
}

// WatchTasks streams the board for q, recomputed after every task change
func (s *TaskService) WatchTasks(ctx context.Context, q TaskQuery) (*live.Feed[[]models.Task], error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return live.Watch(ctx, s.hub, live.TopicTasks, func() ([]models.Task, error) {
		return s.loadBoard(q)
	}), nil
}

func (s *TaskService) loadBoard(q TaskQuery) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return FilterTasks(tasks, q), nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates and stores a new unassigned to-do task
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if !validPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}
	if input.Deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.TaskStatusTodo,
		Deadline:    input.Deadline,
		ActualTime:  0,
		PublisherID: input.PublisherID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.hub.Publish(live.TopicTasks)
	return task, nil
}

// UpdateTask edits title, description, priority or deadline in place.
// Publisher, responsible user and status are never touched here.
func (s *TaskService) UpdateTask(taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		fields["title"] = title
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, ErrDescriptionRequired
		}
		fields["description"] = *input.Description
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		fields["priority"] = *input.Priority
	}
	if input.Deadline != nil {
		if input.Deadline.IsZero() {
			return nil, ErrDeadlineRequired
		}
		fields["deadline"] = *input.Deadline
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	return s.write(task, taskWrite{fields: fields})
}

// AssignTask makes userID responsible for the task and moves it to in progress
func (s *TaskService) AssignTask(taskID, userID string) (*models.Task, error) {
	userID = strings.TrimSpace(userID)
	return s.transition(taskID, func(task *models.Task) (taskWrite, error) {
		w, err := assignTransition(task, userID)
		if err != nil {
			return taskWrite{}, err
		}
		if _, err := s.userRepo.FindByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return taskWrite{}, ErrAssigneeNotFound
			}
			return taskWrite{}, fmt.Errorf("failed to verify assignee: %w", err)
		}
		return w, nil
	})
}

// UnassignTask clears the responsible user and moves the task back to to-do
func (s *TaskService) UnassignTask(taskID string) (*models.Task, error) {
	return s.transition(taskID, func(*models.Task) (taskWrite, error) {
		return unassignTransition(), nil
	})
}

// MarkDone completes a task on behalf of its responsible user
func (s *TaskService) MarkDone(taskID, callerID string) (*models.Task, error) {
	return s.transition(taskID, func(task *models.Task) (taskWrite, error) {
		return markDoneTransition(task, callerID)
	})
}

// transition checks next against the stored task and writes it guarded by the
// state it was checked against. When another request moved the task in between,
// next is checked again on the fresh task so the caller gets the precise reason.
func (s *TaskService) transition(taskID string, next func(*models.Task) (taskWrite, error)) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	w, err := next(task)
	if err != nil {
		return nil, err
	}

	updated, err := s.write(task, w)
	if errors.Is(err, ErrTaskChanged) {
		fresh, freshErr := s.GetTask(taskID)
		if freshErr != nil {
			return nil, freshErr
		}
		if _, nextErr := next(fresh); nextErr != nil {
			return nil, nextErr
		}
	}
	return updated, err
}

// write persists the columns of w, mirrors them onto task and notifies the board feeds.
// Unguarded writes are not reconciled: the later write wins.
func (s *TaskService) write(task *models.Task, w taskWrite) (*models.Task, error) {
	if err := s.taskRepo.UpdateFieldsWhere(task.ID, w.guard, w.fields); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrConditionNotMet):
			return nil, ErrTaskChanged
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	applyFields(task, w.fields)
	task.UpdatedAt = s.now()
	s.hub.Publish(live.TopicTasks)
	return task, nil
}

// GenerateTaskDrafts uses AI to turn text into task drafts. Nothing is stored.
func (s *TaskService) GenerateTaskDrafts(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.generator.GenerateTaskDrafts(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validDrafts := make([]TaskDraft, 0, len(drafts))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" {
			continue
		}

		if !validPriority(draft.Priority) {
			draft.Priority = constants.DefaultPriority
		}
		if draft.Deadline != nil && draft.Deadline.Before(cutoff) {
			draft.Deadline = nil
		}

		validDrafts = append(validDrafts, draft)
	}

	if len(validDrafts) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validDrafts, nil
}

func validPriority(p int) bool {
	return p >= constants.MinPriority && p <= constants.MaxPriority
}
