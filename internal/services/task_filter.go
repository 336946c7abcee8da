package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
)

type SortMode string

const (
	SortByPriority SortMode = "priority"
	SortByDeadline SortMode = "deadline"
)

var (
	ErrInvalidStatus   = errors.New("invalid status tab")
	ErrInvalidSortMode = errors.New("invalid sort mode")
)

// TaskQuery is the board view: a status tab, a user filter, a search text and a sort mode.
type TaskQuery struct {
	Status     models.TaskStatus
	UserFilter string
	Search     string
	Sort       SortMode
}

// Normalize fills defaults and validates the query.
func (q TaskQuery) Normalize() (TaskQuery, error) {
	if q.Status == "" {
		q.Status = models.TaskStatusTodo
	}
	if !q.Status.Valid() {
		return q, ErrInvalidStatus
	}
	q.UserFilter = strings.TrimSpace(q.UserFilter)
	if q.UserFilter == "" {
		q.UserFilter = constants.UserFilterAll
	}
	q.Search = strings.TrimSpace(q.Search)
	switch q.Sort {
	case "":
		q.Sort = SortByPriority
	case SortByPriority, SortByDeadline:
	default:
		return q, ErrInvalidSortMode
	}
	return q, nil
}

// FilterTasks runs the board pipeline over a snapshot: status tab, then the
// publisher/responsible filter, then the text search, then the sort.
// The input slice is left untouched.
func FilterTasks(tasks []models.Task, q TaskQuery) []models.Task {
	needle := strings.ToLower(q.Search)

	result := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status != q.Status {
			continue
		}
		if !matchesUser(task, q) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			continue
		}
		result = append(result, task)
	}

	SortTasks(result, q.Sort)
	return result
}

// matchesUser checks the publisher on the to-do tab and the responsible user elsewhere.
func matchesUser(task models.Task, q TaskQuery) bool {
	if q.UserFilter == "" || q.UserFilter == constants.UserFilterAll {
		return true
	}
	if q.Status == models.TaskStatusTodo {
		return task.PublisherID == q.UserFilter
	}
	return task.IsResponsible(q.UserFilter)
}

// SortTasks orders tasks in place. Equal keys keep their snapshot order.
func SortTasks(tasks []models.Task, mode SortMode) {
	if mode == SortByDeadline {
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Deadline.Before(tasks[j].Deadline)
		})
		return
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority < tasks[j].Priority
		}
		return tasks[i].Deadline.Before(tasks[j].Deadline)
	})
}
