package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func TestAssignTransition(t *testing.T) {
	tests := []struct {
		name    string
		task    models.Task
		uid     string
		wantErr error
	}{
		{name: "to-do task", task: models.Task{Status: models.TaskStatusTodo}, uid: "u1"},
		{name: "reassign in progress", task: models.Task{Status: models.TaskStatusInProgress, ResponsibleID: strPtr("u2")}, uid: "u1"},
		{name: "done task", task: models.Task{Status: models.TaskStatusDone, ResponsibleID: strPtr("u2")}, uid: "u1", wantErr: ErrTaskAlreadyDone},
		{name: "empty user", task: models.Task{Status: models.TaskStatusTodo}, uid: "", wantErr: ErrAssigneeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			w, err := assignTransition(&task, tt.uid)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, w.fields)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, w.guard["status"])

			applyFields(&task, w.fields)
			assert.Equal(t, models.TaskStatusInProgress, task.Status)
			require.NotNil(t, task.ResponsibleID)
			assert.Equal(t, tt.uid, *task.ResponsibleID)
		})
	}
}

func TestUnassignTransition_FromAnyStatus(t *testing.T) {
	for _, status := range []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone} {
		task := models.Task{Status: status, ResponsibleID: strPtr("u1")}
		w := unassignTransition()
		assert.Nil(t, w.guard)
		applyFields(&task, w.fields)

		assert.Equal(t, models.TaskStatusTodo, task.Status, string(status))
		assert.Nil(t, task.ResponsibleID, string(status))
	}
}

func TestMarkDoneTransition(t *testing.T) {
	t.Run("responsible user", func(t *testing.T) {
		task := models.Task{Status: models.TaskStatusInProgress, ResponsibleID: strPtr("u1")}
		w, err := markDoneTransition(&task, "u1")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"status": models.TaskStatusInProgress, "responsible_id": "u1"}, w.guard)

		applyFields(&task, w.fields)
		assert.Equal(t, models.TaskStatusDone, task.Status)
		assert.Equal(t, "u1", *task.ResponsibleID)
	})

	t.Run("other user", func(t *testing.T) {
		task := models.Task{Status: models.TaskStatusInProgress, ResponsibleID: strPtr("u1")}
		_, err := markDoneTransition(&task, "u2")
		assert.ErrorIs(t, err, ErrNotResponsible)
	})

	t.Run("not in progress", func(t *testing.T) {
		for _, status := range []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusDone} {
			task := models.Task{Status: status, ResponsibleID: strPtr("u1")}
			_, err := markDoneTransition(&task, "u1")
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	})
}

// Every sequence of transitions keeps "in progress" and "has an assignee" in lockstep.
func TestTransitions_KeepAssigneeInvariant(t *testing.T) {
	task := models.Task{Status: models.TaskStatusTodo}
	check := func() {
		t.Helper()
		assert.Equal(t, task.Status == models.TaskStatusInProgress, task.ResponsibleID != nil)
	}

	steps := []func() (taskWrite, error){
		func() (taskWrite, error) { return assignTransition(&task, "u1") },
		func() (taskWrite, error) { return assignTransition(&task, "u2") },
		func() (taskWrite, error) { return markDoneTransition(&task, "u1") },
		func() (taskWrite, error) { return unassignTransition(), nil },
		func() (taskWrite, error) { return assignTransition(&task, "u1") },
		func() (taskWrite, error) { return markDoneTransition(&task, "u1") },
		func() (taskWrite, error) { return assignTransition(&task, "u2") },
		func() (taskWrite, error) { return unassignTransition(), nil },
	}

	for _, step := range steps {
		w, err := step()
		if err == nil {
			applyFields(&task, w.fields)
		}
		if task.Status != models.TaskStatusDone {
			check()
		}
	}
	assert.Equal(t, models.TaskStatusTodo, task.Status)
}
