package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/testutil"
	"gorm.io/gorm"
)

func TestCommentRepository_Thread(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	user := testutil.CreateUser(t, db, "alice@example.com", "alice")
	task := testutil.CreateTask(t, db, "Task", user.ID, 2, time.Now())
	other := testutil.CreateTask(t, db, "Other", user.ID, 2, time.Now())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := &models.Comment{TaskID: task.ID, CommenterUID: user.ID, CommenterName: "alice", Description: "later", Date: base.Add(time.Hour)}
	earlier := &models.Comment{TaskID: task.ID, CommenterUID: user.ID, CommenterName: "alice", Description: "earlier", Date: base}
	elsewhere := &models.Comment{TaskID: other.ID, CommenterUID: user.ID, CommenterName: "alice", Description: "elsewhere", Date: base}
	for _, c := range []*models.Comment{later, earlier, elsewhere} {
		require.NoError(t, repo.Create(c))
	}

	comments, err := repo.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "earlier", comments[0].Description)
	assert.Equal(t, "later", comments[1].Description)

	_, err = repo.FindByID(other.ID, earlier.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdateDescription(earlier.ID, "edited"))
	found, err := repo.FindByID(task.ID, earlier.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", found.Description)
}

func TestCommentRepository_Reactions(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	alice := testutil.CreateUser(t, db, "alice@example.com", "alice")
	bob := testutil.CreateUser(t, db, "bob@example.com", "bob")
	task := testutil.CreateTask(t, db, "Task", alice.ID, 2, time.Now())

	comment := &models.Comment{TaskID: task.ID, CommenterUID: alice.ID, CommenterName: "alice", Description: "hi", Date: time.Now()}
	require.NoError(t, repo.Create(comment))

	require.NoError(t, repo.SetReaction(comment.ID, alice.ID, "👍"))
	require.NoError(t, repo.SetReaction(comment.ID, bob.ID, "👍"))
	// replacing a slot keeps one row per user
	require.NoError(t, repo.SetReaction(comment.ID, bob.ID, "🎉"))

	found, err := repo.FindByID(task.ID, comment.ID)
	require.NoError(t, err)
	assert.Len(t, found.Reactions, 2)
	assert.Equal(t, map[string]string{alice.ID: "👍", bob.ID: "🎉"}, found.ReactionMap())

	reaction, err := repo.FindReaction(comment.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "🎉", reaction.Emoji)

	require.NoError(t, repo.RemoveReaction(comment.ID, bob.ID))
	_, err = repo.FindReaction(comment.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(comment.ID))
	var remaining int64
	db.Model(&models.CommentReaction{}).Count(&remaining)
	assert.Equal(t, int64(0), remaining)
	_, err = repo.FindByID(task.ID, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_UpdateFieldsWhere(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	user := testutil.CreateUser(t, db, "alice@example.com", "alice")
	task := testutil.CreateTask(t, db, "Task", user.ID, 2, time.Now())

	require.NoError(t, repo.UpdateFieldsWhere(task.ID, nil, map[string]any{
		"responsible_id": user.ID,
		"status":         models.TaskStatusInProgress,
	}))
	found, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, found.Status)
	assert.Equal(t, user.ID, *found.ResponsibleID)
	assert.Equal(t, "Task", found.Title)

	require.NoError(t, repo.UpdateFieldsWhere(task.ID, nil, map[string]any{"responsible_id": nil, "status": models.TaskStatusTodo}))
	found, err = repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, found.ResponsibleID)

	err = repo.UpdateFieldsWhere("missing", nil, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	tasks, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskRepository_UpdateFieldsWhere_Guard(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	user := testutil.CreateUser(t, db, "alice@example.com", "alice")
	task := testutil.CreateTask(t, db, "Task", user.ID, 2, time.Now())

	done := map[string]any{"status": models.TaskStatusDone}

	// the task is still to-do, so a write guarded on in progress is refused
	err := repo.UpdateFieldsWhere(task.ID, map[string]any{"status": models.TaskStatusInProgress}, done)
	assert.ErrorIs(t, err, ErrConditionNotMet)
	found, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, found.Status)

	// slice values match any element
	open := []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress}
	require.NoError(t, repo.UpdateFieldsWhere(task.ID, map[string]any{"status": open}, map[string]any{
		"responsible_id": user.ID,
		"status":         models.TaskStatusInProgress,
	}))

	require.NoError(t, repo.UpdateFieldsWhere(task.ID, map[string]any{
		"status":         models.TaskStatusInProgress,
		"responsible_id": user.ID,
	}, done))
	found, err = repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, found.Status)

	err = repo.UpdateFieldsWhere(task.ID, map[string]any{"status": open}, map[string]any{"status": models.TaskStatusInProgress})
	assert.ErrorIs(t, err, ErrConditionNotMet)

	err = repo.UpdateFieldsWhere("missing", map[string]any{"status": open}, done)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
