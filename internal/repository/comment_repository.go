package repository

import (
	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("Reactions").Create(comment).Error
}

// FindByID finds a comment scoped to its task
func (r *GormCommentRepository) FindByID(taskID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Reactions").
		Where("id = ? AND task_id = ?", commentID, taskID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask lists the thread of a task ordered by creation date
func (r *GormCommentRepository) ListByTask(taskID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Reactions").
		Where("task_id = ?", taskID).
		Order("date ASC").
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateDescription replaces the text of a comment
func (r *GormCommentRepository) UpdateDescription(commentID, description string) error {
	return r.db.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("description", description).Error
}

// Delete removes a comment and its reactions in a transaction
func (r *GormCommentRepository) Delete(commentID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&models.CommentReaction{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", commentID).Delete(&models.Comment{}).Error
	})
}

// FindReaction finds the reaction slot of a user on a comment
func (r *GormCommentRepository) FindReaction(commentID, userID string) (*models.CommentReaction, error) {
	var reaction models.CommentReaction
	if err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

// SetReaction upserts the slot so a user never holds more than one reaction per comment
func (r *GormCommentRepository) SetReaction(commentID, userID, emoji string) error {
	reaction := models.CommentReaction{
		CommentID: commentID,
		UserID:    userID,
		Emoji:     emoji,
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"emoji", "updated_at"}),
		}).
		Create(&reaction).Error
}

// RemoveReaction clears the reaction slot of a user
func (r *GormCommentRepository) RemoveReaction(commentID, userID string) error {
	return r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentReaction{}).Error
}
