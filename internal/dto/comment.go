package dto

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// CommentDTO represents a comment with its reactions keyed by user ID
type CommentDTO struct {
	ID             string            `json:"id"`
	TaskID         string            `json:"task_id"`
	CommenterUID   string            `json:"commenter_uid"`
	CommenterName  string            `json:"commenter_name"`
	Description    string            `json:"description"`
	Date           time.Time         `json:"date"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Reactions      map[string]string `json:"reactions"`
	ReactionCounts map[string]int    `json:"reaction_counts"`
}

// CommentListResponse is one snapshot of a task's thread
type CommentListResponse struct {
	TaskID   string       `json:"task_id"`
	Comments []CommentDTO `json:"comments"`
}

// ToCommentDTO converts a Comment model with preloaded reactions
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:             comment.ID,
		TaskID:         comment.TaskID,
		CommenterUID:   comment.CommenterUID,
		CommenterName:  comment.CommenterName,
		Description:    comment.Description,
		Date:           comment.Date,
		UpdatedAt:      comment.UpdatedAt,
		Reactions:      comment.ReactionMap(),
		ReactionCounts: comment.ReactionCounts(),
	}
}

// ToCommentListResponse converts a thread snapshot
func ToCommentListResponse(taskID string, comments []models.Comment) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToCommentDTO(comment)
	}
	return CommentListResponse{TaskID: taskID, Comments: items}
}
