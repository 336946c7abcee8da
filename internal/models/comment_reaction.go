package models

import "time"

// CommentReaction is one user's reaction slot on a comment.
type CommentReaction struct {
	CommentID string    `gorm:"type:varchar(36);primarykey" json:"comment_id"`
	UserID    string    `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Emoji     string    `gorm:"type:varchar(32);not null" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
