package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID            string    `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskID        string    `gorm:"type:varchar(36);not null" json:"task_id"`
	CommenterUID  string    `gorm:"type:varchar(36);not null" json:"commenter_uid"`
	CommenterName string    `gorm:"type:varchar(255);not null" json:"commenter_name"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Date          time.Time `gorm:"not null" json:"date"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Reactions []CommentReaction `gorm:"foreignKey:CommentID" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ReactionMap returns the user id to emoji mapping of the loaded reactions.
func (c Comment) ReactionMap() map[string]string {
	reactions := make(map[string]string, len(c.Reactions))
	for _, r := range c.Reactions {
		reactions[r.UserID] = r.Emoji
	}
	return reactions
}

// ReactionCounts counts, per emoji, how many users currently hold it.
func (c Comment) ReactionCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range c.Reactions {
		counts[r.Emoji]++
	}
	return counts
}
