package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/live"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment cannot be empty")
	ErrNotCommentOwner = errors.New("only the author can modify this comment")
	ErrReactionInvalid = errors.New("reaction must be one of the offered emoji")
)

// CommentService manages the comment thread of a task.
type CommentService struct {
	commentRepo repository.CommentRepository
	tasks       *TaskService
	users       *UserService
	hub         *live.Hub
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, tasks *TaskService, users *UserService, hub *live.Hub) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		tasks:       tasks,
		users:       users,
		hub:         hub,
		now:         time.Now,
	}
}

// ListComments returns the thread of a task oldest first
func (s *CommentService) ListComments(taskID string) ([]models.Comment, error) {
	if _, err := s.tasks.GetTask(taskID); err != nil {
		return nil, err
	}
	return s.loadThread(taskID)
}

// WatchComments streams the thread of a task after every change by any user
func (s *CommentService) WatchComments(ctx context.Context, taskID string) (*live.Feed[[]models.Comment], error) {
	if _, err := s.tasks.GetTask(taskID); err != nil {
		return nil, err
	}
	return live.Watch(ctx, s.hub, live.CommentsTopic(taskID), func() ([]models.Comment, error) {
		return s.loadThread(taskID)
	}), nil
}

func (s *CommentService) loadThread(taskID string) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment posts text on behalf of userID, snapshotting their display name
func (s *CommentService) AddComment(taskID, userID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentEmpty
	}
	if _, err := s.tasks.GetTask(taskID); err != nil {
		return nil, err
	}

	name, err := s.users.DisplayName(userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:        taskID,
		CommenterUID:  userID,
		CommenterName: name,
		Description:   text,
		Date:          s.now(),
		Reactions:     []models.CommentReaction{},
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.hub.Publish(live.CommentsTopic(taskID))
	return comment, nil
}

// EditComment replaces the text of a comment owned by userID
func (s *CommentService) EditComment(taskID, commentID, userID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentEmpty
	}

	comment, err := s.findOwned(taskID, commentID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateDescription(comment.ID, text); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	comment.Description = text

	s.hub.Publish(live.CommentsTopic(taskID))
	return comment, nil
}

// DeleteComment removes a comment owned by userID
func (s *CommentService) DeleteComment(taskID, commentID, userID string) error {
	comment, err := s.findOwned(taskID, commentID, userID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.hub.Publish(live.CommentsTopic(taskID))
	return nil
}

// AddReaction sets the reaction slot of userID. Choosing the emoji already in
// the slot clears it.
func (s *CommentService) AddReaction(taskID, commentID, userID, emoji string) (*models.Comment, error) {
	emoji = strings.TrimSpace(emoji)
	if !utf8.ValidString(emoji) || !slices.Contains(constants.AllowedReactions, emoji) {
		return nil, ErrReactionInvalid
	}

	comment, err := s.getComment(taskID, commentID)
	if err != nil {
		return nil, err
	}

	current, err := s.commentRepo.FindReaction(comment.ID, userID)
	switch {
	case err == nil && current.Emoji == emoji:
		err = s.commentRepo.RemoveReaction(comment.ID, userID)
	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		err = s.commentRepo.SetReaction(comment.ID, userID, emoji)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update reaction: %w", err)
	}

	return s.afterReaction(taskID, commentID)
}

// RemoveReaction clears the reaction slot of userID
func (s *CommentService) RemoveReaction(taskID, commentID, userID string) (*models.Comment, error) {
	comment, err := s.getComment(taskID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.RemoveReaction(comment.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", err)
	}

	return s.afterReaction(taskID, commentID)
}

func (s *CommentService) afterReaction(taskID, commentID string) (*models.Comment, error) {
	s.hub.Publish(live.CommentsTopic(taskID))
	return s.getComment(taskID, commentID)
}

func (s *CommentService) getComment(taskID, commentID string) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(taskID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) findOwned(taskID, commentID, userID string) (*models.Comment, error) {
	comment, err := s.getComment(taskID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.CommenterUID != userID {
		return nil, ErrNotCommentOwner
	}
	return comment, nil
}
