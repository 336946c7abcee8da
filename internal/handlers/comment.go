package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// CommentHandler serves the comment thread of the task loaded by RequireTask.
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// caller returns the current user and task, answering the request itself when either is missing.
func caller(c *gin.Context) (string, models.Task, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", models.Task{}, false
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return "", models.Task{}, false
	}
	return userID, task, true
}

type commentRequest struct {
	Description string `json:"description" binding:"required"`
}

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// ListComments returns the thread oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	_, task, ok := caller(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentListResponse(task.ID, comments))
}

// StreamComments pushes the full thread after every change by any user.
func (h *CommentHandler) StreamComments(c *gin.Context) {
	_, task, ok := caller(c)
	if !ok {
		return
	}

	feed, err := h.commentService.WatchComments(c.Request.Context(), task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer feed.Close()

	streamSnapshots(c, "comments", feed.Updates(), func(comments []models.Comment) any {
		return dto.ToCommentListResponse(task.ID, comments)
	})
}

// AddComment posts a comment as the current user.
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, task, ok := caller(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(task.ID, userID, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// EditComment replaces the text of the caller's own comment.
func (h *CommentHandler) EditComment(c *gin.Context) {
	userID, task, ok := caller(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.EditComment(task.ID, c.Param("comment_id"), userID, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes the caller's own comment.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, task, ok := caller(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(task.ID, c.Param("comment_id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

// SetReaction sets the caller's reaction; sending the current emoji again clears it.
func (h *CommentHandler) SetReaction(c *gin.Context) {
	userID, task, ok := caller(c)
	if !ok {
		return
	}

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddReaction(task.ID, c.Param("comment_id"), userID, req.Emoji)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// RemoveReaction clears the caller's reaction.
func (h *CommentHandler) RemoveReaction(c *gin.Context) {
	userID, task, ok := caller(c)
	if !ok {
		return
	}

	comment, err := h.commentService.RemoveReaction(task.ID, c.Param("comment_id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}
