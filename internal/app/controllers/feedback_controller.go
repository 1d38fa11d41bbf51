package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/services"
	"github.com/sherubtse/feedback-portal/internal/middleware"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
)

type feedbackForm struct {
	CourseID    int64  `form:"courseId" binding:"required,min=1"`
	Q1          int    `form:"q1" binding:"required"`
	Q2          int    `form:"q2" binding:"required"`
	Q3          int    `form:"q3" binding:"required"`
	Suggestions string `form:"suggestions"`
}

type feedbackUpdateForm struct {
	Q1          int    `form:"q1" binding:"required"`
	Q2          int    `form:"q2" binding:"required"`
	Q3          int    `form:"q3" binding:"required"`
	Suggestions string `form:"suggestions"`
}

// FeedbackController handles the student-facing feedback pages.
type FeedbackController struct {
	feedbackService *services.FeedbackService
	renderer        view.Renderer
	logger          zerolog.Logger
}

// NewFeedbackController creates a new FeedbackController.
func NewFeedbackController(feedbackService *services.FeedbackService, renderer view.Renderer, logger zerolog.Logger) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
		renderer:        renderer,
		logger:          logger,
	}
}

// Home renders the student landing page.
func (c *FeedbackController) Home(ctx *gin.Context) {
	c.renderer.Render(ctx, http.StatusOK, "user-home.gohtml", view.Data{})
}

// ShowFeedbackForm renders the submission form with the rateable courses.
func (c *FeedbackController) ShowFeedbackForm(ctx *gin.Context) {
	courses, err := c.feedbackService.ListEligibleCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "feedback-form.gohtml", view.Data{
		"courses": courses,
	})
}

// SubmitFeedback records a new feedback entry. Validation failures re-render
// the form with the course list intact.
func (c *FeedbackController) SubmitFeedback(ctx *gin.Context) {
	identity := middleware.CurrentIdentity(ctx)

	var form feedbackForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderFormError(ctx, http.StatusBadRequest, "Please select a course and answer every question.")
		return
	}

	ratings := models.Ratings{form.Q1, form.Q2, form.Q3}
	suggestions := normalizeSuggestions(form.Suggestions)

	_, err := c.feedbackService.Submit(ctx.Request.Context(), identity.UserID, form.CourseID, ratings, suggestions)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrInvalidRating):
			c.renderFormError(ctx, http.StatusBadRequest, "Each rating must be between 1 and 5.")
		case apperrors.Is(err, apperrors.ErrCourseNotFound):
			c.renderFormError(ctx, http.StatusNotFound, "The selected course is no longer available.")
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}

	ctx.Redirect(http.StatusFound, "/user/view-feedback")
}

// ListFeedback shows the student's own submissions, newest first.
func (c *FeedbackController) ListFeedback(ctx *gin.Context) {
	identity := middleware.CurrentIdentity(ctx)

	feedback, err := c.feedbackService.ListForUser(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "view-feedback.gohtml", view.Data{
		"feedback": feedback,
	})
}

// GetFeedback returns a single owned entry as JSON, used by the edit dialog.
func (c *FeedbackController) GetFeedback(ctx *gin.Context) {
	identity := middleware.CurrentIdentity(ctx)
	id, ok := parseID(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}

	feedback, err := c.feedbackService.GetForUser(ctx.Request.Context(), id, identity.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrFeedbackNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
			return
		}
		c.logger.Error().Err(err).Int64("feedbackID", id).Msg("Failed to load feedback")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, feedback)
}

// UpdateFeedback rewrites one of the student's own entries.
func (c *FeedbackController) UpdateFeedback(ctx *gin.Context) {
	identity := middleware.CurrentIdentity(ctx)
	id, ok := parseID(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}

	var form feedbackUpdateForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "every question must be answered"})
		return
	}

	ratings := models.Ratings{form.Q1, form.Q2, form.Q3}
	err := c.feedbackService.Update(ctx.Request.Context(), id, identity.UserID, ratings, normalizeSuggestions(form.Suggestions))
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrInvalidRating):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "each rating must be between 1 and 5"})
		case apperrors.Is(err, apperrors.ErrFeedbackNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
		default:
			c.logger.Error().Err(err).Int64("feedbackID", id).Msg("Failed to update feedback")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "feedback updated"})
}

// DeleteFeedback removes one of the student's own entries.
func (c *FeedbackController) DeleteFeedback(ctx *gin.Context) {
	identity := middleware.CurrentIdentity(ctx)
	id, ok := parseID(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}

	if err := c.feedbackService.Delete(ctx.Request.Context(), id, identity.UserID); err != nil {
		if apperrors.Is(err, apperrors.ErrFeedbackNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
			return
		}
		c.logger.Error().Err(err).Int64("feedbackID", id).Msg("Failed to delete feedback")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "feedback deleted"})
}

func (c *FeedbackController) renderFormError(ctx *gin.Context, status int, message string) {
	courses, err := c.feedbackService.ListEligibleCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, status, "feedback-form.gohtml", view.Data{
		"error":   message,
		"courses": courses,
	})
}

func normalizeSuggestions(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
