package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/logger"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
)

// HandleError renders the page appropriate to an error's category. Form
// validation and conflict errors are re-rendered by the controllers
// themselves, since only they hold the form state; everything else lands
// here.
func HandleError(c *gin.Context, renderer view.Renderer, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrUserNotFound,
		apperrors.ErrFacultyNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrFeedbackNotFound):
		renderer.Render(c, http.StatusNotFound, "error.gohtml", view.Data{
			"title":   "Not Found",
			"message": "The requested resource could not be found.",
		})
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		renderer.Render(c, http.StatusForbidden, "error.gohtml", view.Data{
			"title":   "Access Denied",
			"message": "You do not have permission to perform this action.",
		})
	case apperrors.Is(err, apperrors.ErrSessionInvalid):
		c.Redirect(http.StatusFound, "/login")
	case apperrors.Is(err, apperrors.ErrDeleteFailed):
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Delete cascade failed")
		renderer.Render(c, http.StatusInternalServerError, "error.gohtml", view.Data{
			"title":   "Delete Failed",
			"message": "The record could not be deleted. No changes were made.",
		})
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		renderer.Render(c, http.StatusInternalServerError, "error.gohtml", view.Data{
			"title":   "Something Went Wrong",
			"message": "An unexpected error occurred. Please try again later.",
		})
	}
	c.Abort()
}
