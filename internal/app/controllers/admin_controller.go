package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/services"
	"github.com/sherubtse/feedback-portal/internal/middleware"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
)

type facultyForm struct {
	FullName    string `form:"fullName" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	Department  string `form:"department" binding:"required"`
	Designation string `form:"designation"`
}

type courseForm struct {
	Code        string `form:"code" binding:"required"`
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Semester    *int   `form:"semester" binding:"omitempty,min=1,max=8"`
	FacultyID   int64  `form:"facultyId" binding:"required,min=1"`
}

// AdminController handles the admin dashboard and management pages.
type AdminController struct {
	dashboardService *services.DashboardService
	facultyService   *services.FacultyService
	courseService    *services.CourseService
	feedbackService  *services.FeedbackService
	renderer         view.Renderer
	logger           zerolog.Logger
}

// NewAdminController creates a new AdminController.
func NewAdminController(
	dashboardService *services.DashboardService,
	facultyService *services.FacultyService,
	courseService *services.CourseService,
	feedbackService *services.FeedbackService,
	renderer view.Renderer,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		dashboardService: dashboardService,
		facultyService:   facultyService,
		courseService:    courseService,
		feedbackService:  feedbackService,
		renderer:         renderer,
		logger:           logger,
	}
}

// Home renders the dashboard with totals and recent submissions.
func (c *AdminController) Home(ctx *gin.Context) {
	stats, err := c.dashboardService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "admin-home.gohtml", view.Data{
		"stats": stats,
	})
}

// ListFaculty renders the faculty management page.
func (c *AdminController) ListFaculty(ctx *gin.Context) {
	c.renderFacultyPage(ctx, http.StatusOK, view.Data{})
}

// CreateFaculty adds a faculty member from the management form.
func (c *AdminController) CreateFaculty(ctx *gin.Context) {
	var form facultyForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderFacultyPage(ctx, http.StatusBadRequest, view.Data{
			"error": middleware.BindErrorMessage(err, "Full name, a valid email, and department are required."),
		})
		return
	}

	faculty := &models.Faculty{
		FullName:    form.FullName,
		Email:       form.Email,
		Department:  form.Department,
		Designation: optionalString(form.Designation),
	}
	if err := c.facultyService.Create(ctx.Request.Context(), faculty); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrFacultyEmailExists):
			c.renderFacultyPage(ctx, http.StatusConflict, view.Data{
				"error": "A faculty member with this email already exists.",
			})
		case apperrors.Is(err, apperrors.ErrValidationFailed):
			c.renderFacultyPage(ctx, http.StatusBadRequest, view.Data{
				"error": "Full name, a valid email, and department are required.",
			})
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/faculty")
}

// ShowEditFaculty renders the edit form for one faculty member.
func (c *AdminController) ShowEditFaculty(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		middleware.HandleError(ctx, c.renderer, apperrors.ErrFacultyNotFound)
		return
	}
	faculty, err := c.facultyService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "edit-faculty.gohtml", view.Data{
		"faculty": faculty,
	})
}

// UpdateFaculty applies the edit form.
func (c *AdminController) UpdateFaculty(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		middleware.HandleError(ctx, c.renderer, apperrors.ErrFacultyNotFound)
		return
	}

	var form facultyForm
	if err := ctx.ShouldBind(&form); err != nil {
		faculty, loadErr := c.facultyService.GetByID(ctx.Request.Context(), id)
		if loadErr != nil {
			middleware.HandleError(ctx, c.renderer, loadErr)
			return
		}
		c.renderer.Render(ctx, http.StatusBadRequest, "edit-faculty.gohtml", view.Data{
			"error":   middleware.BindErrorMessage(err, "Full name, a valid email, and department are required."),
			"faculty": faculty,
		})
		return
	}

	faculty := &models.Faculty{
		ID:          id,
		FullName:    form.FullName,
		Email:       form.Email,
		Department:  form.Department,
		Designation: optionalString(form.Designation),
	}
	if err := c.facultyService.Update(ctx.Request.Context(), faculty); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrFacultyEmailExists):
			c.renderer.Render(ctx, http.StatusConflict, "edit-faculty.gohtml", view.Data{
				"error":   "A faculty member with this email already exists.",
				"faculty": faculty,
			})
		case apperrors.Is(err, apperrors.ErrValidationFailed):
			c.renderer.Render(ctx, http.StatusBadRequest, "edit-faculty.gohtml", view.Data{
				"error":   "Full name, a valid email, and department are required.",
				"faculty": faculty,
			})
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/faculty")
}

// DeleteFaculty removes a faculty member and, transactionally, their courses
// and all feedback on those courses.
func (c *AdminController) DeleteFaculty(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		middleware.HandleError(ctx, c.renderer, apperrors.ErrFacultyNotFound)
		return
	}
	if err := c.facultyService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/faculty")
}

// ManageCourses renders the course management page.
func (c *AdminController) ManageCourses(ctx *gin.Context) {
	c.renderCoursesPage(ctx, http.StatusOK, view.Data{})
}

// CreateCourse adds a course from the management form.
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var form courseForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderCoursesPage(ctx, http.StatusBadRequest, view.Data{
			"error": middleware.BindErrorMessage(err, "Code, name, and an assigned faculty member are required."),
		})
		return
	}

	course := &models.Course{
		Code:        form.Code,
		Name:        form.Name,
		Description: optionalString(form.Description),
		Semester:    form.Semester,
		FacultyID:   form.FacultyID,
	}
	if err := c.courseService.Create(ctx.Request.Context(), course); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrCourseCodeExists):
			c.renderCoursesPage(ctx, http.StatusConflict, view.Data{
				"error": "A course with this code already exists.",
			})
		case apperrors.Is(err, apperrors.ErrFacultyNotFound):
			c.renderCoursesPage(ctx, http.StatusBadRequest, view.Data{
				"error": "The selected faculty member does not exist.",
			})
		case apperrors.Is(err, apperrors.ErrValidationFailed):
			c.renderCoursesPage(ctx, http.StatusBadRequest, view.Data{
				"error": "Code, name, and an assigned faculty member are required.",
			})
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/manage-courses")
}

// ShowEditCourse renders the edit form for one course.
func (c *AdminController) ShowEditCourse(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		middleware.HandleError(ctx, c.renderer, apperrors.ErrCourseNotFound)
		return
	}
	course, err := c.courseService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	faculty, err := c.facultyService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "edit-course.gohtml", view.Data{
		"course":  course,
		"faculty": faculty,
	})
}

// UpdateCourse applies the edit form, re-validating the faculty assignment.
func (c *AdminController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		middleware.HandleError(ctx, c.renderer, apperrors.ErrCourseNotFound)
		return
	}

	var form courseForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.Redirect(http.StatusFound, "/admin/manage-courses/edit/"+ctx.Param("id"))
		return
	}

	course := &models.Course{
		ID:          id,
		Code:        form.Code,
		Name:        form.Name,
		Description: optionalString(form.Description),
		Semester:    form.Semester,
		FacultyID:   form.FacultyID,
	}
	if err := c.courseService.Update(ctx.Request.Context(), course); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrCourseCodeExists):
			faculty, loadErr := c.facultyService.GetAll(ctx.Request.Context())
			if loadErr != nil {
				middleware.HandleError(ctx, c.renderer, loadErr)
				return
			}
			c.renderer.Render(ctx, http.StatusConflict, "edit-course.gohtml", view.Data{
				"error":   "A course with this code already exists.",
				"course":  course,
				"faculty": faculty,
			})
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/manage-courses")
}

// DeleteCourse removes a course and, transactionally, all its feedback.
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		middleware.HandleError(ctx, c.renderer, apperrors.ErrCourseNotFound)
		return
	}
	if err := c.courseService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/manage-courses")
}

// ListFeedback renders every submission with the submitting student attached.
func (c *AdminController) ListFeedback(ctx *gin.Context) {
	feedback, err := c.feedbackService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "admin-feedbacks.gohtml", view.Data{
		"feedback": feedback,
	})
}

func (c *AdminController) renderFacultyPage(ctx *gin.Context, status int, data view.Data) {
	faculty, err := c.facultyService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	data["faculty"] = faculty
	c.renderer.Render(ctx, status, "faculty.gohtml", data)
}

func (c *AdminController) renderCoursesPage(ctx *gin.Context, status int, data view.Data) {
	courses, err := c.courseService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	faculty, err := c.facultyService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}
	data["courses"] = courses
	data["faculty"] = faculty
	c.renderer.Render(ctx, status, "manage-courses.gohtml", data)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
