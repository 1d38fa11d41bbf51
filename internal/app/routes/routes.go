package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sherubtse/feedback-portal/internal/app/controllers"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/middleware"
)

// SetupRouter configures all application routes.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	feedbackController *controllers.FeedbackController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public auth routes ---
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	router.GET("/login", authController.ShowLogin)
	router.POST("/login", authController.Login)
	router.GET("/signup", authController.ShowSignup)
	router.POST("/signup", authController.Signup)
	router.GET("/verify-otp", authController.ShowVerifyOTP)
	router.POST("/verify-otp", authController.VerifyOTP)
	router.POST("/resend-otp", authController.ResendOTP)
	router.GET("/logout", authController.Logout)

	// --- Student routes ---
	user := router.Group("/user")
	user.Use(authMiddleware.Authenticated(), authMiddleware.RoleRequired(models.RoleStudent))
	{
		user.GET("/home", feedbackController.Home)
		user.GET("/feedback", feedbackController.ShowFeedbackForm)
		user.POST("/feedback", feedbackController.SubmitFeedback)
		user.GET("/view-feedback", feedbackController.ListFeedback)
		user.GET("/feedback/:id", feedbackController.GetFeedback)
		user.PUT("/feedback/:id", feedbackController.UpdateFeedback)
		user.DELETE("/feedback/:id", feedbackController.DeleteFeedback)
	}

	// --- Admin routes ---
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticated(), authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/home", adminController.Home)

		admin.GET("/faculty", adminController.ListFaculty)
		admin.POST("/faculty", adminController.CreateFaculty)
		admin.GET("/faculty/edit/:id", adminController.ShowEditFaculty)
		admin.POST("/faculty/edit/:id", adminController.UpdateFaculty)
		admin.POST("/faculty/delete/:id", adminController.DeleteFaculty)

		admin.GET("/manage-courses", adminController.ManageCourses)
		admin.POST("/manage-courses", adminController.CreateCourse)
		admin.GET("/manage-courses/edit/:id", adminController.ShowEditCourse)
		admin.POST("/manage-courses/edit/:id", adminController.UpdateCourse)
		admin.POST("/manage-courses/delete/:id", adminController.DeleteCourse)

		admin.GET("/feedbacks", adminController.ListFeedback)
	}

	// Health check endpoint (public)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
