package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/services"
	"github.com/sherubtse/feedback-portal/internal/middleware"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
)

// pendingCookieName tracks a registration between signup and OTP
// verification. It only identifies which unverified row the submitted OTP is
// checked against; the OTP itself stays server-side.
const pendingCookieName = "fp_pending"

const pendingCookieMaxAge = 600 // seconds

type signupForm struct {
	FullName string `form:"fullName" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Role     string `form:"role" binding:"required,oneof=student admin"`
}

type otpForm struct {
	OTP string `form:"otp" binding:"required,len=6"`
}

// AuthController handles the signup, OTP verification, login and logout pages.
type AuthController struct {
	authService    *services.AuthService
	sessionService *services.SessionService
	renderer       view.Renderer
	sessionCookie  string
	cookieSecure   bool
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController.
func NewAuthController(
	authService *services.AuthService,
	sessionService *services.SessionService,
	renderer view.Renderer,
	sessionCookie string,
	cookieSecure bool,
	logger zerolog.Logger,
) *AuthController {
	return &AuthController{
		authService:    authService,
		sessionService: sessionService,
		renderer:       renderer,
		sessionCookie:  sessionCookie,
		cookieSecure:   cookieSecure,
		logger:         logger,
	}
}

// ShowSignup renders the signup form.
func (c *AuthController) ShowSignup(ctx *gin.Context) {
	c.renderer.Render(ctx, http.StatusOK, "signup.gohtml", view.Data{})
}

// Signup registers a student account and moves the browser on to OTP entry.
// When the verification email could not be delivered, the code is shown on
// the verification page instead so signup still completes.
func (c *AuthController) Signup(ctx *gin.Context) {
	var form signupForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderer.Render(ctx, http.StatusBadRequest, "signup.gohtml", view.Data{
			"error":    "Please fill in all fields with a valid email and a password of at least 6 characters.",
			"fullName": form.FullName,
			"email":    form.Email,
		})
		return
	}

	userID, otp, emailSent, err := c.authService.Register(ctx.Request.Context(), form.FullName, form.Email, form.Password, models.RoleStudent)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrEmailAlreadyExists):
			c.renderer.Render(ctx, http.StatusConflict, "signup.gohtml", view.Data{
				"error":    "An account with this email already exists.",
				"fullName": form.FullName,
			})
		case apperrors.Is(err, apperrors.ErrValidationFailed):
			c.renderer.Render(ctx, http.StatusBadRequest, "signup.gohtml", view.Data{
				"error":    "Please fill in all fields with a valid email and a password of at least 6 characters.",
				"fullName": form.FullName,
				"email":    form.Email,
			})
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}

	ctx.SetCookie(pendingCookieName, strconv.FormatInt(userID, 10), pendingCookieMaxAge, "/", "", c.cookieSecure, true)

	data := view.Data{"email": form.Email}
	if !emailSent {
		data["devOTP"] = otp
		data["notice"] = "We could not send the verification email. Use the code below."
	} else {
		data["notice"] = "A verification code has been sent to your email."
	}
	c.renderer.Render(ctx, http.StatusOK, "verify-otp.gohtml", data)
}

// ShowVerifyOTP renders the OTP entry form for a pending registration.
func (c *AuthController) ShowVerifyOTP(ctx *gin.Context) {
	if _, err := c.pendingUserID(ctx); err != nil {
		ctx.Redirect(http.StatusFound, "/signup")
		return
	}
	c.renderer.Render(ctx, http.StatusOK, "verify-otp.gohtml", view.Data{})
}

// VerifyOTP checks the submitted code and activates the account.
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	userID, err := c.pendingUserID(ctx)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/signup")
		return
	}

	var form otpForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderer.Render(ctx, http.StatusBadRequest, "verify-otp.gohtml", view.Data{
			"error": "Please enter the 6-digit code.",
		})
		return
	}

	if err := c.authService.VerifyOTP(ctx.Request.Context(), userID, form.OTP); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrOTPMismatch):
			c.renderer.Render(ctx, http.StatusBadRequest, "verify-otp.gohtml", view.Data{
				"error": "Incorrect code. Please try again.",
			})
		case apperrors.Is(err, apperrors.ErrOTPExpired):
			c.renderer.Render(ctx, http.StatusBadRequest, "verify-otp.gohtml", view.Data{
				"error": "This code has expired. Request a new one below.",
			})
		case apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrUnknownPending):
			ctx.Redirect(http.StatusFound, "/signup")
		default:
			middleware.HandleError(ctx, c.renderer, err)
		}
		return
	}

	ctx.SetCookie(pendingCookieName, "", -1, "/", "", c.cookieSecure, true)
	c.renderer.Render(ctx, http.StatusOK, "login.gohtml", view.Data{
		"notice": "Your account has been verified. You can now log in.",
	})
}

// ResendOTP issues a fresh code for a pending registration.
func (c *AuthController) ResendOTP(ctx *gin.Context) {
	userID, err := c.pendingUserID(ctx)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/signup")
		return
	}

	otp, emailSent, err := c.authService.ResendOTP(ctx.Request.Context(), userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrUnknownPending) {
			ctx.Redirect(http.StatusFound, "/signup")
			return
		}
		middleware.HandleError(ctx, c.renderer, err)
		return
	}

	data := view.Data{}
	if !emailSent {
		data["devOTP"] = otp
		data["notice"] = "We could not send the verification email. Use the code below."
	} else {
		data["notice"] = "A new verification code has been sent to your email."
	}
	c.renderer.Render(ctx, http.StatusOK, "verify-otp.gohtml", data)
}

// ShowLogin renders the login form.
func (c *AuthController) ShowLogin(ctx *gin.Context) {
	c.renderer.Render(ctx, http.StatusOK, "login.gohtml", view.Data{})
}

// Login authenticates the credentials and opens a session. All failure modes
// share one generic message.
func (c *AuthController) Login(ctx *gin.Context) {
	var form loginForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderer.Render(ctx, http.StatusBadRequest, "login.gohtml", view.Data{
			"error": "Invalid email, password, or role.",
			"email": form.Email,
		})
		return
	}

	identity, err := c.authService.Authenticate(ctx.Request.Context(), form.Email, form.Password, models.Role(form.Role))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			c.renderer.Render(ctx, http.StatusUnauthorized, "login.gohtml", view.Data{
				"error": "Invalid email, password, or role.",
				"email": form.Email,
			})
			return
		}
		middleware.HandleError(ctx, c.renderer, err)
		return
	}

	token, err := c.sessionService.Create(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleError(ctx, c.renderer, err)
		return
	}

	ctx.SetCookie(c.sessionCookie, token, int(c.sessionService.TTL().Seconds()), "/", "", c.cookieSecure, true)
	if identity.Role == models.RoleAdmin {
		ctx.Redirect(http.StatusFound, "/admin/home")
	} else {
		ctx.Redirect(http.StatusFound, "/user/home")
	}
}

// Logout destroys the session and clears the cookie.
func (c *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(c.sessionCookie); err == nil {
		if err := c.sessionService.Destroy(ctx.Request.Context(), token); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to destroy session on logout")
		}
	}
	ctx.SetCookie(c.sessionCookie, "", -1, "/", "", c.cookieSecure, true)
	ctx.Redirect(http.StatusFound, "/login")
}

func (c *AuthController) pendingUserID(ctx *gin.Context) (int64, error) {
	value, err := ctx.Cookie(pendingCookieName)
	if err != nil {
		return 0, apperrors.ErrUnknownPending
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || userID <= 0 {
		return 0, apperrors.ErrUnknownPending
	}
	return userID, nil
}
