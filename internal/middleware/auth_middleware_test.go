package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/services"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
)

type stubSessionRepo struct {
	sessions map[string]*models.Session
}

func (r *stubSessionRepo) Create(_ context.Context, s *models.Session) error {
	r.sessions[s.Token] = s
	return nil
}

func (r *stubSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionInvalid
	}
	return s, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type stubUserRepo struct {
	existing map[int64]bool
}

func (r *stubUserRepo) CreateUser(context.Context, *models.User) (int64, error) { return 0, nil }
func (r *stubUserRepo) GetUserByID(context.Context, int64) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}
func (r *stubUserRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}
func (r *stubUserRepo) EmailExists(context.Context, string) (bool, error) { return false, nil }
func (r *stubUserRepo) UserExists(_ context.Context, id int64) (bool, error) {
	return r.existing[id], nil
}
func (r *stubUserRepo) SetOTP(context.Context, int64, string, time.Time) error     { return nil }
func (r *stubUserRepo) MarkVerified(context.Context, int64) error                  { return nil }
func (r *stubUserRepo) CreateStudentProfile(context.Context, *models.Student) error { return nil }
func (r *stubUserRepo) StudentProfileExists(context.Context, int64) (bool, error)  { return false, nil }

type captureRenderer struct {
	status   int
	template string
}

func (r *captureRenderer) Render(c *gin.Context, status int, name string, _ view.Data) {
	r.status = status
	r.template = name
	c.Status(status)
}

func newTestRig(t *testing.T) (*AuthMiddleware, *services.SessionService, *captureRenderer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := services.NewSessionService(
		&stubSessionRepo{sessions: map[string]*models.Session{}},
		&stubUserRepo{existing: map[int64]bool{1: true}},
		time.Hour,
		zerolog.Nop(),
	)
	renderer := &captureRenderer{}
	return NewAuthMiddleware(sessions, renderer, "fp_session"), sessions, renderer
}

func studentSession(t *testing.T, sessions *services.SessionService) string {
	t.Helper()
	token, err := sessions.Create(context.Background(), &models.Identity{
		UserID:   1,
		FullName: "Pema",
		Email:    "pema@sherubtse.edu.bt",
		Role:     models.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return token
}

func TestAuthenticatedRedirectsWithoutSession(t *testing.T) {
	mw, _, _ := newTestRig(t)

	router := gin.New()
	router.GET("/user/home", mw.Authenticated(), func(c *gin.Context) {
		c.String(http.StatusOK, "home")
	})

	for _, tc := range []struct {
		name   string
		cookie string
	}{
		{"no cookie", ""},
		{"unknown token", "not-a-session"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user/home", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "fp_session", Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusFound {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
			}
			if loc := w.Header().Get("Location"); loc != "/login" {
				t.Errorf("redirect = %q, want /login", loc)
			}
		})
	}
}

func TestAuthenticatedInjectsIdentity(t *testing.T) {
	mw, sessions, _ := newTestRig(t)
	token := studentSession(t, sessions)

	var got *models.Identity
	router := gin.New()
	router.GET("/user/home", mw.Authenticated(), func(c *gin.Context) {
		got = CurrentIdentity(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/user/home", nil)
	req.AddCookie(&http.Cookie{Name: "fp_session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.UserID != 1 || got.Role != models.RoleStudent {
		t.Errorf("CurrentIdentity() = %+v", got)
	}
}

func TestRoleRequired(t *testing.T) {
	mw, sessions, renderer := newTestRig(t)
	token := studentSession(t, sessions)

	router := gin.New()
	router.GET("/admin/home", mw.Authenticated(), mw.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/user/home", mw.Authenticated(), mw.RoleRequired(models.RoleStudent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Wrong role gets a 403 page, clearly distinguishable from not-logged-in.
	req := httptest.NewRequest(http.MethodGet, "/admin/home", nil)
	req.AddCookie(&http.Cookie{Name: "fp_session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong role status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if renderer.template != "error.gohtml" {
		t.Errorf("wrong role template = %q, want error.gohtml", renderer.template)
	}

	// Matching role passes through.
	req = httptest.NewRequest(http.MethodGet, "/user/home", nil)
	req.AddCookie(&http.Cookie{Name: "fp_session", Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("matching role status = %d, want 200", w.Code)
	}
}
