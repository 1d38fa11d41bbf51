package services

import (
	"context"
	"sort"
	"time"

	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/pkg/apperrors"
)

// In-memory stand-ins for the repository interfaces, shared by the service
// tests in this package.

type fakeUserRepo struct {
	users              map[int64]*models.User
	students           map[int64]*models.Student
	nextID             int64
	studentInsertCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[int64]*models.User{},
		students: map[int64]*models.Student{},
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UserExists(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) SetOTP(_ context.Context, userID int64, otp string, expiresAt time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if user.IsVerified {
		return nil
	}
	user.OTP = &otp
	user.OTPExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID int64) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsVerified = true
	user.OTP = nil
	user.OTPExpiresAt = nil
	return nil
}

func (r *fakeUserRepo) CreateStudentProfile(_ context.Context, student *models.Student) error {
	r.studentInsertCalls++
	if _, exists := r.students[student.UserID]; exists {
		return nil
	}
	r.nextID++
	student.ID = r.nextID
	copied := *student
	r.students[student.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) StudentProfileExists(_ context.Context, userID int64) (bool, error) {
	_, ok := r.students[userID]
	return ok, nil
}

type fakeSender struct {
	sent []string
	fail bool
}

func (s *fakeSender) Send(_ context.Context, to, _, _ string) error {
	if s.fail {
		return apperrors.ErrNotificationFailed
	}
	s.sent = append(s.sent, to)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	copied := *session
	r.sessions[session.Token] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionInvalid
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	var count int64
	now := time.Now()
	for token, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, token)
			count++
		}
	}
	return count, nil
}

type fakeCourseRepo struct {
	courses map[int64]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[int64]*models.Course{}}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) (int64, error) {
	for _, c := range r.courses {
		if c.Code == course.Code {
			return 0, apperrors.ErrCourseCodeExists
		}
	}
	course.ID = int64(len(r.courses) + 1)
	r.courses[course.ID] = course
	return course.ID, nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (r *fakeCourseRepo) GetWithFaculty(_ context.Context, id int64) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok || course.Faculty == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (r *fakeCourseRepo) GetAllWithFaculty(_ context.Context) ([]*models.Course, error) {
	courses := []*models.Course{}
	for _, c := range r.courses {
		if c.Faculty != nil {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) DeleteWithRelations(_ context.Context, id int64) (int64, error) {
	if _, ok := r.courses[id]; !ok {
		return 0, apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	return 0, nil
}

func (r *fakeCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.courses)), nil
}

type fakeFeedbackRepo struct {
	rows   map[int64]*models.Feedback
	nextID int64
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{rows: map[int64]*models.Feedback{}}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) (int64, error) {
	r.nextID++
	feedback.ID = r.nextID
	feedback.SubmittedAt = time.Now()
	copied := *feedback
	r.rows[feedback.ID] = &copied
	return feedback.ID, nil
}

func (r *fakeFeedbackRepo) ListByUser(_ context.Context, userID int64) ([]*models.Feedback, error) {
	feedback := []*models.Feedback{}
	for _, fb := range r.rows {
		if fb.UserID == userID {
			feedback = append(feedback, fb)
		}
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].SubmittedAt.After(feedback[j].SubmittedAt) })
	return feedback, nil
}

func (r *fakeFeedbackRepo) ListAll(_ context.Context) ([]*models.Feedback, error) {
	feedback := []*models.Feedback{}
	for _, fb := range r.rows {
		feedback = append(feedback, fb)
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].SubmittedAt.After(feedback[j].SubmittedAt) })
	return feedback, nil
}

func (r *fakeFeedbackRepo) GetOwned(_ context.Context, id, ownerID int64) (*models.Feedback, error) {
	fb, ok := r.rows[id]
	if !ok || fb.UserID != ownerID {
		return nil, apperrors.ErrFeedbackNotFound
	}
	copied := *fb
	return &copied, nil
}

func (r *fakeFeedbackRepo) UpdateOwned(_ context.Context, id, ownerID int64, ratings models.Ratings, suggestions *string) error {
	fb, ok := r.rows[id]
	if !ok || fb.UserID != ownerID {
		return apperrors.ErrFeedbackNotFound
	}
	fb.Q1, fb.Q2, fb.Q3 = ratings[0], ratings[1], ratings[2]
	fb.Suggestions = suggestions
	return nil
}

func (r *fakeFeedbackRepo) DeleteOwned(_ context.Context, id, ownerID int64) error {
	fb, ok := r.rows[id]
	if !ok || fb.UserID != ownerID {
		return apperrors.ErrFeedbackNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeFeedbackRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *fakeFeedbackRepo) Recent(_ context.Context, limit uint64) ([]*models.RecentFeedback, error) {
	all, _ := r.ListAll(context.Background())
	recent := []*models.RecentFeedback{}
	for i, fb := range all {
		if uint64(i) >= limit {
			break
		}
		entry := &models.RecentFeedback{SubmittedAt: fb.SubmittedAt}
		if fb.Course != nil {
			entry.CourseName = fb.Course.Name
		}
		if fb.Faculty != nil {
			entry.FacultyName = fb.Faculty.FullName
		}
		recent = append(recent, entry)
	}
	return recent, nil
}

type fakeFacultyRepo struct {
	members   map[int64]*models.Faculty
	nextID    int64
	deleteErr error
	// counts returned by DeleteWithRelations
	coursesDeleted  int64
	feedbackDeleted int64
}

func newFakeFacultyRepo() *fakeFacultyRepo {
	return &fakeFacultyRepo{members: map[int64]*models.Faculty{}}
}

func (r *fakeFacultyRepo) Create(_ context.Context, faculty *models.Faculty) (int64, error) {
	for _, f := range r.members {
		if f.Email == faculty.Email {
			return 0, apperrors.ErrFacultyEmailExists
		}
	}
	r.nextID++
	copied := *faculty
	copied.ID = r.nextID
	r.members[copied.ID] = &copied
	return copied.ID, nil
}

func (r *fakeFacultyRepo) GetByID(_ context.Context, id int64) (*models.Faculty, error) {
	faculty, ok := r.members[id]
	if !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	return faculty, nil
}

func (r *fakeFacultyRepo) GetAll(_ context.Context) ([]*models.Faculty, error) {
	members := []*models.Faculty{}
	for _, f := range r.members {
		members = append(members, f)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].FullName < members[j].FullName })
	return members, nil
}

func (r *fakeFacultyRepo) Update(_ context.Context, faculty *models.Faculty) error {
	if _, ok := r.members[faculty.ID]; !ok {
		return apperrors.ErrFacultyNotFound
	}
	r.members[faculty.ID] = faculty
	return nil
}

func (r *fakeFacultyRepo) DeleteWithRelations(_ context.Context, id int64) (int64, int64, error) {
	if _, ok := r.members[id]; !ok {
		return 0, 0, apperrors.ErrFacultyNotFound
	}
	if r.deleteErr != nil {
		return 0, 0, r.deleteErr
	}
	delete(r.members, id)
	return r.coursesDeleted, r.feedbackDeleted, nil
}

func (r *fakeFacultyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.members)), nil
}
