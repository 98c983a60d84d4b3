package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-calculator/internal/dto"
	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
)

const testSessionID = "8d0f6f2e-6a59-4a1f-9a43-0e6c2f7f3b11"

type mockSessionRepo struct {
	sessions map[string]*models.Session
	ttls     map[string]time.Duration
	saveErr  error
	saves    int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: map[string]*models.Session{}, ttls: map[string]time.Duration{}}
}

func (m *mockSessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s.Clone(), nil
	}
	return nil, appErrors.ErrSessionNotFound
}

func (m *mockSessionRepo) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.sessions[session.ID] = session.Clone()
	m.ttls[session.ID] = ttl
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newSessionServiceForTest(t *testing.T) (*SessionService, *mockSessionRepo) {
	t.Helper()
	repo := newMockSessionRepo()
	svc := NewSessionService(repo, SessionConfig{TTL: 30 * time.Minute, MaxCourses: 100}, validator.New(), zap.NewNop(), NewMetricsService())
	svc.newID = func() string { return testSessionID }
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func fill(t *testing.T, svc *SessionService, index int, credits, grade string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.UpdateCourse(ctx, testSessionID, index, dto.UpdateCourseRequest{Field: models.CourseFieldCreditHours, Value: dto.RawValue(credits)})
	require.NoError(t, err)
	_, err = svc.UpdateCourse(ctx, testSessionID, index, dto.UpdateCourseRequest{Field: models.CourseFieldGrade, Value: dto.RawValue(grade)})
	require.NoError(t, err)
}

func TestSessionServiceFullFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSessionServiceForTest(t)

	created, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, created.ID)
	assert.Equal(t, models.FlowStateCountEntry, created.State)
	require.NotNil(t, created.ExpiresAt)
	assert.Equal(t, 30*time.Minute, repo.ttls[testSessionID])

	view, err := svc.SubmitCount(ctx, testSessionID, dto.CourseCountRequest{NumCourses: "2"})
	require.NoError(t, err)
	assert.Equal(t, models.FlowStateCourseEntry, view.State)
	assert.Len(t, view.Courses, 2)
	assert.False(t, view.CanCalculate)

	fill(t, svc, 0, "3", "A")
	fill(t, svc, 1, "3", "B")

	view, err = svc.Get(ctx, testSessionID)
	require.NoError(t, err)
	assert.True(t, view.CanCalculate)

	view, err = svc.Calculate(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowStateResults, view.State)
	require.NotNil(t, view.Result)
	assert.Equal(t, "3.50", view.Result.Display)
	assert.Equal(t, uint64(1), svc.metrics.Calculations())

	result, err := svc.Result(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, result.GPA)

	view, err = svc.Reset(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowStateCountEntry, view.State)
	assert.Empty(t, view.Courses)
	assert.Zero(t, repo.sessions[testSessionID].NumCourses)
}

func TestSessionServiceRejectedOperationDoesNotSave(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSessionServiceForTest(t)
	_, err := svc.Create(ctx)
	require.NoError(t, err)
	savesBefore := repo.saves

	for _, raw := range []dto.RawValue{"0", "-1", "abc", "", "1.5"} {
		_, err = svc.SubmitCount(ctx, testSessionID, dto.CourseCountRequest{NumCourses: raw})
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), string(raw))
	}
	assert.Equal(t, savesBefore, repo.saves)
	assert.Equal(t, models.FlowStateCountEntry, repo.sessions[testSessionID].State)

	_, err = svc.SubmitCount(ctx, testSessionID, dto.CourseCountRequest{NumCourses: "1"})
	require.NoError(t, err)
	_, err = svc.Calculate(ctx, testSessionID)
	assert.True(t, appErrors.Is(err, appErrors.ErrIncompleteCourses))
	assert.Equal(t, models.FlowStateCourseEntry, repo.sessions[testSessionID].State)
}

func TestSessionServiceUpdateCourseValidatesPayload(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionServiceForTest(t)
	_, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.SubmitCount(ctx, testSessionID, dto.CourseCountRequest{NumCourses: "1"})
	require.NoError(t, err)

	_, err = svc.UpdateCourse(ctx, testSessionID, 0, dto.UpdateCourseRequest{Field: "instructor", Value: "x"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateCourse(ctx, testSessionID, 5, dto.UpdateCourseRequest{Field: models.CourseFieldName, Value: "x"})
	assert.True(t, appErrors.Is(err, appErrors.ErrCourseIndex))
}

func TestSessionServiceSaveCoursesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSessionServiceForTest(t)
	_, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.SubmitCount(ctx, testSessionID, dto.CourseCountRequest{NumCourses: "2"})
	require.NoError(t, err)

	_, err = svc.SaveCourses(ctx, testSessionID, dto.SaveCoursesRequest{Courses: []dto.CourseInput{
		{Name: "Art", CreditHours: "2", Grade: "A"},
		{CreditHours: "9", Grade: "B"},
	}})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, models.Course{}, repo.sessions[testSessionID].Courses[0])

	_, err = svc.SaveCourses(ctx, testSessionID, dto.SaveCoursesRequest{Courses: []dto.CourseInput{{CreditHours: "2", Grade: "A"}}})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	view, err := svc.SaveCourses(ctx, testSessionID, dto.SaveCoursesRequest{Courses: []dto.CourseInput{
		{Name: "Art", CreditHours: "2", Grade: "A"},
		{CreditHours: "1", Grade: "B"},
	}})
	require.NoError(t, err)
	assert.True(t, view.CanCalculate)
	assert.Equal(t, "Art", view.Courses[0].Label)
	assert.Equal(t, "Course 2", view.Courses[1].Label)
}

func TestSessionServiceUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionServiceForTest(t)

	_, err := svc.Get(ctx, "not-a-uuid")
	assert.True(t, appErrors.Is(err, appErrors.ErrSessionNotFound))
	_, err = svc.Get(ctx, testSessionID)
	assert.True(t, appErrors.Is(err, appErrors.ErrSessionNotFound))
	assert.True(t, appErrors.Is(svc.Delete(ctx, testSessionID), appErrors.ErrSessionNotFound))
}

func TestSessionServiceStoreFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSessionServiceForTest(t)
	repo.saveErr = errors.New("connection refused")

	_, err := svc.Create(ctx)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestSessionServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSessionServiceForTest(t)
	_, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testSessionID))
	assert.Empty(t, repo.sessions)
}

func TestSessionServiceGradeScale(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)
	scale := svc.GradeScale()
	assert.Equal(t, "BUKC", scale.Scale)
	assert.Len(t, scale.Grades, 11)
	assert.Equal(t, []int{0, 1, 2, 3}, scale.CreditHours)
	assert.True(t, svc.CanContinue("3"))
	assert.False(t, svc.CanContinue("0"))
}
