package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-calculator/internal/dto"
	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
)

// SessionRepository abstracts where form sessions live.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// SessionConfig tunes session lifetime and form limits.
type SessionConfig struct {
	TTL        time.Duration
	MaxCourses int
}

// SessionService drives one form flow per session. Each call loads the session,
// applies the operation to a copy and saves it only when the operation succeeds.
type SessionService struct {
	repo      SessionRepository
	flow      *FormFlow
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	ttl       time.Duration
	now       func() time.Time
	newID     func() string
}

// NewSessionService constructs SessionService.
func NewSessionService(repo SessionRepository, cfg SessionConfig, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:      repo,
		flow:      NewFormFlow(cfg.MaxCourses),
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		ttl:       cfg.TTL,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// GradeScale lists the selector options.
func (s *SessionService) GradeScale() dto.GradeScaleResponse {
	return dto.GradeScaleResponse{
		Scale:       models.GradeScaleName,
		Grades:      models.GradeScale(),
		CreditHours: models.CreditHourOptions(),
	}
}

// CanContinue reports whether a raw course count would be accepted.
func (s *SessionService) CanContinue(raw string) bool {
	return s.flow.CanContinue(raw)
}

// Create starts a new session at COUNT_ENTRY.
func (s *SessionService) Create(ctx context.Context) (*dto.SessionResponse, error) {
	session := models.NewSession(s.newID(), s.now().UTC())
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.ObserveSessionCreated()
	s.logger.Debug("session created", zap.String("session_id", session.ID))
	return s.view(session), nil
}

// Get returns the current view of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// SubmitCount moves from COUNT_ENTRY to COURSE_ENTRY.
func (s *SessionService) SubmitCount(ctx context.Context, id string, req dto.CourseCountRequest) (*dto.SessionResponse, error) {
	return s.mutate(ctx, id, "submit_count", func(session *models.Session) error {
		return s.flow.SubmitCount(session, string(req.NumCourses))
	})
}

// UpdateCourse replaces one field of one course.
func (s *SessionService) UpdateCourse(ctx context.Context, id string, index int, req dto.UpdateCourseRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveOperation("update_course", OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course update")
	}
	return s.mutate(ctx, id, "update_course", func(session *models.Session) error {
		return s.flow.UpdateCourse(session, index, req.Field, string(req.Value))
	})
}

// SaveCourses applies every field of every course at once; either all updates land or none.
func (s *SessionService) SaveCourses(ctx context.Context, id string, req dto.SaveCoursesRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveOperation("save_courses", OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course list")
	}
	return s.mutate(ctx, id, "save_courses", func(session *models.Session) error {
		if session.State == models.FlowStateCourseEntry && len(req.Courses) != len(session.Courses) {
			return appErrors.Clone(appErrors.ErrValidation, "course list length does not match the number of courses")
		}
		for i, in := range req.Courses {
			updates := []struct {
				field models.CourseField
				value string
			}{
				{models.CourseFieldName, in.Name},
				{models.CourseFieldCreditHours, in.CreditHours},
				{models.CourseFieldGrade, in.Grade},
			}
			for _, u := range updates {
				if err := s.flow.UpdateCourse(session, i, u.field, u.value); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Calculate moves to RESULTS when every course is complete and returns the outcome.
func (s *SessionService) Calculate(ctx context.Context, id string) (*dto.SessionResponse, error) {
	resp, err := s.mutate(ctx, id, "calculate", s.flow.Calculate)
	if err != nil {
		return nil, err
	}
	if resp.Result != nil {
		s.metrics.ObserveGPA(resp.Result.GPA)
		s.logger.Info("gpa calculated",
			zap.String("session_id", id),
			zap.Int("courses", resp.NumCourses),
			zap.Int("total_credits", resp.Result.TotalCredits),
			zap.String("gpa", resp.Result.Display),
		)
	}
	return resp, nil
}

// Result returns the GPA of a session in RESULTS.
func (s *SessionService) Result(ctx context.Context, id string) (*models.GPAResult, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.flow.Result(session)
}

// Reset clears the session back to COUNT_ENTRY.
func (s *SessionService) Reset(ctx context.Context, id string) (*dto.SessionResponse, error) {
	return s.mutate(ctx, id, "reset", func(session *models.Session) error {
		s.flow.Reset(session)
		return nil
	})
}

// Delete discards a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveStore("delete", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

func (s *SessionService) mutate(ctx context.Context, id, op string, fn func(*models.Session) error) (*dto.SessionResponse, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		s.metrics.ObserveOperation(op, OutcomeRejected)
		s.logger.Debug("form operation rejected",
			zap.String("session_id", id),
			zap.String("operation", op),
			zap.String("state", string(current.State)),
			zap.Error(err),
		)
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, next); err != nil {
		s.metrics.ObserveOperation(op, OutcomeFailed)
		return nil, err
	}
	s.metrics.ObserveOperation(op, OutcomeAccepted)
	return s.view(next), nil
}

func (s *SessionService) load(ctx context.Context, id string) (*models.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.ErrSessionNotFound
	}
	start := time.Now()
	session, err := s.repo.Get(ctx, id)
	s.metrics.ObserveStore("get", time.Since(start))
	if err != nil {
		if appErrors.Is(err, appErrors.ErrSessionNotFound) {
			return nil, appErrors.ErrSessionNotFound
		}
		s.logger.Error("session load failed", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

func (s *SessionService) save(ctx context.Context, session *models.Session) error {
	start := time.Now()
	err := s.repo.Save(ctx, session, s.ttl)
	s.metrics.ObserveStore("save", time.Since(start))
	if err != nil {
		s.logger.Error("session save failed", zap.String("session_id", session.ID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}
	return nil
}

func (s *SessionService) view(session *models.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:           session.ID,
		State:        session.State,
		NumCourses:   session.NumCourses,
		Courses:      make([]dto.CourseView, len(session.Courses)),
		CanCalculate: CanCalculate(session),
	}
	for i, course := range session.Courses {
		resp.Courses[i] = dto.CourseView{
			Index:       i,
			Label:       course.Label(i),
			Name:        course.Name,
			CreditHours: course.CreditHours,
			Grade:       course.Grade,
			Complete:    course.Complete(),
		}
	}
	if session.State == models.FlowStateResults {
		resp.Result = Summarize(session.Courses)
	}
	if s.ttl > 0 {
		expires := session.UpdatedAt.Add(s.ttl)
		resp.ExpiresAt = &expires
	}
	return resp
}
