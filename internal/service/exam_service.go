package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examin-app/examin-backend/internal/config"
	"github.com/examin-app/examin-backend/internal/exam"
	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/repository"
)

// Exam authoring errors.
var (
	ErrExamNotFound = errors.New("exam not found")
	// ErrExamWindowInvalid means an update would leave the exam with an end
	// date that is not after its start date.
	ErrExamWindowInvalid = errors.New("exam end date must be after its start date")
)

// ExamService handles exam authoring and delivery. Student-facing reads go
// through a Redis cache of the redacted view so the answer key never leaves
// the database on the hot path.
type ExamService struct {
	exams       *repository.ExamRepository
	submissions *repository.SubmissionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams *repository.ExamRepository, submissions *repository.SubmissionRepository, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:       exams,
		submissions: submissions,
		rdb:         rdb,
		log:         log.With().Str("component", "exam_service").Logger(),
	}
}

// Create builds and persists a new exam authored by the given admin.
// Questions get server-assigned IDs and marks default to 1.
func (s *ExamService) Create(ctx context.Context, actor *model.User, req *model.CreateExamRequest) (*model.Exam, error) {
	questions := buildQuestions(req.Questions)

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	e := &model.Exam{
		ID:              uuid.New(),
		Title:           req.Title,
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      exam.TotalMarks(questions),
		Questions:       questions,
		CreatedBy:       actor.ID,
		IsActive:        isActive,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
	if err := s.exams.Create(ctx, e); err != nil {
		return nil, err
	}

	s.warmViewCache(ctx, e)
	return e, nil
}

func buildQuestions(inputs []model.QuestionInput) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for _, in := range inputs {
		marks := in.Marks
		if marks == 0 {
			marks = 1
		}
		options := make([]model.Option, 0, len(in.Options))
		for _, o := range in.Options {
			options = append(options, model.Option{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		questions = append(questions, model.Question{
			ID:      uuid.New(),
			Prompt:  in.Prompt,
			Options: options,
			Marks:   marks,
		})
	}
	return questions
}

// Update applies a partial update and recomputes the total marks whenever the
// question set changes.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	e, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyExamUpdate(e, req); err != nil {
		return nil, err
	}

	if err := s.exams.Update(ctx, e); err != nil {
		return nil, err
	}

	s.warmViewCache(ctx, e)
	return e, nil
}

// applyExamUpdate merges the request's set fields into the exam. Either date
// can change on its own, so the scheduling window is re-checked against the
// merged values rather than left to the database constraint.
func applyExamUpdate(e *model.Exam, req *model.UpdateExamRequest) error {
	if req.Title != "" {
		e.Title = req.Title
	}
	if req.Subject != "" {
		e.Subject = req.Subject
	}
	if req.DurationMinutes != 0 {
		e.DurationMinutes = req.DurationMinutes
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if !e.EndDate.After(e.StartDate) {
		return ErrExamWindowInvalid
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.Questions != nil {
		e.Questions = buildQuestions(req.Questions)
		e.TotalMarks = exam.TotalMarks(e.Questions)
	}
	return nil
}

// Delete removes an exam and its cached view. Any admin may delete any exam;
// submissions cascade at the database level.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}
	if err := s.exams.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, config.CacheKey.ExamViewKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", id.String()).Msg("failed to drop exam view cache")
	}
	return nil
}

// GetForAdmin retrieves an exam with the answer key included.
func (s *ExamService) GetForAdmin(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return s.getByID(ctx, id)
}

// GetForStudent retrieves the redacted view of an exam for an attempting
// student. The exam must be open and the student must not have submitted yet.
func (s *ExamService) GetForStudent(ctx context.Context, studentID int, examID uuid.UUID) (*model.ExamView, error) {
	e, err := s.getByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	hasSubmission, err := s.submissions.ExistsForStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return nil, err
	}
	if err := exam.EvaluateAttempt(e, time.Now(), hasSubmission); err != nil {
		return nil, err
	}

	if view := s.cachedView(ctx, examID); view != nil {
		return view, nil
	}

	view := exam.RedactForStudent(e)
	s.warmViewCache(ctx, e)
	return &view, nil
}

// ListForStudent retrieves redacted views of all active exams that have not
// ended yet.
func (s *ExamService) ListForStudent(ctx context.Context) ([]model.ExamView, error) {
	exams, err := s.exams.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	views := make([]model.ExamView, 0, len(exams))
	for i := range exams {
		views = append(views, exam.RedactForStudent(&exams[i]))
	}
	return views, nil
}

// ListForAdmin retrieves exams with pagination and an optional subject filter.
func (s *ExamService) ListForAdmin(ctx context.Context, subject *string, page, perPage int) ([]model.Exam, int, error) {
	offset := (page - 1) * perPage
	return s.exams.ListPaginated(ctx, subject, perPage, offset)
}

func (s *ExamService) getByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return e, nil
}

// cachedView returns the cached redacted view, or nil on a miss or decode
// failure. A corrupt entry is dropped so the next read self-heals from the
// database.
func (s *ExamService) cachedView(ctx context.Context, examID uuid.UUID) *model.ExamView {
	key := config.CacheKey.ExamViewKey(examID.String())
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("exam view cache read failed")
		}
		return nil
	}

	var view model.ExamView
	if err := json.Unmarshal(raw, &view); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("dropping corrupt exam view cache entry")
		s.rdb.Del(ctx, key)
		return nil
	}
	return &view
}

// warmViewCache stores the redacted view until the exam window closes.
// Cache failures only cost a database round trip later, so they are logged
// and ignored.
func (s *ExamService) warmViewCache(ctx context.Context, e *model.Exam) {
	ttl := time.Until(e.EndDate)
	if ttl <= 0 {
		return
	}

	view := exam.RedactForStudent(e)
	raw, err := json.Marshal(view)
	if err != nil {
		s.log.Warn().Err(err).Str("exam_id", e.ID.String()).Msg("failed to encode exam view for cache")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamViewKey(e.ID.String()), raw, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", e.ID.String()).Msg("failed to warm exam view cache")
	}
}
