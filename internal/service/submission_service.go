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

// Submission errors.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrSubmissionConflict means a concurrent submission won the unique
	// constraint race after the pre-check had already passed.
	ErrSubmissionConflict = errors.New("submission conflict")
)

// SubmissionEvent is published to the exam's monitor channel after each
// successful submission.
type SubmissionEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	ExamID       uuid.UUID `json:"exam_id"`
	StudentID    int       `json:"student_id"`
	TotalScore   int       `json:"total_score"`
	TotalMarks   int       `json:"total_marks"`
	Percentage   int       `json:"percentage"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SubmissionService grades and stores exam submissions.
type SubmissionService struct {
	exams       *repository.ExamRepository
	submissions *repository.SubmissionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(exams *repository.ExamRepository, submissions *repository.SubmissionRepository, rdb *redis.Client, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		exams:       exams,
		submissions: submissions,
		rdb:         rdb,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades a student's answers against the exam's answer key and stores
// the result. The exam must be open for the student; the unique constraint on
// (student, exam) settles any race the pre-check misses.
func (s *SubmissionService) Submit(ctx context.Context, studentID int, req *model.SubmitExamRequest) (*model.Submission, error) {
	e, err := s.exams.GetByID(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	hasSubmission, err := s.submissions.ExistsForStudentAndExam(ctx, studentID, req.ExamID)
	if err != nil {
		return nil, err
	}
	if err := exam.EvaluateAttempt(e, time.Now(), hasSubmission); err != nil {
		return nil, err
	}

	result := exam.Grade(e, req.Answers, req.StartTime, req.EndTime)

	sub := &model.Submission{
		ID:               uuid.New(),
		StudentID:        studentID,
		ExamID:           req.ExamID,
		Answers:          result.Answers,
		TotalScore:       result.TotalScore,
		TotalMarks:       result.TotalMarks,
		Percentage:       result.Percentage,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		TimeTakenMinutes: result.TimeTakenMinutes,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			s.log.Warn().
				Int("student_id", studentID).
				Str("exam_id", req.ExamID.String()).
				Msg("concurrent submission lost the unique constraint race")
			return nil, ErrSubmissionConflict
		}
		return nil, err
	}

	s.publishSubmission(ctx, sub)
	return sub, nil
}

// publishSubmission notifies live monitors. Best effort: monitoring must
// never fail a successful submission.
func (s *SubmissionService) publishSubmission(ctx context.Context, sub *model.Submission) {
	event := SubmissionEvent{
		SubmissionID: sub.ID,
		ExamID:       sub.ExamID,
		StudentID:    sub.StudentID,
		TotalScore:   sub.TotalScore,
		TotalMarks:   sub.TotalMarks,
		Percentage:   sub.Percentage,
		SubmittedAt:  sub.CreatedAt,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode submission event")
		return
	}

	channel := config.CacheKey.ExamSubmissionChannel(sub.ExamID.String())
	if err := s.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("failed to publish submission event")
	}
}

// ListMine retrieves the calling student's own submissions.
func (s *SubmissionService) ListMine(ctx context.Context, studentID int) ([]model.Submission, error) {
	return s.submissions.ListByStudent(ctx, studentID)
}

// ListByExam retrieves all submissions for an exam.
func (s *SubmissionService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Submission, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return s.submissions.ListByExam(ctx, examID)
}

// Get retrieves a single submission. Students may only read their own;
// admins may read any.
func (s *SubmissionService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if actor.Role != model.RoleAdmin && sub.StudentID != actor.ID {
		// Hide the submission's existence from other students.
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// Delete removes a submission, freeing the student's attempt slot for the exam.
func (s *SubmissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.submissions.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubmissionNotFound
		}
		return err
	}
	return s.submissions.Delete(ctx, id)
}
