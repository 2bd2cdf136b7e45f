package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examin-app/examin-backend/internal/model"
)

// ErrDuplicateSubmission is returned when a student already has a submission
// for the exam. The UNIQUE(student_id, exam_id) constraint is the final
// arbiter, so concurrent submits resolve to exactly one row.
var ErrDuplicateSubmission = errors.New("submission already exists for this student and exam")

const submissionColumns = `id, student_id, exam_id, answers, total_score, total_marks, percentage, start_time, end_time, time_taken_minutes, created_at`

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

func scanSubmission(row interface{ Scan(...any) error }) (*model.Submission, error) {
	s := &model.Submission{}
	var answers []byte
	err := row.Scan(&s.ID, &s.StudentID, &s.ExamID, &answers, &s.TotalScore, &s.TotalMarks,
		&s.Percentage, &s.StartTime, &s.EndTime, &s.TimeTakenMinutes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a graded submission. ON CONFLICT DO NOTHING makes the insert
// race-safe: when another submission already holds the (student, exam) slot,
// no row comes back and ErrDuplicateSubmission is returned.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, student_id, exam_id, answers, total_score, total_marks, percentage, start_time, end_time, time_taken_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (student_id, exam_id) DO NOTHING
		 RETURNING created_at`,
		s.ID, s.StudentID, s.ExamID, answers, s.TotalScore, s.TotalMarks,
		s.Percentage, s.StartTime, s.EndTime, s.TimeTakenMinutes,
	).Scan(&s.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateSubmission
	}
	return err
}

// ExistsForStudentAndExam reports whether the student already submitted the exam.
func (r *SubmissionRepository) ExistsForStudentAndExam(ctx context.Context, studentID int, examID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM submissions WHERE student_id = $1 AND exam_id = $2)`,
		studentID, examID,
	).Scan(&exists)
	return exists, err
}

// GetByID retrieves a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	return scanSubmission(r.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
}

// ListByStudent retrieves a student's submissions, newest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// ListByExam retrieves all submissions for an exam, newest first.
func (r *SubmissionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE exam_id = $1 ORDER BY created_at DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func collectSubmissions(rows pgx.Rows) ([]model.Submission, error) {
	var subs []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// Delete removes a submission by ID.
func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	return err
}
