package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examin-app/examin-backend/internal/model"
)

const examColumns = `id, title, subject, duration_minutes, total_marks, questions, created_by, is_active, start_date, end_date, created_at, updated_at`

// ExamRepository handles exam data access. Questions are stored as a JSONB
// document so the answer key stays a single unit with the exam.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

func scanExam(row interface{ Scan(...any) error }) (*model.Exam, error) {
	e := &model.Exam{}
	var questions []byte
	err := row.Scan(&e.ID, &e.Title, &e.Subject, &e.DurationMinutes, &e.TotalMarks,
		&questions, &e.CreatedBy, &e.IsActive, &e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &e.Questions); err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an exam by ID, answer key included.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// ListActive retrieves active exams whose window has not ended yet,
// soonest-closing first.
func (r *ExamRepository) ListActive(ctx context.Context, now time.Time) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE is_active = TRUE AND end_date >= $1
		 ORDER BY end_date`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// ListPaginated retrieves exams with pagination and an optional subject filter.
func (r *ExamRepository) ListPaginated(ctx context.Context, subject *string, limit, offset int) ([]model.Exam, int, error) {
	countQuery := `SELECT COUNT(*) FROM exams`
	var countArgs []interface{}
	if subject != nil {
		countQuery += ` WHERE subject = $1`
		countArgs = append(countArgs, *subject)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + examColumns + ` FROM exams`
	var args []interface{}
	argIdx := 1

	if subject != nil {
		query += ` WHERE subject = $1`
		args = append(args, *subject)
		argIdx++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		exams = append(exams, *e)
	}
	return exams, total, rows.Err()
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (id, title, subject, duration_minutes, total_marks, questions, created_by, is_active, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at`,
		e.ID, e.Title, e.Subject, e.DurationMinutes, e.TotalMarks, questions,
		e.CreatedBy, e.IsActive, e.StartDate, e.EndDate,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

// Update replaces an exam's content and schedule.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, subject = $2, duration_minutes = $3, total_marks = $4,
		     questions = $5, is_active = $6, start_date = $7, end_date = $8,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $9`,
		e.Title, e.Subject, e.DurationMinutes, e.TotalMarks, questions,
		e.IsActive, e.StartDate, e.EndDate, e.ID)
	return err
}

// Delete removes an exam. Submissions cascade at the database level.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}
