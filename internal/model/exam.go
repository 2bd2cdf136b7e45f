package model

import (
	"time"

	"github.com/google/uuid"
)

// Option is a single answer choice. IsCorrect is the answer key and must
// never reach a student-facing response before submission.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is owned by its exam and stored inline with it.
type Question struct {
	ID      uuid.UUID `json:"id"`
	Prompt  string    `json:"question"`
	Options []Option  `json:"options"`
	Marks   int       `json:"marks"`
}

// Exam represents an exam definition with its scheduling window.
// TotalMarks is derived from the questions and recomputed on every write.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Subject         string     `json:"subject"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      int        `json:"total_marks"`
	Questions       []Question `json:"questions"`
	CreatedBy       int        `json:"created_by"`
	IsActive        bool       `json:"is_active"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OptionView is an answer choice with the correctness flag stripped.
type OptionView struct {
	Text string `json:"text"`
}

// QuestionView is the student-facing projection of a question.
type QuestionView struct {
	ID      uuid.UUID    `json:"id"`
	Prompt  string       `json:"question"`
	Options []OptionView `json:"options"`
	Marks   int          `json:"marks"`
}

// ExamView is the student-facing projection of an exam. Every student read,
// including list views, goes through this shape.
type ExamView struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Subject         string         `json:"subject"`
	DurationMinutes int            `json:"duration_minutes"`
	TotalMarks      int            `json:"total_marks"`
	Questions       []QuestionView `json:"questions"`
	IsActive        bool           `json:"is_active"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         time.Time      `json:"end_date"`
}

// OptionInput is an answer choice in a create/update payload.
type OptionInput struct {
	Text      string `json:"text" binding:"required,max=500"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionInput is a question in a create/update payload. Marks defaults
// to 1 when omitted.
type QuestionInput struct {
	Prompt  string        `json:"question" binding:"required,min=1,max=2000"`
	Options []OptionInput `json:"options" binding:"required,min=2,max=6,dive"`
	Marks   int           `json:"marks" binding:"omitempty,min=1"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title           string          `json:"title" binding:"required,min=3,max=100"`
	Subject         string          `json:"subject" binding:"required,min=1,max=50"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1,max=480"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         time.Time       `json:"end_date" binding:"required,gtfield=StartDate"`
	IsActive        *bool           `json:"is_active" binding:"omitempty"`
	Questions       []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// UpdateExamRequest is the payload for updating an existing exam.
// Questions, when present, replace the full question set.
type UpdateExamRequest struct {
	Title           string          `json:"title" binding:"omitempty,min=3,max=100"`
	Subject         string          `json:"subject" binding:"omitempty,min=1,max=50"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	StartDate       *time.Time      `json:"start_date" binding:"omitempty"`
	EndDate         *time.Time      `json:"end_date" binding:"omitempty"`
	IsActive        *bool           `json:"is_active" binding:"omitempty"`
	Questions       []QuestionInput `json:"questions" binding:"omitempty,min=1,dive"`
}
