package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is one graded answer inside a submission. IsCorrect and
// MarksObtained are computed at grading time and immutable afterwards.
type Answer struct {
	QuestionID     uuid.UUID `json:"questionId"`
	SelectedOption int       `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect"`
	MarksObtained  int       `json:"marksObtained"`
}

// Submission is the single scored record for one (student, exam) pair.
// TotalMarks is a snapshot of the exam's total at grading time.
type Submission struct {
	ID               uuid.UUID `json:"id"`
	StudentID        int       `json:"student_id"`
	ExamID           uuid.UUID `json:"exam_id"`
	Answers          []Answer  `json:"answers"`
	TotalScore       int       `json:"total_score"`
	TotalMarks       int       `json:"total_marks"`
	Percentage       int       `json:"percentage"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TimeTakenMinutes int       `json:"time_taken"`
	CreatedAt        time.Time `json:"created_at"`
}

// AnswerInput is one submitted answer before grading.
type AnswerInput struct {
	QuestionID     uuid.UUID `json:"questionId" binding:"required"`
	SelectedOption int       `json:"selectedOption" binding:"min=0"`
}

// SubmitExamRequest is the payload for submitting an exam attempt.
type SubmitExamRequest struct {
	ExamID    uuid.UUID     `json:"exam_id" binding:"required"`
	Answers   []AnswerInput `json:"answers" binding:"required,dive"`
	StartTime time.Time     `json:"start_time" binding:"required"`
	EndTime   time.Time     `json:"end_time" binding:"required"`
}

// SubmissionSummary is the student-facing result of a graded submission.
// It never carries the answer key.
type SubmissionSummary struct {
	ID               uuid.UUID `json:"id"`
	TotalScore       int       `json:"total_score"`
	TotalMarks       int       `json:"total_marks"`
	Percentage       int       `json:"percentage"`
	TimeTakenMinutes int       `json:"time_taken"`
	SubmittedAt      time.Time `json:"submitted_at"`
}
