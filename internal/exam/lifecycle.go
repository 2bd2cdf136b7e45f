// Package exam contains the pure business rules of the platform: window
// classification, attempt admission, grading, and the student-facing
// redaction of exam content. Nothing in this package performs I/O; callers
// supply the exam snapshot, the clock, and the prior-submission flag.
package exam

import (
	"errors"
	"time"

	"github.com/examin-app/examin-backend/internal/model"
)

// State classifies an exam's availability at an instant.
type State string

const (
	StateNotYetOpen State = "NOT_YET_OPEN"
	StateOpen       State = "OPEN"
	StateClosed     State = "CLOSED"
)

// Attempt denial reasons. Each is independently reportable so the HTTP
// layer can tell the student exactly why access was refused.
var (
	ErrNotStarted       = errors.New("exam has not started yet")
	ErrEnded            = errors.New("exam has ended")
	ErrInactive         = errors.New("exam is not active")
	ErrAlreadySubmitted = errors.New("exam has already been submitted")
)

// Classify returns the temporal state of an exam at now. An inactive exam
// inside its window is reported Closed: it can never be Open for attempts.
func Classify(e *model.Exam, now time.Time) State {
	if now.Before(e.StartDate) {
		return StateNotYetOpen
	}
	if now.After(e.EndDate) {
		return StateClosed
	}
	if !e.IsActive {
		return StateClosed
	}
	return StateOpen
}

// EvaluateAttempt decides whether a student may attempt the exam at now.
// Returns nil when attemptable, otherwise one of the denial errors above.
// The same predicate gates both content retrieval and submission acceptance
// so the two paths can never disagree on the reason.
func EvaluateAttempt(e *model.Exam, now time.Time, hasSubmission bool) error {
	if !e.IsActive {
		return ErrInactive
	}
	if now.Before(e.StartDate) {
		return ErrNotStarted
	}
	if now.After(e.EndDate) {
		return ErrEnded
	}
	if hasSubmission {
		return ErrAlreadySubmitted
	}
	return nil
}

// CanAttempt is the boolean form of EvaluateAttempt.
func CanAttempt(e *model.Exam, now time.Time, hasSubmission bool) bool {
	return EvaluateAttempt(e, now, hasSubmission) == nil
}
