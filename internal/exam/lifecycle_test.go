package exam

import (
	"errors"
	"testing"
	"time"

	"github.com/examin-app/examin-backend/internal/model"
	"github.com/google/uuid"
)

func windowExam(active bool, start, end time.Time) *model.Exam {
	return &model.Exam{
		ID:        uuid.New(),
		Title:     "Midterm",
		Subject:   "Math",
		IsActive:  active,
		StartDate: start,
		EndDate:   end,
	}
}

func TestClassify(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	start := base
	end := base.Add(7 * 24 * time.Hour)

	tests := []struct {
		name   string
		active bool
		now    time.Time
		want   State
	}{
		{name: "before start", active: true, now: start.Add(-time.Minute), want: StateNotYetOpen},
		{name: "at start", active: true, now: start, want: StateOpen},
		{name: "inside window", active: true, now: start.Add(time.Hour), want: StateOpen},
		{name: "at end", active: true, now: end, want: StateOpen},
		{name: "after end", active: true, now: end.Add(time.Second), want: StateClosed},
		{name: "inactive inside window", active: false, now: start.Add(time.Hour), want: StateClosed},
		{name: "inactive before start", active: false, now: start.Add(-time.Hour), want: StateNotYetOpen},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := windowExam(tc.active, start, end)
			if got := Classify(e, tc.now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEvaluateAttempt(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	tests := []struct {
		name          string
		active        bool
		now           time.Time
		hasSubmission bool
		wantErr       error
	}{
		{name: "open and fresh", active: true, now: start.Add(time.Hour), wantErr: nil},
		{name: "not started", active: true, now: start.Add(-time.Minute), wantErr: ErrNotStarted},
		{name: "ended", active: true, now: end.Add(time.Minute), wantErr: ErrEnded},
		{name: "inactive regardless of dates", active: false, now: start.Add(time.Hour), wantErr: ErrInactive},
		{name: "already submitted", active: true, now: start.Add(time.Hour), hasSubmission: true, wantErr: ErrAlreadySubmitted},
		{name: "inactive wins over prior submission", active: false, now: start.Add(time.Hour), hasSubmission: true, wantErr: ErrInactive},
		{name: "window boundary start", active: true, now: start, wantErr: nil},
		{name: "window boundary end", active: true, now: end, wantErr: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := windowExam(tc.active, start, end)
			err := EvaluateAttempt(e, tc.now, tc.hasSubmission)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			if got, want := CanAttempt(e, tc.now, tc.hasSubmission), tc.wantErr == nil; got != want {
				t.Fatalf("CanAttempt: expected %v, got %v", want, got)
			}
		})
	}
}
