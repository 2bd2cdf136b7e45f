package service

import (
	"errors"
	"testing"
	"time"

	"github.com/examin-app/examin-backend/internal/model"
)

func windowExam(start, end time.Time) *model.Exam {
	return &model.Exam{
		Title:           "Algebra Midterm",
		Subject:         "Mathematics",
		DurationMinutes: 60,
		StartDate:       start,
		EndDate:         end,
	}
}

func TestApplyExamUpdate_RejectsEndBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	badEnd := start.Add(-time.Hour)
	e := windowExam(start, end)
	err := applyExamUpdate(e, &model.UpdateExamRequest{EndDate: &badEnd})
	if !errors.Is(err, ErrExamWindowInvalid) {
		t.Fatalf("expected ErrExamWindowInvalid, got %v", err)
	}
}

func TestApplyExamUpdate_RejectsEndEqualToStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := windowExam(start, start.Add(2*time.Hour))

	sameAsStart := start
	err := applyExamUpdate(e, &model.UpdateExamRequest{EndDate: &sameAsStart})
	if !errors.Is(err, ErrExamWindowInvalid) {
		t.Fatalf("expected ErrExamWindowInvalid, got %v", err)
	}
}

func TestApplyExamUpdate_RejectsStartMovedPastExistingEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	e := windowExam(start, end)

	lateStart := end.Add(time.Hour)
	err := applyExamUpdate(e, &model.UpdateExamRequest{StartDate: &lateStart})
	if !errors.Is(err, ErrExamWindowInvalid) {
		t.Fatalf("expected ErrExamWindowInvalid, got %v", err)
	}
}

func TestApplyExamUpdate_ChecksMergedWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := windowExam(start, start.Add(2*time.Hour))

	// Both dates move together to a later, still valid window.
	newStart := start.Add(24 * time.Hour)
	newEnd := newStart.Add(3 * time.Hour)
	if err := applyExamUpdate(e, &model.UpdateExamRequest{StartDate: &newStart, EndDate: &newEnd}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.StartDate.Equal(newStart) || !e.EndDate.Equal(newEnd) {
		t.Fatalf("window not applied: start=%v end=%v", e.StartDate, e.EndDate)
	}
}

func TestApplyExamUpdate_MergesPartialFields(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := windowExam(start, start.Add(2*time.Hour))

	if err := applyExamUpdate(e, &model.UpdateExamRequest{Title: "Algebra Final"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Title != "Algebra Final" {
		t.Fatalf("title not applied, got %q", e.Title)
	}
	if e.Subject != "Mathematics" || e.DurationMinutes != 60 {
		t.Fatalf("untouched fields changed: subject=%q duration=%d", e.Subject, e.DurationMinutes)
	}
}

func TestApplyExamUpdate_ReplacingQuestionsRecomputesTotalMarks(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := windowExam(start, start.Add(2*time.Hour))
	e.TotalMarks = 1

	req := &model.UpdateExamRequest{
		Questions: []model.QuestionInput{
			{
				Prompt:  "2 + 2 = ?",
				Options: []model.OptionInput{{Text: "3"}, {Text: "4", IsCorrect: true}},
				Marks:   2,
			},
			{
				Prompt:  "3 * 3 = ?",
				Options: []model.OptionInput{{Text: "9", IsCorrect: true}, {Text: "6"}},
				// Marks omitted, defaults to 1.
			},
		},
	}
	if err := applyExamUpdate(e, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.TotalMarks != 3 {
		t.Fatalf("expected total marks 3, got %d", e.TotalMarks)
	}
	if len(e.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(e.Questions))
	}
}
