package exam

import (
	"reflect"
	"testing"
	"time"

	"github.com/examin-app/examin-backend/internal/model"
	"github.com/google/uuid"
)

// gradedExam builds an exam where each question has options A (wrong) and
// B (correct), weighted by marks.
func gradedExam(marks ...int) *model.Exam {
	questions := make([]model.Question, len(marks))
	for i, m := range marks {
		questions[i] = model.Question{
			ID:     uuid.New(),
			Prompt: "pick B",
			Options: []model.Option{
				{Text: "A", IsCorrect: false},
				{Text: "B", IsCorrect: true},
			},
			Marks: m,
		}
	}
	e := &model.Exam{
		ID:        uuid.New(),
		Title:     "Weighted",
		Subject:   "Science",
		IsActive:  true,
		Questions: questions,
	}
	e.TotalMarks = TotalMarks(questions)
	return e
}

func TestGrade_WeightedScoring(t *testing.T) {
	e := gradedExam(2, 3, 5)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Correct answers for questions 1 and 3 only, wrong for question 2.
	answers := []model.AnswerInput{
		{QuestionID: e.Questions[0].ID, SelectedOption: 1},
		{QuestionID: e.Questions[1].ID, SelectedOption: 0},
		{QuestionID: e.Questions[2].ID, SelectedOption: 1},
	}

	got := Grade(e, answers, start, start.Add(30*time.Minute))

	if got.TotalScore != 7 {
		t.Fatalf("expected totalScore=7, got %d", got.TotalScore)
	}
	if got.TotalMarks != 10 {
		t.Fatalf("expected totalMarks=10, got %d", got.TotalMarks)
	}
	if got.Percentage != 70 {
		t.Fatalf("expected percentage=70, got %d", got.Percentage)
	}
	if got.TimeTakenMinutes != 30 {
		t.Fatalf("expected timeTaken=30, got %d", got.TimeTakenMinutes)
	}
	if len(got.Answers) != 3 {
		t.Fatalf("expected 3 graded answers, got %d", len(got.Answers))
	}
	if !got.Answers[0].IsCorrect || got.Answers[0].MarksObtained != 2 {
		t.Fatalf("answer 0: expected correct with 2 marks, got %+v", got.Answers[0])
	}
	if got.Answers[1].IsCorrect || got.Answers[1].MarksObtained != 0 {
		t.Fatalf("answer 1: expected incorrect with 0 marks, got %+v", got.Answers[1])
	}
}

func TestGrade_Leniency(t *testing.T) {
	e := gradedExam(1, 1)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	tests := []struct {
		name        string
		answers     []model.AnswerInput
		wantScore   int
		wantAnswers int
	}{
		{
			name: "unknown question dropped silently",
			answers: []model.AnswerInput{
				{QuestionID: uuid.New(), SelectedOption: 1},
				{QuestionID: e.Questions[0].ID, SelectedOption: 1},
			},
			wantScore:   1,
			wantAnswers: 1,
		},
		{
			name: "out of range option is incorrect not an error",
			answers: []model.AnswerInput{
				{QuestionID: e.Questions[0].ID, SelectedOption: 9},
			},
			wantScore:   0,
			wantAnswers: 1,
		},
		{
			name:        "empty answer list",
			answers:     nil,
			wantScore:   0,
			wantAnswers: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(e, tc.answers, start, end)
			if got.TotalScore != tc.wantScore {
				t.Fatalf("expected score=%d, got %d", tc.wantScore, got.TotalScore)
			}
			if len(got.Answers) != tc.wantAnswers {
				t.Fatalf("expected %d graded answers, got %d", tc.wantAnswers, len(got.Answers))
			}
		})
	}
}

func TestGrade_Deterministic(t *testing.T) {
	e := gradedExam(2, 3)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	answers := []model.AnswerInput{
		{QuestionID: e.Questions[1].ID, SelectedOption: 1},
		{QuestionID: e.Questions[0].ID, SelectedOption: 0},
	}

	first := Grade(e, answers, start, start.Add(time.Hour))
	second := Grade(e, answers, start, start.Add(time.Hour))

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("grading is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if e.TotalMarks != 5 {
		t.Fatalf("exam mutated during grading: totalMarks=%d", e.TotalMarks)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		totalMarks int
		want       int
	}{
		{name: "exact", score: 7, totalMarks: 10, want: 70},
		{name: "rounds 33.33 down", score: 1, totalMarks: 3, want: 33},
		{name: "rounds 66.67 up", score: 2, totalMarks: 3, want: 67},
		{name: "zero total marks", score: 0, totalMarks: 0, want: 0},
		{name: "zero score", score: 0, totalMarks: 10, want: 0},
		{name: "full marks", score: 10, totalMarks: 10, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Percentage(tc.score, tc.totalMarks); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestTimeTakenMinutes(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{name: "ten minutes", end: start.Add(10 * time.Minute), want: 10},
		{name: "rounds half up", end: start.Add(9*time.Minute + 30*time.Second), want: 10},
		{name: "rounds down below half", end: start.Add(9*time.Minute + 20*time.Second), want: 9},
		{name: "zero duration", end: start, want: 0},
		{name: "negative passes through", end: start.Add(-5 * time.Minute), want: -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeTakenMinutes(start, tc.end); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestTotalMarks(t *testing.T) {
	e := gradedExam(2, 3, 5)
	if got := TotalMarks(e.Questions); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := TotalMarks(nil); got != 0 {
		t.Fatalf("expected 0 for empty set, got %d", got)
	}
}
