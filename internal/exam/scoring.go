package exam

import (
	"math"
	"time"

	"github.com/examin-app/examin-backend/internal/model"
	"github.com/google/uuid"
)

// Result is the outcome of grading one submission attempt. TotalMarks is
// the exam's total at grading time; it is not recomputed if the exam's
// questions change later.
type Result struct {
	Answers          []model.Answer
	TotalScore       int
	TotalMarks       int
	Percentage       int
	TimeTakenMinutes int
}

// Grade scores a set of submitted answers against the exam's answer key.
// It is a pure function of its inputs: the exam is never mutated and the
// same (exam, answers, times) always yields the same Result.
//
// Two lenient behaviors are deliberate and load-bearing:
//   - an answer referencing a question not in the exam is dropped silently;
//   - a selected option index outside the question's option range counts
//     as incorrect rather than erroring.
func Grade(e *model.Exam, answers []model.AnswerInput, startTime, endTime time.Time) Result {
	byID := make(map[uuid.UUID]*model.Question, len(e.Questions))
	for i := range e.Questions {
		byID[e.Questions[i].ID] = &e.Questions[i]
	}

	graded := make([]model.Answer, 0, len(answers))
	totalScore := 0

	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}

		correct := false
		if a.SelectedOption >= 0 && a.SelectedOption < len(q.Options) {
			correct = q.Options[a.SelectedOption].IsCorrect
		}

		marks := 0
		if correct {
			marks = q.Marks
		}
		totalScore += marks

		graded = append(graded, model.Answer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			IsCorrect:      correct,
			MarksObtained:  marks,
		})
	}

	return Result{
		Answers:          graded,
		TotalScore:       totalScore,
		TotalMarks:       e.TotalMarks,
		Percentage:       Percentage(totalScore, e.TotalMarks),
		TimeTakenMinutes: TimeTakenMinutes(startTime, endTime),
	}
}

// Percentage computes round(score/totalMarks*100) with a zero total
// yielding 0 instead of dividing by zero.
func Percentage(score, totalMarks int) int {
	if totalMarks <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(totalMarks) * 100))
}

// TimeTakenMinutes is the attempt duration rounded to whole minutes.
// Negative and zero durations pass through unvalidated.
func TimeTakenMinutes(startTime, endTime time.Time) int {
	return int(math.Round(endTime.Sub(startTime).Minutes()))
}

// TotalMarks sums the marks of a question set.
func TotalMarks(questions []model.Question) int {
	total := 0
	for i := range questions {
		total += questions[i].Marks
	}
	return total
}
