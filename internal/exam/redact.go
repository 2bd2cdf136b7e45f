package exam

import (
	"github.com/examin-app/examin-backend/internal/model"
)

// RedactForStudent projects an exam to its student-facing view, stripping
// the isCorrect flag from every option unconditionally. It copies instead
// of mutating, so applying it twice yields the same result as once.
func RedactForStudent(e *model.Exam) model.ExamView {
	questions := make([]model.QuestionView, len(e.Questions))
	for i := range e.Questions {
		q := &e.Questions[i]
		options := make([]model.OptionView, len(q.Options))
		for j := range q.Options {
			options[j] = model.OptionView{Text: q.Options[j].Text}
		}
		questions[i] = model.QuestionView{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Options: options,
			Marks:   q.Marks,
		}
	}

	return model.ExamView{
		ID:              e.ID,
		Title:           e.Title,
		Subject:         e.Subject,
		DurationMinutes: e.DurationMinutes,
		TotalMarks:      e.TotalMarks,
		Questions:       questions,
		IsActive:        e.IsActive,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
	}
}
