package exam

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestRedactForStudent_StripsAnswerKey(t *testing.T) {
	e := gradedExam(1, 2)
	view := RedactForStudent(e)

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	if strings.Contains(string(raw), "isCorrect") {
		t.Fatalf("redacted view leaks the answer key: %s", raw)
	}

	if len(view.Questions) != len(e.Questions) {
		t.Fatalf("expected %d questions, got %d", len(e.Questions), len(view.Questions))
	}
	for i, q := range view.Questions {
		if q.ID != e.Questions[i].ID {
			t.Fatalf("question %d: id changed during redaction", i)
		}
		if q.Marks != e.Questions[i].Marks {
			t.Fatalf("question %d: marks changed during redaction", i)
		}
		if len(q.Options) != len(e.Questions[i].Options) {
			t.Fatalf("question %d: option count changed during redaction", i)
		}
	}
}

func TestRedactForStudent_Idempotent(t *testing.T) {
	e := gradedExam(2, 3)

	first := RedactForStudent(e)
	second := RedactForStudent(e)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("redaction is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// The exam itself must be untouched: the answer key survives for grading.
	hasCorrect := false
	for _, q := range e.Questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				hasCorrect = true
			}
		}
	}
	if !hasCorrect {
		t.Fatal("redaction mutated the source exam's answer key")
	}
}
