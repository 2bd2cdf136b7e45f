package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/examin-app/examin-backend/internal/model"
)

func TestGenerateStudentID_Format(t *testing.T) {
	id, err := generateStudentID(func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != studentIDDigits {
		t.Fatalf("expected %d digits, got %d (%q)", studentIDDigits, len(id), id)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			t.Fatalf("expected digits only, got %q", id)
		}
	}
}

func TestGenerateStudentID_RetriesOnCollision(t *testing.T) {
	calls := 0
	id, err := generateStudentID(func(string) (bool, error) {
		calls++
		return calls < 3, nil // first two candidates taken
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 draws, got %d", calls)
	}
	if id == "" {
		t.Fatal("expected a student ID after retries")
	}
}

func TestGenerateStudentID_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	_, err := generateStudentID(func(string) (bool, error) {
		calls++
		return true, nil // everything taken
	})
	if !errors.Is(err, ErrStudentIDExhausted) {
		t.Fatalf("expected ErrStudentIDExhausted, got %v", err)
	}
	if calls != maxStudentIDAttempts {
		t.Fatalf("expected exactly %d draws, got %d", maxStudentIDAttempts, calls)
	}
}

func TestGenerateStudentID_PropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("database down")
	_, err := generateStudentID(func(string) (bool, error) {
		return false, lookupErr
	})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestAddAdmin_RequiresPrimaryAdmin(t *testing.T) {
	// The actor check runs before any repository or mailer access.
	s := NewUserService(nil, nil, nil, zerolog.Nop())
	actor := &model.User{ID: 2, Role: model.RoleAdmin, IsPrimaryAdmin: false}

	_, err := s.AddAdmin(context.Background(), actor, &model.AddAdminRequest{
		Name:     "New Admin",
		Email:    "new.admin@example.com",
		AdminID:  "ADM-0002",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrPrimaryAdminOnly) {
		t.Fatalf("expected ErrPrimaryAdminOnly, got %v", err)
	}
}

func TestDeleteAdmin_RequiresPrimaryAdmin(t *testing.T) {
	s := NewUserService(nil, nil, nil, zerolog.Nop())
	actor := &model.User{ID: 2, Role: model.RoleAdmin, IsPrimaryAdmin: false}

	err := s.DeleteAdmin(context.Background(), actor, 3)
	if !errors.Is(err, ErrPrimaryAdminOnly) {
		t.Fatalf("expected ErrPrimaryAdminOnly, got %v", err)
	}
}
