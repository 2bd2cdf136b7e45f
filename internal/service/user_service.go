package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/examin-app/examin-backend/internal/mailer"
	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/repository"
)

// Account management errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrStudentIDTaken     = errors.New("student ID already registered")
	ErrStudentIDExhausted = errors.New("could not allocate a unique student ID")
	ErrPrimaryAdminOnly   = errors.New("only the primary admin may manage admin accounts")
	ErrPrimaryAdminLocked = errors.New("primary admin cannot be removed")
	ErrNotAdmin           = errors.New("user is not an admin")
)

// studentIDDigits is the length of generated student IDs.
const studentIDDigits = 11

// maxStudentIDAttempts bounds the random draw so a pathologically full ID
// space fails with an error instead of looping forever.
const maxStudentIDAttempts = 5

// UserService handles registration, login, and admin account management.
type UserService struct {
	users  *repository.UserRepository
	auth   *AuthService
	mailer *mailer.Mailer
	log    zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, auth *AuthService, m *mailer.Mailer, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		auth:   auth,
		mailer: m,
		log:    log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates a student account with a freshly generated student ID,
// emails the credentials, and logs the student straight in. The email send
// is best-effort and never blocks or fails the registration.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (string, *model.User, error) {
	studentID, err := s.generateStudentID(ctx)
	if err != nil {
		return "", nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		StudentID:    &studentID,
		PasswordHash: hash,
		Role:         model.RoleStudent,
	}
	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return "", nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateStudentID):
			return "", nil, ErrStudentIDTaken
		}
		return "", nil, err
	}

	go func() {
		if err := s.mailer.SendStudentCredentials(u.Email, u.Name, studentID); err != nil {
			s.log.Warn().Err(err).Str("email", u.Email).Msg("failed to send student credential email")
		}
	}()

	token, err := s.auth.GenerateStudentToken(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// generateStudentID draws random 11-digit IDs until an unused one is found,
// giving up after maxStudentIDAttempts draws.
func (s *UserService) generateStudentID(ctx context.Context) (string, error) {
	return generateStudentID(func(candidate string) (bool, error) {
		return s.users.StudentIDExists(ctx, candidate)
	})
}

func generateStudentID(exists func(string) (bool, error)) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(studentIDDigits), nil)

	for attempt := 0; attempt < maxStudentIDAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("draw student ID: %w", err)
		}
		candidate := fmt.Sprintf("%0*d", studentIDDigits, n)

		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrStudentIDExhausted
}

// Login authenticates by email or student ID and issues a JWT.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (string, *model.User, error) {
	u, err := s.users.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	var token string
	if u.Role == model.RoleAdmin {
		token, err = s.auth.GenerateAdminToken(u.ID)
	} else {
		token, err = s.auth.GenerateStudentToken(ctx, u.ID)
	}
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout clears a student's active session. Admin tokens are stateless, so
// logout for admins is a client-side concern.
func (s *UserService) Logout(ctx context.Context, u *model.User) error {
	if u.Role != model.RoleStudent {
		return nil
	}
	return s.auth.ResetStudentSession(ctx, u.ID)
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListAdmins retrieves all admin accounts.
func (s *UserService) ListAdmins(ctx context.Context) ([]model.User, error) {
	return s.users.ListAdmins(ctx)
}

// AddAdmin creates a new admin account and emails the credentials.
// Only the primary admin may add admins.
func (s *UserService) AddAdmin(ctx context.Context, actor *model.User, req *model.AddAdminRequest) (*model.User, error) {
	if !actor.IsPrimaryAdmin {
		return nil, ErrPrimaryAdminOnly
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	adminID := req.AdminID
	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		StudentID:    &adminID,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateStudentID):
			return nil, ErrStudentIDTaken
		}
		return nil, err
	}

	go func() {
		if err := s.mailer.SendAdminCredentials(u.Email, u.Name, req.AdminID, req.Password); err != nil {
			s.log.Warn().Err(err).Str("email", u.Email).Msg("failed to send admin credential email")
		}
	}()

	return u, nil
}

// DeleteAdmin removes an admin account. Only the primary admin may delete
// admins, and the primary admin account itself is never deletable.
func (s *UserService) DeleteAdmin(ctx context.Context, actor *model.User, id int) error {
	if !actor.IsPrimaryAdmin {
		return ErrPrimaryAdminOnly
	}

	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if target.Role != model.RoleAdmin {
		return ErrNotAdmin
	}
	if target.IsPrimaryAdmin {
		return ErrPrimaryAdminLocked
	}

	return s.users.Delete(ctx, id)
}

// ChangeCredentials rotates an admin's login ID and password after
// re-verifying the current ones.
func (s *UserService) ChangeCredentials(ctx context.Context, actor *model.User, req *model.ChangeCredentialsRequest) error {
	if actor.StudentID == nil || *actor.StudentID != req.OldAdminID {
		return ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(actor.PasswordHash, req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdateCredentials(ctx, actor.ID, req.NewAdminID, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicateStudentID) {
			return ErrStudentIDTaken
		}
		return err
	}
	return nil
}
