package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examin-app/examin-backend/internal/model"
)

var (
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrDuplicateStudentID = errors.New("user with this student ID already exists")
)

const userColumns = `id, name, email, student_id, password_hash, role, is_primary_admin, is_active, created_at, updated_at`

// UserRepository handles user data access for both students and admins.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.StudentID, &u.PasswordHash, &u.Role,
		&u.IsPrimaryAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByLogin retrieves a user by email or login ID. Emails are stored
// lowercased; login IDs match exactly.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = lower($1) OR student_id = $1`,
		login))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

// StudentIDExists reports whether a student ID is already assigned.
func (r *UserRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE student_id = $1)`, studentID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new user. Unique violations on email and student_id are
// mapped to ErrDuplicateEmail and ErrDuplicateStudentID.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, student_id, password_hash, role, is_primary_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_active, created_at, updated_at`,
		u.Name, strings.ToLower(u.Email), u.StudentID, u.PasswordHash, u.Role, u.IsPrimaryAdmin,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "student_id") {
				return ErrDuplicateStudentID
			}
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// ListAdmins retrieves all admin accounts ordered by creation time.
func (r *UserRepository) ListAdmins(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`,
		model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *u)
	}
	return admins, rows.Err()
}

// UpdateCredentials changes an admin's login ID and password hash in one
// step. Admin login IDs share the student_id column.
func (r *UserRepository) UpdateCredentials(ctx context.Context, id int, loginID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET student_id = $1, password_hash = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		loginID, passwordHash, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentID
		}
	}
	return err
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
