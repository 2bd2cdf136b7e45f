package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/examin-app/examin-backend/internal/config"
	"github.com/examin-app/examin-backend/internal/model"
)

// Common auth errors.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionAlreadyActive = errors.New("another session is already active")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role   model.Role `json:"role"`
	UserID int        `json:"user_id"`
}

// AuthService handles password hashing, JWT, and student session management.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateStudentToken creates a JWT for a student and registers the session
// in Redis. Students are single-device: a new login while a session is active
// is rejected until the session expires or an admin resets it.
func (s *AuthService) GenerateStudentToken(ctx context.Context, studentID int) (string, error) {
	sessionKey := config.CacheKey.StudentSessionKey(studentID)

	existing, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("check session: %w", err)
	}
	if existing != "" {
		return "", ErrSessionAlreadyActive
	}

	jti := uuid.New().String()
	signed, err := s.sign(jti, studentID, model.RoleStudent)
	if err != nil {
		return "", err
	}

	// Store session in Redis with same expiry as JWT.
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// GenerateAdminToken creates a JWT for an admin. Admins may hold sessions on
// multiple devices, so nothing is registered in Redis.
func (s *AuthService) GenerateAdminToken(adminID int) (string, error) {
	return s.sign(uuid.New().String(), adminID, model.RoleAdmin)
}

func (s *AuthService) sign(jti string, userID int, role model.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role:   role,
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateStudentSession checks that the token's JTI matches the active session in Redis.
func (s *AuthService) ValidateStudentSession(ctx context.Context, studentID int, jti string) error {
	sessionKey := config.CacheKey.StudentSessionKey(studentID)
	stored, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("no active session")
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return errors.New("session invalidated")
	}
	return nil
}

// ResetStudentSession removes a student's session from Redis, allowing a new login.
func (s *AuthService) ResetStudentSession(ctx context.Context, studentID int) error {
	sessionKey := config.CacheKey.StudentSessionKey(studentID)
	return s.rdb.Del(ctx, sessionKey).Err()
}
