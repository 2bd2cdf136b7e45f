package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/examin-app/examin-backend/internal/middleware"
	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
	"github.com/examin-app/examin-backend/internal/validator"
)

// AuthHandler handles authentication and account management endpoints.
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a student account and emails the generated student ID.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, u, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
		case errors.Is(err, service.ErrStudentIDExhausted):
			response.Fail(c, http.StatusServiceUnavailable, response.ErrStudentIDExhausted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"token": token, "user": u})
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates by email or student ID and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, u, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrSessionAlreadyActive):
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token, "user": u})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	u := h.currentUser(c)
	if u == nil {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears a student's single-device session. No-op for admins.
func (h *AuthHandler) Logout(c *gin.Context) {
	u := h.currentUser(c)
	if u == nil {
		return
	}

	if err := h.userService.Logout(c.Request.Context(), u); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ListAdmins godoc
// GET /api/v1/auth/admins
// Returns all admin accounts.
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	admins, err := h.userService.ListAdmins(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admins": admins})
}

// AddAdmin godoc
// POST /api/v1/auth/admins
// Creates an admin account. Primary admin only.
func (h *AuthHandler) AddAdmin(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req model.AddAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	u, err := h.userService.AddAdmin(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPrimaryAdminOnly):
			response.Fail(c, http.StatusForbidden, response.ErrPrimaryAdminOnly)
		case errors.Is(err, service.ErrEmailTaken):
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
		case errors.Is(err, service.ErrStudentIDTaken):
			response.Fail(c, http.StatusConflict, response.ErrStudentIDTaken)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"admin": u})
}

// DeleteAdmin godoc
// DELETE /api/v1/auth/admins/:id
// Removes an admin account. Primary admin only.
func (h *AuthHandler) DeleteAdmin(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.userService.DeleteAdmin(c.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrPrimaryAdminOnly):
			response.Fail(c, http.StatusForbidden, response.ErrPrimaryAdminOnly)
		case errors.Is(err, service.ErrPrimaryAdminLocked):
			response.Fail(c, http.StatusForbidden, response.ErrPrimaryAdminLocked)
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrNotAdmin):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ChangeCredentials godoc
// PUT /api/v1/auth/change-credentials
// Rotates the calling admin's login ID and password.
func (h *AuthHandler) ChangeCredentials(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	var req model.ChangeCredentialsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.userService.ChangeCredentials(c.Request.Context(), actor, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrStudentIDTaken):
			response.Fail(c, http.StatusConflict, response.ErrStudentIDTaken)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// currentUser loads the authenticated user or writes the failure response.
func (h *AuthHandler) currentUser(c *gin.Context) *model.User {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil
	}

	u, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return nil
	}
	return u
}
