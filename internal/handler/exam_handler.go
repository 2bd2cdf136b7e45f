package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/examin-app/examin-backend/internal/exam"
	"github.com/examin-app/examin-backend/internal/middleware"
	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
	"github.com/examin-app/examin-backend/internal/validator"
)

// ExamHandler handles exam endpoints. Reads branch on the caller's role:
// admins see the answer key, students get the redacted view.
type ExamHandler struct {
	examService *service.ExamService
	userService *service.UserService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, userService *service.UserService) *ExamHandler {
	return &ExamHandler{examService: examService, userService: userService}
}

// List godoc
// GET /api/v1/exams
// Admins get a paginated full listing; students get redacted views of
// active exams.
func (h *ExamHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if claims.Role == model.RoleAdmin {
		h.listForAdmin(c)
		return
	}

	views, err := h.examService.ListForStudent(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": views})
}

func (h *ExamHandler) listForAdmin(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var subject *string
	if s := c.Query("subject"); s != "" {
		subject = &s
	}

	exams, total, err := h.examService.ListForAdmin(c.Request.Context(), subject, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get godoc
// GET /api/v1/exams/:id
// Admins get the full exam; students get the redacted view, gated on the
// exam being open and unattempted.
func (h *ExamHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if claims.Role == model.RoleAdmin {
		e, err := h.examService.GetForAdmin(c.Request.Context(), examID)
		if err != nil {
			h.failExam(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"exam": e})
		return
	}

	view, err := h.examService.GetForStudent(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": view})
}

// Create godoc
// POST /api/v1/exams
// Creates an exam. Admin only.
func (h *ExamHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	actor, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.examService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": e})
}

// Update godoc
// PUT /api/v1/exams/:id
// Applies a partial update to an exam. Admin only.
func (h *ExamHandler) Update(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.examService.Update(c.Request.Context(), examID, &req)
	if err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": e})
}

// Delete godoc
// DELETE /api/v1/exams/:id
// Removes an exam and its submissions. Any admin may delete any exam.
func (h *ExamHandler) Delete(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.examService.Delete(c.Request.Context(), examID); err != nil {
		h.failExam(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// failExam maps exam domain errors to HTTP responses.
func (h *ExamHandler) failExam(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrExamWindowInvalid):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"end_date": "end_date must be after start_date",
		})
	case errors.Is(err, exam.ErrNotStarted):
		response.Fail(c, http.StatusForbidden, response.ErrExamNotStarted)
	case errors.Is(err, exam.ErrEnded):
		response.Fail(c, http.StatusForbidden, response.ErrExamEnded)
	case errors.Is(err, exam.ErrInactive):
		response.Fail(c, http.StatusForbidden, response.ErrExamInactive)
	case errors.Is(err, exam.ErrAlreadySubmitted):
		response.Fail(c, http.StatusForbidden, response.ErrAlreadySubmitted)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
