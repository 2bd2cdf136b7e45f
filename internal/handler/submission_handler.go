package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/examin-app/examin-backend/internal/exam"
	"github.com/examin-app/examin-backend/internal/middleware"
	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
	"github.com/examin-app/examin-backend/internal/validator"
)

// SubmissionHandler handles submission endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit godoc
// POST /api/v1/submissions
// Grades and stores the calling student's answers for an exam.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, exam.ErrNotStarted):
			response.Fail(c, http.StatusForbidden, response.ErrExamNotStarted)
		case errors.Is(err, exam.ErrEnded):
			response.Fail(c, http.StatusForbidden, response.ErrExamEnded)
		case errors.Is(err, exam.ErrInactive):
			response.Fail(c, http.StatusForbidden, response.ErrExamInactive)
		case errors.Is(err, exam.ErrAlreadySubmitted):
			response.Fail(c, http.StatusForbidden, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrSubmissionConflict):
			// A concurrent submit won the race after the pre-check passed.
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	// The student gets the score, never the graded answer detail.
	response.Success(c, http.StatusCreated, gin.H{"submission": model.SubmissionSummary{
		ID:               sub.ID,
		TotalScore:       sub.TotalScore,
		TotalMarks:       sub.TotalMarks,
		Percentage:       sub.Percentage,
		TimeTakenMinutes: sub.TimeTakenMinutes,
		SubmittedAt:      sub.CreatedAt,
	}})
}

// ListMine godoc
// GET /api/v1/submissions/my
// Returns the calling student's own submissions.
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	subs, err := h.submissionService.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	summaries := make([]model.SubmissionSummary, 0, len(subs))
	for _, sub := range subs {
		summaries = append(summaries, model.SubmissionSummary{
			ID:               sub.ID,
			TotalScore:       sub.TotalScore,
			TotalMarks:       sub.TotalMarks,
			Percentage:       sub.Percentage,
			TimeTakenMinutes: sub.TimeTakenMinutes,
			SubmittedAt:      sub.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": summaries})
}

// ListByExam godoc
// GET /api/v1/exams/:id/submissions
// Returns all submissions for an exam. Admin only.
func (h *SubmissionHandler) ListByExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	subs, err := h.submissionService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// Get godoc
// GET /api/v1/submissions/:id
// Students may read their own submission; admins may read any.
func (h *SubmissionHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	actor := &model.User{ID: claims.UserID, Role: claims.Role}
	sub, err := h.submissionService.Get(c.Request.Context(), actor, id)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}

// Delete godoc
// DELETE /api/v1/submissions/:id
// Removes a submission, freeing the student's attempt slot. Admin only.
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
