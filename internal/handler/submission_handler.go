package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/examina/examina-backend/internal/middleware"
	"github.com/examina/examina-backend/internal/model"
	"github.com/examina/examina-backend/internal/response"
	"github.com/examina/examina-backend/internal/service"
	"github.com/examina/examina-backend/internal/validator"
)

// SubmissionHandler handles exam submission and result endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit godoc
// POST /api/v1/exams/:id/submit
// Accepts the student's full answer batch, grades it and records the
// submission. Exactly one submission per exam per student.
func (h *SubmissionHandler) Submit(c *gin.Context) {
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

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), examID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrExamNotStarted):
			response.Fail(c, http.StatusPreconditionFailed, response.ErrExamNotStarted)
		case errors.Is(err, service.ErrExamEnded):
			response.Fail(c, http.StatusPreconditionFailed, response.ErrExamEnded)
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrUnknownQuestion):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestion)
		case errors.Is(err, service.ErrDuplicateAnswer):
			response.Fail(c, http.StatusBadRequest, response.ErrDuplicateAnswer)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"submission": sub})
}

// GetSubmissions godoc
// GET /api/v1/exams/:id/submissions
// Lists the graded submissions for an exam the caller owns. Faculty only.
func (h *SubmissionHandler) GetSubmissions(c *gin.Context) {
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

	subs, err := h.submissionService.GetSubmissions(c.Request.Context(), examID, claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrPermissionDenied):
			response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// GetSubmissionDetails godoc
// GET /api/v1/exams/:id/submissions/:submission_id
// Returns one submission with its per-answer breakdown. Faculty only,
// restricted to the owning faculty member.
func (h *SubmissionHandler) GetSubmissionDetails(c *gin.Context) {
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
	submissionID, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	details, err := h.submissionService.GetSubmissionDetails(c.Request.Context(), examID, submissionID, claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound), errors.Is(err, service.ErrSubmissionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrPermissionDenied):
			response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": details})
}

// GetResultsOverview godoc
// GET /api/v1/exams/results
// Returns every exam the caller owns together with its submissions.
// Faculty only.
func (h *SubmissionHandler) GetResultsOverview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.submissionService.GetResultsOverview(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
