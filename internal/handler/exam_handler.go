package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/examina/examina-backend/internal/middleware"
	"github.com/examina/examina-backend/internal/model"
	"github.com/examina/examina-backend/internal/response"
	"github.com/examina/examina-backend/internal/service"
	"github.com/examina/examina-backend/internal/validator"
)

// ExamHandler handles exam catalog endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// Create godoc
// POST /api/v1/exams
// Creates an exam together with its full question set in one shot.
// Faculty only.
func (h *ExamHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), claims.UserID, claims.Role, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.Fail(c, http.StatusForbidden, response.ErrFacultyAccessOnly)
		case errors.Is(err, service.ErrInvalidSchedule):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidSchedule)
		case errors.Is(err, service.ErrInvalidMarks):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidMarks)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// List godoc
// GET /api/v1/exams?upcoming=&previous=&attempted=&skip=&limit=
// Lists exams visible to the caller. The attempted filter is scoped to the
// caller's own submissions.
func (h *ExamHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	filter := model.ExamFilter{
		Upcoming:  c.Query("upcoming") == "true",
		Previous:  c.Query("previous") == "true",
		Attempted: c.Query("attempted") == "true",
		StudentID: claims.UserID,
		Skip:      parseIntQuery(c, "skip", 0),
		Limit:     parseIntQuery(c, "limit", 0),
	}

	exams, err := h.examService.List(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Get godoc
// GET /api/v1/exams/:id
// Returns a single exam with its questions.
func (h *ExamHandler) Get(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.Get(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// GetPaper godoc
// GET /api/v1/exams/:id/paper
// Returns the student-facing question paper, with correct answers stripped.
// Student only; refused before the exam window opens.
func (h *ExamHandler) GetPaper(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.examService.GetPaper(c.Request.Context(), examID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrExamNotStarted):
			response.Fail(c, http.StatusPreconditionFailed, response.ErrExamNotStarted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
