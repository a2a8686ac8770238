package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/examina/examina-backend/internal/middleware"
	"github.com/examina/examina-backend/internal/response"
	"github.com/examina/examina-backend/internal/service"
)

// AnalyticsHandler handles exam analytics endpoints.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetExamAnalytics godoc
// GET /api/v1/exams/:id/analytics
// Returns aggregate statistics for an exam the caller owns. Faculty only.
func (h *AnalyticsHandler) GetExamAnalytics(c *gin.Context) {
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

	analytics, err := h.analyticsService.GetExamAnalytics(c.Request.Context(), examID, claims.UserID, claims.Role)
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

	response.Success(c, http.StatusOK, gin.H{"analytics": analytics})
}
