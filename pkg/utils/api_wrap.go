package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, ErrInvalidCoordinate):
		RespondError(c, http.StatusBadRequest, "Latitude or longitude out of range")
	case errors.Is(err, ErrInvalidRating):
		RespondError(c, http.StatusBadRequest, "Rating must be between 1 and 5")
	case errors.Is(err, ErrRemarkRequired):
		RespondError(c, http.StatusBadRequest, "Audit remark is required")
	case errors.Is(err, ErrInvalidAuditStatus):
		RespondError(c, http.StatusBadRequest, "Audit status must be approved or rejected")
	case errors.Is(err, ErrMuseumNotFound):
		RespondError(c, http.StatusNotFound, "Museum not found")
	case errors.Is(err, ErrDraftNotFound):
		RespondError(c, http.StatusNotFound, "Draft not found")
	case errors.Is(err, ErrCheckinNotFound):
		RespondError(c, http.StatusNotFound, "Check-in record not found")
	case errors.Is(err, ErrAchievementNotFound):
		RespondError(c, http.StatusNotFound, "Achievement not found")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrAchievementLocked):
		RespondError(c, http.StatusConflict, "Achievement is not unlocked yet")
	case errors.Is(err, ErrIllegalTransition):
		RespondError(c, http.StatusConflict, "Audit status transition not allowed")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
