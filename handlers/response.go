package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/services"
)

const apiVersion = "v1"

func meta(c *gin.Context, ds *models.Dataset, count *int) *models.MetaData {
	m := &models.MetaData{
		ProcessTime: fmt.Sprintf("%.2f", float64(elapsed(c).Microseconds())/1000),
		ApiVersion:  apiVersion,
		ResultCount: count,
	}
	if ds != nil {
		m.Warnings = ds.Warnings
		m.ManholeSource = string(ds.ManholeSource)
		m.PipeSource = string(ds.PipeSource)
	}
	return m
}

func respond(c *gin.Context, ds *models.Dataset, data interface{}, count *int) {
	c.JSON(http.StatusOK, models.ApiResponse{
		Success:   true,
		Data:      data,
		Meta:      meta(c, ds, count),
		RequestID: requestID(c),
	})
}

func fail(c *gin.Context, status int, code, message string, err error) {
	apiErr := &models.ApiError{Code: code, Message: message}
	if err != nil {
		apiErr.Details = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, models.ApiResponse{
		Success:   false,
		Error:     apiErr,
		Meta:      meta(c, nil, nil),
		RequestID: requestID(c),
	})
}

// failFor maps service errors onto HTTP statuses.
func failFor(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, "INVALID_PARAMETERS", "Invalid filter parameters", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Dataset is not ready", err)
	default:
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build view", err)
	}
}

func intPtr(n int) *int { return &n }
