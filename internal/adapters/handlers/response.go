package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"

	"github.com/gin-gonic/gin"
)

const channelCountMessage = "Expected 16 channel values in the 'channels' array."

// ErrorResponse пишет ответ {status: error, error: {code, message}}.
// Клиентские ошибки логируются как WARN, серверные как ERROR.
func (h *Handler) ErrorResponse(c *gin.Context, err error, statusCode int, message string, showError bool) {
	errorMessage := message
	if showError && err != nil {
		errorMessage = message + ": " + err.Error()
	}

	fields := []interface{}{"method", c.Request.Method, "path", c.Request.URL.Path, "statusCode", statusCode, "error", err}
	if statusCode >= http.StatusInternalServerError {
		h.logger.Error(message, fields...)
	} else {
		h.logger.Warn(message, fields...)
	}

	c.AbortWithStatusJSON(statusCode, gin.H{
		"status": "error",
		"error": gin.H{
			"code":    statusCode,
			"message": errorMessage,
		},
	})
}

// RespondError подбирает код ответа по ошибке моста
func (h *Handler) RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		h.ErrorResponse(c, appErr.Err, appErr.Code, appErr.Message, appErr.IsUserFacing)
	case errors.Is(err, apperrors.ErrInvalidChannelCount):
		h.ErrorResponse(c, err, http.StatusBadRequest, channelCountMessage, false)
	case errors.Is(err, apperrors.ErrMalformedMessage), errors.Is(err, apperrors.ErrInvalidConfig):
		h.BadRequest(c, err, "")
	case errors.Is(err, apperrors.ErrDeviceUnavailable), errors.Is(err, apperrors.ErrLinkStale):
		h.ErrorResponse(c, err, http.StatusServiceUnavailable, apperrors.ServiceUnavailable, true)
	case errors.Is(err, apperrors.ErrDataNotFound):
		h.ErrorResponse(c, err, http.StatusNotFound, apperrors.NotFound, false)
	default:
		h.ErrorResponse(c, err, http.StatusInternalServerError, apperrors.InternalServerError, false)
	}
}

// BadRequest возвращает ошибку 400 с текстом причины
func (h *Handler) BadRequest(c *gin.Context, err error, message string) {
	if message == "" {
		message = apperrors.BadRequest
	}
	h.ErrorResponse(c, err, http.StatusBadRequest, message, true)
}
