package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"correspondence-workers/internal/common/errors"
)

type APIError struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details string                 `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes err with the status its error code maps to.
func RespondError(c *gin.Context, err error) {
	RespondErrorStatus(c, statusFor(errors.Normalize(err).Code), err)
}

// RespondErrorStatus writes err with an explicit status.
func RespondErrorStatus(c *gin.Context, status int, err error) {
	stdErr := errors.Normalize(err)
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: stdErr.Message,
			Code:    string(stdErr.Code),
			Details: stdErr.Details,
			Meta:    stdErr.Metadata,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeTemplateValidationFailed:
		return http.StatusBadRequest
	case errors.ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeTemplateStoreFailed, errors.ErrCodeCacheUnavailable,
		errors.ErrCodeDatabaseConnectionFailed, errors.ErrCodeExternalService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
