package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the error body returned to clients. The mini-app SDK reads `error`.
type HTTPErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteHTTPError writes a PlatformError using its mapped status code.
func WriteHTTPError(c *gin.Context, err *PlatformError, log zerolog.Logger) {
	WriteHTTPErrorWithStatus(c, ErrorTypeToHTTPStatus(err.Type), err, log)
}

// WriteHTTPErrorWithStatus writes a PlatformError with an explicit status code.
func WriteHTTPErrorWithStatus(c *gin.Context, status int, err *PlatformError, log zerolog.Logger) {
	if err == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: "unknown error",
			Type:  "internal_error",
		})
		return
	}

	LogError(log, err)

	c.AbortWithStatusJSON(status, HTTPErrorResponse{
		Error:     err.Message,
		Type:      errorTypeToString(err.Type),
		Code:      err.UUID,
		RequestID: err.RequestID,
	})
}

// WriteError writes a generic error as an HTTP response.
// Non-platform errors are treated as internal and their text is not exposed.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if platformErr := GetPlatformError(err); platformErr != nil {
		WriteHTTPError(c, platformErr, log)
		return
	}

	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, HTTPErrorResponse{
		Error: "internal server error",
		Type:  "internal_error",
	})
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, HTTPErrorResponse{
		Error: message,
		Type:  "unauthorized_error",
	})
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPErrorResponse{
		Error: message,
		Type:  "validation_error",
	})
}

// errorTypeToString converts an ErrorType to a snake_case string for API responses.
func errorTypeToString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeExternal:
		return "external_error"
	case ErrorTypeDatabaseError:
		return "database_error"
	case ErrorTypeInternal:
		fallthrough
	default:
		return "internal_error"
	}
}
