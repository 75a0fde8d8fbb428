package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError writes the response for an error returned by a use case.
// Unexpected errors are logged and hidden behind a generic 500.
func FromError(c *gin.Context, log *zap.Logger, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	status := http.StatusBadRequest
	switch be.Kind {
	case KindConflict:
		status = http.StatusConflict
	case KindPermission:
		status = http.StatusForbidden
	case KindNotFound:
		status = http.StatusNotFound
	}

	message := be.Message
	if message == "" {
		message = be.Code
	}

	c.JSON(status, HTTPError{
		Code:    be.Code,
		Message: message,
		Fields:  be.Fields,
	})
}

// IsExclusionConflict reports a violation of the bookings exclusion
// constraint (SQLSTATE 23P01).
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
