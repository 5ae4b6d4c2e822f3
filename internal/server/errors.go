package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/schema"
	"github.com/abhisek/crosstrainer/internal/scramble"
)

// Error codes carried in the error envelope.
const (
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicate        = "DUPLICATE"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Message: message, Code: code}})
}

// fail maps err onto the envelope. Unexpected errors are logged and
// reported without detail.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		ve  *apperr.ValidationError
		doc *schema.ErrInvalidDocument
	)
	switch {
	case errors.As(err, &ve):
		writeError(c, http.StatusBadRequest, validationCodeOf(c), ve.Error())
	case errors.As(err, &doc):
		writeError(c, http.StatusBadRequest, CodeValidationError, doc.Error())
	case errors.Is(err, apperr.ErrNoUpdates):
		writeError(c, http.StatusBadRequest, CodeInvalidParams, "No updates provided")
	case errors.Is(err, scramble.ErrNoScrambles):
		writeError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, apperr.ErrDuplicate):
		writeError(c, http.StatusConflict, CodeDuplicate, err.Error())
	case errors.Is(err, apperr.ErrInvalidReference):
		writeError(c, http.StatusBadRequest, CodeInvalidReference, err.Error())
	default:
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		writeError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}

func validationCodeOf(c *gin.Context) string {
	if code := c.GetString(validationCodeKey); code != "" {
		return code
	}
	return CodeInvalidParams
}
