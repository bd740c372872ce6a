package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindValidation
	KindUpload
)

// Error is an error that knows how it should be reported to API clients.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NewAuthenticationError(message string, err error) *Error {
	e := &Error{Kind: KindAuthentication, Message: message, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewValidationError(message, details string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NewUploadError(message string, err error) *Error {
	e := &Error{Kind: KindUpload, Message: message, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError aborts the request with the JSON error envelope. Errors that are not
// an *Error are reported as 500 with fallback as the message.
func WriteError(c *gin.Context, fallback string, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Status() >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg(apiErr.Message)
		}
		c.AbortWithStatusJSON(apiErr.Status(), ErrorResponse{Error: apiErr.Message, Details: apiErr.Details})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()})
}
