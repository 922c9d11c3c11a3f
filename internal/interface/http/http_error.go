package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromDomainError(err)
}

// fromDomainError translates an AppError code into a response. Server side failures keep their detail in the log only.
func fromDomainError(err error) *HTTPError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return internalError(err)
	}
	status := statusForCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		return internalError(err)
	}
	return &HTTPError{
		Status:  status,
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
		Err:     err,
	}
}

func statusForCode(code string) int {
	switch code {
	case "invalid_input", "invalid_request":
		return http.StatusBadRequest
	case "unauthorized", "invalid_credentials":
		return http.StatusUnauthorized
	case "invalid_token":
		return http.StatusForbidden
	case "not_found", "user_not_found":
		return http.StatusNotFound
	case "email_exists", "username_exists":
		return http.StatusConflict
	case "file_too_large":
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func internalError(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func abortWithDomainError(c *gin.Context, err error) {
	abortWithError(c, fromDomainError(err))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
