package utils

import "net/http"

// AppError is an error with the HTTP status it should be reported as
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// BadRequest reports invalid client input; err's text is shown to the client
func BadRequest(err error) *AppError {
	return NewAppError(http.StatusBadRequest, err.Error(), err)
}

// NotFound reports a missing resource
func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg, nil)
}

// ServiceUnavailable reports a missing or unreachable backend
func ServiceUnavailable(msg string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, msg, err)
}

// Internal hides err from the client behind msg
func Internal(msg string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, msg, err)
}
