package services

import (
	"errors"
	"net/http"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
)

// ErrorBody is the machine-readable part of a failed Result.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the (status, data, message) triple every API operation produces.
type Result struct {
	StatusCode int        `json:"-"`
	Data       any        `json:"data"`
	Message    string     `json:"message"`
	Error      *ErrorBody `json:"error,omitempty"`
}

// ResultOf builds the Result of an operation. A nil err yields status with
// data and message. Otherwise the AppError in err decides status and message;
// any other error becomes a generic internal error.
func ResultOf(status int, data any, message string, err error) Result {
	if err == nil {
		if message == "" {
			message = "OK"
		}
		return Result{StatusCode: status, Data: data, Message: message}
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.ErrInternalServer
	}
	return Result{
		StatusCode: appErr.StatusCode,
		Message:    appErr.Message,
		Error:      &ErrorBody{Code: appErr.Code, Message: appErr.Message},
	}
}

// OK is the Result of a successful read.
func OK(data any) Result {
	return ResultOf(http.StatusOK, data, "OK", nil)
}
