/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/labstack/echo/v4"
)

// ValidationError reports a request the service cannot evaluate.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation returns a ValidationError with msg.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationWrap returns a ValidationError with msg caused by err.
func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// errorBody is the JSON body of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// ErrorHandler maps handler errors to status codes: validation errors are
// 422, echo.HTTPErrors keep their code and everything else is a 500 whose
// detail is the error text.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusUnprocessableEntity, errorBody{Detail: ve.Error()})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, errorBody{Detail: fmt.Sprintf("%v", he.Message)})
			return
		}

		clog.FromContext(c.Request().Context()).With("error", err.Error()).Error("Unhandled error")
		_ = c.JSON(http.StatusInternalServerError, errorBody{Detail: err.Error()})
	}
}
