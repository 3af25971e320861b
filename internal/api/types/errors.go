package types

import (
	"errors"
	"net/http"

	appErr "github.com/campushire/backend/pkg/errors"
)

// FromAppError converts any error into the wire error shape. When production
// is true, internal error details are masked behind a generic message.
func FromAppError(err error, production bool) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if !errors.As(err, &ae) {
		if production {
			return &APIError{Code: string(appErr.CodeInternal), Message: "internal error"}
		}
		return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
	}

	out := &APIError{Code: string(ae.Code), Message: ae.Message, Fields: appErr.Fields(ae)}
	if internal(ae.Code) && production {
		out.Message = "internal error"
		return out
	}
	if ae.Err != nil && !production {
		out.Details = ae.Err.Error()
	}
	return out
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(err error) int {
	var ae *appErr.AppError
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Code {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeAlreadyExists, appErr.CodeConflict:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func internal(code appErr.Code) bool {
	return code == appErr.CodeInternal || code == appErr.CodeUnknown
}
