package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/adapters/out/metrics"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/transition"
	"marketplace/internal/pkg/errs"
)

// statusOf maps a use case error to the HTTP status returned to the caller.
func statusOf(err error) int {
	switch {
	case errors.Is(err, transition.ErrTerminalStateViolation),
		errors.Is(err, transition.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderIsTerminal),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, transition.ErrRoleNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, transition.ErrMissingRequiredField),
		errors.Is(err, transition.ErrGuardRejected),
		errors.Is(err, order.ErrInvariantViolated):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(code int, err error) Error {
	body := Error{Code: code, Message: err.Error()}
	if code == http.StatusInternalServerError {
		body.Message = http.StatusText(code)
	}

	var te *transition.Error
	if errors.As(err, &te) {
		body.Kind = metrics.RejectionReason(err)
		body.Field = te.Field
	} else if code == http.StatusConflict && errors.Is(err, errs.ErrVersionIsInvalid) {
		body.Kind = "version_conflict"
	}
	return body
}

func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	return ctx.JSON(code, errorBody(code, err))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
