package api

import (
	"errors"

	"github.com/example/task-tracker/domain/apperror"
	"github.com/gofiber/fiber/v2"
)

// Messages shared across route groups.
const (
	MsgInvalidJSON     = "Invalid JSON Input!"
	MsgWrongJSON       = "Wrong JSON Input!"
	MsgParamIDMissing  = "Param Id Not Provided!"
	MsgUnauthorized    = "Unauthorized"
	msgInternalFailure = "internal error"
)

// failure describes how an error is rendered in an envelope.
type failure struct {
	status  int
	message string
	errors  any
}

// classify maps err to a status code, envelope message and errors value.
// invalidMsg is the route group's message for validation failures and
// failMsg the endpoint's failure message.
func classify(err error, invalidMsg, failMsg string) failure {
	var verr *apperror.ValidationError
	switch {
	case errors.As(err, &verr):
		return failure{status: fiber.StatusBadRequest, message: invalidMsg, errors: verr.Messages}
	case errors.Is(err, apperror.ErrNotFound):
		return failure{status: fiber.StatusNotFound, message: failMsg, errors: err.Error()}
	case errors.Is(err, apperror.ErrConflict):
		return failure{status: fiber.StatusConflict, message: failMsg, errors: err.Error()}
	default:
		return failure{status: fiber.StatusInternalServerError, message: failMsg, errors: msgInternalFailure}
	}
}

// bindFailure renders a body parsing error.
func bindFailure(err error, invalidMsg string) failure {
	return failure{status: fiber.StatusBadRequest, message: invalidMsg, errors: []string{err.Error()}}
}
