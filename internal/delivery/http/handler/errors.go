package handler

import (
	"errors"

	"jobboard-admin/internal/delivery/http/middleware"
	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/infrastructure/apiclient"
	"jobboard-admin/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// mapStoreError turns a store operation failure into the bridge's error shape.
// Client errors of the remote API keep their status and message; anything else
// is reported as an upstream failure.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, store.ErrSuperseded):
		return middleware.NewAppError(fiber.StatusConflict, "Superseded by a newer request", nil, err)
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return middleware.NewAppError(apiErr.StatusCode, apiErr.Message, nil, err)
	case errors.As(err, &apiErr):
		return middleware.NewAppError(fiber.StatusBadGateway, apiErr.Message, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusBadGateway, apiclient.Message(err), nil, err)
	}
}

func mapValidationError(err error) error {
	var draftErr *job.ValidationError
	if errors.As(err, &draftErr) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid job", draftErr.Fields, err)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]job.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, job.FieldError{Field: fe.Field(), Message: fe.Tag()})
		}
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid request", fields, err)
	}
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}
