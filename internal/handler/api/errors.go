package api

import (
	"errors"

	"StockPilot/internal/domain/models"
	xhttp "StockPilot/pkg/http"
)

// domainError maps domain sentinels onto transport errors. Anything
// unrecognized stays a 500.
func domainError(err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientData),
		errors.Is(err, models.ErrInvalidDate):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrForecastNotFound),
		errors.Is(err, models.ErrRuleNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrNotPendingApproval),
		errors.Is(err, models.ErrInvalidTransition):
		return xhttp.ConflictError(err.Error()).WithError(err)
	default:
		return err
	}
}
