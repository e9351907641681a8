package services

import (
	"errors"
	"net/http"

	auditrepo "github.com/anchorrisk/anchorrisk-backend/internal/data/repos/audit"
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/apierr"
)

const scorerUnavailableMessage = "Risk analysis service is temporarily unavailable. Please try again later."

// mapRiskError attaches the HTTP status and code for domain failures. The
// domain sentinel stays reachable through errors.Is.
func mapRiskError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, household.ErrNoMembers):
		return apierr.New(http.StatusNotFound, "no_members", err)
	case errors.Is(err, household.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, household.ErrInvalidMember):
		return apierr.New(http.StatusBadRequest, "invalid_member", err)
	case errors.Is(err, household.ErrInvalidInput):
		return apierr.New(http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, household.ErrScorerUnavailable):
		return apierr.New(http.StatusServiceUnavailable, "scorer_unavailable", &scorerUnavailable{cause: err})
	case errors.Is(err, auditrepo.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	}
	return err
}

// scorerUnavailable hides upstream detail from clients while keeping the
// cause for logs and errors.Is.
type scorerUnavailable struct{ cause error }

func (e *scorerUnavailable) Error() string { return scorerUnavailableMessage }
func (e *scorerUnavailable) Unwrap() error { return e.cause }
