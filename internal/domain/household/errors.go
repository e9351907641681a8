package household

import "errors"

var (
	// ErrNotFound means the household (or a referenced entity) does not exist.
	ErrNotFound = errors.New("household not found")
	// ErrInvalidInput marks records that cannot be safely defaulted.
	ErrInvalidInput = errors.New("invalid household input")
	// ErrScorerUnavailable means the fragility scorer failed, timed out or returned no score.
	ErrScorerUnavailable = errors.New("fragility scorer unavailable")
	// ErrNoMembers means the household exists but has nobody in it.
	ErrNoMembers = errors.New("household has no members")
	// ErrInvalidMember means the member named in a simulation is not in the household.
	ErrInvalidMember = errors.New("member not found in household")
)
