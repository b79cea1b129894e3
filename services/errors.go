package services

import (
	"errors"

	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/scoring"
)

// Sentinel errors shared across services and mapped to HTTP responses in the
// handlers package. Every business error carries a stable machine-readable
// code via CodeFor so clients can branch without parsing messages.
var (
	// Precondition errors: the caller asked for something the division's
	// state does not allow. Reported, never retried automatically.
	ErrDivisionNotPublished     = errors.New("division is not published")
	ErrDivisionHasMatches       = errors.New("division already has matches")
	ErrPendingParticipants      = errors.New("division has pending participant approvals")
	ErrInsufficientParticipants = errors.New("not enough approved participants for this format")
	ErrUnsupportedFormat        = errors.New("operation not supported for this division format")
	ErrGroupSizeBounds          = errors.New("participants cannot be split into valid group sizes")
	ErrGroupPhaseIncomplete     = errors.New("group phase is not complete")
	ErrNoGroupPhase             = errors.New("division has no group phase")

	// Validation errors on score submission.
	ErrMatchAlreadyCompleted = errors.New("match is already completed and cannot be modified")
	ErrMatchCancelled        = errors.New("cannot register scores for a cancelled match")
	ErrMatchMissingPlayers   = errors.New("match does not have both sides assigned yet")
	ErrInvalidMatchConfig    = errors.New("invalid match configuration")

	// Scheduling.
	ErrInvalidScheduleParams = errors.New("invalid scheduling parameters")

	// Internal inconsistencies, escalated instead of shown as user error.
	ErrBracketStructure = errors.New("invalid bracket structure")
)

// CodeFor returns the stable error code of a business error, or the empty
// string for internal errors.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, repositories.ErrDivisionNotFound):
		return "ERROR_DIVISION_NOT_FOUND"
	case errors.Is(err, repositories.ErrMatchNotFound):
		return "ERROR_MATCH_NOT_FOUND"
	case errors.Is(err, repositories.ErrMatchCodeConflict):
		return "ERROR_MATCH_CODE_ALREADY_EXISTS"
	case errors.Is(err, ErrDivisionNotPublished):
		return "ERROR_DIVISION_NOT_PUBLISHED"
	case errors.Is(err, ErrDivisionHasMatches):
		return "ERROR_DIVISION_HAS_EXISTING_MATCHES"
	case errors.Is(err, ErrPendingParticipants):
		return "ERROR_PENDING_INVOLVEMENTS"
	case errors.Is(err, ErrInsufficientParticipants):
		return "ERROR_INSUFFICIENT_PLAYERS_FOR_GENERATION"
	case errors.Is(err, ErrUnsupportedFormat):
		return "ERROR_INVALID_MATCH_FORMAT"
	case errors.Is(err, ErrGroupSizeBounds):
		return "ERROR_GROUP_SIZE_BOUNDS"
	case errors.Is(err, ErrGroupPhaseIncomplete):
		return "ERROR_GROUP_PHASE_INCOMPLETE"
	case errors.Is(err, ErrNoGroupPhase):
		return "ERROR_NO_GROUP_PHASE"
	case errors.Is(err, ErrMatchAlreadyCompleted):
		return "ERROR_MATCH_ALREADY_COMPLETED"
	case errors.Is(err, ErrMatchCancelled):
		return "ERROR_MATCH_CANCELLED"
	case errors.Is(err, ErrMatchMissingPlayers):
		return "ERROR_MATCH_MISSING_PLAYERS"
	case errors.Is(err, ErrInvalidMatchConfig):
		return "ERROR_INVALID_MATCH_CONFIGURATION"
	case errors.Is(err, ErrInvalidScheduleParams):
		return "ERROR_INVALID_SCHEDULE_PARAMETERS"
	case errors.Is(err, scoring.ErrNegativeScore):
		return "ERROR_NEGATIVE_SCORE"
	case errors.Is(err, scoring.ErrSetNumberOutOfRange):
		return "ERROR_SET_NUMBER_EXCEEDS_MAX"
	default:
		return ""
	}
}

// IsBusinessError reports whether the error is the caller's fault rather
// than an internal failure.
func IsBusinessError(err error) bool {
	return CodeFor(err) != ""
}
