package services

import (
	"fmt"
	"strings"

	"github.com/emerald-arrow/wikipedia-tools/internal/errors"
)

// Service errors
var (
	// ErrScoresExist signals that the round and session already have
	// recorded scores. Replacing them needs an explicit decision by the
	// operator, so this is surfaced instead of silently overwriting.
	ErrScoresExist = errors.Conflict("this round and session already have recorded scores")

	ErrNoClassifications = errors.Configuration("no classifications found for this championship and season")
	ErrNoPointsScales    = errors.Configuration("no points scales configured for this championship")
	ErrNoScoringSessions = errors.Configuration("no session awards points under this scale")
	ErrNoResultStyles    = errors.Configuration("no result styles configured for this scale and session")
	ErrNoStatusStyles    = errors.Configuration("no styling of race statuses configured")
	ErrNoManufacturers   = errors.Configuration("manufacturers' classification configured but the manufacturer directory is empty")
)

// MissingEntitiesError reports every driver and team of a results file that
// the entity directory does not know. The whole file is rejected so that
// positions are never computed against an incomplete entity set.
type MissingEntitiesError struct {
	Teams   []string
	Drivers []string
}

func (e *MissingEntitiesError) Error() string {
	var parts []string
	if len(e.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("unknown teams: %s", strings.Join(e.Teams, ", ")))
	}
	if len(e.Drivers) > 0 {
		parts = append(parts, fmt.Sprintf("unknown drivers: %s", strings.Join(e.Drivers, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Any reports whether any entity was missing.
func (e *MissingEntitiesError) Any() bool {
	return len(e.Teams) > 0 || len(e.Drivers) > 0
}
