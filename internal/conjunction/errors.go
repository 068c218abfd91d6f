package conjunction

import "errors"

var (
	// ErrElementSetNotFound means maneuver planning could not re-locate a
	// participant's element set by catalog number in the current catalog
	// snapshot. Fatal for that planning call; nothing is persisted.
	ErrElementSetNotFound = errors.New("element set not found in current catalog")

	// ErrNoManeuverCandidate means the conjunction does not have exactly
	// one satellite participant. Debris cannot maneuver, and two
	// satellites leave the burn assignment ambiguous.
	ErrNoManeuverCandidate = errors.New("conjunction does not have exactly one satellite participant")
)
