package service

import "errors"

var (
	// ErrDisabled is returned when truth checking is turned off for the
	// conversation or the individual message.
	ErrDisabled = errors.New("truth checking disabled")

	// ErrInvalidState is returned when an operation cannot proceed from
	// the entity's current state, e.g. advancing a round table with no
	// active participants.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrAnalysisInFlight is returned when another analysis of the same
	// message currently holds the in-flight lock.
	ErrAnalysisInFlight = errors.New("analysis already in flight")

	// ErrNoEligibleMessages is returned by batch analysis when no
	// requested message qualifies.
	ErrNoEligibleMessages = errors.New("no eligible messages")
)
