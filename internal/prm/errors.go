// Package prm implements the time-aware probabilistic roadmap: seeded
// sampling of collision-checked nodes, interval-annotated edges, and a
// label-correcting search over (node, time) states that may wait at
// nodes for blocked edges to open.
package prm

import "errors"

var (
	// ErrInsufficientConnectivity is returned when the roadmap has too
	// few usable nodes or a query position cannot be connected to any
	// node within the connection radius. Recoverable by resampling with
	// more samples or a larger radius.
	ErrInsufficientConnectivity = errors.New("insufficient roadmap connectivity")

	// ErrInfeasibleSchedule is returned when no time-respecting path
	// exists within the horizon and deadline. A normal outcome, not a
	// fault.
	ErrInfeasibleSchedule = errors.New("no feasible schedule")

	// ErrTimeBudgetExceeded is returned when the search aborts on its
	// compute budget before proving feasibility either way.
	ErrTimeBudgetExceeded = errors.New("search time budget exceeded")
)
