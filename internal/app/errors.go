package service

import "errors"

// Service errors.
var (
	// ErrNoStorage is returned by Start when no storage layer was configured.
	ErrNoStorage = errors.New("storage is required")

	// ErrNotStarted is returned for run operations on a stopped service.
	ErrNotStarted = errors.New("service not started")

	// ErrRunInFlight is returned when a scoring run is already executing.
	ErrRunInFlight = errors.New("a scoring run is already in flight")

	// ErrNoRun is returned by result readers before the first completed run.
	ErrNoRun = errors.New("no scoring run has completed")

	// ErrUnknownEmployee is returned when the latest run has no scorecard
	// for the requested employee.
	ErrUnknownEmployee = errors.New("employee not in latest run")

	// ErrEnqueue is returned when a scoring task cannot be queued.
	ErrEnqueue = errors.New("failed to enqueue scoring task")
)
