package compose

import (
	"errors"
)

// Sentinel errors for weight-table validation. A bad weight table is a
// structural misconfiguration and aborts the run eagerly.
var (
	ErrWeightSum      = errors.New("group weights must sum to 1.00")
	ErrUnknownGroup   = errors.New("unknown group in weight table")
	ErrMissingGroup   = errors.New("missing group in weight table")
	ErrNegativeWeight = errors.New("negative group weight")
)
