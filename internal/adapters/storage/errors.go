package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrNoRuns            = errors.New("no completed runs recorded")
)
