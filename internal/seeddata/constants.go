package seeddata

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
	StatusConflict = 409
)

// Runner configuration constants.
const (
	RunPollInterval      = 500 * time.Millisecond
	RunWaitTimeout       = 2 * time.Minute
	PercentageMultiplier = 100
)
