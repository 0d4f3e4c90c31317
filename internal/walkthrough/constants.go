package walkthrough

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PollInterval         = 100 * time.Millisecond
	SubmitAttempts       = 3
	SubmitRetryDelay     = 500 * time.Millisecond
	PercentageMultiplier = 100
	maxErrorBodyBytes    = 512
)
