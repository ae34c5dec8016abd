package worker

// Log messages for the daily poll worker
const (
	LogMsgPollStarting  = "Daily poll starting"
	LogMsgPollCompleted = "Daily poll completed"
	LogMsgPollFailed    = "Daily poll failed"
	LogMsgPollScheduled = "Daily poll scheduled"
)
