package llm

import (
	"log"
)

// CallEvent records metadata about a single generation call.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about generation calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes one log line per call.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an Observer that logs to logger, or the standard logger when nil.
func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	o.logger.Printf("llm_call task=%s model=%s attempts=%d latency_ms=%d status=%s",
		event.Task, event.Model, event.Attempts, event.LatencyMs, status)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
