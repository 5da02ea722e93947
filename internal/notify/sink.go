package notify

import "log"

// Sink receives errors from fire-and-forget sends. The primary request has
// already succeeded by the time a failure lands here.
type Sink interface {
	ReportError(component string, err error)
}

type logSink struct{}

func (logSink) ReportError(component string, err error) {
	log.Printf("%s: %v", component, err)
}

// LogSink reports swallowed notification failures to the process log.
func LogSink() Sink {
	return logSink{}
}
