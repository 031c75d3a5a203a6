package secondary

// MetricsRecorder defines the secondary port for operational counters.
type MetricsRecorder interface {
	// RecordOperation counts one engine operation and its result
	// ("ok", "not_found", "completed", "storage_error", "error").
	RecordOperation(operation, result string)

	// RecordOutcome counts one delivery outcome by kind.
	RecordOutcome(kind string)

	// RecordSkippedFragments counts material-block text the parser dropped.
	RecordSkippedFragments(n int)
}

// NopMetricsRecorder discards everything it is given.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) RecordOperation(string, string) {}
func (NopMetricsRecorder) RecordOutcome(string)           {}
func (NopMetricsRecorder) RecordSkippedFragments(int)     {}
