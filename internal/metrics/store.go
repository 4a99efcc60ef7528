package metrics

import "time"

// KV operation results.
const (
	ResultOK    = "ok"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Load sources.
const (
	SourceStored = "stored"
	SourceSeed   = "seed"
	SourceDemo   = "demo"
)

// KVObserved records one backend call.
func KVObserved(backend, op, result string, elapsed time.Duration) {
	KVOperationsTotal.WithLabelValues(backend, op, result).Inc()
	KVOperationDuration.WithLabelValues(backend, op).Observe(elapsed.Seconds())
}

// InspectionLoaded records where a loaded record came from.
func InspectionLoaded(source string) {
	InspectionsLoaded.WithLabelValues(source).Inc()
}

// AreaStatusChanged records an area moving to status.
func AreaStatusChanged(status string) {
	AreaStatusChanges.WithLabelValues(status).Inc()
}

// MediaAttachedToArea records one attachment of the given media type.
func MediaAttachedToArea(kind string) {
	MediaAttached.WithLabelValues(kind).Inc()
}

// PersistenceFailed records a write that failed after the in-memory update.
func PersistenceFailed() {
	PersistenceFailures.Inc()
}

// MediaUploaded records the size of a stored upload.
func MediaUploaded(kind string, size int) {
	MediaUploadBytes.WithLabelValues(kind).Observe(float64(size))
}
