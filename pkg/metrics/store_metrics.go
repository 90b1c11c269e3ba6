// Package metrics provides Prometheus metrics for the meeting store.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// OtherRoomLabel aggregates meetings of rooms outside the catalog.
const OtherRoomLabel = "other"

// Meeting store metrics
var (
	// storeLoadTotal records every startup load attempt.
	// Labels:
	//   - source: File the state came from ("data", "seed", "none")
	//   - status: "success" or "error"
	storeLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomz_store_load_total",
			Help: "Total number of meeting store load attempts",
		},
		[]string{"source", "status"},
	)

	// storePersistTotal records whole-file rewrites after a mutation.
	// Labels:
	//   - status: "success" or "error"
	storePersistTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomz_store_persist_total",
			Help: "Total number of meeting store persist attempts",
		},
		[]string{"status"},
	)

	// storePersistDuration records how long a persist takes, including the rename.
	storePersistDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roomz_store_persist_duration_seconds",
			Help:    "Duration of meeting store persists in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// meetingMutationsTotal records create/update outcomes.
	// Labels:
	//   - op: "create" or "update"
	//   - result: "ok", "not_found", "conflict"
	meetingMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomz_meeting_mutations_total",
			Help: "Total number of meeting create/update operations by result",
		},
		[]string{"op", "result"},
	)

	// meetingsStored tracks how many meetings are held in memory.
	// Labels:
	//   - room: a catalog room id, or OtherRoomLabel for every other room
	meetingsStored = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roomz_meetings_stored",
			Help: "Number of meetings currently held in memory per catalog room",
		},
		[]string{"room"},
	)
)

func init() {
	prometheus.MustRegister(storeLoadTotal)
	prometheus.MustRegister(storePersistTotal)
	prometheus.MustRegister(storePersistDuration)
	prometheus.MustRegister(meetingMutationsTotal)
	prometheus.MustRegister(meetingsStored)
}

// RecordLoad records a store load attempt.
func RecordLoad(source string, success bool) {
	storeLoadTotal.WithLabelValues(source, statusLabel(success)).Inc()
}

// RecordPersist records a persist attempt and its duration in seconds.
func RecordPersist(success bool, durationSeconds float64) {
	storePersistTotal.WithLabelValues(statusLabel(success)).Inc()
	storePersistDuration.Observe(durationSeconds)
}

// RecordMutation records the outcome of a create or update.
func RecordMutation(op, result string) {
	meetingMutationsTotal.WithLabelValues(op, result).Inc()
}

// SetMeetingsStored sets the in-memory meeting count for a room label.
func SetMeetingsStored(room string, count int) {
	meetingsStored.WithLabelValues(room).Set(float64(count))
}

// ResetMeetingsStored drops every per-room gauge, used before a reload.
func ResetMeetingsStored() {
	meetingsStored.Reset()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
