package interfaces

// Recorder consumes latency samples expressed in milliseconds.
type Recorder interface {
	Record(ms float64)
}

// Drainer hands out the statistics of the current window and starts a new one.
type Drainer interface {
	Drain() (avg, max float64)
}

// RecordDrainer is the full surface of a reporting window.
type RecordDrainer interface {
	Recorder
	Drainer
}
