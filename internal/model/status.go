package model

// QueueState represents the drain state of one user's download queue
type QueueState string

const (
	// QueueStateIdle means no batch is being processed and nothing is pending
	QueueStateIdle QueueState = "Idle"

	// QueueStateProcessing means the drain loop is working through pending links
	QueueStateProcessing QueueState = "Processing"
)

// String returns the string representation of QueueState
func (qs QueueState) String() string {
	return string(qs)
}

// IsActive returns true if the queue is currently draining
func (qs QueueState) IsActive() bool {
	return qs == QueueStateProcessing
}
