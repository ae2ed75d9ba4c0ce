package queue

// Package queue implements the per-user download queue: a FIFO of submitted
// links processed strictly one at a time per user. Each dequeued link is
// resolved into a batch and handed to a batch runner; the next link is not
// dequeued until the current batch has fully finished. Different users drain
// independently.
