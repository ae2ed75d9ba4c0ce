package worker

// Package worker implements the batch fan-out/fan-in pipeline: one task per
// track bounded by a concurrency limit, per-track progress and failure
// notification, and atomic aggregation of size and timing into batch stats.
// The pool is a full barrier: it returns only after every track has a
// recorded outcome.
