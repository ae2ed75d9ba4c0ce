package model

// Package model defines domain data structures used across the app: resolved
// tracks and batches, download outcomes and aggregated stats, bitrate presets,
// and the per-user queue state enum. Structures carry no behavior beyond
// validation and display helpers.
