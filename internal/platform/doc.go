package platform

// Package platform contains filesystem glue shared by the acquisition and
// delivery paths: output directory setup and safe file naming.
