// Package forecast implements the core logic for predicting plug occupancy
// over a fixed 12-hour horizon.
//
// A Generator takes the raw observation history of a single plug, resamples
// it onto a strict 5-minute grid (missing points count as free), encodes
// every grid timestamp into cyclical calendar features, trains a regularized
// logistic regression from scratch and scores the next 144 grid points.
// Probabilities at or above the configured threshold classify as occupied.
//
// The pipeline is pure computation: no I/O, no shared state between runs.
// Multiple resources can be forecast concurrently with independent
// Generator invocations. File discovery, HTTP transport and serialization
// live in the infra and api packages.
package forecast
