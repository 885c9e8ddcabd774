// Package codec serializes counter states for exchange between
// replicas. Single operations and full state snapshots share one wire
// shape (a map of replica ID to count), so one codec covers both.
// Decoding validates that incoming counts are non-negative; transport
// of the encoded bytes is the caller's concern.
package codec
