// Package trace defines the core types for composable synthetic
// network-characteristic traces: bandwidth, delay, loss, duplication and
// per-packet delay, each described as a stream of (value, duration) segments.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - trace.go: segment types and the Trace/Config stepping protocol
//   - codec.go: tagged-union serialization registries (JSON numeric form,
//     YAML humanized form)
//   - pattern.go: ordered child-config lists used by the combinators
//
// # Architecture
//
// This package defines interfaces and wire types; generator implementations
// live in sub-packages:
//   - trace/model: primitive generators (static, normal random walk,
//     sawtooth, recorded playback) and combinators (repeated pattern,
//     forever, per-packet variants)
//   - trace/mahimahi: conversion between segment streams and the discrete
//     per-tick packet-departure format consumed by external emulators
//
// The model sub-package registers its config types via init functions into
// the registries declared in pattern.go, so decoding reconstructs concrete
// variants from type tags without external hints.
//
// # Ownership model
//
// Configs are immutable after construction and safe to share. A built
// generator is exclusively owned by whoever drives it: hand it between
// goroutines freely, but never step one concurrently. Stepping never blocks
// and never touches the clock; duration budgets are explicit parameters of
// the exporter, not timers.
package trace
