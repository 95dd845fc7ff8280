// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package review assembles the read-only summary shown before an inspection
// report is finalized.
//
// The summary is built from the backend's persisted answers, not from any
// in-memory editing state, so what the officer reviews is exactly what the
// backend will receive. Only answered questions appear; sections with no
// answered questions are omitted entirely, and the Part B half is rendered
// only when at least one persisted answer belongs to a Part B section.
package review
