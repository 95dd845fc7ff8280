// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package submit finalizes a reviewed inspection report.
//
// Submission is a two step pipeline with a strict ordering guarantee: device
// coordinates are acquired first, and only with a fix in hand does the
// submission request go to the backend. A location failure therefore leaves
// the backend completely untouched, and the officer sees an instruction
// specific to why the fix failed. A backend rejection is generic and
// retryable; the report remains reviewable.
package submit
