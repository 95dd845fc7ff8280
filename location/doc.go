// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package location acquires the device coordinates that geotag a submitted
// inspection report.
//
// Acquisition is bounded by a 30 second hard timeout per attempt. Timeouts
// are the only transient failure and are retried up to two more times;
// permission denial and unavailability fail immediately, since retrying
// cannot change them. Each failure cause carries its own user-facing
// instruction via Describe.
package location
