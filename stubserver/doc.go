// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package stubserver is a self-contained stand-in for the inspection backend.
//
// It serves the same REST surface the client talks to - login, questionnaire
// structure, answer upserts, report lifecycle, applications - backed by an
// embedded SQLite database (PostgreSQL is supported via DATABASE_TYPE). It
// exists for two audiences: integration tests, which run it through
// httptest, and officers working offline or demoing the CLI, who run it with
// the "fieldcheck stub" command against seeded demo data.
//
// The stub enforces the same contract the real backend does: bearer tokens
// on every non-login route, answer value constraints, upsert semantics for
// section saves, the completed-report guard, one application per report, and
// the seven-phase application pipeline. List endpoints respond with the
// paged {data, total, page, limit} envelope; structure endpoints respond
// with bare arrays, matching the mixed surface the client normalizes.
package stubserver
