// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the fieldcheck CLI.

Fieldcheck is a terminal client for the factory inspection workflow: a field
officer logs in, starts an inspection report, fills a two-part questionnaire
section by section, reviews the recorded answers, and submits the report
geotagged with the device's coordinates. Completed reports can be escalated
into regulatory applications and tracked through their pipeline phases.

# Getting Started

The client needs the backend URL, from a flag or the environment:

	FIELDCHECK_API=https://backend.example go run .

Or against the bundled stub backend:

	go run . stub &
	go run . --api http://localhost:3319 login

# Configuration

  - FIELDCHECK_API (--api): inspection backend base URL
  - FIELDCHECK_BEACON (--beacon): location beacon URL for geotagging
  - FIELDCHECK_SESSION (--session): session file path
  - FIELDCHECK_TIMEOUT_SECONDS: per-request timeout (default: 30)
  - FIELDCHECK_DEBUG: enable debug logging
  - DATABASE_URL, DATABASE_TYPE, FIELDCHECK_STUB_PORT: stub backend only

A .env file in the working directory is loaded when present.

# Architecture

The client separates the workflow engine from its surfaces:

  - questionnaire: section navigation, validation, and flow state
  - review: pre-submission summary assembly
  - submit: location-first finalization
  - location: coordinate acquisition with timeout retry
  - api: REST client with retrying saves and auth-expiry handling
  - session: persisted login identity
  - cli: cobra command tree
  - stubserver: embedded stand-in backend for tests and demos
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
