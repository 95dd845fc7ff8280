// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse builds the runtime configuration.

# Configuration

Client settings:

  - FIELDCHECK_API (--api): inspection backend base URL
  - FIELDCHECK_TIMEOUT_SECONDS: per-request HTTP timeout (default: 30)
  - FIELDCHECK_SESSION: session file path (default: user config dir)
  - FIELDCHECK_BEACON (--beacon): GPS beacon URL for geotagged submission

Stub backend settings (only read by the stub command):

  - FIELDCHECK_STUB_PORT: listen port (default: 3319)
  - DATABASE_URL: sqlite file path or postgres connection string
  - DATABASE_TYPE: "sqlite" (default) or "postgres"

Environment variables may come from a .env file loaded at startup. Flags
registered by the CLI override the environment.
*/
package cliparse
