// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cli wires the command tree of the fieldcheck binary.
//
// Commands follow the inspection workflow: login, start, fill, review,
// submit, then applications for the downstream regulatory pipeline. Every
// command that talks to the backend goes through one shared client
// constructor, so the session, timeout, and auth-expiry behavior are uniform
// across the tree. The stub command embeds the local stand-in backend for
// demos and offline work.
package cli
