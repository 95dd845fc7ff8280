// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session manages the client's identity state.

A Session is created once at startup, loaded from the session file, and
injected into every component that issues requests. There are exactly three
writes in its lifecycle:

  - SetIdentity: stores the bearer token and user profile after login
  - Invalidate: clears both, triggered globally on 401/403 or by logout
  - Load: restores a persisted identity at startup

The session file is the only client-side persistence in the application and
holds nothing beyond the identity token and profile.
*/
package session
