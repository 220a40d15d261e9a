// Package client assembles the authenticated API client of the VTV
// application.
//
// # Overview
//
// New wires the pieces together:
//  1. a credential store (SQLite, Redis or memory, see credstore);
//  2. the session restored from that store (see session);
//  3. the auth client for login and refresh (see auth);
//  4. the request pipeline: request id, credential attacher and failure
//     interceptor in front of the HTTP transport (see pipeline).
//
// Domain services call Do or Dispatch and never see credentials: bearer
// tokens are attached, expired sessions refreshed and requests replayed
// inside the pipeline.
//
// # Error Handling
//
// Failed calls return *apierr.Error. Match kinds with errors.Is against the
// apierr sentinels (apierr.ErrForbidden, apierr.ErrRefreshRejected, ...) and
// render apierr.UserMessage(err, action) to users.
//
// Concurrency & Contexts
//
// A Client is safe for concurrent use. Concurrent calls that hit an expired
// session share a single refresh.
package client
