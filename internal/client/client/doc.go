// Package client contains the client-side building blocks for talking to
// the gratitudes server.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface) covering auth, the
//     daily journal and affirmations.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that injects
//     the bearer access token, transparently refreshes it once on a 401 and
//     maps error responses to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite session database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses surface as *APIError, which matches ErrUnauthorized,
// common.ErrorNotFound, common.ErrLimitReached and ErrRateLimited through
// errors.Is. Transport failures wrap ErrUnavailable.
package client
