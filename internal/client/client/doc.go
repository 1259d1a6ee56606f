// Package client contains client-side building blocks for gophreveal.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     record submission, decryption requests, reads of revealed records,
//     metadata and counters, admin operations, and the event feed.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects an access token via an interceptor and maps gRPC
//     status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the request journal kept by the CLI.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrAlreadyProcessed,
// ErrInvalidArgument and ErrConflict.
package client
