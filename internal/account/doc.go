// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package account implements the account and session core: registration,
// login, logout, session-bound identity, and password recovery via
// single-use tokens.
//
// # Collaborators
//
// The package owns no durable state. It orchestrates four collaborators,
// all injected as interfaces:
//   - UserRepository - durable user records with uniqueness on
//     username/email (ErrDuplicateKey on collision)
//   - SessionStore - opaque session id -> user id bindings with expiry
//   - ResetTokenStore - single-use password reset tokens with expiry
//   - Notifier - reset email dispatch, fire-and-forget
//
// # Error convention
//
// Expected, user-facing failures (bad credentials, taken username, expired
// token, weak password) are *FieldError values returned as data. Fatal
// failures (storage unreachable, programming errors) travel on the error
// return and carry oops codes. The two channels are never mixed.
package account
