// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned by UserRepository.Create when the username or
// email collides with an existing user. Repositories translate their
// store-specific constraint-violation shape into this sentinel so the
// service never inspects driver errors.
var ErrDuplicateKey = errors.New("duplicate key")

// FieldError is an expected, user-facing failure tied to a single input
// field. It is delivered to clients as data inside a normal response,
// never as a transport-level error, and is never logged as a failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
