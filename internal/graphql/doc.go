// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package graphql defines the API schema and its resolvers.
//
// The schema is an explicit data structure built and validated at startup
// rather than derived from annotations or reflection over the domain
// types. Resolvers translate between the wire shape and the account and
// forum services: expected domain errors (bad credentials, taken
// usernames, expired tokens) come back inside UserResponse.errors as
// normal data, while unexpected failures propagate as GraphQL errors and
// surface to clients as a generic failure.
package graphql
