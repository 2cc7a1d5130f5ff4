// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

// Package auth implements the credential and session core of the portal.
//
// # Domain Types
//
// User and Session rows are owned by the persistence layer and reached
// through the UserRepository and SessionRepository interfaces. Session IDs
// are SHA-256 digests of raw tokens; the raw token exists only in the
// client's cookie and is never persisted or logged.
//
// # Services
//
//   - Service - registration and login orchestration
//   - SessionService - session issuance, resolution, and expiry sweeping
//
// Both are created with New*Service constructors that validate dependencies.
// Structural input validation lives in RegisterInput/LoginInput and is run
// by the transport layer before the services are invoked.
package auth
