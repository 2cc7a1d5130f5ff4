// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package web

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"

	"github.com/jobgate/jobgate/internal/auth"
	"github.com/jobgate/jobgate/pkg/errutil"
)

// Locals keys set by the middlewares.
const (
	localRequestID = "request_id"
	localUser      = "user"
	localSession   = "auth_session"
)

// RequestID tags every request with a ULID, echoed in the X-Request-Id
// response header and attached to handler log lines.
func (s *Server) RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := ulid.Make().String()
		c.Locals(localRequestID, id)
		c.Set("X-Request-Id", id)
		return c.Next()
	}
}

// RequireSession resolves the session cookie and stores the user and session
// in the request locals. Missing, unknown, and expired sessions all get the
// same 401; they are normal outcomes and are not logged as errors.
func (s *Server) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, session, err := s.service.Resolve(c.Context(), c.Cookies(SessionCookieName))
		if err != nil {
			switch errutil.Code(err) {
			case "SESSION_NOT_FOUND", "SESSION_EXPIRED":
				return failure(c, http.StatusUnauthorized, "Authentication required!")
			default:
				errutil.LogError(s.requestLogger(c), "session resolution failed", err)
				return failure(c, http.StatusInternalServerError, "Something went wrong! Please try again.")
			}
		}

		c.Locals(localUser, user)
		c.Locals(localSession, session)
		return c.Next()
	}
}

// currentUser returns the user stored by RequireSession, or nil.
func currentUser(c *fiber.Ctx) *auth.User {
	user, _ := c.Locals(localUser).(*auth.User)
	return user
}
