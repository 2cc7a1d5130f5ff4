// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the raw session token.
const SessionCookieName = "session"

// issueSessionCookie hands the raw token to the client. HttpOnly keeps it
// away from page scripts; SameSite=Lax blocks cross-site POSTs from sending
// it; Max-Age mirrors the server-side row expiry.
func issueSessionCookie(c *fiber.Ctx, token string, lifetime time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires the cookie immediately.
func clearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
