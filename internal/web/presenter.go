// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

// Package web exposes the portal's HTTP API. It is the thin outer layer the
// auth core treats as a collaborator: it validates request shape, converts
// coded errors into fixed user-safe messages, and owns the session cookie.
package web

import "github.com/gofiber/fiber/v2"

// Result statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Result is the tagged outcome every auth endpoint returns. Message is
// always one of the fixed user-safe strings, never internal error text.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *fiber.Ctx, httpStatus int, message string) error {
	return c.Status(httpStatus).JSON(Result{Status: StatusSuccess, Message: message})
}

func successWith(c *fiber.Ctx, httpStatus int, message string, data any) error {
	return c.Status(httpStatus).JSON(Result{Status: StatusSuccess, Message: message, Data: data})
}

func failure(c *fiber.Ctx, httpStatus int, message string) error {
	return c.Status(httpStatus).JSON(Result{Status: StatusError, Message: message})
}
