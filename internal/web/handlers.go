// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package web

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/jobgate/jobgate/internal/auth"
	"github.com/jobgate/jobgate/pkg/errutil"
)

// registerRequest is the JSON body accepted by POST /auth/register. Field
// names mirror the public form contract.
type registerRequest struct {
	Name     string `json:"name"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the sanitized user representation returned by /auth/me.
// The password hash never leaves the server.
type userResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	UserName    string  `json:"userName"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

func newUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		UserName:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		PhoneNumber: u.PhoneNumber,
	}
}

// Register handles POST /auth/register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		s.recordAuthAttempt("register", "invalid_input")
		return failure(c, http.StatusBadRequest, "Registration Failed! Please try again.")
	}

	input := auth.RegisterInput{
		Name:     req.Name,
		Username: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		Role:     auth.Role(req.Role),
	}
	if err := input.Validate(); err != nil {
		s.recordAuthAttempt("register", "invalid_input")
		return failure(c, http.StatusBadRequest, err.Error())
	}

	user, token, err := s.service.Register(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return s.registerError(c, err)
	}

	s.recordAuthAttempt("register", "success")
	issueSessionCookie(c, token, s.service.SessionLifetime(), s.cookieSecure)
	return successWith(c, http.StatusCreated, "Registration Completed successfully", newUserResponse(user))
}

func (s *Server) registerError(c *fiber.Ctx, err error) error {
	switch errutil.Code(err) {
	case "AUTH_EMAIL_TAKEN":
		s.recordAuthAttempt("register", "conflict")
		return failure(c, http.StatusConflict, "Email already registered!")
	case "AUTH_USERNAME_TAKEN":
		s.recordAuthAttempt("register", "conflict")
		return failure(c, http.StatusConflict, "Username already registered!")
	default:
		s.recordAuthAttempt("register", "error")
		errutil.LogError(s.requestLogger(c), "registration failed", err)
		return failure(c, http.StatusInternalServerError, "Registration Failed! Please try again.")
	}
}

// Login handles POST /auth/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		s.recordAuthAttempt("login", "invalid_input")
		return failure(c, http.StatusBadRequest, "Login Failed! Please try again.")
	}

	input := auth.LoginInput{Email: req.Email, Password: req.Password}
	if err := input.Validate(); err != nil {
		s.recordAuthAttempt("login", "invalid_input")
		return failure(c, http.StatusBadRequest, err.Error())
	}

	user, token, err := s.service.Login(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return s.loginError(c, err)
	}

	s.recordAuthAttempt("login", "success")
	issueSessionCookie(c, token, s.service.SessionLifetime(), s.cookieSecure)
	return successWith(c, http.StatusOK, "Login Successful!", newUserResponse(user))
}

func (s *Server) loginError(c *fiber.Ctx, err error) error {
	switch errutil.Code(err) {
	case "AUTH_INVALID_CREDENTIALS":
		s.recordAuthAttempt("login", "invalid_credentials")
		return failure(c, http.StatusUnauthorized, "Invalid Email or Password!")
	default:
		s.recordAuthAttempt("login", "error")
		errutil.LogError(s.requestLogger(c), "login failed", err)
		return failure(c, http.StatusInternalServerError, "Login Failed! Please try again.")
	}
}

// Logout handles POST /auth/logout. Destroying an absent or already-destroyed
// session is still a successful logout; the cookie is cleared either way.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.service.Logout(c.Context(), c.Cookies(SessionCookieName)); err != nil {
		errutil.LogError(s.requestLogger(c), "logout failed", err)
		clearSessionCookie(c, s.cookieSecure)
		return failure(c, http.StatusInternalServerError, "Something went wrong! Please try again.")
	}

	clearSessionCookie(c, s.cookieSecure)
	return success(c, http.StatusOK, "Logged out successfully")
}

// Me handles GET /auth/me. RequireSession runs first, so a user is always
// present here.
func (s *Server) Me(c *fiber.Ctx) error {
	return successWith(c, http.StatusOK, "OK", newUserResponse(currentUser(c)))
}

func (s *Server) recordAuthAttempt(operation, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.AuthAttemptsTotal.WithLabelValues(operation, status).Inc()
}

func (s *Server) requestLogger(c *fiber.Ctx) *slog.Logger {
	logger := s.logger
	if id, ok := c.Locals(localRequestID).(string); ok {
		logger = logger.With(slog.String("request_id", id))
	}
	return logger
}
