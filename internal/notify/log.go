// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package notify

import (
	"context"
	"log/slog"
)

// LogNotifier logs the reset link instead of emailing it. Used when no
// email sender is configured, typically in development.
type LogNotifier struct {
	baseURL string
	logger  *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(baseURL string, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{baseURL: baseURL, logger: logger}
}

// SendPasswordReset logs the reset link.
func (n *LogNotifier) SendPasswordReset(_ context.Context, email, token string) error {
	n.logger.Info("password reset requested (email delivery disabled)",
		"email", email,
		"reset_link", ResetLink(n.baseURL, token),
	)
	return nil
}
