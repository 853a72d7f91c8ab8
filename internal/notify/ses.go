// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package notify delivers account-recovery email. The account core treats
// delivery as fire-and-forget; failures here are logged by the caller and
// never surfaced to clients.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/samber/oops"
)

// ResetLink builds the password-reset URL embedded in the email.
func ResetLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/change-password/" + token
}

// sesAPI is the subset of the SES v2 client used by SESNotifier.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier sends reset email through Amazon SES.
type SESNotifier struct {
	client    sesAPI
	fromEmail string
	fromName  string
	baseURL   string
	logger    *slog.Logger
}

// NewSESNotifier creates an SESNotifier using the default AWS credential
// chain for the given region.
func NewSESNotifier(ctx context.Context, region, fromEmail, fromName, baseURL string, logger *slog.Logger) (*SESNotifier, error) {
	if fromEmail == "" {
		return nil, oops.Code("NOTIFY_INVALID_CONFIG").Errorf("from email is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, oops.Code("NOTIFY_AWS_CONFIG_FAILED").
			With("region", region).
			Wrap(err)
	}

	return &SESNotifier{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
		logger:    logger,
	}, nil
}

// SendPasswordReset emails the reset link for token to email.
func (n *SESNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	link := ResetLink(n.baseURL, token)

	htmlBody := fmt.Sprintf(`<p>We received a request to reset your password.</p>
<p><a href="%s">Reset password</a></p>
<p>If you didn't request this, you can safely ignore this email.</p>`, link)

	textBody := fmt.Sprintf(`We received a request to reset your password.

Reset it here: %s

If you didn't request this, you can safely ignore this email.
`, link)

	from := n.fromEmail
	if n.fromName != "" {
		from = fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String("Reset your password"),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return oops.Code("NOTIFY_SEND_FAILED").
			With("operation", "ses send email").
			Wrap(err)
	}

	n.logger.Info("password reset email sent", "email", email)
	return nil
}
