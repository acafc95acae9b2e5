// Package email sends transactional mail.
//
// Services depend on the EmailSender interface. NewResendSender talks to the
// Resend API; WithCircuitBreaker wraps any sender so an unreachable provider
// fails fast instead of stalling every forgot-password request.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender delivers transactional mail.
type EmailSender interface {
	// SendPasswordReset mails a reset link carrying the plaintext token.
	SendPasswordReset(ctx context.Context, toEmail, token string) error
}

type resendSender struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

// NewResendSender returns a sender backed by the Resend API.
// fromEmail must belong to a domain verified in Resend; appURL is the public
// client URL the reset link points at.
func NewResendSender(apiKey, fromEmail, appURL string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

// ResetLink builds the client URL a reset email points at.
func ResetLink(appURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", appURL, token)
}

func (s *resendSender) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("FaceCard <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: "Reset your FaceCard password",
		Html:    resetHTML(ResetLink(s.appURL, token)),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func resetHTML(link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:32px;background-color:#fdf6f0;font-family:Arial,Helvetica,sans-serif;">
  <table width="480" cellpadding="0" cellspacing="0" align="center" style="background-color:#ffffff;border-radius:8px;padding:32px;">
    <tr>
      <td>
        <h1 style="color:#3b2f2f;font-size:22px;margin:0 0 16px 0;">FaceCard</h1>
        <p style="color:#5c4d4d;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
          Someone asked to reset the password on your account. Use the link below to pick a new one.
        </p>
        <p style="margin:0 0 24px 0;">
          <a href="%s" style="background-color:#d97b66;color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:6px;font-weight:600;">Reset password</a>
        </p>
        <p style="color:#8a7b7b;font-size:13px;line-height:1.6;margin:0;">
          The link expires in 20 minutes. If you did not ask for this, ignore this email.<br>
          <a href="%s" style="color:#d97b66;word-break:break-all;">%s</a>
        </p>
      </td>
    </tr>
  </table>
</body>
</html>`, link, link, link)
}
