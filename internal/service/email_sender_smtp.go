package service

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPEmailSender delivers the same mails over plain SMTP, for dev setups
// running a local catcher such as mailhog on :1025.
type SMTPEmailSender struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AppBaseURL string
}

func (s *SMTPEmailSender) SendVerificationEmail(ctx context.Context, email string, token string) error {
	link := s.buildURL("/verify-email", token)
	body := fmt.Sprintf("<p>Please verify your email by clicking on the following link: <a href=\"%s\">Verify Email</a></p>", link)
	return s.send(ctx, email, "Email Verification", body)
}

func (s *SMTPEmailSender) SendPasswordResetEmail(ctx context.Context, email string, token string) error {
	link := s.buildURL("/reset-password", token)
	body := fmt.Sprintf("<h1>You have requested a password reset</h1><p>Please go to this link to reset your password</p><a href=\"%s\">%s</a>", link, link)
	return s.send(ctx, email, "Password Reset Request", body)
}

func (s *SMTPEmailSender) buildURL(path string, token string) string {
	base := strings.TrimRight(s.AppBaseURL, "/")
	if base == "" {
		return token
	}
	return fmt.Sprintf("%s%s?token=%s", base, path, token)
}

// gomail's dialer has no context support, so the send runs on its own
// goroutine and the context deadline is honored here.
func (s *SMTPEmailSender) send(ctx context.Context, to string, subject string, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
