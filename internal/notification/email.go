package notification

import (
	"fmt"
	"net/smtp"
)

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type EmailService struct {
	config EmailConfig
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendVerificationCode delivers a one-time contact verification code.
func (s *EmailService) SendVerificationCode(to, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(`<html><body>
		<h2>Verify your contact</h2>
		<p>Your verification code is:</p>
		<p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p>
		<p>This code expires in 5 minutes. If you did not request it, you can ignore this email.</p>
	</body></html>`, code)
	return s.sendEmail(to, subject, body)
}

// SendCrossHubWarning notifies an account holder that a signup under
// their email was attempted on a different hub and refused.
func (s *EmailService) SendCrossHubWarning(to, attemptedHub, homeHub, homeURL string) error {
	subject := "Signup attempt on another hub"
	body := fmt.Sprintf(`<html><body>
		<h2>Signup attempt blocked</h2>
		<p>Someone tried to create a new %s account with this email address.</p>
		<p>Your account belongs to %s. No duplicate account was created.</p>
		<p>You can sign in at <a href="%s">%s</a>.</p>
		<p>If this wasn't you, no action is needed.</p>
	</body></html>`, attemptedHub, homeHub, homeURL, homeURL)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body))

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	return smtp.SendMail(addr, auth, s.config.From, []string{to}, msg)
}
