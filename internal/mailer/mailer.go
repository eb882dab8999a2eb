// Package mailer sends application and follow-up email over SMTP.
package mailer

import (
	"fmt"
	"os"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers a message to a single recipient. Implementations return
// an error when delivery did not happen; the caller decides retry policy.
type Mailer interface {
	Send(recipient, subject, body, attachmentPath string) error
}

// SMTPMailer implements Mailer over a plain SMTP relay with STARTTLS.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer builds a mailer from SMTP credentials.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

// Send delivers one message, optionally with a file attachment.
func (m *SMTPMailer) Send(recipient, subject, body, attachmentPath string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err != nil {
			return fmt.Errorf("attachment not found at %s: %w", attachmentPath, err)
		}
		msg.Attach(attachmentPath)
	}

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	return nil
}
