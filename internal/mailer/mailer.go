// Package mailer delivers OTP email over SMTP.  Delivery is synchronous:
// the auth handler reports a failed send to the client instead of
// pretending the code is on its way.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// Mailer holds SMTP connection settings.  All fields come from explicit
// configuration passed in at construction; there is no lazily
// initialized global transport.
type Mailer struct {
	host     string
	port     string
	username string
	password string
}

// New builds a Mailer from SMTP settings.  Spaces are stripped from the
// password so app passwords can be pasted verbatim.
func New(host, port, username, password string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: strings.ReplaceAll(password, " ", ""),
	}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.port != "" && m.username != "" && m.password != ""
}

// SendOTP emails a one-time code to the given address and returns the
// generated message id.
func (m *Mailer) SendOTP(to, code string, ttlMinutes int) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("mailer not configured: set SMTP_HOST, SMTP_PORT, SMTP_USERNAME and SMTP_PASSWORD")
	}

	msgID := fmt.Sprintf("<%s@gridbook>", uuid.NewString())
	body := otpBody(code, ttlMinutes)
	msg := strings.Join([]string{
		"From: " + m.username,
		"To: " + to,
		"Subject: Your OTP for Gridbook Login",
		"Message-ID: " + msgID,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.username, []string{to}, []byte(msg)); err != nil {
		log.Printf("mailer: send to %s failed: %v", to, err)
		return "", err
	}
	log.Printf("mailer: OTP email sent, message id %s", msgID)
	return msgID, nil
}

func otpBody(code string, ttlMinutes int) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="margin: 0 0 16px;">Gridbook</h1>
  <p style="font-size: 16px;">Use the following OTP to complete your login:</p>
  <div style="border: 2px dashed #667eea; border-radius: 8px; padding: 20px; text-align: center; margin: 20px 0;">
    <span style="font-size: 36px; letter-spacing: 8px; font-weight: bold;">%s</span>
  </div>
  <p style="font-size: 14px; color: #6b7280;">This OTP will expire in %d minutes. Do not share this code with anyone.</p>
</div>`, code, ttlMinutes)
}
