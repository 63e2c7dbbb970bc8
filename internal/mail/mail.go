// Package mail sends transactional mails over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Sender delivers mails through one SMTP account.
type Sender struct {
	host   string
	port   string
	user   string
	pass   string
	sender string
}

func NewSender(host, port, user, pass, sender string) *Sender {
	return &Sender{host: host, port: port, user: user, pass: pass, sender: sender}
}

// SendOTP mails a verification code to a new user.
func (s *Sender) SendOTP(ctx context.Context, to, name, code string) error {
	e := email.NewEmail()
	e.From = s.sender
	e.To = []string{to}
	e.Subject = "Your verification code"
	e.Text = []byte(fmt.Sprintf(
		"Hi %s,\n\nYour verification code is %s. It expires in a few minutes.\n\nIf you did not sign up, ignore this mail.\n",
		name, code))

	if err := s.send(e); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	slog.InfoContext(ctx, "OTP mail sent", "to", to)
	return nil
}

// SendReportSnapshot notifies a user that a monthly report was exported.
func (s *Sender) SendReportSnapshot(ctx context.Context, to, name, month string, balance string) error {
	e := email.NewEmail()
	e.From = s.sender
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your %s report is ready", month)
	e.Text = []byte(fmt.Sprintf(
		"Hi %s,\n\nYour report for %s has been exported. Net balance: %s.\n",
		name, month, balance))

	if err := s.send(e); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	slog.InfoContext(ctx, "Report mail sent", "to", to, "month", month)
	return nil
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	return e.Send(addr, auth)
}
