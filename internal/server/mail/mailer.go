// Package mail sends account lifecycle notifications over SMTP. Sends are
// best-effort: callers run them off the critical path and only log failures.
package mail

import (
	"github.com/go-mail/mail/v2"
)

// Mailer wraps an SMTP dialer with a fixed sender address.
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

// New constructs a Mailer for the given SMTP endpoint and sender.
func New(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// SendWelcome greets a freshly registered user.
func (m *Mailer) SendWelcome(to, name string) error {
	return m.send(to, "Thanks for joining in!",
		"Welcome to the app, "+name+". Let me know how you get along with the app.")
}

// SendCancellation says goodbye after an account delete.
func (m *Mailer) SendCancellation(to, name string) error {
	return m.send(to, "Sorry to see you go!",
		"Goodbye, "+name+".")
}

func (m *Mailer) send(to, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	var err error
	for i := 0; i < 3; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			break
		}
	}
	return err
}
