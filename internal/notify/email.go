package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// Mailer delivers plain-text transactional mail over SMTP.
type Mailer struct {
	cfg  SMTPConfig
	sink Sink
	// sendMail is smtp.SendMail, swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg SMTPConfig, sink Sink) *Mailer {
	return &Mailer{cfg: cfg, sink: sink, sendMail: smtp.SendMail}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		return errors.New("mail: SMTP_HOST is not configured")
	}
	headers := []string{
		fmt.Sprintf("From: %s", m.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}
	msg := strings.Join(headers, "\r\n")

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	return m.sendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{to}, []byte(msg))
}

// SendAuthCode mails a one-time login code. Synchronous: without the email
// the login flow cannot proceed, so the caller surfaces the failure.
func (m *Mailer) SendAuthCode(to, code string) error {
	body := fmt.Sprintf("Your code is: %s\n\nThe code expires in 15 minutes.", code)
	return m.send(to, "Your Authentication Code", body)
}

// SendTicketUpdateAsync notifies the ticket owner of an agent reply.
// Fire-and-forget: failures go to the sink, never to the caller.
func (m *Mailer) SendTicketUpdateAsync(to, ticketID string) {
	go func() {
		body := fmt.Sprintf("Your ticket #%s has been updated.", ticketID)
		if err := m.send(to, "Ticket Update", body); err != nil {
			m.sink.ReportError("mail", err)
		}
	}()
}
