package mailer

import (
	"crypto/tls"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

func New(host string, port int, user, password, fromName, fromEmail string) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Configured reports whether SMTP credentials were provided. Deployments
// without SMTP simply skip email delivery.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.fromEmail != ""
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: m.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client (host=%s port=%d): %w", m.host, m.port, err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail (host=%s port=%d): %w", m.host, m.port, err)
	}
	return nil
}
