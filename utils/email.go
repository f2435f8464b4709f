package utils

import (
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	from string
	send func(msgs ...*gomail.Message) error
}

// NewMailer sends through an SMTP server, dialing once per call.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	d := gomail.NewDialer(host, port, user, password)
	return &Mailer{from: from, send: d.DialAndSend}
}

// NewMailerWithSender sends through s, e.g. an open SMTP connection or a
// gomail.SendFunc.
func NewMailerWithSender(from string, s gomail.Sender) *Mailer {
	return &Mailer{from: from, send: func(msgs ...*gomail.Message) error {
		return gomail.Send(s, msgs...)
	}}
}

func (m *Mailer) SendEmail(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.send(msg)
}
