package application

import (
	"gopkg.in/gomail.v2"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
)

// SMTPMailer sends the status-change text to the address denormalized
// onto the reservation record. Same advisory contract as the push
// relay, a failed mail never fails the status change.
type SMTPMailer struct {
	host     string
	port     int
	email    string
	password string
}

func NewSMTPMailer(host string, port int, email, password string) domain.Mailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		email:    email,
		password: password,
	}
}

func (m *SMTPMailer) SendStatusMail(to string, subject string, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.email)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.email, m.password)
	return dialer.DialAndSend(message)
}
