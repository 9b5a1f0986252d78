package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Sender performs the actual delivery. The dispatcher is the only caller;
// tests substitute a recording double.
type Sender interface {
	Send(email Email) error
}

// SMTPSender delivers mail over a plain-auth SMTP connection.
type SMTPSender struct {
	host     string
	port     int
	address  string
	password string
}

func NewSMTPSender(host string, port int, address, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		address:  address,
		password: password,
	}
}

func (s *SMTPSender) Send(email Email) error {
	var msg strings.Builder
	msg.WriteString("From: " + s.address + "\r\n")
	msg.WriteString("To: " + email.To + "\r\n")
	msg.WriteString("Subject: " + email.Subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTML)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.address, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.address, []string{email.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
