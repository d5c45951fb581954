// internal/service/notification/sender.go
package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

// Sender dispatches out-of-band notifications. It fires against the real
// world (SMS gateway or mail relay); errors surface to the caller as
// provider-layer failures and are never retried here.
type Sender interface {
	SendCode(ctx context.Context, destination, code string) error
	SendTemporaryCredential(ctx context.Context, identity, credential string) error
}

// SMTPSender delivers both notification types through an SMTP relay. Phone
// destinations are addressed via the relay's SMS gateway domain.
type SMTPSender struct {
	smtpHost   string
	smtpPort   string
	username   string
	password   string
	fromName   string
	smsGateway string
}

func NewSMTPSender(host, port, user, pass, fromName, smsGateway string) *SMTPSender {
	return &SMTPSender{
		smtpHost:   host,
		smtpPort:   port,
		username:   user,
		password:   pass,
		fromName:   fromName,
		smsGateway: smsGateway,
	}
}

func (s *SMTPSender) SendCode(ctx context.Context, destination, code string) error {
	to := destination
	if s.smsGateway != "" {
		to = fmt.Sprintf("%s@%s", destination, s.smsGateway)
	}
	body := fmt.Sprintf("Your verification code is %s. It expires shortly.", code)
	return s.send(to, "Verification code", body)
}

func (s *SMTPSender) SendTemporaryCredential(ctx context.Context, identity, credential string) error {
	body := fmt.Sprintf("A temporary password was issued for your account: %s\r\nPlease log in and change it immediately.", credential)
	return s.send(identity, "Temporary password", body)
}

func (s *SMTPSender) send(to, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.username)
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"\r\n" +
			body,
	)

	serverAddr := s.smtpHost + ":" + s.smtpPort
	auth := smtp.PlainAuth("", s.username, s.password, s.smtpHost)
	if err := smtp.SendMail(serverAddr, auth, s.username, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail failed: %w", err)
	}

	return nil
}
