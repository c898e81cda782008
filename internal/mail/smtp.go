package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPOptions configures the SMTP-backed mailer.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer sends transactional email over authenticated SMTP.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPMailer validates the options and returns a ready mailer.
func NewSMTPMailer(opts SMTPOptions) (*SMTPMailer, error) {
	if opts.Host == "" || opts.Port == 0 {
		return nil, fmt.Errorf("mail: smtp host and port are required")
	}
	if opts.From == "" {
		return nil, fmt.Errorf("mail: sender address is required")
	}
	return &SMTPMailer{
		dialer:   gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
		from:     opts.From,
		fromName: opts.FromName,
	}, nil
}

// SendOTP delivers the 6-digit verification code.
func (m *SMTPMailer) SendOTP(ctx context.Context, msg OTPMessage) error {
	tpl := otpTemplate(msg.Locale)
	return m.send(ctx, msg.To, tpl.subject,
		tpl.html(msg.Code, msg.Country),
		tpl.text(msg.Code))
}

// SendPasswordReset delivers the reset link.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg ResetMessage) error {
	tpl := resetTemplate(msg.Locale)
	return m.send(ctx, msg.To, tpl.subject,
		tpl.html(msg.ResetURL, ""),
		tpl.text(msg.ResetURL))
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.from, m.fromName)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", textBody)
	message.AddAlternative("text/html", htmlBody)
	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
