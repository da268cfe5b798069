package mailer

import (
	"github.com/warelane/stockscan/pkg/logger"
)

// DevMailer prints mail to the logs instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("📧 [DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendOTP(email, code string) error {
	logger.Info("📧 [DEV MAIL] Login code",
		"to", email,
		"code", code,
	)
	return nil
}
