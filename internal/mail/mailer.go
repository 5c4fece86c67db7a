package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/instacommunity/backend/pkg/config"
	"github.com/instacommunity/backend/pkg/logging"
)

var verifyTmpl = template.Must(template.New("verify").Parse(
	`<p>Welcome! Click <a href="{{.VerifyURL}}">here</a> to verify your email.</p>
<p>The link expires in 24 hours.</p>`))

// Mailer sends mail over SMTP. Dispatch is fire-and-forget: failures are
// logged and never reach the caller. Disabled cleanly when SMTP is not
// configured.
type Mailer struct {
	cfg     config.SMTPConfig
	enabled bool
	logger  *zap.Logger
}

// New creates a new mailer from configuration
func New(cfg *config.SMTPConfig) *Mailer {
	enabled := cfg.Host != ""
	logger := logging.WithComponent("mail")
	if !enabled {
		logger.Info("Mailer disabled: no SMTP host configured")
	}
	return &Mailer{cfg: *cfg, enabled: enabled, logger: logger}
}

// SendVerificationEmail dispatches the email-verification message for
// token asynchronously.
func (m *Mailer) SendVerificationEmail(to, token string) {
	verifyURL := strings.TrimRight(m.cfg.BaseURL, "/") + "/verify-email?token=" + token

	var body bytes.Buffer
	if err := verifyTmpl.Execute(&body, map[string]string{"VerifyURL": verifyURL}); err != nil {
		m.logger.Error("Failed to render verification email", zap.Error(err))
		return
	}

	m.sendAsync(to, "Verify your email", body.String())
}

// sendAsync delivers one message on its own goroutine. The registration
// transaction has already committed by the time this runs; a send
// failure must not surface to the request.
func (m *Mailer) sendAsync(to, subject, body string) {
	if !m.enabled {
		m.logger.Debug("Mail suppressed, mailer disabled", zap.String("to", to))
		return
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n"+
			"\r\n%s", to, m.cfg.From, subject, body))

		if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
			m.logger.Error("Failed to send email",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
			return
		}
		m.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	}()
}
