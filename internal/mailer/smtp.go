package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/rs/zerolog/log"
)

// Mailer sends transactional email over SMTP. An empty host disables
// sending entirely, which is the default for local development.
type Mailer struct {
	cfg *config.Config
}

// New creates a Mailer from the application config.
func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

func (m *Mailer) send(to, subject, body string) error {
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" || m.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	msg := fmt.Sprintf("From: %s\r\n", m.cfg.SMTPFrom)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += body

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, m.cfg.SMTPFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .highlight { color: #007bff; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Welcome to Menkyo Quiz!</h2>
        <p>Hi <span class="highlight">{{.Name}}</span>,</p>
        <p>Your account is ready. Start with the Karimen practice sets and
        work your way up to the full license challenges.</p>
        <p>Good luck with your driving test!</p>
        <div class="footer">
            <p>This is an automated message from Menkyo Quiz.</p>
        </div>
    </div>
</body>
</html>
`))

// SendWelcome sends the post-registration welcome email. Callers treat
// failures as non-fatal: registration never depends on email delivery.
func (m *Mailer) SendWelcome(to, name string) error {
	if !m.Enabled() {
		log.Debug().Str("component", "mailer").Str("to", to).
			Msg("SMTP not configured, skipping welcome email")
		return nil
	}

	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, map[string]string{"Name": name}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return m.send(to, "Welcome to Menkyo Quiz", body.String())
}
