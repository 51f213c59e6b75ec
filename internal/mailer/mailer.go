package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"

	"campadmin/pkg/config"

	"github.com/jordan-wright/email"
)

// Mailer sends templated HTML mail over SMTP with STARTTLS.
type Mailer struct {
	cfg *config.SMTPConfig
	app *config.AppConfig
}

// New creates a mailer from configuration.
func New(cfg *config.SMTPConfig, app *config.AppConfig) *Mailer {
	return &Mailer{cfg: cfg, app: app}
}

// Configured reports whether an SMTP host is set. Without one, sends
// are recorded but never dispatched.
func (m *Mailer) Configured() bool {
	return m.cfg.Host != ""
}

// MessageData feeds the mail templates.
type MessageData struct {
	Subject    string
	Title      string
	Message    string
	ActionURL  string
	ActionText string
	AppName    string
}

// Send renders the base template with data and dispatches one message.
func (m *Mailer) Send(to, subject string, data MessageData) error {
	if !m.Configured() {
		return fmt.Errorf("smtp is not configured")
	}

	data.AppName = m.app.Name
	if data.Subject == "" {
		data.Subject = subject
	}

	tmpl, err := template.New("mail").Parse(baseTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse mail template: %w", err)
	}

	var htmlBuffer bytes.Buffer
	if err := tmpl.Execute(&htmlBuffer, data); err != nil {
		return fmt.Errorf("failed to render mail template: %w", err)
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = htmlBuffer.Bytes()

	port, _ := strconv.Atoi(m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	return e.SendWithStartTLS(
		fmt.Sprintf("%s:%d", m.cfg.Host, port),
		auth,
		&tls.Config{ServerName: m.cfg.Host},
	)
}

// SendInvitation sends a signup invitation scoped to a company. The
// link carries the company slug so registration lands in the right
// organization.
func (m *Mailer) SendInvitation(to, companyName, companySlug string) error {
	link := fmt.Sprintf("%s/signup?company=%s", m.app.BaseURL, companySlug)
	data := MessageData{
		Subject:    fmt.Sprintf("You're invited to join %s", companyName),
		Title:      "Invitation",
		Message:    fmt.Sprintf("You have been invited to join %s. Use the link below to create your account.", companyName),
		ActionURL:  link,
		ActionText: "Create account",
	}
	return m.Send(to, data.Subject, data)
}

const baseTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
</head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background-color: #f4f6f8; margin: 0; padding: 24px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
        <div style="background-color: #2E7D32; color: #ffffff; padding: 24px; text-align: center;">
            <h1 style="margin: 0; font-size: 20px;">{{.Title}}</h1>
        </div>
        <div style="padding: 24px; color: #333333; line-height: 1.6;">
            <p>{{.Message}}</p>
            {{if .ActionURL}}
            <p style="text-align: center; margin: 32px 0;">
                <a href="{{.ActionURL}}" style="background-color: #2E7D32; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">{{.ActionText}}</a>
            </p>
            {{end}}
        </div>
        <div style="padding: 16px 24px; color: #999999; font-size: 12px; text-align: center;">
            {{.AppName}}
        </div>
    </div>
</body>
</html>`
