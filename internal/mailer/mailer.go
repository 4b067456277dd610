package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers a templated email. Implementations return an error on
// failure but must never panic across this boundary; callers treat delivery
// as best-effort.
type Mailer interface {
	Send(to, templateName string, data map[string]any) error
}

// SMTP sends mail through an SMTP relay using gomail.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTP(host string, port int, username, password, from string, logger *zap.Logger) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

func (m *SMTP) Send(to, templateName string, data map[string]any) error {
	tpl, ok := templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", templateName)
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return fmt.Errorf("render subject for %q: %w", templateName, err)
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return fmt.Errorf("render body for %q: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", templateName, to, err)
	}

	m.logger.Info("email sent",
		zap.String("to", to),
		zap.String("template", templateName))
	return nil
}

// LogOnly is used when SMTP is unconfigured: it records what would have been
// sent and reports success.
type LogOnly struct {
	logger *zap.Logger
}

func NewLogOnly(logger *zap.Logger) *LogOnly {
	return &LogOnly{logger: logger}
}

func (m *LogOnly) Send(to, templateName string, data map[string]any) error {
	m.logger.Info("email delivery disabled, skipping send",
		zap.String("to", to),
		zap.String("template", templateName))
	return nil
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(name, subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New(name + "_subject").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Parse(body)),
	}
}

var templates = map[string]emailTemplate{
	"new_message": mustTemplate("new_message",
		"New message from {{.SenderName}}",
		"Hello {{.RecipientName}},\n\nYou have received a new message from {{.SenderName}}"+
			"{{if .RequestTitle}} regarding your request \"{{.RequestTitle}}\"{{end}}.\n\n"+
			"Log in to read and reply.\n"),
	"status_update": mustTemplate("status_update",
		"Your request \"{{.RequestTitle}}\" was updated",
		"Hello {{.RecipientName}},\n\nThe status of your request \"{{.RequestTitle}}\" "+
			"is now: {{.NewStatus}}.\n\nLog in to see the details.\n"),
	"assignment": mustTemplate("assignment",
		"Expert assigned to \"{{.RequestTitle}}\"",
		"Hello {{.RecipientName}},\n\n{{.ExpertName}} has been assigned to the request "+
			"\"{{.RequestTitle}}\".\n\nLog in to see the details.\n"),
	"appointment_update": mustTemplate("appointment_update",
		"Appointment update",
		"Hello {{.RecipientName}},\n\nYour appointment on {{.DateTime}} has been "+
			"{{.Change}}.\n\nLog in to see the details.\n"),
}
