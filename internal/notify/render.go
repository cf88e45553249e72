package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/edvin/easybudget/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns notifications into mail messages using the embedded
// templates.
type Renderer struct {
	tmpl *template.Template
	from string
}

func NewRenderer(from string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, from: from}, nil
}

type templateData struct {
	Subject string
	Name    string
	Data    map[string]string
}

// Render builds the message for n. An unknown template or a notification
// without recipient is an error that retrying cannot fix.
func (r *Renderer) Render(n model.Notification) (Message, error) {
	if n.Recipient == "" {
		return Message{}, fmt.Errorf("notification %s has no recipient", n.IdempotencyKey)
	}
	if r.tmpl.Lookup(n.Template) == nil {
		return Message{}, fmt.Errorf("unknown mail template %q", n.Template)
	}

	subject := Subject(n)
	name := n.RecipientName
	if name == "" {
		name = n.Recipient
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, n.Template, templateData{Subject: subject, Name: name, Data: n.Data}); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", n.Template, err)
	}

	return Message{
		From:           r.from,
		To:             n.Recipient,
		ToName:         n.RecipientName,
		Subject:        subject,
		HTML:           buf.String(),
		IdempotencyKey: n.IdempotencyKey,
		Tags:           []string{string(n.Event)},
	}, nil
}

// Subject returns the mail subject for n.
func Subject(n model.Notification) string {
	switch n.Template {
	case model.TemplateWelcome:
		return "Welcome to Easy Budget"
	case model.TemplateBudgetStatus:
		return budgetSubjectPrefix(n.Data["new_status"]) + ": budget " + n.Data["code"]
	case model.TemplateSupportTicket:
		return "Support ticket: " + n.Data["subject"]
	case model.TemplateInvoice:
		return "Invoice " + n.Data["code"]
	}
	return "Easy Budget notification"
}

func budgetSubjectPrefix(status string) string {
	switch strings.ToLower(status) {
	case "approved":
		return "Confirmed"
	case "cancelled", "rejected":
		return "Cancelled"
	case "completed":
		return "Completed"
	case "pending":
		return "Pending"
	}
	return "Update"
}
