package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"flightclaim/backend/internal/localization"
	"flightclaim/backend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the customer emails in the customer's language.
type Templates struct {
	base *template.Template
	loc  *localization.Localizer
}

func NewTemplates(loc *localization.Localizer) (*Templates, error) {
	// placeholders, replaced per language in render
	funcs := template.FuncMap{
		"t":      func(string) string { return "" },
		"status": func(models.ClaimStatus) string { return "" },
	}
	base, err := template.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Templates{base: base, loc: loc}, nil
}

type emailData struct {
	Lang    string
	Claim   *models.Claim
	Comment *models.ClaimComment
	Name    string
	Message string
}

// ClaimConfirmation is sent right after a claim is submitted.
func (t *Templates) ClaimConfirmation(c *models.Claim) (Email, error) {
	lang := t.loc.Language(c.Language)
	return t.render("claim_confirmation", c.Email,
		t.loc.Format(lang, "email.confirmation.subject", c.Reference),
		emailData{Lang: lang, Claim: c})
}

// StatusUpdate is sent when an admin changes the claim status.
func (t *Templates) StatusUpdate(c *models.Claim) (Email, error) {
	lang := t.loc.Language(c.Language)
	return t.render("status_update", c.Email,
		t.loc.Format(lang, "email.status.subject", c.Reference),
		emailData{Lang: lang, Claim: c})
}

// Comment is sent for comments visible to the customer.
func (t *Templates) Comment(c *models.Claim, comment *models.ClaimComment) (Email, error) {
	lang := t.loc.Language(c.Language)
	return t.render("comment", c.Email,
		t.loc.Format(lang, "email.comment.subject", c.Reference),
		emailData{Lang: lang, Claim: c, Comment: comment})
}

// ContactReply acknowledges a contact-form message.
func (t *Templates) ContactReply(name, email, message, language string) (Email, error) {
	lang := t.loc.Language(language)
	return t.render("contact_reply", email,
		t.loc.GetString(lang, "email.contact.subject"),
		emailData{Lang: lang, Name: name, Message: message})
}

func (t *Templates) render(name, to, subject string, data emailData) (Email, error) {
	tmpl, err := t.base.Clone()
	if err != nil {
		return Email{}, err
	}
	lang := data.Lang
	tmpl.Funcs(template.FuncMap{
		"t": func(key string) string { return t.loc.GetString(lang, key) },
		"status": func(s models.ClaimStatus) string {
			return t.loc.GetString(lang, "status."+string(s))
		},
	})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Email{To: to, Subject: subject, HTML: buf.String()}, nil
}
