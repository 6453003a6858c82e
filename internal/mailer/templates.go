package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	TemplateVerification = "verification"
	TemplateWelcome      = "welcome"
	TemplateReset        = "password_reset"
	TemplateResetSuccess = "password_reset_success"
)

var htmlTemplates = template.Must(template.New("mail").Parse(`
{{define "verification"}}<p>Hi {{.Name}},</p><p>Your verification code is <strong>{{.Code}}</strong>. It expires in {{.Expires}}.</p>{{end}}
{{define "welcome"}}<p>Welcome to Blogify, {{.Name}}!</p><p>Your email address is verified.</p>{{end}}
{{define "password_reset"}}<p>We received a request to reset your password.</p><p><a href="{{.Link}}">Reset your password</a>. The link expires in {{.Expires}}.</p><p>If you did not ask for this, ignore this email.</p>{{end}}
{{define "password_reset_success"}}<p>Hi {{.Name}},</p><p>Your password was changed. If this was not you, contact support immediately.</p>{{end}}
`))

type templateData struct {
	Name    string
	Code    string
	Link    string
	Expires string
}

func render(name string, data templateData) string {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return ""
	}
	return buf.String()
}

// VerificationEmail carries a one-time verification code.
func VerificationEmail(to, name, code, expires string) Message {
	data := templateData{Name: name, Code: code, Expires: expires}
	return Message{
		To:       to,
		Subject:  "Verify your email",
		HTML:     render(TemplateVerification, data),
		Text:     fmt.Sprintf("Hi %s, your verification code is %s. It expires in %s.", name, code, expires),
		Template: TemplateVerification,
	}
}

// WelcomeEmail is sent once an address is verified.
func WelcomeEmail(to, name string) Message {
	return Message{
		To:       to,
		Subject:  "Welcome to Blogify",
		HTML:     render(TemplateWelcome, templateData{Name: name}),
		Text:     fmt.Sprintf("Welcome to Blogify, %s! Your email address is verified.", name),
		Template: TemplateWelcome,
	}
}

// ResetEmail carries the password reset link.
func ResetEmail(to, link, expires string) Message {
	return Message{
		To:       to,
		Subject:  "Reset your password",
		HTML:     render(TemplateReset, templateData{Link: link, Expires: expires}),
		Text:     fmt.Sprintf("Reset your password: %s (expires in %s).", link, expires),
		Template: TemplateReset,
	}
}

// ResetSuccessEmail confirms a completed password reset.
func ResetSuccessEmail(to, name string) Message {
	return Message{
		To:       to,
		Subject:  "Your password was changed",
		HTML:     render(TemplateResetSuccess, templateData{Name: name}),
		Text:     fmt.Sprintf("Hi %s, your password was changed.", name),
		Template: TemplateResetSuccess,
	}
}
