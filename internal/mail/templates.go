package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// InvitationData fills the invitation templates. Invited accounts start with
// an unknown password, so SetPasswordURL is where the invitee picks one.
type InvitationData struct {
	Name           string
	Email          string
	InvitedBy      string
	SignInURL      string
	SetPasswordURL string
}

type PasswordResetData struct {
	Email    string
	ResetURL string
}

// InvitationMessage welcomes a newly invited teacher.
func InvitationMessage(data InvitationData) (*Message, error) {
	return render(data.Name, data.Email, "Invito alla piattaforma", "invitation", data)
}

// PasswordResetMessage carries the password recovery link.
func PasswordResetMessage(data PasswordResetData) (*Message, error) {
	return render("", data.Email, "Reimposta la password", "password_reset", data)
}

func render(toName, toEmail, subject, name string, data any) (*Message, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", name, err)
	}

	return &Message{
		ToName:  toName,
		ToEmail: toEmail,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
