package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/closingmachines/leads-api/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"fmtTime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
}).ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return body.String(), nil
}

type credentialsData struct {
	Name     string
	Email    string
	Password string
	AppURL   string
}

// BuildCredentialsEmail renders the message a freshly created user receives
// with their initial password.
func BuildCredentialsEmail(name, email, password, appURL string) (subject, html string, err error) {
	html, err = render("credentials.html", credentialsData{
		Name:     name,
		Email:    email,
		Password: password,
		AppURL:   appURL,
	})
	if err != nil {
		return "", "", err
	}
	return "Your account is ready", html, nil
}

type passwordResetData struct {
	Name     string
	ResetURL string
}

func BuildPasswordResetEmail(name, resetURL string) (subject, html string, err error) {
	html, err = render("password_reset.html", passwordResetData{Name: name, ResetURL: resetURL})
	if err != nil {
		return "", "", err
	}
	return "Reset your password", html, nil
}

type clubLeadsData struct {
	ClubName string
	Target   string
	Leads    []queue.DispatchLead
}

// BuildClubLeadsEmail renders the digest a club mailbox receives with its
// batch of leads. It satisfies queue.EmailBuilder.
func BuildClubLeadsEmail(payload queue.DispatchPayload) (subject, html string, err error) {
	html, err = render("club_leads.html", clubLeadsData{
		ClubName: payload.ClubName,
		Target:   payload.Target,
		Leads:    payload.Leads,
	})
	if err != nil {
		return "", "", err
	}
	subject = fmt.Sprintf("%d new lead(s) for %s", len(payload.Leads), payload.ClubName)
	return subject, html, nil
}
