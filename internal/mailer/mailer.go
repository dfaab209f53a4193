package mailer

import "embed"

const (
	FromName                  = "Mangal"
	maxRetries                = 3
	UserWelcomeTemplate       = "user_welcome.tmpl"
	ComplaintReportedTemplate = "complaint_reported.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
