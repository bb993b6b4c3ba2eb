package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("£%.2f", v) },
	"when":  func(t time.Time) string { return t.Format("Monday 2 January 2006 at 15:04") },
}).ParseFS(templateFS, "templates/*.html"))

// BookingEmail is the data behind booking confirmation and reminder emails.
type BookingEmail struct {
	Name      string
	Treatment string
	Price     float64
	Start     time.Time
	Message   string
}

// FormSubmissionEmail acknowledges a contact-form message.
type FormSubmissionEmail struct {
	Name    string
	Message string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func BookingConfirmation(data BookingEmail) (string, error) {
	return render("booking_confirmation.html", data)
}

func BookingReminder(data BookingEmail) (string, error) {
	return render("booking_reminder.html", data)
}

func FormSubmissionReceived(data FormSubmissionEmail) (string, error) {
	return render("form_submission.html", data)
}
