package notification

import "context"

// Email is one outbound message.
type Email struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
