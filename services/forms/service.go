// Package forms stores contact-form messages left on a salon's website.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrClientLookup = errors.New("failed to lookup client by email")
	ErrClientCreate = errors.New("failed to create client")
	ErrSave         = errors.New("failed to save form submission")
)

type ClientStore interface {
	FindByEmail(ctx context.Context, orgID, email string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
}

type SubmissionStore interface {
	Create(ctx context.Context, submission *models.FormSubmission) error
}

type Invalidator interface {
	Invalidate(m cache.Mutation)
}

// Result is what a successful submission returns to the caller.
type Result struct {
	FormSubmission *models.FormSubmission `json:"formSubmission"`
	Client         *models.Client         `json:"client"`
	NewClient      bool                   `json:"newClient"`
}

type Service struct {
	Clients     ClientStore
	Submissions SubmissionStore
	Mailer      notification.Mailer
	Cache       Invalidator
	Logger      *zap.Logger
}

// Submit attaches the message to the tenant's client with the same email,
// creating the client when there is none. The acknowledgement email is best
// effort.
func (s *Service) Submit(ctx context.Context, orgID string, in models.FormSubmissionInput) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	client, err := s.Clients.FindByEmail(ctx, orgID, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientLookup, err)
	}

	newClient := false
	if client == nil {
		now := time.Now().UTC()
		client = &models.Client{
			ID:             uuid.NewString(),
			OrganisationID: orgID,
			Name:           strings.TrimSpace(in.Name),
			Email:          &email,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if phone := strings.TrimSpace(in.Phone); phone != "" {
			client.PhoneNumber = &phone
		}
		if err := s.Clients.Create(ctx, client); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrClientCreate, err)
		}
		newClient = true
	}

	submission := &models.FormSubmission{
		ID:             uuid.NewString(),
		OrganisationID: orgID,
		ClientID:       client.ID,
		Name:           client.Name,
		Email:          email,
		Phone:          strings.TrimSpace(in.Phone),
		Message:        in.Message,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSave, err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(cache.FormSubmitted)
	}
	s.acknowledge(ctx, email, submission)

	return &Result{FormSubmission: submission, Client: client, NewClient: newClient}, nil
}

func (s *Service) acknowledge(ctx context.Context, to string, submission *models.FormSubmission) {
	if s.Mailer == nil {
		return
	}
	html, err := notification.FormSubmissionReceived(notification.FormSubmissionEmail{
		Name:    submission.Name,
		Message: submission.Message,
	})
	if err != nil {
		s.Logger.Error("failed to render form acknowledgement", zap.Error(err))
		return
	}
	err = s.Mailer.Send(ctx, notification.Email{
		To:      []string{to},
		Subject: "We've received your message",
		HTML:    html,
	})
	if err != nil {
		s.Logger.Warn("form acknowledgement not sent", zap.String("submissionId", submission.ID), zap.Error(err))
	}
}
