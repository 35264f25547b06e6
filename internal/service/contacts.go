package service

import (
	"context"
	"strings"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/normalize"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// ContactService records inbound contact form submissions.
type ContactService struct {
	repo     repository.ContactsRepository
	notifier Notifier
}

// NewContactService constructs a ContactService.
func NewContactService(repo repository.ContactsRepository, notifier Notifier) *ContactService {
	return &ContactService{repo: repo, notifier: notifierOrNop(notifier)}
}

// Create validates and stores a submission.
func (s *ContactService) Create(ctx context.Context, req dto.CreateContactRequest) (*entity.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	email, err := normalize.Email(req.Email)
	if err != nil {
		return nil, invalidField("email", "invalid email format")
	}
	phone, err := normalize.OptionalPhone(req.Phone)
	if err != nil {
		return nil, invalidField("phone", "must be a valid phone number")
	}

	contact, err := s.repo.CreateContact(ctx, entity.NewContact{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Phone:     phone,
		Service:   normalize.OptionalText(req.Service),
		Message:   normalize.OptionalText(req.Message),
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ContactReceived(ctx, *contact)
	return contact, nil
}

// List returns every submission, newest first.
func (s *ContactService) List(ctx context.Context) ([]entity.Contact, error) {
	return s.repo.ListContacts(ctx)
}
