package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/normalize"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// anyAgent is the booking form's "no preference" choice.
const anyAgent = "any"

// AppointmentService books and manages local appointments.
type AppointmentService struct {
	repo     repository.AppointmentsRepository
	notifier Notifier
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(repo repository.AppointmentsRepository, notifier Notifier) *AppointmentService {
	return &AppointmentService{repo: repo, notifier: notifierOrNop(notifier)}
}

// Create validates a booking, applies defaults and stores it.
func (s *AppointmentService) Create(ctx context.Context, req dto.CreateAppointmentRequest) (*entity.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	email, err := normalize.Email(req.ClientEmail)
	if err != nil {
		return nil, invalidField("clientEmail", "invalid email format")
	}
	phone, err := normalize.OptionalPhone(req.ClientPhone)
	if err != nil {
		return nil, invalidField("clientPhone", "must be a valid phone number")
	}
	date, err := dto.ParseAppointmentDate(req.AppointmentDate)
	if err != nil {
		return nil, invalidField("appointmentDate", err.Error())
	}

	duration := entity.DefaultAppointmentDuration
	if req.Duration != nil {
		duration = *req.Duration
	}
	status := entity.AppointmentPending
	if req.Status != "" {
		status = entity.AppointmentStatus(req.Status)
	}

	appointment, err := s.repo.CreateAppointment(ctx, entity.NewAppointment{
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     email,
		ClientPhone:     phone,
		Service:         strings.TrimSpace(req.Service),
		AgentID:         agentPreference(req.AgentID),
		AppointmentDate: date,
		Duration:        duration,
		Status:          status,
		Notes:           normalize.OptionalText(req.Notes),
	})
	if err != nil {
		return nil, err
	}

	s.notifier.AppointmentBooked(ctx, *appointment)
	return appointment, nil
}

// List returns every local appointment, newest booking first.
func (s *AppointmentService) List(ctx context.Context) ([]entity.Appointment, error) {
	return s.repo.ListAppointments(ctx)
}

// ListByAgent returns an agent's appointments, latest appointment date first.
func (s *AppointmentService) ListByAgent(ctx context.Context, agentID string) ([]entity.Appointment, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, invalidField("agentId", "agent id is required")
	}
	return s.repo.ListAppointmentsByAgent(ctx, agentID)
}

// UpdateStatus sets any enumerated status on a local appointment. Entries
// sourced from the external calendar are refused.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req dto.UpdateAppointmentStatusRequest) (*entity.Appointment, error) {
	if strings.EqualFold(strings.TrimSpace(req.Source), string(entity.SourceCalendly)) {
		return nil, ErrExternalAppointment
	}
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	appointmentID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrAppointmentNotFound
	}
	return s.repo.UpdateAppointmentStatus(ctx, appointmentID, entity.AppointmentStatus(req.Status))
}

func agentPreference(agentID *string) *string {
	if agentID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*agentID)
	if trimmed == "" || strings.EqualFold(trimmed, anyAgent) {
		return nil
	}
	return &trimmed
}
