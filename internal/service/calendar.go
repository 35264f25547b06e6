package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/provisionexpertax/taxportal/internal/calendly"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// CalendlyClient is the subset of the Calendly API used by the calendar.
type CalendlyClient interface {
	Configured() bool
	CurrentUser(ctx context.Context) (*calendly.User, error)
	Events(ctx context.Context) ([]calendly.Event, error)
	Invitees(ctx context.Context, eventID string) ([]calendly.Invitee, error)
}

// CalendarService merges local appointments with externally booked events.
type CalendarService struct {
	appointments repository.AppointmentsRepository
	calendly     CalendlyClient
}

// NewCalendarService constructs a CalendarService. client may be nil.
func NewCalendarService(appointments repository.AppointmentsRepository, client CalendlyClient) *CalendarService {
	return &CalendarService{appointments: appointments, calendly: client}
}

func (s *CalendarService) configured() bool {
	return s.calendly != nil && s.calendly.Configured()
}

// Entries returns local and external appointments ordered by start time.
// When Calendly is unavailable only local entries are returned.
func (s *CalendarService) Entries(ctx context.Context) ([]entity.CalendarEntry, error) {
	local, err := s.appointments.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]entity.CalendarEntry, 0, len(local))
	for _, a := range local {
		entries = append(entries, entity.NewLocalAppointment(a))
	}

	if s.configured() {
		events, err := s.calendly.Events(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("calendly unavailable, showing local appointments only")
		} else {
			for _, external := range calendly.ToAppointments(events) {
				entries = append(entries, external)
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartsAt().Before(entries[j].StartsAt())
	})
	return entries, nil
}

// User returns the Calendly account that owns the token.
func (s *CalendarService) User(ctx context.Context) (*calendly.User, error) {
	if !s.configured() {
		return nil, calendly.ErrNotConfigured
	}
	return s.calendly.CurrentUser(ctx)
}

// Events returns the Calendly events mapped onto the appointment shape.
func (s *CalendarService) Events(ctx context.Context) ([]entity.ExternalAppointment, error) {
	if !s.configured() {
		return nil, calendly.ErrNotConfigured
	}
	events, err := s.calendly.Events(ctx)
	if err != nil {
		return nil, err
	}
	return calendly.ToAppointments(events), nil
}

// Invitees lists the people booked onto a Calendly event.
func (s *CalendarService) Invitees(ctx context.Context, eventID string) ([]calendly.Invitee, error) {
	if !s.configured() {
		return nil, calendly.ErrNotConfigured
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" || strings.Contains(eventID, "/") {
		return nil, invalidField("eventId", "invalid event id")
	}
	return s.calendly.Invitees(ctx, eventID)
}
