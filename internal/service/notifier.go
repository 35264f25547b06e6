package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// Notifier is told about public submissions that staff should follow up on.
type Notifier interface {
	ContactReceived(ctx context.Context, c entity.Contact)
	AppointmentBooked(ctx context.Context, a entity.Appointment)
	TestimonialSubmitted(ctx context.Context, t entity.Testimonial)
}

// LogNotifier writes notifications to the log. No e-mail is sent.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier builds a notifier writing to logger.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) ContactReceived(_ context.Context, c entity.Contact) {
	n.logger.Info().
		Str("event", "contact_received").
		Str("contact_id", c.ID.String()).
		Str("email", c.Email).
		Msg("new contact submission")
}

func (n *LogNotifier) AppointmentBooked(_ context.Context, a entity.Appointment) {
	n.logger.Info().
		Str("event", "appointment_booked").
		Str("appointment_id", a.ID.String()).
		Str("email", a.ClientEmail).
		Time("appointment_date", a.AppointmentDate).
		Msg("new appointment request")
}

func (n *LogNotifier) TestimonialSubmitted(_ context.Context, t entity.Testimonial) {
	n.logger.Info().
		Str("event", "testimonial_submitted").
		Str("testimonial_id", t.ID.String()).
		Int("rating", t.Rating).
		Msg("testimonial awaiting approval")
}

type nopNotifier struct{}

func (nopNotifier) ContactReceived(context.Context, entity.Contact)          {}
func (nopNotifier) AppointmentBooked(context.Context, entity.Appointment)    {}
func (nopNotifier) TestimonialSubmitted(context.Context, entity.Testimonial) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
