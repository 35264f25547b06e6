package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// DefaultAppointmentDuration is applied when a booking omits the duration (minutes).
const DefaultAppointmentDuration = 60

// AppointmentStatuses lists every accepted status value.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentConfirmed,
	AppointmentCompleted,
	AppointmentCancelled,
}

// Valid reports whether s is one of the enumerated statuses.
func (s AppointmentStatus) Valid() bool {
	for _, candidate := range AppointmentStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Appointment is a consultation booked through this service.
// AgentID is a weak reference to an Agent and is never cascaded.
type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	ClientName      string            `json:"clientName"`
	ClientEmail     string            `json:"clientEmail"`
	ClientPhone     *string           `json:"clientPhone"`
	Service         string            `json:"service"`
	AgentID         *string           `json:"agentId"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	Duration        int               `json:"duration"`
	Status          AppointmentStatus `json:"status"`
	Notes           *string           `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// NewAppointment carries a normalized booking ready for persistence.
type NewAppointment struct {
	ClientName      string
	ClientEmail     string
	ClientPhone     *string
	Service         string
	AgentID         *string
	AppointmentDate time.Time
	Duration        int
	Status          AppointmentStatus
	Notes           *string
}

// CalendarSource tags where a calendar entry originates.
type CalendarSource string

const (
	SourceLocal    CalendarSource = "local"
	SourceCalendly CalendarSource = "calendly"
)

// CalendarEntry is either a LocalAppointment or an ExternalAppointment.
// Only local entries may be mutated.
type CalendarEntry interface {
	EntrySource() CalendarSource
	StartsAt() time.Time
	calendarEntry()
}

// LocalAppointment wraps a stored appointment for the merged calendar view.
type LocalAppointment struct {
	Appointment
	Source   CalendarSource `json:"source"`
	Editable bool           `json:"editable"`
}

// NewLocalAppointment tags a stored appointment as a local calendar entry.
func NewLocalAppointment(a Appointment) LocalAppointment {
	return LocalAppointment{Appointment: a, Source: SourceLocal, Editable: true}
}

func (LocalAppointment) EntrySource() CalendarSource { return SourceLocal }
func (l LocalAppointment) StartsAt() time.Time     { return l.AppointmentDate }
func (LocalAppointment) calendarEntry()            {}

// ExternalAppointment mirrors an event booked with the calendar provider.
// It has the appointment shape but is display-only.
type ExternalAppointment struct {
	ID              string         `json:"id"`
	ClientName      string         `json:"clientName"`
	ClientEmail     string         `json:"clientEmail"`
	ClientPhone     *string        `json:"clientPhone"`
	Service         string         `json:"service"`
	AgentID         *string        `json:"agentId"`
	AppointmentDate time.Time      `json:"appointmentDate"`
	Duration        int            `json:"duration"`
	Status          string         `json:"status"`
	Notes           *string        `json:"notes"`
	CreatedAt       time.Time      `json:"createdAt"`
	Source          CalendarSource `json:"source"`
	Editable        bool           `json:"editable"`
}

func (ExternalAppointment) EntrySource() CalendarSource { return SourceCalendly }
func (e ExternalAppointment) StartsAt() time.Time     { return e.AppointmentDate }
func (ExternalAppointment) calendarEntry()            {}
