package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// CreateAppointmentRequest is the booking form payload.
type CreateAppointmentRequest struct {
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	ClientPhone     *string `json:"clientPhone"`
	Service         string  `json:"service"`
	AgentID         *string `json:"agentId"`
	AppointmentDate string  `json:"appointmentDate"`
	Duration        *int    `json:"duration"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes"`
}

func (r CreateAppointmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientName, validation.Required.Error("client name is required"), notBlank),
		validation.Field(&r.ClientEmail, validation.Required.Error("client email is required"), is.EmailFormat.Error("invalid email format")),
		validation.Field(&r.ClientPhone, phoneRule),
		validation.Field(&r.Service, validation.Required.Error("service is required"), notBlank),
		validation.Field(&r.AppointmentDate, validation.Required.Error("appointment date is required"), appointmentDateRule),
		validation.Field(&r.Duration, durationRule),
		validation.Field(&r.Status, validation.In(appointmentStatusValues()...).Error("must be one of pending, confirmed, completed, cancelled")),
	)
}

// UpdateAppointmentStatusRequest changes an appointment's status. Source
// echoes the calendar entry's origin so external entries can be refused.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
	Source string `json:"source"`
}

func (r UpdateAppointmentStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(appointmentStatusValues()...).Error("must be one of pending, confirmed, completed, cancelled"),
		),
	)
}

func appointmentStatusValues() []interface{} {
	out := make([]interface{}, len(entity.AppointmentStatuses))
	for i, s := range entity.AppointmentStatuses {
		out[i] = string(s)
	}
	return out
}
