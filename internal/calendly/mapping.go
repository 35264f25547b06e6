package calendly

import (
	"math"
	"strings"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// ToAppointment maps an event onto the appointment shape used by the
// calendar view. The result is display-only.
func ToAppointment(e Event) entity.ExternalAppointment {
	clientName := e.Name
	if clientName == "" {
		clientName = "Unknown"
	}
	return entity.ExternalAppointment{
		ID:              lastSegment(e.URI),
		ClientName:      clientName,
		Service:         e.Name,
		AppointmentDate: e.StartTime,
		Duration:        int(math.Round(e.EndTime.Sub(e.StartTime).Minutes())),
		Status:          mapStatus(e.Status),
		Notes:           locationNotes(e.Location),
		CreatedAt:       e.CreatedAt,
		Source:          entity.SourceCalendly,
		Editable:        false,
	}
}

// ToAppointments maps every event in order.
func ToAppointments(events []Event) []entity.ExternalAppointment {
	out := make([]entity.ExternalAppointment, 0, len(events))
	for _, e := range events {
		out = append(out, ToAppointment(e))
	}
	return out
}

func mapStatus(status string) string {
	if status == "active" {
		return string(entity.AppointmentConfirmed)
	}
	return status
}

func locationNotes(loc *Location) *string {
	if loc == nil {
		return nil
	}
	if loc.JoinURL != "" {
		v := loc.JoinURL
		return &v
	}
	if loc.Location != "" {
		v := loc.Location
		return &v
	}
	return nil
}

func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
