package dto

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/provisionexpertax/taxportal/internal/normalize"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// appointmentDateLayouts are tried in order; layouts without a zone are read as UTC.
var appointmentDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseAppointmentDate coerces the accepted date formats into a timestamp.
func ParseAppointmentDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("must be a valid date")
}

var appointmentDateRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := ParseAppointmentDate(s)
	return err
})

// phoneRule accepts blank input; anything else must parse as a phone number.
var phoneRule = validation.By(func(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v != nil {
			raw = *v
		}
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, err := normalize.Phone(raw, normalize.DefaultPhoneRegion); err != nil {
		return errors.New("must be a valid phone number")
	}
	return nil
})

const (
	minAppointmentMinutes = 1
	maxAppointmentMinutes = 480
)

// durationRule bounds a present duration, zero included.
var durationRule = validation.By(func(value interface{}) error {
	var minutes int
	switch v := value.(type) {
	case int:
		minutes = v
	case *int:
		if v == nil {
			return nil
		}
		minutes = *v
	default:
		return nil
	}
	if minutes < minAppointmentMinutes || minutes > maxAppointmentMinutes {
		return fmt.Errorf("must be between %d and %d minutes", minAppointmentMinutes, maxAppointmentMinutes)
	}
	return nil
})

// notBlank rejects values that are empty after trimming whitespace.
var notBlank = validation.By(func(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

func stringsToAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
