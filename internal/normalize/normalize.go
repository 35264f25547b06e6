// Package normalize canonicalizes contact details before they are stored.
package normalize

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace    = regexp.MustCompile(`\s+`)
	slugDashes   = regexp.MustCompile(`-+`)
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "US"

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// Email lowercases the address and converts an internationalized domain to
// its ASCII form.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || !isDomainValid(domain) {
		return "", ErrInvalidEmail
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", ErrInvalidEmail
	}
	email = local + "@" + strings.ToLower(asciiDomain)
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Phone parses raw in the given region and returns the E.164 form.
func Phone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// OptionalPhone normalizes a phone pointer. Nil and blank input yield nil.
func OptionalPhone(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	phone, err := Phone(*raw, DefaultPhoneRegion)
	if err != nil {
		return nil, err
	}
	return &phone, nil
}

// OptionalText trims s and returns nil when nothing is left.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Slug derives a URL slug from a title: lowercase, punctuation dropped,
// whitespace runs turned into single hyphens.
func Slug(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	cleaned := slugStrip.ReplaceAllString(lower, "")
	hyphenated := slugSpace.ReplaceAllString(cleaned, "-")
	return strings.Trim(slugDashes.ReplaceAllString(hyphenated, "-"), "-")
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
