// Package calendly reads scheduled events from the Calendly v2 API.
package calendly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Calendly API root.
const DefaultBaseURL = "https://api.calendly.com"

const maxEventPages = 10

// ErrNotConfigured is returned when no API token was provided.
var ErrNotConfigured = errors.New("calendly integration is not configured")

// APIError is a non-2xx answer from Calendly.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendly api error: %d %s", e.StatusCode, e.Message)
}

// User is the account that owns the API token.
type User struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	SchedulingURL string `json:"scheduling_url"`
	Timezone      string `json:"timezone"`
}

// Location describes where an event takes place.
type Location struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	JoinURL  string `json:"join_url"`
}

// Event is a scheduled event.
type Event struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	EventType string    `json:"event_type"`
	Location  *Location `json:"location"`
}

// Invitee is a person booked onto an event.
type Invitee struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

type pagination struct {
	NextPage string `json:"next_page"`
}

// Client calls the Calendly API with a personal access token.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewClient builds a client. An empty token yields a client whose calls
// return ErrNotConfigured.
func NewClient(client *http.Client, baseURL, token string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/"), token: strings.TrimSpace(token)}
}

// Configured reports whether a token is present.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// CurrentUser returns the token owner.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var payload struct {
		Resource User `json:"resource"`
	}
	if err := c.get(ctx, c.baseURL+"/users/me", &payload); err != nil {
		return nil, err
	}
	return &payload.Resource, nil
}

// ScheduledEvents lists the user's events ordered by start time, following
// pagination links.
func (c *Client) ScheduledEvents(ctx context.Context, userURI string) ([]Event, error) {
	query := url.Values{}
	query.Set("user", userURI)
	query.Set("sort", "start_time:asc")
	next := c.baseURL + "/scheduled_events?" + query.Encode()

	events := make([]Event, 0)
	for page := 0; next != "" && page < maxEventPages; page++ {
		var payload struct {
			Collection []Event    `json:"collection"`
			Pagination pagination `json:"pagination"`
		}
		if err := c.get(ctx, next, &payload); err != nil {
			return nil, err
		}
		events = append(events, payload.Collection...)
		next = payload.Pagination.NextPage
	}
	return events, nil
}

// Events resolves the current user and lists their scheduled events.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return c.ScheduledEvents(ctx, user.URI)
}

// Invitees lists the people booked onto an event.
func (c *Client) Invitees(ctx context.Context, eventID string) ([]Invitee, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" || strings.Contains(eventID, "/") {
		return nil, fmt.Errorf("invalid event id %q", eventID)
	}
	var payload struct {
		Collection []Invitee `json:"collection"`
	}
	if err := c.get(ctx, c.baseURL+"/scheduled_events/"+url.PathEscape(eventID)+"/invitees", &payload); err != nil {
		return nil, err
	}
	if payload.Collection == nil {
		payload.Collection = []Invitee{}
	}
	return payload.Collection, nil
}

func (c *Client) get(ctx context.Context, target string, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create calendly request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendly request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractError(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("could not decode calendly response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "calendly returned an error"
	}
	var payload struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Title != "" {
			return payload.Title
		}
	}
	return strings.TrimSpace(string(data))
}
