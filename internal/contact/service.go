// Package contact stores contact form messages and event registrations in
// the local store.
package contact

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/innovation-earth/iepsite/internal/localstore"
	"github.com/innovation-earth/iepsite/internal/logging"
)

// EventDuration is the length assumed for calendar entries.
const EventDuration = 2 * time.Hour

// Service handles contact and registration submissions.
type Service struct {
	local *localstore.Store
	log   logging.Logger
	now   func() time.Time
}

// NewService creates a Service.
func NewService(local *localstore.Store, log logging.Logger) *Service {
	return &Service{
		local: local,
		log:   log.With(logging.String("component", "contact")),
		now:   time.Now,
	}
}

// Submit validates and stores a contact message. All four fields are
// required.
func (s *Service) Submit(ctx context.Context, f SubmissionFields) (*Submission, error) {
	if err := required("name", f.Name, "email", f.Email, "subject", f.Subject, "message", f.Message); err != nil {
		return nil, err
	}
	sub := Submission{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		Subject:     strings.TrimSpace(f.Subject),
		Message:     strings.TrimSpace(f.Message),
		SubmittedAt: s.now().UTC(),
	}
	err := localstore.UpdateList(ctx, s.local, localstore.KeyContactSubmissions, func(items []Submission) []Submission {
		return append(items, sub)
	})
	if err != nil {
		return nil, fmt.Errorf("saving contact submission: %w", err)
	}
	s.log.Info("contact submission stored", logging.String("id", sub.ID))
	return &sub, nil
}

// Submissions returns every stored contact message, oldest first.
func (s *Service) Submissions(ctx context.Context) ([]Submission, error) {
	return localstore.LoadList[Submission](ctx, s.local, localstore.KeyContactSubmissions)
}

// Register validates and stores an event registration. Event, name and
// email are required. The confirmation id is REG-<unix millis>.
func (s *Service) Register(ctx context.Context, f RegistrationFields) (*Registration, error) {
	if err := required("event", f.Event, "name", f.Name, "email", f.Email); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	reg := Registration{
		ConfirmationID: "REG-" + strconv.FormatInt(now.UnixMilli(), 10),
		Event:          strings.TrimSpace(f.Event),
		Name:           strings.TrimSpace(f.Name),
		Email:          strings.TrimSpace(f.Email),
		Phone:          strings.TrimSpace(f.Phone),
		Notes:          strings.TrimSpace(f.Notes),
		Start:          f.Start,
		Location:       strings.TrimSpace(f.Location),
		RegisteredAt:   now,
	}
	err := localstore.UpdateList(ctx, s.local, localstore.KeyEventRegistrations, func(items []Registration) []Registration {
		return append(items, reg)
	})
	if err != nil {
		return nil, fmt.Errorf("saving registration: %w", err)
	}
	s.log.Info("event registration stored",
		logging.String("confirmation_id", reg.ConfirmationID),
		logging.String("event", reg.Event))
	return &reg, nil
}

// Registrations returns every stored registration, oldest first.
func (s *Service) Registrations(ctx context.Context) ([]Registration, error) {
	return localstore.LoadList[Registration](ctx, s.local, localstore.KeyEventRegistrations)
}

// CalendarURL builds a Google Calendar "add event" link for an event
// starting at start and lasting EventDuration.
func CalendarURL(title string, start time.Time, location string) string {
	const layout = "20060102T150405Z"
	begin := start.UTC()
	end := begin.Add(EventDuration)
	details := "Event: " + title + "\nLocation: " + location
	return "https://calendar.google.com/calendar/render?action=TEMPLATE" +
		"&text=" + escape(title) +
		"&dates=" + begin.Format(layout) + "/" + end.Format(layout) +
		"&details=" + escape(details) +
		"&location=" + escape(location)
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
