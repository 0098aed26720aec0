package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Felixnganga-max/kamson/internal/apperr"
	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/repository"
	"github.com/Felixnganga-max/kamson/internal/storage"
)

// DefaultEventImage is the placeholder used when an event has no media
// of its own; it is never deleted from the CDN.
const DefaultEventImage = "https://example.com/default-event.jpg"

type EventRepository interface {
	Insert(ctx context.Context, e *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, q *repository.EventQuery) ([]models.Event, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	MarkPastEvents(ctx context.Context, now time.Time) (int64, error)
}

type EventService struct {
	repo   EventRepository
	store  storage.Uploader
	folder string
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewEventService(repo EventRepository, store storage.Uploader, folder string, log *zap.SugaredLogger) *EventService {
	return &EventService{repo: repo, store: store, folder: folder, log: log, now: time.Now}
}

type CreateEventInput struct {
	Title       string
	Date        string
	Time        string
	Venue       string
	Description string
	TicketLink  string
	YouTubeLink string
	File        []byte
	FileType    string
}

type UpdateEventInput struct {
	Title       *string
	Date        *string
	Time        *string
	Venue       *string
	Description *string
	TicketLink  *string
	YouTubeLink *string
	File        []byte
	FileType    string
}

// EventWithStatus decorates a stored event with its read-time display
// status.
type EventWithStatus struct {
	models.Event
	CurrentStatus string `json:"currentStatus"`
}

type Pagination struct {
	CurrentPage  int64 `json:"currentPage"`
	ItemsPerPage int64 `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
}

type GroupedEvents struct {
	Upcoming       []EventWithStatus `json:"upcoming"`
	HappeningToday []EventWithStatus `json:"happeningToday"`
	Past           []EventWithStatus `json:"past"`
}

type EventList struct {
	Results    int
	Events     GroupedEvents
	Pagination Pagination
}

// Create validates the input, uploads the attached media if any, and
// writes the event. An upload failure aborts the whole operation so no
// record ever points at media that was never stored.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	missing := map[string]any{}
	for field, val := range map[string]string{
		"title":       in.Title,
		"date":        in.Date,
		"time":        in.Time,
		"venue":       in.Venue,
		"description": in.Description,
	} {
		if val == "" {
			missing[field] = true
		}
	}
	if len(missing) > 0 {
		return nil, apperr.BadRequest("Missing required fields").
			WithDetails(map[string]any{"missingFields": missing})
	}

	date, err := parseEventDate(in.Date)
	if err != nil {
		return nil, apperr.BadRequest("Invalid date format")
	}

	mediaURL := DefaultEventImage
	if len(in.File) > 0 {
		mediaURL, err = s.store.Upload(ctx, in.File, in.FileType, s.folder)
		if err != nil {
			s.log.Errorw("media upload failed", "error", err)
			return nil, apperr.Internal("Media upload failed", err)
		}
	}

	e := &models.Event{
		Title:       in.Title,
		Date:        date,
		Time:        in.Time,
		Venue:       in.Venue,
		Description: in.Description,
		TicketLink:  in.TicketLink,
		YouTubeLink: in.YouTubeLink,
		Image:       mediaURL,
	}
	e.Stamp(s.now())

	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	return e, nil
}

// Update loads the event, optionally replaces its media and applies the
// supplied fields. Deleting the replaced asset is best effort: a CDN
// failure is logged and the update proceeds.
func (s *EventService) Update(ctx context.Context, id string, in UpdateEventInput) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("Invalid event ID format")
	}
	e, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, apperr.Internal("Internal server error", err)
	}

	if len(in.File) > 0 {
		if e.Image != "" && e.Image != DefaultEventImage {
			if err := s.store.Delete(ctx, e.Image); err != nil {
				s.log.Warnw("could not delete replaced media", "url", e.Image, "error", err)
			}
		}
		url, err := s.store.Upload(ctx, in.File, in.FileType, s.folder)
		if err != nil {
			// keep the existing image rather than failing the update
			s.log.Errorw("replacement media upload failed", "error", err)
		} else {
			e.Image = url
		}
	}

	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Date != nil {
		date, err := parseEventDate(*in.Date)
		if err != nil {
			return nil, apperr.BadRequest("Invalid date format")
		}
		e.Date = date
	}
	if in.Time != nil {
		e.Time = *in.Time
	}
	if in.Venue != nil {
		e.Venue = *in.Venue
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.TicketLink != nil {
		e.TicketLink = *in.TicketLink
	}
	if in.YouTubeLink != nil {
		e.YouTubeLink = *in.YouTubeLink
	}
	e.Stamp(s.now())

	if err := s.repo.Update(ctx, e); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, apperr.Internal("Internal server error", err)
	}
	return e, nil
}

// Delete removes the event record; its CDN asset is cleaned up first,
// best effort, unless it is the default placeholder. Record consistency
// wins over storage cleanup completeness.
func (s *EventService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("Invalid event ID format")
	}
	e, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("Event not found")
		}
		return apperr.Internal("Internal server error", err)
	}

	if e.Image != "" && e.Image != DefaultEventImage {
		if err := s.store.Delete(ctx, e.Image); err != nil {
			s.log.Warnw("could not delete event media", "url", e.Image, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("Event not found")
		}
		return apperr.Internal("Internal server error", err)
	}
	return nil
}

// List runs the filtered, sorted, paginated query and buckets the page
// by the status each event has right now.
func (s *EventService) List(ctx context.Context, params map[string]string) (*EventList, error) {
	q, err := repository.BuildEventQuery(params)
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	events, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}

	now := s.now()
	grouped := GroupedEvents{
		Upcoming:       []EventWithStatus{},
		HappeningToday: []EventWithStatus{},
		Past:           []EventWithStatus{},
	}
	for _, e := range events {
		ews := EventWithStatus{Event: e, CurrentStatus: e.DisplayStatus(now)}
		switch ews.CurrentStatus {
		case models.StatusHappeningToday:
			grouped.HappeningToday = append(grouped.HappeningToday, ews)
		case models.EventTypePast:
			grouped.Past = append(grouped.Past, ews)
		default:
			grouped.Upcoming = append(grouped.Upcoming, ews)
		}
	}

	return &EventList{
		Results: len(events),
		Events:  grouped,
		Pagination: Pagination{
			CurrentPage:  q.Page,
			ItemsPerPage: q.Limit,
			TotalItems:   total,
		},
	}, nil
}

// GetByID validates the identifier before touching the store, so a
// malformed id is a 400 rather than a storage error.
func (s *EventService) GetByID(ctx context.Context, id string) (*EventWithStatus, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("Invalid event ID format")
	}
	e, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.NotFound("No event found with that ID")
		}
		return nil, apperr.Internal("Internal server error", err)
	}
	return &EventWithStatus{Event: *e, CurrentStatus: e.DisplayStatus(s.now())}, nil
}

// MarkPast is the bulk sweep refreshing the stored eventType hint.
func (s *EventService) MarkPast(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkPastEvents(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark past events: %w", err)
	}
	return n, nil
}

func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
