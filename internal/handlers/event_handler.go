package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/services"
)

type EventAPI interface {
	Create(ctx context.Context, in services.CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, id string, in services.UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params map[string]string) (*services.EventList, error)
	GetByID(ctx context.Context, id string) (*services.EventWithStatus, error)
}

type EventHandler struct {
	svc      EventAPI
	maxBytes int
}

func NewEventHandler(svc EventAPI, maxBytes int) *EventHandler {
	return &EventHandler{svc: svc, maxBytes: maxBytes}
}

// GET /api/events
func (h *EventHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": list.Results,
		"data": fiber.Map{
			"events":     list.Events,
			"pagination": list.Pagination,
		},
	})
}

// GET /api/events/:id
func (h *EventHandler) GetByID(c *fiber.Ctx) error {
	e, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, e)
}

// POST /api/events (multipart, optional file field "image")
func (h *EventHandler) Create(c *fiber.Ctx) error {
	file, fileType, err := formFile(c, "image", h.maxBytes)
	if err != nil {
		return err
	}
	in := services.CreateEventInput{
		Title:       c.FormValue("title"),
		Date:        c.FormValue("date"),
		Time:        c.FormValue("time"),
		Venue:       c.FormValue("venue"),
		Description: c.FormValue("description"),
		TicketLink:  c.FormValue("ticketLink"),
		YouTubeLink: c.FormValue("youtubeLink"),
		File:        file,
		FileType:    fileType,
	}
	e, err := h.svc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusCreated, e)
}

type updateEventBody struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Venue       *string `json:"venue"`
	Description *string `json:"description"`
	TicketLink  *string `json:"ticketLink"`
	YouTubeLink *string `json:"youtubeLink"`
}

// PATCH /api/events/:id — accepts JSON for field updates or multipart
// when the media file is being replaced.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	var in services.UpdateEventInput

	ct := string(c.Request().Header.ContentType())
	if strings.HasPrefix(ct, fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
		}
		get := func(key string) *string {
			if vs, ok := form.Value[key]; ok && len(vs) > 0 {
				v := vs[0]
				return &v
			}
			return nil
		}
		in.Title = get("title")
		in.Date = get("date")
		in.Time = get("time")
		in.Venue = get("venue")
		in.Description = get("description")
		in.TicketLink = get("ticketLink")
		in.YouTubeLink = get("youtubeLink")

		file, fileType, err := formFile(c, "image", h.maxBytes)
		if err != nil {
			return err
		}
		in.File = file
		in.FileType = fileType
	} else {
		var body updateEventBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		in.Title = body.Title
		in.Date = body.Date
		in.Time = body.Time
		in.Venue = body.Venue
		in.Description = body.Description
		in.TicketLink = body.TicketLink
		in.YouTubeLink = body.YouTubeLink
	}

	e, err := h.svc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, e)
}

// DELETE /api/events/:id
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
