package eventapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"clubhub-bot/internal/models"
)

func (c *Client) GetEvent(ctx context.Context, id string) (models.Event, error) {
	const op = "get_event"
	var ev models.Event
	if strings.TrimSpace(id) == "" {
		return ev, &APIError{Op: op, Kind: ErrInvalidInput, Message: "empty event id"}
	}
	if err := c.get(ctx, op, "/api/event/"+url.PathEscape(id), &ev); err != nil {
		return models.Event{}, err
	}
	if ev.Tags == nil {
		ev.Tags = models.Tags{}
	}
	return ev, nil
}

// ListEventsForClub returns the events owned by clubID in server order.
// The result is never nil.
func (c *Client) ListEventsForClub(ctx context.Context, clubID string) ([]models.Event, error) {
	const op = "list_events"
	if strings.TrimSpace(clubID) == "" {
		return nil, &APIError{Op: op, Kind: ErrInvalidInput, Message: "empty club id"}
	}
	var reply struct {
		Events []models.Event `json:"events"`
	}
	if err := c.get(ctx, op, "/api/collegeRep/events/"+url.PathEscape(clubID), &reply); err != nil {
		return nil, err
	}
	if reply.Events == nil {
		return []models.Event{}, nil
	}
	return reply.Events, nil
}

// DeleteEvent succeeds only when the server answers with res == "ok".
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	const op = "delete_event"
	if strings.TrimSpace(id) == "" {
		return &APIError{Op: op, Kind: ErrInvalidInput, Message: "empty event id"}
	}
	var reply struct {
		Res string `json:"res"`
	}
	if err := c.send(ctx, op, http.MethodDelete, "/api/collegeRep/delete/"+url.PathEscape(id), nil, &reply); err != nil {
		return err
	}
	if reply.Res != "ok" {
		return &APIError{Op: op, Status: http.StatusOK, Kind: ErrServerRejected, Message: "missing ok marker"}
	}
	return nil
}
