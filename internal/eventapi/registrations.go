package eventapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"clubhub-bot/internal/models"
)

func (c *Client) RegisterForEvent(ctx context.Context, eventID, userID string) (models.Registration, error) {
	const op = "register"
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(userID) == "" {
		return models.Registration{}, &APIError{Op: op, Kind: ErrInvalidInput, Message: "event id and user id required"}
	}
	body := struct {
		UserID string `json:"userId"`
	}{UserID: userID}
	var reply struct {
		Registration models.Registration `json:"registration"`
	}
	if err := c.send(ctx, op, http.MethodPost, "/api/event/register/"+url.PathEscape(eventID), body, &reply); err != nil {
		return models.Registration{}, err
	}
	reg := reply.Registration
	if reg.EventID == "" {
		reg.EventID = eventID
	}
	if reg.UserID == "" {
		reg.UserID = userID
	}
	return reg, nil
}

func (c *Client) ListParticipants(ctx context.Context, eventID string) ([]models.Registration, error) {
	const op = "list_participants"
	if strings.TrimSpace(eventID) == "" {
		return nil, &APIError{Op: op, Kind: ErrInvalidInput, Message: "empty event id"}
	}
	var reply struct {
		Participants []models.Registration `json:"participants"`
	}
	if err := c.get(ctx, op, "/api/event/participants/"+url.PathEscape(eventID), &reply); err != nil {
		return nil, err
	}
	if reply.Participants == nil {
		return []models.Registration{}, nil
	}
	return reply.Participants, nil
}
