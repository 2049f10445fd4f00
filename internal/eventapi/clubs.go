package eventapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"clubhub-bot/internal/models"
)

func (c *Client) GetClub(ctx context.Context, clubID string) (models.Club, error) {
	const op = "get_club"
	var club models.Club
	if strings.TrimSpace(clubID) == "" {
		return club, &APIError{Op: op, Kind: ErrInvalidInput, Message: "empty club id"}
	}
	if err := c.get(ctx, op, "/api/collegeRep/"+url.PathEscape(clubID), &club); err != nil {
		return models.Club{}, err
	}
	return club, nil
}

// DeleteClub removes the club account. The server cascades to its events.
func (c *Client) DeleteClub(ctx context.Context, clubID string) error {
	const op = "delete_club"
	if strings.TrimSpace(clubID) == "" {
		return &APIError{Op: op, Kind: ErrInvalidInput, Message: "empty club id"}
	}
	return c.send(ctx, op, http.MethodDelete, "/api/college/delete/"+url.PathEscape(clubID), nil, nil)
}
