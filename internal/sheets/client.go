package sheets

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

func New(ctx context.Context, serviceAccountJSONPath, spreadsheetID string) (*Client, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	return NewWithOptions(ctx, spreadsheetID,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
}

// NewWithOptions builds a client from explicit API options.
func NewWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (c *Client) SpreadsheetID() string { return c.spreadsheetID }
