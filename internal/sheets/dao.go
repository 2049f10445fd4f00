package sheets

import (
	"context"
	"fmt"
	"strings"

	sheetsv4 "google.golang.org/api/sheets/v4"
)

const tabPrefix = "event_"

// ExportParticipants replaces the event's tab with header and rows and
// returns a link to it. The tab is created on first export.
func (c *Client) ExportParticipants(ctx context.Context, eventID string, header []string, rows [][]string) (string, error) {
	tab := TabTitle(eventID)

	sheetID, ok, err := c.findSheet(ctx, tab)
	if err != nil {
		return "", err
	}
	if !ok {
		if sheetID, err = c.addSheet(ctx, tab); err != nil {
			return "", err
		}
	}

	if err := c.clear(ctx, tab); err != nil {
		return "", err
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toRow(header))
	for _, r := range rows {
		values = append(values, toRow(r))
	}
	if err := c.writeRows(ctx, tab, values); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", c.spreadsheetID, sheetID), nil
}

func TabTitle(eventID string) string {
	return tabPrefix + slug(eventID)
}

func (c *Client) findSheet(ctx context.Context, title string) (int64, bool, error) {
	ss, err := c.srv.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, false, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func (c *Client) addSheet(ctx context.Context, title string) (int64, error) {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: title},
			},
		}},
	}
	resp, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("add sheet %q: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("add sheet %q: empty reply", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (c *Client) clear(ctx context.Context, sheet string) error {
	_, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, sheet+"!A:Z", &sheetsv4.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) writeRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	vr := &sheetsv4.ValueRange{Values: rows}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	return nil
}

// ---------- helpers ----------

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	b := strings.Builder{}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "event"
	}
	return out
}
