// Package export turns an event's registrations into tabular rows for the
// CSV download and the Google Sheets tab.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"clubhub-bot/internal/models"
)

var Header = []string{"registration_id", "user_id", "name", "email", "registered_at"}

func Rows(regs []models.Registration) [][]string {
	rows := make([][]string, 0, len(regs))
	for _, r := range regs {
		at := ""
		if !r.CreatedAt.IsZero() {
			at = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{r.ID, r.UserID, r.Name, r.Email, at})
	}
	return rows
}

// CSV renders Header followed by one line per registration.
func CSV(regs []models.Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(Rows(regs)); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
