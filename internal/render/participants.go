package render

import (
	"fmt"
	"strings"

	"clubhub-bot/internal/models"
)

const maxListedParticipants = 50

// Participants lists registrations for one event with its export links.
// csvURL is empty when no export link can be offered.
func Participants(eventID string, regs []models.Registration, csvURL string, sheets bool, opts Options) Screen {
	opts = opts.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Participants</b> (%d)", len(regs))
	if len(regs) == 0 {
		b.WriteString("\n\nNo registrations yet.")
	}
	for i, r := range regs {
		if i == maxListedParticipants {
			fmt.Fprintf(&b, "\n... and %d more", len(regs)-i)
			break
		}
		name := orDefault(r.Name, r.UserID)
		fmt.Fprintf(&b, "\n%d. %s", i+1, esc(name))
		if r.Email != "" {
			fmt.Fprintf(&b, " · %s", esc(r.Email))
		}
		if ts := FormatTimestamp(r.CreatedAt, opts.DateLayout); ts != "" {
			fmt.Fprintf(&b, " · %s", ts)
		}
	}

	var rows [][]Button
	export := []Button{}
	if csvURL != "" && len(regs) > 0 {
		export = append(export, Link("⬇ CSV", csvURL))
	}
	if sheets && len(regs) > 0 {
		export = append(export, Callback("📄 Google Sheets", CbSheetExport+eventID))
	}
	if len(export) > 0 {
		rows = append(rows, export)
	}
	return Screen{Text: b.String(), Rows: rows}
}
