package render

import (
	"fmt"
	"strings"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/models"
)

const (
	CbSection       = "d:"
	CbDeleteConfirm = "d:delete_confirm"
	CbDeleteEvent   = "e:del:"
	CbParticipants  = "e:part:"
	CbSheetExport   = "e:sheet:"
)

var sectionCallbacks = map[dashboard.Section]string{
	dashboard.SectionProfile:       "d:profile",
	dashboard.SectionEvents:        "d:events",
	dashboard.SectionDeleteAccount: "d:delete",
}

// SectionCallback is the button data that selects s.
func SectionCallback(s dashboard.Section) string { return sectionCallbacks[s] }

// ParseSectionCallback maps button data back to a section.
func ParseSectionCallback(data string) (dashboard.Section, bool) {
	for s, cb := range sectionCallbacks {
		if cb == data {
			return s, true
		}
	}
	return 0, false
}

// Dashboard renders the menu and the active section. Every section has
// its own branch; an unknown one panics.
func Dashboard(st dashboard.State, image string, opts Options) Screen {
	opts = opts.withDefaults()

	var body Screen
	switch st.Section {
	case dashboard.SectionProfile:
		body = Profile(st.Club, image, opts)
	case dashboard.SectionEvents:
		body = EventList(st.Events, st.EventsLoaded, opts)
	case dashboard.SectionDeleteAccount:
		body = DeleteAccount()
	default:
		panic(fmt.Sprintf("render: unknown section %d", st.Section))
	}

	var b strings.Builder
	b.WriteString("<b>Club Profile</b>\n\n")
	b.WriteString(body.Text)
	if st.Loading {
		b.WriteString("\n\n<i>Loading...</i>")
	}

	menu := make([]Button, 0, len(dashboard.Sections))
	for _, s := range dashboard.Sections {
		label := s.Title()
		if s == st.Section {
			label = "• " + label
		}
		menu = append(menu, Callback(label, SectionCallback(s)))
	}

	rows := append([][]Button{menu}, body.Rows...)
	return Screen{Text: b.String(), Rows: rows}
}

func Profile(club *models.Club, image string, opts Options) Screen {
	if club == nil {
		return Screen{Text: "<i>No profile loaded.</i>"}
	}
	img := orDefault(image, orDefault(club.Image, opts.PlaceholderImage))

	lines := []string{
		fmt.Sprintf(`<a href="%s">&#8205;</a><b>%s</b>`, esc(img), esc(club.Name)),
		"Club Manager",
		esc(orDefault(club.Location, "Unknown Location")),
		"",
		"<b>Club Information</b>",
		field("Club name", club.Name),
		field("Club Email", club.Email),
		field("Affiliated College", club.College.Name),
	}
	return Screen{Text: strings.Join(lines, "\n")}
}

// EventCard is the short projection used in lists: poster link, name, venue.
func EventCard(ev models.Event) string {
	name := esc(orDefault(ev.Name, "Untitled event"))
	if ev.Poster != "" {
		name = fmt.Sprintf(`<a href="%s">%s</a>`, esc(ev.Poster), name)
	}
	if ev.Venue == "" {
		return "<b>" + name + "</b>"
	}
	return fmt.Sprintf("<b>%s</b>\n%s", name, esc(ev.Venue))
}

func EventList(events []models.Event, loaded bool, opts Options) Screen {
	if !loaded {
		return Screen{Text: "<b>Event Details</b>\n\n<i>Events not loaded yet.</i>"}
	}
	if len(events) == 0 {
		return Screen{Text: "<b>Event Details</b>\n\nNo events available."}
	}

	var b strings.Builder
	b.WriteString("<b>Event Details</b>")
	rows := make([][]Button, 0, len(events))
	for i, ev := range events {
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, EventCard(ev))

		row := []Button{}
		if opts.WebBaseURL != "" {
			row = append(row, Link("Edit", opts.WebBaseURL+"/event/edit/"+ev.ID))
		}
		row = append(row,
			Callback("Participants", CbParticipants+ev.ID),
			Callback(fmt.Sprintf("Delete #%d", i+1), CbDeleteEvent+ev.ID),
		)
		rows = append(rows, row)
	}
	return Screen{Text: b.String(), Rows: rows}
}

func DeleteAccount() Screen {
	return Screen{
		Text: "<b>Delete Account</b>\n\nDeleting your account is permanent and cannot be undone.",
		Rows: [][]Button{{Callback("🗑 Delete Account", CbDeleteConfirm)}},
	}
}

func SignedOut() Screen {
	return Screen{Text: "You are signed out. Use /login &lt;userId&gt; &lt;token&gt; to sign in."}
}
