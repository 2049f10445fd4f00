package render

import (
	"fmt"
	"strings"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/eventview"
	"clubhub-bot/internal/models"
)

const (
	CbRegister = "v:reg:"
	CbRetry    = "v:retry:"
	CbNext     = "v:next:"
	CbPrev     = "v:prev:"
	CbClose    = "v:close:"
)

// EventBlocks lays out every event field as page-sized blocks, in the order
// the detail page shows them.
func EventBlocks(ev models.Event, opts Options) []string {
	opts = opts.withDefaults()
	blocks := []string{}

	head := "<b>" + esc(ev.Name) + "</b>"
	if ev.Poster != "" {
		head = fmt.Sprintf(`<a href="%s">&#8205;</a>%s`, esc(ev.Poster), head)
	}
	blocks = append(blocks, head)

	if desc := DescriptionText(ev.Description); desc != "" {
		blocks = append(blocks, "<b>Event Description</b>\n"+esc(desc))
	}

	blocks = append(blocks,
		strings.Join([]string{
			"<b>Event Mode &amp; Venue</b>",
			field("Mode", ev.Mode),
			field("Venue", ev.Venue),
		}, "\n"),
		strings.Join([]string{
			"<b>Registration Details</b>",
			field("Registration Starts", FormatDate(ev.RegistrationStartDate, opts.DateLayout)),
			field("Registration Ends", FormatDate(ev.RegistrationEndDate, opts.DateLayout)),
			field("Price", FormatPrice(ev.Price, opts.Currency)),
		}, "\n"),
	)

	if chips := chipLine(ev.Tags); chips != "" {
		blocks = append(blocks, "<b>Tags</b>\n"+chips)
	}

	blocks = append(blocks,
		strings.Join([]string{
			"<b>Timings</b>",
			field("Start Time", ev.StartTime),
			field("End Time", ev.EndTime),
		}, "\n"),
		strings.Join([]string{
			"<b>Contacts</b>",
			field("Email", ev.ContactEmail),
			field("Phone Number", ev.ContactPhone),
		}, "\n"),
	)
	return blocks
}

// EventLayout adapts EventBlocks to the detail view's pagination.
func EventLayout(opts Options, pageChars int) eventview.Layout {
	return func(ev models.Event) []string {
		return eventview.Paginate(EventBlocks(ev, opts), pageChars)
	}
}

const footer = "<i>ClubHub · discover events by clubs near you</i>"

func EventDetail(v *eventview.View) Screen {
	id := v.EventID()
	closeRow := []Button{Callback("✖ Close", CbClose+id)}

	switch v.Phase() {
	case eventview.PhaseLoading:
		return Screen{Text: "<i>Loading event details...</i>", Rows: [][]Button{closeRow}}
	case eventview.PhaseFailed:
		return Screen{
			Text: "Could not load this event: " + esc(dashboard.Reason(v.Err())),
			Rows: [][]Button{{Callback("↻ Retry", CbRetry+id)}, closeRow},
		}
	case eventview.PhaseLoaded:
	default:
		panic(fmt.Sprintf("render: unknown phase %d", v.Phase()))
	}

	p := v.Pager()
	text := p.Current()
	if p.Len() > 1 {
		text += fmt.Sprintf("\n\n<i>Page %d/%d</i>", p.Index()+1, p.Len())
	}
	if v.FooterVisible() {
		text += "\n\n" + footer
	}

	rows := [][]Button{}
	nav := []Button{}
	if p.Index() > 0 {
		nav = append(nav, Callback("◀ Back", CbPrev+id))
	}
	if p.Index()+1 < p.Len() {
		nav = append(nav, Callback("More ▶", CbNext+id))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []Button{Callback("Register for Event", CbRegister+id)}, closeRow)
	return Screen{Text: text, Rows: rows}
}
