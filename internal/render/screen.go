// Package render projects dashboard, event and participant state into chat
// screens. Nothing here fetches or mutates.
package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/itlightning/dateparse"
)

// Button is either a callback (Data) or a link (URL).
type Button struct {
	Text string
	Data string
	URL  string
}

// Screen is one message: Telegram HTML text plus an inline keyboard.
type Screen struct {
	Text string
	Rows [][]Button
}

type Options struct {
	DateLayout       string
	Currency         string
	PlaceholderImage string
	WebBaseURL       string
}

func (o Options) withDefaults() Options {
	if o.DateLayout == "" {
		o.DateLayout = "1/2/2006"
	}
	if o.Currency == "" {
		o.Currency = "INR"
	}
	return o
}

func esc(s string) string { return html.EscapeString(s) }

func Callback(text, data string) Button { return Button{Text: text, Data: data} }

func Link(text, url string) Button { return Button{Text: text, URL: url} }

// FormatDate renders a registration date in the short local form. Values
// that do not parse are shown as sent.
func FormatDate(raw, layout string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format(layout)
}

// FormatTimestamp is used for registration creation times.
func FormatTimestamp(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func FormatPrice(price float64, currency string) string {
	return fmt.Sprintf("%v %s", price, currency)
}

// TagChips returns the chip labels in display order.
func TagChips(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func chipLine(tags []string) string {
	chips := TagChips(tags)
	parts := make([]string, len(chips))
	for i, c := range chips {
		parts[i] = "<code>" + esc(c) + "</code>"
	}
	return strings.Join(parts, " ")
}

// DescriptionText flattens the rich-text description to plain lines.
func DescriptionText(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return src
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("• ")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, blockquote, tr").AppendHtml("\n")

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return fmt.Sprintf("%s: <b>%s</b>", label, esc(value))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
