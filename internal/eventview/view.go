// Package eventview holds the state of one open event detail page: its
// fetch, its error state with retry, its pages and its footer tracker.
package eventview

import (
	"context"

	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/loop"
	"clubhub-bot/internal/metrics"
	"clubhub-bot/internal/models"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Fetcher interface {
	GetEvent(ctx context.Context, id string) (models.Event, error)
}

// Layout turns a loaded event into page sized text.
type Layout func(models.Event) []string

type View struct {
	eventID  string
	fetcher  Fetcher
	loop     *loop.Loop
	layout   Layout
	log      *logrus.Entry
	onChange func()

	phase  Phase
	event  models.Event
	err    error
	pager  *Pager
	footer *FooterTracker

	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// Open mounts a view for eventID and starts fetching it.
func Open(eventID string, f Fetcher, lp *loop.Loop, layout Layout, log *logrus.Entry, onChange func()) *View {
	if onChange == nil {
		onChange = func() {}
	}
	v := &View{
		eventID:  eventID,
		fetcher:  f,
		loop:     lp,
		layout:   layout,
		log:      log.WithFields(logrus.Fields{"component": "eventview", "event_id": eventID}),
		onChange: onChange,
		pager:    NewPager(),
	}
	v.footer = TrackFooter(v.pager)
	v.fetch()
	return v
}

func (v *View) EventID() string     { return v.eventID }
func (v *View) Phase() Phase        { return v.phase }
func (v *View) Event() models.Event { return v.event }
func (v *View) Err() error          { return v.err }
func (v *View) Pager() *Pager       { return v.pager }
func (v *View) FooterVisible() bool { return v.footer.Visible() }
func (v *View) Closed() bool        { return v.closed }

// Retry refetches after a failure. It does nothing in any other phase.
func (v *View) Retry() {
	if v.closed || v.phase != PhaseFailed {
		return
	}
	v.fetch()
	v.onChange()
}

func (v *View) Next() {
	if !v.closed && v.pager.Next() {
		v.onChange()
	}
}

func (v *View) Prev() {
	if !v.closed && v.pager.Prev() {
		v.onChange()
	}
}

// Close unmounts the view: the fetch is cancelled, a late result is
// ignored and the footer tracker unsubscribes.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.gen++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.footer.Stop()
}

func (v *View) fetch() {
	v.gen++
	gen := v.gen
	v.phase = PhaseLoading
	v.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	fetcher, id := v.fetcher, v.eventID
	v.loop.Go(ctx, func(ctx context.Context) func() {
		ev, err := fetcher.GetEvent(ctx, id)
		return func() { v.apply(gen, ev, err) }
	})
}

func (v *View) apply(gen uint64, ev models.Event, err error) {
	if gen != v.gen || v.closed {
		metrics.StaleResponse("event")
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if err != nil {
		v.log.WithError(err).Warn("failed to fetch event")
		v.phase = PhaseFailed
		v.err = err
		v.onChange()
		return
	}
	v.phase = PhaseLoaded
	v.event = ev
	v.pager.SetPages(v.layout(ev))
	v.onChange()
}
