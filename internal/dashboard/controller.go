package dashboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/eventapi"
	"clubhub-bot/internal/loop"
	"clubhub-bot/internal/metrics"
	"clubhub-bot/internal/models"
	"clubhub-bot/internal/notify"
	"clubhub-bot/internal/session"
)

type Store interface {
	GetClub(ctx context.Context, clubID string) (models.Club, error)
	ListEventsForClub(ctx context.Context, clubID string) ([]models.Event, error)
}

// State is what the dashboard renders from. Club and Events keep the last
// successfully loaded data; a failed fetch leaves them as they were.
type State struct {
	Section Section
	Loading bool

	Club         *models.Club
	Events       []models.Event
	EventsLoaded bool
}

// Controller owns the active section and its data. All methods and
// continuations run on the loop goroutine.
type Controller struct {
	sess     *session.Session
	store    Store
	loop     *loop.Loop
	notifier notify.Notifier
	log      *logrus.Entry
	onChange func(State)

	state  State
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

func New(sess *session.Session, store Store, lp *loop.Loop, n notify.Notifier, log *logrus.Entry, onChange func(State)) *Controller {
	if onChange == nil {
		onChange = func(State) {}
	}
	return &Controller{
		sess:     sess,
		store:    store,
		loop:     lp,
		notifier: n,
		log:      log.WithField("component", "dashboard"),
		onChange: onChange,
		state:    State{Section: SectionProfile},
	}
}

func (c *Controller) State() State { return c.state }

// Select switches sections immediately and starts the fetch the section
// needs. Re-selecting the active section fetches again.
func (c *Controller) Select(s Section) {
	if c.closed {
		return
	}
	gen := c.supersede()
	c.state.Section = s
	c.state.Loading = false

	switch s {
	case SectionProfile:
		c.fetchProfile(gen)
	case SectionEvents:
		c.fetchEvents(gen)
	case SectionDeleteAccount:
	default:
		panic("dashboard: unknown section")
	}
	c.onChange(c.state)
}

// ReloadEvents re-fetches the authoritative event list after a mutation.
// While another section is showing, the list is only marked stale and
// entering events fetches it again; the active section never changes.
func (c *Controller) ReloadEvents() {
	if c.closed {
		return
	}
	if c.state.Section == SectionEvents {
		c.Select(SectionEvents)
		return
	}
	c.state.Events = nil
	c.state.EventsLoaded = false
}

// Close cancels any fetch in flight. Late results are dropped.
func (c *Controller) Close() {
	c.supersede()
	c.closed = true
}

func (c *Controller) supersede() uint64 {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	return c.gen
}

func (c *Controller) identity() (string, bool) {
	id, err := c.sess.Identity()
	if err != nil {
		c.log.WithError(err).Info("fetch skipped")
		c.notifier.Notify(notify.Errorf("Please sign in with /login first."))
		return "", false
	}
	return id, true
}

func (c *Controller) start() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state.Loading = true
	return ctx
}

func (c *Controller) fetchProfile(gen uint64) {
	clubID, ok := c.identity()
	if !ok {
		return
	}
	store := c.store
	c.loop.Go(c.start(), func(ctx context.Context) func() {
		club, err := store.GetClub(ctx, clubID)
		return func() { c.applyProfile(gen, club, err) }
	})
}

func (c *Controller) fetchEvents(gen uint64) {
	clubID, ok := c.identity()
	if !ok {
		return
	}
	store := c.store
	c.loop.Go(c.start(), func(ctx context.Context) func() {
		events, err := store.ListEventsForClub(ctx, clubID)
		return func() { c.applyEvents(gen, events, err) }
	})
}

// current reports whether a response for gen may still be applied.
func (c *Controller) current(gen uint64, target string) bool {
	if gen == c.gen && !c.closed {
		return true
	}
	metrics.StaleResponse(target)
	c.log.WithFields(logrus.Fields{"target": target, "gen": gen, "current": c.gen}).Debug("stale response dropped")
	return false
}

func (c *Controller) applyProfile(gen uint64, club models.Club, err error) {
	if !c.current(gen, "profile") {
		return
	}
	c.finish()
	if err != nil {
		c.fail("Could not load profile", err)
	} else {
		c.state.Club = &club
	}
	c.onChange(c.state)
}

func (c *Controller) applyEvents(gen uint64, events []models.Event, err error) {
	if !c.current(gen, "events") {
		return
	}
	c.finish()
	if err != nil {
		c.fail("Could not load events", err)
	} else {
		c.state.Events = events
		c.state.EventsLoaded = true
	}
	c.onChange(c.state)
}

func (c *Controller) finish() {
	c.state.Loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) fail(what string, err error) {
	c.log.WithError(err).Warn(what)
	c.notifier.Notify(notify.Errorf("%s: %s", what, Reason(err)))
}

// Reason turns an API error into a short user-facing phrase.
func Reason(err error) string {
	var apiErr *eventapi.APIError
	switch {
	case errors.Is(err, session.ErrMissingIdentity):
		return "you are not signed in"
	case errors.Is(err, eventapi.ErrNotFound):
		return "not found"
	case errors.Is(err, eventapi.ErrAlreadyRegistered):
		return "already registered"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, eventapi.ErrServerRejected):
		return "rejected by server"
	default:
		return "network error, try again"
	}
}
