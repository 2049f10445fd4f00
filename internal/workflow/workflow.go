// Package workflow runs the mutations a user can trigger: delete event,
// delete account and register for event. Each one reports a tagged Outcome
// and a notice; none of them return errors to the caller.
package workflow

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/eventapi"
	"clubhub-bot/internal/loop"
	"clubhub-bot/internal/metrics"
	"clubhub-bot/internal/models"
	"clubhub-bot/internal/notify"
	"clubhub-bot/internal/session"
)

const (
	NameDeleteEvent   = "delete_event"
	NameDeleteAccount = "delete_account"
	NameRegister      = "register"
)

type Status int

const (
	Succeeded Status = iota
	Failed
	// Refused means a precondition did not hold and no request was sent.
	Refused
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Refused:
		return "refused"
	default:
		return "unknown"
	}
}

var (
	ErrInFlight       = errors.New("already in progress")
	ErrNotConfirmed   = errors.New("delete account section not active")
	ErrMissingEventID = errors.New("event id required")
)

type Outcome struct {
	Workflow     string
	Status       Status
	Err          error
	Registration *models.Registration
}

func (o Outcome) OK() bool { return o.Status == Succeeded }

type Store interface {
	DeleteEvent(ctx context.Context, id string) error
	DeleteClub(ctx context.Context, clubID string) error
	RegisterForEvent(ctx context.Context, eventID, userID string) (models.Registration, error)
}

// Dashboard is the part of the section controller the workflows drive.
type Dashboard interface {
	State() dashboard.State
	ReloadEvents()
}

type Runner struct {
	sess     *session.Session
	store    Store
	loop     *loop.Loop
	notifier notify.Notifier
	log      *logrus.Entry

	busy map[string]bool
}

func New(sess *session.Session, store Store, lp *loop.Loop, n notify.Notifier, log *logrus.Entry) *Runner {
	return &Runner{
		sess:     sess,
		store:    store,
		loop:     lp,
		notifier: n,
		log:      log.WithField("component", "workflow"),
		busy:     map[string]bool{},
	}
}

// Busy reports whether a workflow for key is waiting on the server.
func (r *Runner) Busy(workflow, id string) bool {
	return r.busy[workflow+":"+id]
}

// begin claims key for one in-flight run. It refuses a second submit.
func (r *Runner) begin(workflow, id string, done func(Outcome)) bool {
	key := workflow + ":" + id
	if r.busy[key] {
		r.notifier.Notify(notify.Notice{Level: notify.Info, Text: "Still working on your previous request..."})
		r.finish(done, Outcome{Workflow: workflow, Status: Refused, Err: ErrInFlight})
		return false
	}
	r.busy[key] = true
	return true
}

func (r *Runner) end(workflow, id string) {
	delete(r.busy, workflow+":"+id)
}

func (r *Runner) refuse(workflow string, err error, done func(Outcome)) {
	r.log.WithField("workflow", workflow).WithError(err).Info("workflow refused")
	r.notifier.Notify(notify.Errorf("%s", refusalText(err)))
	r.finish(done, Outcome{Workflow: workflow, Status: Refused, Err: err})
}

func (r *Runner) finish(done func(Outcome), o Outcome) {
	if o.Status != Refused {
		metrics.ObserveWorkflow(o.Workflow, o.OK())
	}
	if done != nil {
		done(o)
	}
}

func refusalText(err error) string {
	switch {
	case errors.Is(err, session.ErrMissingIdentity):
		return "Please sign in with /login first."
	case errors.Is(err, ErrNotConfirmed):
		return "Open the Delete Account section to confirm first."
	case errors.Is(err, ErrMissingEventID):
		return "No event selected."
	default:
		return err.Error()
	}
}

func failure(workflow string, err error) Outcome {
	return Outcome{Workflow: workflow, Status: Failed, Err: err}
}

func isAlreadyRegistered(err error) bool {
	return errors.Is(err, eventapi.ErrAlreadyRegistered)
}
