package workflow

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/notify"
)

// Register signs the session user up for an event. A second tap while the
// first request is pending is refused; a repeat after it finished is left
// to the server, which answers 409.
func (r *Runner) Register(ctx context.Context, eventID string, done func(Outcome)) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		r.refuse(NameRegister, ErrMissingEventID, done)
		return
	}
	userID, err := r.sess.Identity()
	if err != nil {
		r.refuse(NameRegister, err, done)
		return
	}
	if !r.begin(NameRegister, eventID, done) {
		return
	}

	log := r.log.WithFields(logrus.Fields{"workflow": NameRegister, "event_id": eventID})
	store := r.store
	r.loop.Go(ctx, func(ctx context.Context) func() {
		reg, err := store.RegisterForEvent(ctx, eventID, userID)
		return func() {
			r.end(NameRegister, eventID)
			switch {
			case isAlreadyRegistered(err):
				log.Info("already registered")
				r.notifier.Notify(notify.Errorf("You are already registered for this event."))
				r.finish(done, failure(NameRegister, err))
			case err != nil:
				log.WithError(err).Warn("registration failed")
				r.notifier.Notify(notify.Errorf("Registration failed: %s", dashboard.Reason(err)))
				r.finish(done, failure(NameRegister, err))
			default:
				log.WithField("registration_id", reg.ID).Info("registered")
				r.notifier.Notify(notify.Successf("You are registered!"))
				r.finish(done, Outcome{Workflow: NameRegister, Status: Succeeded, Registration: &reg})
			}
		}
	})
}
