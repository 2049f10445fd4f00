package workflow

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/notify"
)

// DeleteEvent removes one event and then re-fetches the event list. On
// failure the dashboard is left exactly as it was.
func (r *Runner) DeleteEvent(ctx context.Context, dash Dashboard, eventID string, done func(Outcome)) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		r.refuse(NameDeleteEvent, ErrMissingEventID, done)
		return
	}
	if _, err := r.sess.Identity(); err != nil {
		r.refuse(NameDeleteEvent, err, done)
		return
	}
	if !r.begin(NameDeleteEvent, eventID, done) {
		return
	}

	log := r.log.WithFields(logrus.Fields{"workflow": NameDeleteEvent, "event_id": eventID})
	store := r.store
	r.loop.Go(ctx, func(ctx context.Context) func() {
		err := store.DeleteEvent(ctx, eventID)
		return func() {
			r.end(NameDeleteEvent, eventID)
			if err != nil {
				log.WithError(err).Warn("delete event failed")
				r.notifier.Notify(notify.Errorf("Failed to delete event: %s", dashboard.Reason(err)))
				r.finish(done, failure(NameDeleteEvent, err))
				return
			}
			log.Info("event deleted")
			r.notifier.Notify(notify.Successf("Event deleted successfully."))
			dash.ReloadEvents()
			r.finish(done, Outcome{Workflow: NameDeleteEvent, Status: Succeeded})
		}
	})
}
