package workflow

import (
	"context"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/notify"
)

// DeleteAccount deletes the signed-in club. It only runs while the
// dashboard shows the delete-account section. On success the session is
// cleared and logout is called; on failure the section stays as is.
func (r *Runner) DeleteAccount(ctx context.Context, dash Dashboard, logout func(), done func(Outcome)) {
	if dash.State().Section != dashboard.SectionDeleteAccount {
		r.refuse(NameDeleteAccount, ErrNotConfirmed, done)
		return
	}
	clubID, err := r.sess.Identity()
	if err != nil {
		r.refuse(NameDeleteAccount, err, done)
		return
	}
	if !r.begin(NameDeleteAccount, clubID, done) {
		return
	}

	log := r.log.WithField("workflow", NameDeleteAccount).WithField("club_id", clubID)
	store := r.store
	r.loop.Go(ctx, func(ctx context.Context) func() {
		err := store.DeleteClub(ctx, clubID)
		return func() {
			r.end(NameDeleteAccount, clubID)
			if err != nil {
				log.WithError(err).Warn("delete account failed")
				r.notifier.Notify(notify.Errorf("Failed to delete account: %s", dashboard.Reason(err)))
				r.finish(done, failure(NameDeleteAccount, err))
				return
			}
			log.Info("account deleted")
			r.notifier.Notify(notify.Successf("Account deleted successfully."))
			r.sess.Clear()
			if logout != nil {
				logout()
			}
			r.finish(done, Outcome{Workflow: NameDeleteAccount, Status: Succeeded})
		}
	})
}
