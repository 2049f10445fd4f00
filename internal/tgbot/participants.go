package tgbot

import (
	"context"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/export"
	"clubhub-bot/internal/notify"
	"clubhub-bot/internal/render"
	"clubhub-bot/internal/server"
)

func (a *App) showParticipants(ctx context.Context, c *chat, eventID string) {
	if !c.sess.Active() {
		c.notifier.Notify(notify.Errorf("Please sign in with /login first."))
		return
	}
	// Telegram refuses URL buttons pointing at localhost.
	csvURL := ""
	if a.cfg.BasePublicURL != "" {
		csvURL = server.ExportURL(a.cfg, eventID)
	}

	api, log := a.api, c.log.WithField("event_id", eventID)
	a.loop.Go(ctx, func(ctx context.Context) func() {
		regs, err := api.ListParticipants(ctx, eventID)
		return func() {
			if err != nil {
				log.WithError(err).Warn("list participants")
				c.notifier.Notify(notify.Errorf("Could not load participants: %s", dashboard.Reason(err)))
				return
			}
			screen := render.Participants(eventID, regs, csvURL, a.sheets != nil, a.opts)
			if _, err := a.sendScreen(c.id, screen); err != nil {
				log.WithError(err).Warn("send participants")
			}
		}
	})
}

func (a *App) exportToSheets(ctx context.Context, c *chat, eventID string) {
	if a.sheets == nil {
		c.notifier.Notify(notify.Errorf("Google Sheets export is not configured."))
		return
	}
	if !c.sess.Active() {
		c.notifier.Notify(notify.Errorf("Please sign in with /login first."))
		return
	}

	api, sheets, log := a.api, a.sheets, c.log.WithField("event_id", eventID)
	a.loop.Go(ctx, func(ctx context.Context) func() {
		regs, err := api.ListParticipants(ctx, eventID)
		link := ""
		if err == nil {
			link, err = sheets.ExportParticipants(ctx, eventID, export.Header, export.Rows(regs))
		}
		return func() {
			if err != nil {
				log.WithError(err).Warn("sheets export")
				c.notifier.Notify(notify.Errorf("Export failed: %s", dashboard.Reason(err)))
				return
			}
			log.WithField("rows", len(regs)).Info("participants exported")
			c.notifier.Notify(notify.Successf("Exported %d participants: %s", len(regs), link))
		}
	})
}
