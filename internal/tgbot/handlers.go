package tgbot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/eventview"
	"clubhub-bot/internal/models"
	"clubhub-bot/internal/notify"
	"clubhub-bot/internal/render"
	"clubhub-bot/internal/session"
	"clubhub-bot/internal/util"
)

const foreignText = "⚠️ This chat is signed in by another user. They must /logout first."

const helpText = "Commands:\n" +
	"/login <userId> <token> - sign in with the token from the web dashboard\n" +
	"/dashboard - open your club dashboard\n" +
	"/event <id> - open an event page\n" +
	"/logout - sign out"

// ---------- Message handling ----------

func (a *App) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	if m.From == nil || m.Chat == nil {
		return nil
	}
	c := a.chatFor(ctx, m.Chat.ID, m.From.ID)
	txt := strings.TrimSpace(m.Text)
	fields := strings.Fields(txt)
	cmd := ""
	if len(fields) > 0 {
		cmd = strings.SplitN(fields[0], "@", 2)[0]
	}

	switch cmd {
	case "/login", "/logout", "/dashboard", "/event":
		if !c.ownedBy(m.From.ID) {
			c.log.WithField("from_id", m.From.ID).Info("command from another user refused")
			if cmd == "/login" {
				a.deleteMessage(c.id, m.MessageID)
			}
			return a.SendText(c.id, foreignText)
		}
	}

	switch cmd {
	case "/start":
		return a.SendText(c.id, "Welcome to ClubHub!\n\n"+helpText)
	case "/login":
		a.deleteMessage(c.id, m.MessageID)
		return a.login(ctx, c, m.From.ID, fields[1:])
	case "/logout":
		if !c.sess.Active() {
			return a.SendText(c.id, "You are not signed in.")
		}
		a.logout(ctx, c)
		return nil
	case "/dashboard":
		return a.openDashboard(c)
	case "/event":
		if len(fields) < 2 {
			return a.SendText(c.id, "Usage: /event <id>")
		}
		a.openEvent(c, fields[1])
		return nil
	default:
		return a.SendText(c.id, helpText)
	}
}

// login signs fromID in. The session is bound to that Telegram user and
// stored under their id.
func (a *App) login(ctx context.Context, c *chat, fromID int64, args []string) error {
	if len(args) != 2 {
		return a.SendText(c.id, "Usage: /login <userId> <token>")
	}
	clubID, token := args[0], args[1]
	if !util.ValidHMAC(a.cfg.LoginSecret, "login:"+clubID, token) {
		c.log.WithField("club_id", clubID).Info("login rejected")
		return a.SendText(c.id, "⚠️ Invalid login token.")
	}

	log := c.log.WithField("club_id", clubID)
	api, store := a.api, a.sessions
	a.loop.Go(ctx, func(ctx context.Context) func() {
		club, err := api.GetClub(ctx, clubID)
		if err != nil {
			return func() {
				log.WithError(err).Warn("login failed")
				c.notifier.Notify(notify.Errorf("Login failed: %s", dashboard.Reason(err)))
			}
		}
		var s session.Session
		s.Load(clubID, club.Image, time.Now())
		saveErr := store.Save(ctx, fromID, s)

		return func() {
			if !c.ownedBy(fromID) {
				log.Info("login superseded by another user")
				c.notifier.Notify(notify.Errorf("Login failed: another user signed in here first."))
				return
			}
			if saveErr != nil {
				log.WithError(saveErr).Warn("session not persisted")
			}
			c.teardown()
			c.userID = fromID
			*c.sess = s
			a.attach(c)
			log.Info("signed in")
			c.notifier.Notify(notify.Successf("Signed in as %s.", orName(club)))
			c.dash.Select(dashboard.SectionProfile)
		}
	})
	return nil
}

func orName(club models.Club) string {
	if club.Name != "" {
		return club.Name
	}
	return club.ID
}

func (a *App) openDashboard(c *chat) error {
	if !c.sess.Active() {
		return a.SendText(c.id, "Please sign in with /login first.")
	}
	c.dashMsg = 0
	c.dash.Select(c.dash.State().Section)
	return nil
}

func (a *App) openEvent(c *chat, eventID string) {
	if old, ok := c.views[eventID]; ok {
		old.view.Close()
		a.deleteMessage(c.id, old.msgID)
	}
	ov := &openView{}
	c.views[eventID] = ov
	ov.view = eventview.Open(eventID, a.api, a.loop,
		render.EventLayout(a.opts, a.cfg.View.DetailPageChars),
		c.log, func() { a.renderView(c, ov) })
	a.renderView(c, ov)
}

func (a *App) renderView(c *chat, ov *openView) {
	if ov.view == nil || ov.view.Closed() {
		return
	}
	id, err := a.showScreen(c.id, ov.msgID, render.EventDetail(ov.view))
	if err != nil {
		c.log.WithError(err).Warn("render event")
		return
	}
	ov.msgID = id
}

// ---------- Callback handling ----------

func (a *App) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q.From == nil || q.Message == nil || q.Message.Chat == nil {
		return nil
	}
	c := a.chatFor(ctx, q.Message.Chat.ID, q.From.ID)
	data := q.Data

	if !c.ownedBy(q.From.ID) {
		c.log.WithFields(logrus.Fields{"from_id": q.From.ID, "data": data}).Info("callback from another user refused")
		alert := tgbotapi.NewCallbackWithAlert(q.ID, "These buttons belong to another user.")
		_, _ = a.bot.Request(alert)
		return nil
	}

	// ack
	cb := tgbotapi.NewCallback(q.ID, "")
	_, _ = a.bot.Request(cb)

	c.log.WithFields(logrus.Fields{"data": data}).Debug("callback")

	if strings.HasPrefix(data, "d:") {
		return a.handleDashboardCallback(ctx, c, q.Message.MessageID, data)
	}
	if strings.HasPrefix(data, "e:") {
		return a.handleEventCallback(ctx, c, data)
	}
	if strings.HasPrefix(data, "v:") {
		return a.handleViewCallback(ctx, c, data)
	}
	return nil
}

func (a *App) handleDashboardCallback(ctx context.Context, c *chat, msgID int, data string) error {
	if !c.sess.Active() {
		return a.SendText(c.id, "Please sign in with /login first.")
	}
	c.dashMsg = msgID

	if data == render.CbDeleteConfirm {
		c.flows.DeleteAccount(ctx, c.dash, func() { a.logout(ctx, c) }, nil)
		return nil
	}
	if s, ok := render.ParseSectionCallback(data); ok {
		c.dash.Select(s)
	}
	return nil
}

func (a *App) handleEventCallback(ctx context.Context, c *chat, data string) error {
	switch {
	case strings.HasPrefix(data, render.CbDeleteEvent):
		c.flows.DeleteEvent(ctx, c.dash, strings.TrimPrefix(data, render.CbDeleteEvent), nil)
	case strings.HasPrefix(data, render.CbParticipants):
		a.showParticipants(ctx, c, strings.TrimPrefix(data, render.CbParticipants))
	case strings.HasPrefix(data, render.CbSheetExport):
		a.exportToSheets(ctx, c, strings.TrimPrefix(data, render.CbSheetExport))
	}
	return nil
}

func (a *App) handleViewCallback(ctx context.Context, c *chat, data string) error {
	if strings.HasPrefix(data, render.CbRegister) {
		c.flows.Register(ctx, strings.TrimPrefix(data, render.CbRegister), nil)
		return nil
	}

	var action, eventID string
	for _, prefix := range []string{render.CbRetry, render.CbNext, render.CbPrev, render.CbClose} {
		if strings.HasPrefix(data, prefix) {
			action, eventID = prefix, strings.TrimPrefix(data, prefix)
			break
		}
	}
	ov, ok := c.views[eventID]
	if action == "" || !ok {
		return a.SendText(c.id, "This event page is closed. Open it again with /event <id>.")
	}

	switch action {
	case render.CbRetry:
		ov.view.Retry()
	case render.CbNext:
		ov.view.Next()
	case render.CbPrev:
		ov.view.Prev()
	case render.CbClose:
		ov.view.Close()
		delete(c.views, eventID)
		a.deleteMessage(c.id, ov.msgID)
	}
	return nil
}
