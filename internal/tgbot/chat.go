package tgbot

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/eventview"
	"clubhub-bot/internal/notify"
	"clubhub-bot/internal/render"
	"clubhub-bot/internal/session"
	"clubhub-bot/internal/workflow"
)

const restoreTimeout = 3 * time.Second

// chat is the per-chat client: its session, dashboard, workflows and any
// open event pages.
type chat struct {
	id     int64
	userID int64
	log    *logrus.Entry

	sess     *session.Session
	notifier notify.Notifier
	dash     *dashboard.Controller
	flows    *workflow.Runner

	dashMsg int
	views   map[string]*openView
}

type openView struct {
	view  *eventview.View
	msgID int
}

// ownedBy reports whether userID may act on this chat. Once a session is
// active only the user who signed in may.
func (c *chat) ownedBy(userID int64) bool {
	return !c.sess.Active() || c.userID == userID
}

func (c *chat) teardown() {
	if c.dash != nil {
		c.dash.Close()
	}
	for id, v := range c.views {
		v.view.Close()
		delete(c.views, id)
	}
}

// chatFor returns the chat state, creating it and restoring the stored
// session on first contact.
func (a *App) chatFor(ctx context.Context, chatID, userID int64) *chat {
	if c, ok := a.chats[chatID]; ok {
		return c
	}

	c := &chat{
		id:     chatID,
		userID: userID,
		log:    a.log.WithField("chat_id", chatID),
		sess:   &session.Session{},
		views:  map[string]*openView{},
	}
	c.notifier = notify.NotifierFunc(func(n notify.Notice) { a.notify(c, n) })

	rctx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()
	stored, ok, err := a.sessions.Load(rctx, userID)
	switch {
	case err != nil:
		c.log.WithError(err).Warn("restore session")
	case ok:
		*c.sess = stored
		c.log.WithField("club_id", stored.UserID).Debug("session restored")
	}

	a.attach(c)
	a.chats[chatID] = c
	return c
}

// attach builds the dashboard and workflows around the chat's session.
func (a *App) attach(c *chat) {
	c.dash = dashboard.New(c.sess, a.api, a.loop, c.notifier, c.log, func(st dashboard.State) {
		a.renderDashboard(c, st)
	})
	c.flows = workflow.New(c.sess, a.api, a.loop, c.notifier, c.log)
	c.dashMsg = 0
}

func (a *App) notify(c *chat, n notify.Notice) {
	prefix := "ℹ️ "
	switch n.Level {
	case notify.Success:
		prefix = "✅ "
	case notify.Error:
		prefix = "⚠️ "
	}
	if err := a.SendText(c.id, prefix+n.Text); err != nil {
		c.log.WithError(err).Warn("send notice")
	}
}

func (a *App) renderDashboard(c *chat, st dashboard.State) {
	if !c.sess.Active() {
		return
	}
	id, err := a.showScreen(c.id, c.dashMsg, render.Dashboard(st, c.sess.Image, a.opts))
	if err != nil {
		c.log.WithError(err).Warn("render dashboard")
		return
	}
	c.dashMsg = id
}

// logout clears the session everywhere and resets the chat's screens.
func (a *App) logout(ctx context.Context, c *chat) {
	c.teardown()
	c.sess.Clear()

	userID, log := c.userID, c.log
	store := a.sessions
	a.loop.Go(ctx, func(ctx context.Context) func() {
		if err := store.Delete(ctx, userID); err != nil {
			log.WithError(err).Warn("delete stored session")
		}
		return nil
	})

	a.attach(c)
	if _, err := a.sendScreen(c.id, render.SignedOut()); err != nil {
		c.log.WithError(err).Warn("send signed out")
	}
}
