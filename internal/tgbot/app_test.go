package tgbot

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-bot/internal/config"
	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/eventapi"
	"clubhub-bot/internal/models"
	"clubhub-bot/internal/session"
	"clubhub-bot/internal/util"
)

const (
	secret = "sekret"
	tgUser = int64(7)
)

type fakeBot struct {
	nextID   int
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
		return tgbotapi.Message{MessageID: e.MessageID}, nil
	}
	f.nextID++
	return tgbotapi.Message{MessageID: 100 + f.nextID}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) texts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeBot) last() string {
	t := f.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (f *fakeBot) anyContains(s string) bool {
	for _, t := range f.texts() {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

type fakeAPI struct {
	mu       sync.Mutex
	events   []models.Event
	deleted  []string
	regs     []string
	clubGone bool
}

func (f *fakeAPI) GetClub(ctx context.Context, id string) (models.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clubGone || id != "club-1" {
		return models.Club{}, &eventapi.APIError{Op: "get_club", Kind: eventapi.ErrNotFound}
	}
	return models.Club{ID: id, Name: "Robotics", Image: "http://x/logo.png", College: models.College{Name: "MIT"}}, nil
}

func (f *fakeAPI) ListEventsForClub(ctx context.Context, id string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Event{}, f.events...), nil
}

func (f *fakeAPI) GetEvent(ctx context.Context, id string) (models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Event{}, &eventapi.APIError{Op: "get_event", Kind: eventapi.ErrNotFound}
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i:i], f.events[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return &eventapi.APIError{Op: "delete_event", Kind: eventapi.ErrNotFound}
}

func (f *fakeAPI) DeleteClub(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clubGone = true
	return nil
}

func (f *fakeAPI) RegisterForEvent(ctx context.Context, eventID, userID string) (models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs = append(f.regs, eventID+"/"+userID)
	return models.Registration{ID: "r1", EventID: eventID, UserID: userID}, nil
}

func (f *fakeAPI) ListParticipants(ctx context.Context, eventID string) ([]models.Registration, error) {
	return []models.Registration{{ID: "r1", Name: "Ann"}}, nil
}

type fakeSheets struct {
	rows int
	err  error
}

func (f *fakeSheets) ExportParticipants(ctx context.Context, eventID string, header []string, rows [][]string) (string, error) {
	f.rows = len(rows)
	return "https://docs.google.com/spreadsheets/d/book/edit#gid=1", f.err
}

type fixture struct {
	app   *App
	bot   *fakeBot
	api   *fakeAPI
	store *session.MemoryStore
}

func newFixture(t *testing.T, sheets SheetExporter) *fixture {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	api := &fakeAPI{events: []models.Event{
		{ID: "e1", Name: "Hack Night", Venue: "Zoom", Tags: models.NewTags("tech", "free")},
		{ID: "e2", Name: "Robot Wars", Venue: "Hall B"},
	}}
	store := session.NewMemoryStore()
	bot := &fakeBot{}
	cfg := config.Config{
		LoginSecret:  secret,
		ExportSecret: "exp",
		HTTPAddr:     ":8080",
		View:         config.ViewConfig{DateLayout: "1/2/2006", Currency: "INR", DetailPageChars: 3500},
	}
	app := newApp(cfg, bot, Deps{API: api, Sessions: store, Sheets: sheets, Log: logrus.NewEntry(l)})
	return &fixture{app: app, bot: bot, api: api, store: store}
}

func (f *fixture) say(text string) { f.sayAs(tgUser, text) }

func (f *fixture) tap(data string) { f.tapAs(tgUser, data) }

// sayAs and tapAs act in chat tgUser, which may be a group shared by
// several Telegram users.
func (f *fixture) sayAs(from int64, text string) {
	f.app.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: tgUser},
		Text:      text,
	}})
	f.app.loop.Drain()
}

func (f *fixture) tapAs(from int64, data string) {
	f.app.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: f.app.chats[tgUser].dashMsg, Chat: &tgbotapi.Chat{ID: tgUser}},
		Data:    data,
	}})
	f.app.loop.Drain()
}

func (f *fakeBot) lastRequest() tgbotapi.Chattable {
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.say("/login club-1 " + util.LoginToken(secret, "club-1"))
	require.True(t, f.app.chats[tgUser].sess.Active())
}

func TestLogin_InvalidToken(t *testing.T) {
	f := newFixture(t, nil)
	f.say("/login club-1 forged")

	assert.Contains(t, f.bot.last(), "Invalid login token")
	assert.False(t, f.app.chats[tgUser].sess.Active())
	_, ok, _ := f.store.Load(context.Background(), tgUser)
	assert.False(t, ok)
}

func TestLogin_OpensProfileAndPersistsSession(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	assert.True(t, f.bot.anyContains("Signed in as Robotics"))
	assert.Contains(t, f.bot.last(), "Club Manager")
	assert.Contains(t, f.bot.last(), "MIT")

	stored, ok, err := f.store.Load(context.Background(), tgUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "club-1", stored.UserID)
	assert.Equal(t, "http://x/logo.png", stored.Image)

	// the message carrying the token is removed
	require.NotEmpty(t, f.bot.requests)
	_, isDelete := f.bot.requests[0].(tgbotapi.DeleteMessageConfig)
	assert.True(t, isDelete)
}

func TestDashboard_EditsInPlace(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	dashMsg := f.app.chats[tgUser].dashMsg
	require.NotZero(t, dashMsg)

	f.tap("d:events")

	edit, ok := f.bot.sent[len(f.bot.sent)-1].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, dashMsg, edit.MessageID)
	assert.Contains(t, edit.Text, "Hack Night")
	assert.Contains(t, edit.Text, "Robot Wars")
}

func TestDeleteEvent_ReloadsList(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.tap("d:events")

	f.tap("e:del:e1")

	assert.Equal(t, []string{"e1"}, f.api.deleted)
	assert.True(t, f.bot.anyContains("Event deleted successfully."))
	assert.NotContains(t, f.bot.last(), "Hack Night")
	assert.Contains(t, f.bot.last(), "Robot Wars")
}

func TestDeleteAccount_LogsOut(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	f.tap("d:delete_confirm")
	assert.True(t, f.bot.anyContains("Open the Delete Account section"))
	assert.True(t, f.app.chats[tgUser].sess.Active())

	f.tap("d:delete")
	f.tap("d:delete_confirm")

	assert.True(t, f.bot.anyContains("Account deleted successfully."))
	assert.Contains(t, f.bot.last(), "signed out")
	assert.False(t, f.app.chats[tgUser].sess.Active())
	_, ok, _ := f.store.Load(context.Background(), tgUser)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, nil)
	f.say("/logout")
	assert.Contains(t, f.bot.last(), "not signed in")

	f.login(t)
	f.say("/logout")
	assert.False(t, f.app.chats[tgUser].sess.Active())
	f.say("/dashboard")
	assert.Contains(t, f.bot.last(), "sign in with /login")
}

func TestSessionRestoredOnFirstContact(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.Save(context.Background(), tgUser, session.Session{UserID: "club-1"}))

	f.say("/dashboard")
	assert.Contains(t, f.bot.last(), "Robotics")
}

func TestEventView_LoadRegisterClose(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	f.say("/event e1")
	texts := f.bot.texts()
	assert.Contains(t, texts[len(texts)-2], "Loading event details")
	assert.Contains(t, f.bot.last(), "<code>tech</code> <code>free</code>")

	f.tap("v:reg:e1")
	assert.Equal(t, []string{"e1/club-1"}, f.api.regs)
	assert.True(t, f.bot.anyContains("You are registered!"))

	f.tap("v:close:e1")
	assert.Empty(t, f.app.chats[tgUser].views)
	f.tap("v:next:e1")
	assert.Contains(t, f.bot.last(), "This event page is closed")
}

func TestEventView_MissingEventOffersRetry(t *testing.T) {
	f := newFixture(t, nil)
	f.say("/event nope")
	assert.Contains(t, f.bot.last(), "Could not load this event")
}

func TestParticipantsAndSheetsExport(t *testing.T) {
	sh := &fakeSheets{}
	f := newFixture(t, sh)
	f.login(t)

	f.tap("e:part:e1")
	assert.Contains(t, f.bot.last(), "<b>Participants</b> (1)")

	f.tap("e:sheet:e1")
	assert.Equal(t, 1, sh.rows)
	assert.Contains(t, f.bot.last(), "Exported 1 participants")

	sh.err = errors.New("quota exceeded")
	f.tap("e:sheet:e1")
	assert.Contains(t, f.bot.last(), "Export failed")
}

func TestSheetsExportDisabled(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.tap("e:sheet:e1")
	assert.Contains(t, f.bot.last(), "not configured")
}

func TestGroupChat_OtherMemberCannotActOnSession(t *testing.T) {
	const stranger = int64(999)
	f := newFixture(t, nil)
	f.login(t)
	f.tap("d:events")

	f.tapAs(stranger, "d:delete")
	f.tapAs(stranger, "d:delete_confirm")

	alert, ok := f.bot.lastRequest().(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.True(t, alert.ShowAlert)
	assert.Contains(t, alert.Text, "another user")
	assert.False(t, f.api.clubGone)
	assert.True(t, f.app.chats[tgUser].sess.Active())
	assert.Equal(t, dashboard.SectionEvents, f.app.chats[tgUser].dash.State().Section)

	f.tapAs(stranger, "e:del:e1")
	f.tapAs(stranger, "v:reg:e1")
	assert.Empty(t, f.api.deleted)
	assert.Empty(t, f.api.regs)

	f.sayAs(stranger, "/logout")
	assert.Contains(t, f.bot.last(), "signed in by another user")
	assert.True(t, f.app.chats[tgUser].sess.Active())

	f.sayAs(stranger, "/event e1")
	assert.Empty(t, f.app.chats[tgUser].views)

	f.sayAs(stranger, "/login club-1 "+util.LoginToken(secret, "club-1"))
	_, ok, _ = f.store.Load(context.Background(), stranger)
	assert.False(t, ok)

	// the owner still can
	f.tap("d:delete")
	f.tap("d:delete_confirm")
	assert.True(t, f.api.clubGone)
	assert.False(t, f.app.chats[tgUser].sess.Active())
}

func TestLogin_BindsSessionToSender(t *testing.T) {
	const member = int64(55)
	f := newFixture(t, nil)
	f.say("/start")

	f.sayAs(member, "/login club-1 "+util.LoginToken(secret, "club-1"))

	c := f.app.chats[tgUser]
	require.True(t, c.sess.Active())
	assert.Equal(t, member, c.userID)
	_, ok, _ := f.store.Load(context.Background(), member)
	assert.True(t, ok)
	_, ok, _ = f.store.Load(context.Background(), tgUser)
	assert.False(t, ok)

	f.tap("d:events")
	assert.Equal(t, dashboard.SectionProfile, c.dash.State().Section)
	assert.NotContains(t, f.bot.last(), "Hack Night")
}
