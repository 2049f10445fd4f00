package tgbot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/config"
	"clubhub-bot/internal/dashboard"
	"clubhub-bot/internal/eventview"
	"clubhub-bot/internal/loop"
	"clubhub-bot/internal/models"
	"clubhub-bot/internal/render"
	"clubhub-bot/internal/session"
	"clubhub-bot/internal/workflow"
)

// API is everything the chat front end asks of the event platform.
type API interface {
	dashboard.Store
	workflow.Store
	eventview.Fetcher
	ListParticipants(ctx context.Context, eventID string) ([]models.Registration, error)
}

type SheetExporter interface {
	ExportParticipants(ctx context.Context, eventID string, header []string, rows [][]string) (string, error)
}

// Sender is the subset of *tgbotapi.BotAPI used to talk to chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Deps struct {
	API      API
	Sessions session.Store
	// Sheets is nil when Google Sheets export is not configured.
	Sheets SheetExporter
	Log    *logrus.Entry
}

type App struct {
	cfg      config.Config
	bot      Sender
	botAPI   *tgbotapi.BotAPI
	api      API
	sessions session.Store
	sheets   SheetExporter
	loop     *loop.Loop
	log      *logrus.Entry
	opts     render.Options

	// one entry per chat, touched only from the Serve goroutine
	chats map[int64]*chat
}

func New(cfg config.Config, deps Deps) (*App, error) {
	b, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	b.Debug = false
	a := newApp(cfg, b, deps)
	a.botAPI = b
	return a, nil
}

func newApp(cfg config.Config, bot Sender, deps Deps) *App {
	return &App{
		cfg:      cfg,
		bot:      bot,
		api:      deps.API,
		sessions: deps.Sessions,
		sheets:   deps.Sheets,
		loop:     loop.New(256),
		log:      deps.Log.WithField("component", "tgbot"),
		opts: render.Options{
			DateLayout:       cfg.View.DateLayout,
			Currency:         cfg.View.Currency,
			PlaceholderImage: cfg.View.PlaceholderImage,
			WebBaseURL:       cfg.WebBaseURL,
		},
		chats: map[int64]*chat{},
	}
}

// Run long-polls Telegram until ctx is done.
func (a *App) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := a.botAPI.GetUpdatesChan(u)
	defer a.botAPI.StopReceivingUpdates()
	return a.Serve(ctx, updates)
}

// Serve handles updates and loop continuations on one goroutine, so chat,
// dashboard and view state is never touched concurrently.
func (a *App) Serve(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			a.closeAll()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				a.closeAll()
				return nil
			}
			a.handleUpdate(ctx, upd)
		case fn := <-a.loop.C():
			fn()
		}
	}
}

func (a *App) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		if err := a.handleMessage(ctx, upd.Message); err != nil {
			a.log.WithError(err).Error("handle msg")
		}
	} else if upd.CallbackQuery != nil {
		if err := a.handleCallback(ctx, upd.CallbackQuery); err != nil {
			a.log.WithError(err).Error("handle cb")
		}
	}
}

func (a *App) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := a.bot.Send(msg)
	return err
}

func (a *App) closeAll() {
	for _, c := range a.chats {
		c.teardown()
	}
	a.loop.Close()
}

// ---------- Screens ----------

func keyboard(rows [][]render.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		out = append(out, btns)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: out}
}

func (a *App) sendScreen(chatID int64, s render.Screen) (int, error) {
	msg := tgbotapi.NewMessage(chatID, s.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(s.Rows) > 0 {
		msg.ReplyMarkup = keyboard(s.Rows)
	}
	sent, err := a.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// showScreen edits msgID in place, or sends a new message when there is
// none yet or the old one can no longer be edited. It returns the id of
// the message now showing s.
func (a *App) showScreen(chatID int64, msgID int, s render.Screen) (int, error) {
	if msgID == 0 {
		return a.sendScreen(chatID, s)
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, s.Text, keyboard(s.Rows))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := a.bot.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return msgID, nil
		}
		a.log.WithError(err).WithField("chat_id", chatID).Debug("edit failed, sending new message")
		return a.sendScreen(chatID, s)
	}
	return msgID, nil
}

func (a *App) deleteMessage(chatID int64, msgID int) {
	if msgID == 0 {
		return
	}
	if _, err := a.bot.Request(tgbotapi.NewDeleteMessage(chatID, msgID)); err != nil {
		a.log.WithError(err).WithField("chat_id", chatID).Debug("delete message")
	}
}
