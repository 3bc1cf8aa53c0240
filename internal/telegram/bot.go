package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketbot/internal/adapters"
	"marketbot/internal/convert"
	"marketbot/internal/domain"
	"marketbot/internal/render"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPollTimeout = 30 // seconds, Telegram long-poll

	ContentKeyAbout        = "about"
	ContentKeyAdminContact = "admin_contact"
	ContentKeyJoinPrompt   = "join_prompt"

	selectOptionText      = "Please select an option from the menu."
	unknownCommandText    = "❌ Unknown command. Please try again."
	subscriptionCheckText = "❌ An error occurred while checking subscription. Please try again."
	unexpectedErrorText   = "❌ An unexpected error occurred. Please try again."
	commodityTimeoutText  = "❌ Fetching commodity prices timed out. Please try again later."
)

// BotAPI is the slice of the Telegram client the bot loop uses.
type BotAPI interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error)
	SendMessage(ctx context.Context, msg SendMessage) error
	GetChatMember(ctx context.Context, chat string, userID int64) (ChatMember, error)
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// SnapshotService serves market snapshots for the chat surface.
type SnapshotService interface {
	Snapshot(ctx context.Context, category domain.Category) (domain.Snapshot, error)
}

// ConversionDialogue drives the per-chat conversion sequence.
type ConversionDialogue interface {
	Start(chatID int64) convert.Outcome
	Select(chatID int64, code string) convert.Outcome
	SubmitAmount(ctx context.Context, chatID int64, text string) convert.Outcome
	Cancel(chatID int64) convert.Outcome
}

// Bot runs the long-poll loop and routes updates. Updates are handled
// sequentially in arrival order, which keeps dialogue transitions free of
// same-chat races.
type Bot struct {
	api         BotAPI
	markets     SnapshotService
	dialogue    ConversionDialogue
	contents    adapters.ContentRepository
	codes       []string
	channel     string
	pollTimeout int
	offset      int64
}

func NewBot(
	api BotAPI,
	markets SnapshotService,
	dialogue ConversionDialogue,
	contents adapters.ContentRepository,
	codes []string,
	channel string,
) *Bot {
	return &Bot{
		api:         api,
		markets:     markets,
		dialogue:    dialogue,
		contents:    contents,
		codes:       codes,
		channel:     channel,
		pollTimeout: DefaultPollTimeout,
	}
}

// Run polls for updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	logrus.Info("Bot is starting...")
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.api.GetUpdates(ctx, b.offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("Failed to fetch updates")
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		for _, update := range updates {
			b.offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch text {
	case "/start":
		b.handleStart(ctx, msg)
		return
	case "/cancel":
		out := b.dialogue.Cancel(chatID)
		if out.Kind == convert.OutcomeNone {
			b.sendText(ctx, chatID, selectOptionText, nil)
		} else {
			b.sendOutcome(ctx, chatID, out)
		}
		b.sendMainMenu(ctx, chatID, false)
		return
	}

	out := b.dialogue.SubmitAmount(ctx, chatID, text)
	switch out.Kind {
	case convert.OutcomeNone:
		logrus.WithField("chat_id", chatID).Infof("User sent unexpected text: %s", text)
		b.sendText(ctx, chatID, selectOptionText, nil)
		b.sendMainMenu(ctx, chatID, false)
	case convert.OutcomePromptAmount:
		// invalid amount, stay in the dialogue
		b.sendOutcome(ctx, chatID, out)
	default:
		b.sendOutcome(ctx, chatID, out)
		b.sendMainMenu(ctx, chatID, false)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	if msg.From == nil {
		return
	}

	member, err := b.api.GetChatMember(ctx, b.channel, msg.From.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", msg.From.ID).Error("Subscription check failed")
		b.sendText(ctx, chatID, subscriptionCheckText, nil)
		return
	}

	if !IsMember(member.Status) {
		logrus.WithField("user_id", msg.From.ID).Info("User is not a channel member, prompting to join")
		b.sendContent(ctx, chatID, ContentKeyJoinPrompt)
		return
	}

	b.sendMainMenu(ctx, chatID, true)
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if err := b.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		logrus.WithError(err).Warn("Failed to answer callback query")
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == CallbackAboutBot:
		b.sendContent(ctx, chatID, ContentKeyAbout)
		b.sendMainMenu(ctx, chatID, false)

	case data == CallbackAdminContact:
		b.sendContent(ctx, chatID, ContentKeyAdminContact)
		b.sendMainMenu(ctx, chatID, false)

	case data == CallbackMarketPrices:
		b.sendMarketsMenu(ctx, chatID)

	case data == CallbackBackToMain:
		b.sendMainMenu(ctx, chatID, false)

	case data == CallbackUZSComparison:
		b.sendSnapshot(ctx, chatID, domain.CategoryUZSBasket, false)
		b.sendMainMenu(ctx, chatID, false)

	case data == CallbackMarketSP500:
		b.sendSnapshot(ctx, chatID, domain.CategoryEquityIndex, true)
		b.sendMarketsMenu(ctx, chatID)

	case data == CallbackMarketCrypto:
		b.sendSnapshot(ctx, chatID, domain.CategoryCrypto, true)
		b.sendMarketsMenu(ctx, chatID)

	case data == CallbackMarketCommodity:
		b.sendSnapshot(ctx, chatID, domain.CategoryCommodity, true)
		b.sendMarketsMenu(ctx, chatID)

	case data == CallbackMarketCurrency:
		b.sendSnapshot(ctx, chatID, domain.CategoryCurrencyBasket, true)
		b.sendMarketsMenu(ctx, chatID)

	case data == CallbackCurrencyCalc:
		out := b.dialogue.Start(chatID)
		b.send(ctx, chatID,
			render.Outcome(out, render.HTML), render.Outcome(out, render.Plain),
			CurrencyKeyboard(FromPrefix, b.codes))

	case strings.HasPrefix(data, FromPrefix):
		out := b.dialogue.Select(chatID, strings.TrimPrefix(data, FromPrefix))
		b.sendSelectionOutcome(ctx, chatID, out)

	case strings.HasPrefix(data, ToPrefix):
		out := b.dialogue.Select(chatID, strings.TrimPrefix(data, ToPrefix))
		b.sendSelectionOutcome(ctx, chatID, out)

	default:
		logrus.WithFields(logrus.Fields{"chat_id": chatID, "data": data}).Warn("Unknown callback data received")
		b.sendText(ctx, chatID, unknownCommandText, nil)
		b.sendMainMenu(ctx, chatID, false)
	}
}

// sendSelectionOutcome replies to a currency pick with the next prompt and
// the keyboard that prompt needs. Picks outside a dialogue are ignored.
func (b *Bot) sendSelectionOutcome(ctx context.Context, chatID int64, out convert.Outcome) {
	var markup *InlineKeyboardMarkup
	switch out.Kind {
	case convert.OutcomeNone:
		return
	case convert.OutcomePromptFrom:
		markup = CurrencyKeyboard(FromPrefix, b.codes)
	case convert.OutcomePromptTo:
		markup = CurrencyKeyboard(ToPrefix, b.codes)
	}
	b.send(ctx, chatID, render.Outcome(out, render.HTML), render.Outcome(out, render.Plain), markup)
}

func (b *Bot) sendSnapshot(ctx context.Context, chatID int64, category domain.Category, footer bool) {
	snap, err := b.markets.Snapshot(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotTimeout) {
			b.sendText(ctx, chatID, commodityTimeoutText, nil)
			return
		}
		logrus.WithError(err).WithField("category", category).Error("Snapshot request failed")
		b.sendText(ctx, chatID, unexpectedErrorText, nil)
		return
	}

	htmlText := render.Snapshot(snap, render.HTML)
	plainText := render.Snapshot(snap, render.Plain)
	if footer && !snap.Failed() {
		htmlText += "\n" + render.LiveDataFooter
		plainText += "\n" + render.LiveDataFooter
	}
	b.send(ctx, chatID, htmlText, plainText, nil)
}

func (b *Bot) sendContent(ctx context.Context, chatID int64, key string) {
	text, err := b.contents.Content(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to load content")
		b.sendText(ctx, chatID, unexpectedErrorText, nil)
		return
	}
	b.send(ctx, chatID, text, stripTags(text), nil)
}

func (b *Bot) sendMainMenu(ctx context.Context, chatID int64, welcome bool) {
	b.send(ctx, chatID,
		render.MainMenu(welcome, render.HTML), render.MainMenu(welcome, render.Plain),
		MainMenuKeyboard())
}

func (b *Bot) sendMarketsMenu(ctx context.Context, chatID int64) {
	b.send(ctx, chatID,
		render.MarketsMenu(render.HTML), render.MarketsMenu(render.Plain),
		MarketsMenuKeyboard())
}

func (b *Bot) sendOutcome(ctx context.Context, chatID int64, out convert.Outcome) {
	b.send(ctx, chatID, render.Outcome(out, render.HTML), render.Outcome(out, render.Plain), nil)
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) {
	b.send(ctx, chatID, text, text, markup)
}

// send delivers the HTML tier first and falls back to the plain tier when
// Telegram rejects the markup.
func (b *Bot) send(ctx context.Context, chatID int64, htmlText, plainText string, markup *InlineKeyboardMarkup) {
	err := b.api.SendMessage(ctx, SendMessage{
		ChatID:      chatID,
		Text:        htmlText,
		ParseMode:   "HTML",
		ReplyMarkup: markup,
	})
	if err == nil {
		return
	}
	if !IsParseError(err) {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
		return
	}

	logrus.WithField("chat_id", chatID).Warn("HTML parse rejected, retrying as plain text")
	err = b.api.SendMessage(ctx, SendMessage{
		ChatID:      chatID,
		Text:        plainText,
		ReplyMarkup: markup,
	})
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send plain-text fallback")
	}
}

var tagReplacer = strings.NewReplacer(
	"<b>", "", "</b>", "",
	"<i>", "", "</i>", "",
	"<u>", "", "</u>", "",
)

// stripTags flattens stored HTML content for the plain tier. Anchors keep
// their visible text; the href is dropped.
func stripTags(s string) string {
	s = tagReplacer.Replace(s)
	for {
		start := strings.Index(s, "<a ")
		if start < 0 {
			break
		}
		end := strings.Index(s[start:], ">")
		if end < 0 {
			break
		}
		s = s[:start] + s[start+end+1:]
	}
	return strings.ReplaceAll(s, "</a>", "")
}
