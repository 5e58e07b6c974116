// Package notify delivers signal alerts to Telegram. Delivery is
// at-most-once: a failed send is logged and dropped, never queued.
package notify

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"FxPulse/internal/domain/models"
	applogger "FxPulse/pkg/logger"
)

// Config holds the Telegram credentials.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

// botAPI is the slice of the Telegram client the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends formatted signal alerts to one chat.
type Telegram struct {
	cfg Config
	bot botAPI
	log *applogger.Logger
}

// NewTelegram connects to the Bot API. A disabled config skips the
// connection and yields a notifier that drops everything.
func NewTelegram(cfg Config, log *applogger.Logger) (*Telegram, error) {
	t := &Telegram{cfg: cfg, log: log}
	if !cfg.Enabled {
		return t, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	t.bot = bot
	return t, nil
}

// SendAlert formats and sends one signal. It reports whether the alert
// was delivered.
func (t *Telegram) SendAlert(ctx context.Context, sig models.Signal) bool {
	if !t.cfg.Enabled || t.bot == nil {
		return false
	}
	msg := tgbotapi.NewMessage(t.cfg.ChatID, FormatAlert(sig))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn("telegram send failed",
			applogger.String("symbol", sig.Symbol),
			applogger.Error(err))
		return false
	}
	return true
}

// FormatAlert renders the HTML alert body for one signal.
func FormatAlert(sig models.Signal) string {
	icon := "🟢"
	if sig.Direction == models.DirectionSell {
		icon = "🔴"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s SIGNAL</b> %s\n\n", icon, sig.Direction, bells(sig.Strength))
	fmt.Fprintf(&b, "<b>Symbol:</b> %s\n", html.EscapeString(sig.Symbol))
	fmt.Fprintf(&b, "<b>Trigger:</b> %s\n", html.EscapeString(sig.Indicator))
	fmt.Fprintf(&b, "<b>Reason:</b> %s\n", html.EscapeString(sig.Reason))
	fmt.Fprintf(&b, "<b>Strength:</b> %s\n\n", sig.Strength)
	fmt.Fprintf(&b, "<b>Price:</b> %.5f\n", sig.Price)
	fmt.Fprintf(&b, "<b>Stop loss:</b> %.5f\n", sig.StopLoss)
	fmt.Fprintf(&b, "<b>Take profit:</b> %.5f\n", sig.TakeProfit)
	if rr := rewardRisk(sig); rr > 0 {
		fmt.Fprintf(&b, "<b>R/R:</b> %.2f\n", rr)
	}
	if sig.Confirmation != nil {
		c := sig.Confirmation
		fmt.Fprintf(&b, "\n<b>Consensus:</b> %s (%s, %d buy / %d sell)\n",
			c.Recommendation, c.Confidence, c.BuyVotes, c.SellVotes)
	}
	fmt.Fprintf(&b, "\n<i>%s</i>", sig.Time.UTC().Format("2006-01-02 15:04:05 UTC"))
	return b.String()
}

func bells(s models.Strength) string {
	switch s {
	case models.StrengthVeryStrong:
		return "🔔🔔🔔"
	case models.StrengthStrong:
		return "🔔🔔"
	default:
		return "🔔"
	}
}

func rewardRisk(sig models.Signal) float64 {
	risk := math.Abs(sig.Price - sig.StopLoss)
	if risk == 0 {
		return 0
	}
	return math.Abs(sig.TakeProfit-sig.Price) / risk
}
