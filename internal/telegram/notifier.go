// Package telegram posts admin notifications to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegram rejects longer messages
const maxMessageLength = 4096

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends plain-text messages to the admin chat.
// A Notifier without a sender or chat id does nothing.
type Notifier struct {
	sender Sender
	chatID int64
	log    logger.Logger
}

func NewNotifier(sender Sender, chatID int64, log logger.Logger) *Notifier {
	return &Notifier{sender: sender, chatID: chatID, log: log}
}

// NewBotNotifier authorizes the bot token. An empty token gives a no-op notifier.
func NewBotNotifier(token string, chatID int64, log logger.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		log.Warn("telegram notifications disabled")
		return NewNotifier(nil, 0, log), nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false
	log.Info("telegram bot authorized", "account", bot.Self.UserName)
	return NewNotifier(bot, chatID, log), nil
}

// Enabled reports whether messages are actually sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil && n.chatID != 0
}

// Notify sends text to the admin chat. The bot API has no context support, so ctx
// is only checked before sending.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if !n.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r := []rune(text); len(r) > maxMessageLength {
		text = string(r[:maxMessageLength-1]) + "…"
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// ClaimSubmitted formats the notification for a new claim.
func ClaimSubmitted(c *models.Claim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New claim %s\n", c.Reference)
	fmt.Fprintf(&b, "%s (%s)\n", c.FullName(), c.Email)
	fmt.Fprintf(&b, "%s %s-%s on %s, %s", c.FlightNumber, c.DepartureAirport, c.ArrivalAirport,
		c.FlightDate.Format("2006-01-02"), c.DisruptionType)
	if c.DisruptionType == models.DisruptionDelay {
		fmt.Fprintf(&b, " %d min", c.DelayMinutes)
	}
	if c.EstimatedCompensation > 0 {
		fmt.Fprintf(&b, "\nEstimate: %d EUR", c.EstimatedCompensation)
	}
	return b.String()
}

// ContactMessage formats a contact-form submission.
func ContactMessage(name, email, subject, message string) string {
	if subject == "" {
		subject = "(no subject)"
	}
	return fmt.Sprintf("Contact form: %s\nFrom: %s <%s>\n\n%s", subject, name, email, message)
}
