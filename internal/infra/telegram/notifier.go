// internal/infra/telegram/notifier.go
package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"appointment_notifier_bot/internal/apperr"
	"appointment_notifier_bot/internal/domain/appointment"
	domaintg "appointment_notifier_bot/internal/domain/telegram"
	"appointment_notifier_bot/internal/infra/config"
)

const sendTimeout = 10 * time.Second

// Notifier delivers the per-match and startup messages to the configured
// chat. Both message kinds go through the same validate→connect→send path;
// only the caller-facing error policy differs: NotifyFound propagates,
// NotifyStartup logs and swallows.
//
// Configuration is validated per call, before any network activity, so a
// bad setting surfaces as a configuration error rather than a crash at
// process start.
type Notifier struct {
	token       string
	chatID      string
	bookingLink string
	logger      *logrus.Entry

	// mu serializes sends and guards the lazily-installed client: the
	// startup notification fires from a timer goroutine and may overlap a
	// scheduled cycle's found-notification.
	mu      sync.Mutex
	client  domaintg.Client
	connect func(token string) (domaintg.Client, error)
}

func NewNotifier(cfg *config.AppConfig, logger *logrus.Entry) *Notifier {
	return &Notifier{
		token:       cfg.TelegramToken,
		chatID:      cfg.TelegramChatID,
		bookingLink: cfg.BookingURL,
		logger:      logger,
		connect:     dialTelegram,
	}
}

func dialTelegram(token string) (domaintg.Client, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Client: &http.Client{Timeout: sendTimeout},
	})
	if err != nil {
		return nil, err
	}
	return NewTelebotAdapter(bot), nil
}

// NotifyFound announces a matched appointment date. Exactly one outbound
// message per successful call; no retry on failure.
func (n *Notifier) NotifyFound(date appointment.Date) error {
	text := fmt.Sprintf("An appointment slot is available on %s!\nBook it here: %s", date, n.bookingLink)
	return n.send(text)
}

// NotifyStartup announces the running configuration once per process start.
// Best-effort: any failure is logged and swallowed.
func (n *Notifier) NotifyStartup(schedule string, windowDays int, bookingLink string) {
	text := fmt.Sprintf(
		"Appointment notifier is up.\nSchedule: %s\nLooking %d day(s) ahead.\nBooking link: %s",
		schedule, windowDays, bookingLink,
	)
	if err := n.send(text); err != nil {
		n.logger.Errorf("Startup notification failed: %v", err)
		return
	}
	n.logger.Info("Startup notification sent.")
}

// send validates the messaging configuration, lazily constructs the bot
// client and performs a single outbound send.
func (n *Notifier) send(text string) error {
	chatID, err := n.recipient()
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.client == nil {
		client, err := n.connect(n.token)
		if err != nil {
			return fmt.Errorf("%w: connecting to telegram: %v", apperr.ErrTransport, err)
		}
		n.client = client
	}

	if err := n.client.SendMessage(chatID, text, nil); err != nil {
		var tgErr *telebot.Error
		if errors.As(err, &tgErr) {
			return fmt.Errorf("%w: telegram rejected the message: %v", apperr.ErrDelivery, err)
		}
		return fmt.Errorf("%w: sending telegram message: %v", apperr.ErrTransport, err)
	}
	return nil
}

// recipient validates the three required messaging settings and returns the
// destination chat id.
func (n *Notifier) recipient() (int64, error) {
	if n.token == "" {
		return 0, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN is not set", apperr.ErrConfiguration)
	}
	if n.bookingLink == "" {
		return 0, fmt.Errorf("%w: DOCTOR_BOOKING_URL is not set", apperr.ErrConfiguration)
	}
	chatID, err := strconv.ParseInt(n.chatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: TELEGRAM_CHAT_ID %q must parse as an integer", apperr.ErrConfiguration, n.chatID)
	}
	return chatID, nil
}
