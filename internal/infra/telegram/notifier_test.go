// internal/infra/telegram/notifier_test.go
package telegram

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"appointment_notifier_bot/internal/apperr"
	domaintg "appointment_notifier_bot/internal/domain/telegram"
	"appointment_notifier_bot/internal/infra/config"
)

type fakeClient struct {
	chatIDs []int64
	texts   []string
	sendErr error
}

func (f *fakeClient) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	f.chatIDs = append(f.chatIDs, chatID)
	f.texts = append(f.texts, text)
	return f.sendErr
}

func newTestNotifier(t *testing.T, cfg *config.AppConfig, client domaintg.Client) (*Notifier, *int) {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	connects := 0
	n := NewNotifier(cfg, l.WithField("component", "notifier"))
	n.connect = func(string) (domaintg.Client, error) {
		connects++
		return client, nil
	}
	return n, &connects
}

func validConfig() *config.AppConfig {
	return &config.AppConfig{
		TelegramToken:  "123:abc",
		TelegramChatID: "4242",
		BookingURL:     "https://clinic.example.com/book",
	}
}

func TestNotifyFoundSendsDateAndBookingLink(t *testing.T) {
	client := &fakeClient{}
	n, connects := newTestNotifier(t, validConfig(), client)

	err := n.NotifyFound("2024-03-15")
	require.NoError(t, err)

	require.Len(t, client.texts, 1)
	assert.Equal(t, int64(4242), client.chatIDs[0])
	assert.Contains(t, client.texts[0], "2024-03-15")
	assert.Contains(t, client.texts[0], "https://clinic.example.com/book")
	assert.Equal(t, 1, *connects)
}

func TestNotifyFoundReusesClientAcrossCalls(t *testing.T) {
	client := &fakeClient{}
	n, connects := newTestNotifier(t, validConfig(), client)

	require.NoError(t, n.NotifyFound("2024-03-15"))
	require.NoError(t, n.NotifyFound("2024-03-16"))
	assert.Equal(t, 1, *connects)
	assert.Len(t, client.texts, 2)
}

func TestConcurrentSendsShareSingleClient(t *testing.T) {
	// The startup notification fires from a timer goroutine and can overlap
	// a scheduled cycle's found-notification; both go through send and the
	// lazily-installed client.
	client := &fakeClient{}
	n, connects := newTestNotifier(t, validConfig(), client)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		n.NotifyStartup("* * * * *", 14, "https://clinic.example.com/book")
	}()
	go func() {
		defer wg.Done()
		_ = n.NotifyFound("2024-03-15")
	}()
	wg.Wait()

	assert.Equal(t, 1, *connects, "concurrent sends must share one client")
	assert.Len(t, client.texts, 2)
}

func TestNotifyFoundNonNumericChatID(t *testing.T) {
	cfg := validConfig()
	cfg.TelegramChatID = "abc"
	client := &fakeClient{}
	n, connects := newTestNotifier(t, cfg, client)

	err := n.NotifyFound("2024-03-15")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
	// Configuration is rejected before any network activity.
	assert.Zero(t, *connects)
	assert.Empty(t, client.texts)
}

func TestNotifyFoundMissingSettings(t *testing.T) {
	for name, mutate := range map[string]func(*config.AppConfig){
		"token":        func(c *config.AppConfig) { c.TelegramToken = "" },
		"booking link": func(c *config.AppConfig) { c.BookingURL = "" },
		"chat id":      func(c *config.AppConfig) { c.TelegramChatID = "" },
	} {
		cfg := validConfig()
		mutate(cfg)
		n, _ := newTestNotifier(t, cfg, &fakeClient{})

		err := n.NotifyFound("2024-03-15")
		require.Error(t, err, "missing %s", name)
		assert.True(t, errors.Is(err, apperr.ErrConfiguration), "missing %s", name)
	}
}

func TestNotifyFoundClassifiesAPIRejectionAsDelivery(t *testing.T) {
	client := &fakeClient{sendErr: &telebot.Error{Code: 400, Description: "Bad Request: chat not found"}}
	n, _ := newTestNotifier(t, validConfig(), client)

	err := n.NotifyFound("2024-03-15")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDelivery))
}

func TestNotifyFoundClassifiesNetworkFailureAsTransport(t *testing.T) {
	client := &fakeClient{sendErr: errors.New("dial tcp: connection refused")}
	n, _ := newTestNotifier(t, validConfig(), client)

	err := n.NotifyFound("2024-03-15")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrTransport))
}

func TestNotifyStartupSendsConfiguration(t *testing.T) {
	client := &fakeClient{}
	n, _ := newTestNotifier(t, validConfig(), client)

	n.NotifyStartup("*/10 * * * *", 14, "https://clinic.example.com/book")

	require.Len(t, client.texts, 1)
	assert.Contains(t, client.texts[0], "*/10 * * * *")
	assert.Contains(t, client.texts[0], "14 day(s)")
	assert.Contains(t, client.texts[0], "https://clinic.example.com/book")
}

func TestNotifyStartupSwallowsFailures(t *testing.T) {
	cfg := validConfig()
	cfg.TelegramChatID = "not-a-number"
	n, _ := newTestNotifier(t, cfg, &fakeClient{})

	// Must not panic or propagate; best-effort heartbeat only.
	n.NotifyStartup("* * * * *", 7, "https://clinic.example.com/book")

	client := &fakeClient{sendErr: &telebot.Error{Code: 403, Description: "Forbidden"}}
	n2, _ := newTestNotifier(t, validConfig(), client)
	n2.NotifyStartup("* * * * *", 7, "https://clinic.example.com/book")
	assert.Len(t, client.texts, 1)
}
