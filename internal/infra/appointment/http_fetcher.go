// internal/infra/appointment/http_fetcher.go
package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"appointment_notifier_bot/internal/apperr"
	domain "appointment_notifier_bot/internal/domain/appointment"
)

const fetchTimeout = 10 * time.Second

// availabilityResponse mirrors the remote source contract: a JSON object
// with an optional next_slot timestamp.
type availabilityResponse struct {
	NextSlot string `json:"next_slot"`
}

// Formats accepted for the next_slot timestamp, tried in order.
var nextSlotLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

// HTTPFetcher implements the domain Fetcher against the remote availability
// endpoint. Every failure mode (bad URL, transport, malformed body) is
// logged and degrades to an empty result; callers cannot distinguish a
// failed check from "no slot reported".
type HTTPFetcher struct {
	rawURL string
	client *http.Client
	logger *logrus.Entry
}

func NewHTTPFetcher(rawURL string, logger *logrus.Entry) *HTTPFetcher {
	return &HTTPFetcher{
		rawURL: rawURL,
		client: &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}
}

// Fetch issues a single GET with today's date substituted for the start_date
// parameter and returns the reported next slot, if any, as a one-element
// sequence.
func (f *HTTPFetcher) Fetch(ctx context.Context) []domain.Date {
	requestURL, err := f.buildRequestURL(time.Now())
	if err != nil {
		f.logger.Errorf("Availability check skipped: %v", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		f.logger.Errorf("Availability check skipped: building request: %v", err)
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Errorf("Availability check failed: %v: %v", apperr.ErrTransport, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Errorf("Availability check failed: %v: unexpected status %d from source", apperr.ErrTransport, resp.StatusCode)
		return nil
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		f.logger.Errorf("Availability check failed: %v: decoding response body: %v", apperr.ErrParse, err)
		return nil
	}

	if payload.NextSlot == "" {
		f.logger.Debug("Source reported no next slot.")
		return nil
	}

	slot, err := parseNextSlot(payload.NextSlot)
	if err != nil {
		f.logger.Errorf("Availability check failed: %v", err)
		return nil
	}

	f.logger.Debugf("Source reported next slot on %s.", slot)
	return []domain.Date{slot}
}

// buildRequestURL validates the configured URL and substitutes today's date
// for the start_date query parameter.
func (f *HTTPFetcher) buildRequestURL(today time.Time) (string, error) {
	if f.rawURL == "" {
		return "", fmt.Errorf("%w: APPOINTMENT_URL is not set", apperr.ErrConfiguration)
	}
	u, err := url.ParseRequestURI(f.rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: APPOINTMENT_URL %q is not a valid URL", apperr.ErrConfiguration, f.rawURL)
	}

	q := u.Query()
	q.Set("start_date", today.Format(domain.DateLayout))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseNextSlot(raw string) (domain.Date, error) {
	for _, layout := range nextSlotLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.NewDate(t), nil
		}
	}
	return "", fmt.Errorf("%w: next_slot %q is not a parseable timestamp", apperr.ErrParse, raw)
}
