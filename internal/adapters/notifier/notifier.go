package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dappnode/validator-status/internal/application/domain"
)

// Notifier posts status summaries as message cards to a chat webhook.
type Notifier struct {
	WebhookURL string
	HTTPClient *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		WebhookURL: webhookURL,
		HTTPClient: &http.Client{Timeout: 3 * time.Second},
	}
}

type ThemeColor string

const (
	Healthy  ThemeColor = "2EB886"
	Degraded ThemeColor = "E8A317"
)

type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Section struct {
	ActivityTitle string `json:"activityTitle,omitempty"`
	Facts         []Fact `json:"facts"`
}

type CardPayload struct {
	Type       string     `json:"@type"`
	Context    string     `json:"@context"`
	Summary    string     `json:"summary"`
	ThemeColor ThemeColor `json:"themeColor,omitempty"`
	Title      string     `json:"title"`
	Sections   []Section  `json:"sections"`
}

func (n *Notifier) sendNotification(ctx context.Context, payload CardPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification failed with status: %s", resp.Status)
	}
	return nil
}

// SendStatusSummary sends one card with a fact per histogram entry, sorted by key.
// Status names and batch ranges are mixed, as they are in the histogram.
func (n *Notifier) SendStatusSummary(ctx context.Context, title string, summary domain.StatusHistogram) error {
	facts := make([]Fact, 0, len(summary))
	for _, key := range summary.Keys() {
		facts = append(facts, Fact{Name: key, Value: strconv.Itoa(summary[key])})
	}

	payload := CardPayload{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		Summary:    title,
		ThemeColor: themeFor(summary),
		Title:      title,
		Sections:   []Section{{Facts: facts}},
	}
	return n.sendNotification(ctx, payload)
}

// themeFor flags the card when no validator is active_ongoing.
func themeFor(summary domain.StatusHistogram) ThemeColor {
	if summary[string(domain.StatusActiveOngoing)] > 0 {
		return Healthy
	}
	return Degraded
}
