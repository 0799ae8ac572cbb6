package event

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/EventBus"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/detoxmine/detoxmine/internal/model"
)

// Emitter fans committed events out to the in-process bus and, when
// configured, to a signed webhook endpoint. Delivery is best-effort:
// the committed event row is the durable record.
type Emitter struct {
	bus        EventBus.Bus
	webhookURL string
	webhook    *standardwebhooks.Webhook
	client     *http.Client
}

func NewEmitter(webhookURL, webhookSecret string) (*Emitter, error) {
	e := &Emitter{
		bus:        EventBus.New(),
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}

	if webhookURL != "" {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(webhookSecret))
		if err != nil {
			return nil, fmt.Errorf("failed to init webhook signer: %w", err)
		}
		e.webhook = wh
	}

	return e, nil
}

// Subscribe registers a handler for an event kind.
func (e *Emitter) Subscribe(kind string, fn func(evt *model.Event)) error {
	return e.bus.Subscribe(kind, fn)
}

// Publish fans one committed event out. Call only after the transaction
// that persisted the event has committed.
func (e *Emitter) Publish(evt *model.Event) {
	slog.Debug("event emitted", "kind", evt.Kind, "subject", evt.Subject, "id", evt.ID)

	e.bus.Publish(evt.Kind, evt)

	if e.webhook != nil {
		e.deliver(evt)
	}
}

// PublishAll fans out a batch in order.
func (e *Emitter) PublishAll(events []*model.Event) {
	for _, evt := range events {
		e.Publish(evt)
	}
}

func (e *Emitter) deliver(evt *model.Event) {
	body := []byte(evt.Payload)

	signature, err := e.webhook.Sign(evt.ID, evt.CreatedAt, body)
	if err != nil {
		slog.Error("failed to sign webhook", "error", err, "event_id", evt.ID)
		return
	}

	req, err := http.NewRequest(http.MethodPost, e.webhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build webhook request", "error", err, "event_id", evt.ID)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("webhook-id", evt.ID)
	req.Header.Set("webhook-timestamp", fmt.Sprintf("%d", evt.CreatedAt.Unix()))
	req.Header.Set("webhook-signature", signature)
	req.Header.Set("x-event-kind", evt.Kind)

	resp, err := e.client.Do(req)
	if err != nil {
		slog.Warn("webhook delivery failed", "error", err, "event_id", evt.ID)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("webhook delivery rejected", "status", resp.StatusCode, "event_id", evt.ID)
	}
}
