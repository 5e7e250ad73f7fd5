package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const webhookMaxRetries = 3

// cancellationEvent - тело уведомления об отмене
type cancellationEvent struct {
	Event       string    `json:"event"`
	Plate       string    `json:"plate"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// errPermanent - ответ, который не имеет смысла повторять (4xx)
var errPermanent = errors.New("permanent webhook error")

// WebhookSink отправляет отмены POST запросом во внешний сервис
type WebhookSink struct {
	url        string
	httpClient *http.Client
	backoff    time.Duration
	now        func() time.Time
}

// NewWebhookSink создает WebhookSink
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url:     url,
		backoff: time.Second,
		now:     time.Now,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// RecordCancellation отправляет уведомление с повторами при сетевых ошибках и 5xx
func (s *WebhookSink) RecordCancellation(ctx context.Context, plate, reason string) error {
	payload, err := json.Marshal(cancellationEvent{
		Event:       "admission.cancelled",
		Plate:       plate,
		Reason:      reason,
		CancelledAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < webhookMaxRetries; attempt++ {
		if attempt > 0 {
			// Линейная задержка между попытками
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.backoff):
			}
		}

		lastErr = s.send(ctx, payload)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, errPermanent) {
			break
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", webhookMaxRetries, lastErr)
}

// send выполняет один запрос; тело пересоздается на каждую попытку
func (s *WebhookSink) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: status %d: %s", errPermanent, resp.StatusCode, string(body))
	}
	return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
}

// Health проверяет доступность получателя
func (s *WebhookSink) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
