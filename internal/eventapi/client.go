package eventapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/metrics"
)

const maxBodyBytes = 4 << 20

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	ReadRetries int
	// Backoff is the first pause between read retries; it doubles each time.
	Backoff time.Duration
}

// Client talks to the event platform REST API. Reads are retried on
// transport failures; writes are issued exactly once.
type Client struct {
	baseURL     string
	readRetries int
	backoff     time.Duration
	hc          *http.Client
	log         *logrus.Entry
}

func New(cfg Config, log *logrus.Entry) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		readRetries: cfg.ReadRetries,
		backoff:     backoff,
		hc:          &http.Client{Timeout: timeout},
		log:         log.WithField("component", "eventapi"),
	}
}

// get issues an idempotent read with exponential backoff between attempts.
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		err := c.do(ctx, op, http.MethodGet, path, nil, out)
		if err == nil || attempt >= c.readRetries || !retryable(err) || ctx.Err() != nil {
			return err
		}

		c.log.WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt + 1,
			"backoff": backoff,
		}).WithError(err).Warn("read failed, retrying")

		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// send issues a write once. It is never retried: repeating a delete after a
// transient failure could hide an "already gone" answer from the user.
func (c *Client) send(ctx context.Context, op, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = b
	}
	return c.do(ctx, op, method, path, body, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveRequest(op, outcomeLabel(err), time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Op: op, Kind: ErrNetwork, Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{"op": op, "request_id": requestID})
	log.WithField("path", path).Debug("api request")

	resp, err := c.hc.Do(req)
	if err != nil {
		return &APIError{Op: op, Kind: ErrNetwork, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Kind: ErrNetwork, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var reply struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &reply)
		log.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"message": reply.Message,
		}).Info("api request rejected")
		return &APIError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: reply.Message,
			Kind:    kindForStatus(resp.StatusCode),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Kind: ErrNetwork, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
