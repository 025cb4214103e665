// Package publish posts announcement messages to a social feed.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dghubble/oauth1"

	"linkdir/internal/domain/config"
)

type Publisher interface {
	Publish(ctx context.Context, message string) error
}

// Twitter posts a status through the v2 tweets endpoint, signing requests
// with OAuth 1.0a user credentials.
type Twitter struct {
	endpoint string
	client   *http.Client
}

func NewTwitter(ctx context.Context, cfg config.TwitterConfig) *Twitter {
	oc := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
	return &Twitter{
		endpoint: cfg.Endpoint,
		client:   oc.Client(ctx, token),
	}
}

type tweetRequest struct {
	Text string `json:"text"`
}

func (t *Twitter) Publish(ctx context.Context, message string) error {
	body, err := json.Marshal(tweetRequest{Text: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("publish: unexpected status %s: %s", resp.Status, bytes.TrimSpace(detail))
	}
	return nil
}

// LogPublisher only logs the message. The announce command uses it for dry
// runs.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, message string) error {
	p.Logger.Info("dry run, not publishing", slog.String("message", message))
	return nil
}
