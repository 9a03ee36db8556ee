// Package telegram delivers messages through the Telegram bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Qiangs1023/finpulse/internal/service/notification"
)

const defaultAPIBase = "https://api.telegram.org"

type Service struct {
	botToken string
	chatID   string
	apiBase  string
	cli      *http.Client
}

type Option func(*Service)

func WithHTTPClient(cli *http.Client) Option {
	return func(s *Service) {
		s.cli = cli
	}
}

// WithAPIBase overrides the bot API host, mainly for tests.
func WithAPIBase(base string) Option {
	return func(s *Service) {
		s.apiBase = strings.TrimRight(base, "/")
	}
}

func NewService(botToken, chatID string, opts ...Option) notification.Channel {
	svc := &Service{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		cli: &http.Client{
			Timeout: 30 * time.Second,
			// Telegram is often reachable only through a proxy
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) Name() string {
	return "telegram"
}

func (s *Service) Send(ctx context.Context, message string) error {
	if s.botToken == "" || s.chatID == "" {
		return fmt.Errorf("telegram: bot_token or chat_id not set: %w", notification.ErrMissingCredentials)
	}

	payload, err := json.Marshal(map[string]any{
		"chat_id":    s.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: unexpected status %d", resp.StatusCode)
	}
	return nil
}
