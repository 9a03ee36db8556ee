// Package wechat delivers messages through a 企业微信 group robot webhook.
package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Qiangs1023/finpulse/internal/service/notification"
)

type Service struct {
	webhook string
	cli     *http.Client
}

type Option func(*Service)

func WithHTTPClient(cli *http.Client) Option {
	return func(s *Service) {
		s.cli = cli
	}
}

func NewService(webhook string, opts ...Option) notification.Channel {
	svc := &Service{
		webhook: webhook,
		cli:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) Name() string {
	return "wechat"
}

func (s *Service) Send(ctx context.Context, message string) error {
	if s.webhook == "" {
		return fmt.Errorf("wechat: webhook url not set: %w", notification.ErrMissingCredentials)
	}

	payload, err := json.Marshal(map[string]any{
		"msgtype":  "markdown",
		"markdown": map[string]any{"content": message},
	})
	if err != nil {
		return fmt.Errorf("wechat: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("wechat: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return fmt.Errorf("wechat: %w", err)
	}
	defer resp.Body.Close()

	// the robot reports failures in the body, not the status code
	var body struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("wechat: %w", err)
	}
	if body.ErrCode != 0 {
		return fmt.Errorf("wechat: errcode %d: %s", body.ErrCode, body.ErrMsg)
	}
	return nil
}
