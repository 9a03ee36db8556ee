package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qiangs1023/finpulse/internal/service/notification"
)

func TestSend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	svc := NewService("token123", "chat456", WithAPIBase(srv.URL))

	err := svc.Send(context.Background(), "行情播报")
	require.NoError(t, err)

	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "chat456", gotPayload["chat_id"])
	assert.Equal(t, "行情播报", gotPayload["text"])
	assert.Equal(t, "Markdown", gotPayload["parse_mode"])
}

func TestSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewService("token", "chat", WithAPIBase(srv.URL))

	err := svc.Send(context.Background(), "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
	assert.False(t, errors.Is(err, notification.ErrMissingCredentials))
}

func TestSendMissingCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected for a misconfigured channel")
	}))
	defer srv.Close()

	svc := NewService("", "", WithAPIBase(srv.URL))

	err := svc.Send(context.Background(), "m")
	require.Error(t, err)
	assert.True(t, errors.Is(err, notification.ErrMissingCredentials))
}
