package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannel struct {
	name   string
	err    error
	panics bool
	delay  time.Duration
}

func (s stubChannel) Name() string {
	return s.name
}

func (s stubChannel) Send(ctx context.Context, message string) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panics {
		panic("channel exploded")
	}
	return s.err
}

func TestSendAllChannelIndependence(t *testing.T) {
	misconfigured := stubChannel{
		name: "telegram",
		err:  fmt.Errorf("telegram: bot_token or chat_id not set: %w", ErrMissingCredentials),
	}
	healthy := stubChannel{name: "wechat"}

	d := NewDispatcher(misconfigured, healthy)
	results := d.SendAll(context.Background(), "测试消息")

	require.Len(t, results, 2)
	assert.False(t, results["telegram"].Success)
	assert.Contains(t, results["telegram"].Detail, "missing credentials")
	assert.True(t, results["wechat"].Success)
	assert.Equal(t, "ok", results["wechat"].Detail)
}

func TestSendAllDistinguishesFailureModes(t *testing.T) {
	noCreds := stubChannel{name: "a", err: fmt.Errorf("a: %w", ErrMissingCredentials)}
	delivery := stubChannel{name: "b", err: errors.New("b: unexpected status 502")}

	results := NewDispatcher(noCreds, delivery).SendAll(context.Background(), "m")

	assert.Contains(t, results["a"].Detail, "missing credentials")
	assert.Contains(t, results["b"].Detail, "unexpected status 502")
	assert.NotEqual(t, results["a"].Detail, results["b"].Detail)
}

func TestSendAllRecoversChannelPanic(t *testing.T) {
	d := NewDispatcher(
		stubChannel{name: "boom", panics: true},
		stubChannel{name: "fine"},
	)

	results := d.SendAll(context.Background(), "m")

	require.Len(t, results, 2)
	assert.False(t, results["boom"].Success)
	assert.Contains(t, results["boom"].Detail, "panic")
	assert.True(t, results["fine"].Success)
}

func TestSendAllAsyncOneResultPerChannel(t *testing.T) {
	d := NewDispatcher(
		stubChannel{name: "slow", delay: 30 * time.Millisecond},
		stubChannel{name: "fast"},
		stubChannel{name: "broken", err: errors.New("down")},
	)

	results := d.SendAllAsync(context.Background(), "m")

	require.Len(t, results, 3)
	assert.True(t, results["slow"].Success)
	assert.True(t, results["fast"].Success)
	assert.False(t, results["broken"].Success)
}

func TestSendAllNoChannels(t *testing.T) {
	d := NewDispatcher()
	assert.Empty(t, d.SendAll(context.Background(), "m"))
	assert.Empty(t, d.ChannelNames())
}
