package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// Result is the outcome for one channel in one dispatch.
type Result struct {
	Channel string
	Success bool
	Detail  string
}

// Dispatcher fans one composed message out to every registered channel,
// isolating failures per channel.
type Dispatcher struct {
	channels []Channel
}

func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// ChannelNames lists the registered channels in registration order.
func (d *Dispatcher) ChannelNames() []string {
	return lo.Map(d.channels, func(ch Channel, _ int) string { return ch.Name() })
}

// SendAll delivers sequentially. Every registered channel gets exactly one
// result; one channel's failure never aborts the others and the call never
// fails.
func (d *Dispatcher) SendAll(ctx context.Context, message string) map[string]Result {
	results := make(map[string]Result, len(d.channels))
	for _, ch := range d.channels {
		results[ch.Name()] = d.send(ctx, ch, message)
	}
	return results
}

// SendAllAsync delivers concurrently with the same one-result-per-channel
// contract.
func (d *Dispatcher) SendAllAsync(ctx context.Context, message string) map[string]Result {
	outcomes := make([]Result, len(d.channels))
	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, ch, message)
		}(i, ch)
	}
	wg.Wait()

	results := make(map[string]Result, len(d.channels))
	for _, res := range outcomes {
		results[res.Channel] = res
	}
	return results
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, message string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("notification channel panicked", "channel", ch.Name(), "panic", r)
			res = Result{Channel: ch.Name(), Success: false, Detail: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if err := ch.Send(ctx, message); err != nil {
		slog.Warn("notification failed", "channel", ch.Name(), "error", err)
		return Result{Channel: ch.Name(), Success: false, Detail: err.Error()}
	}
	return Result{Channel: ch.Name(), Success: true, Detail: "ok"}
}
