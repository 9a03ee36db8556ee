package notification

import (
	"context"
	"errors"
)

// ErrMissingCredentials marks a channel that is enabled in configuration
// but lacks the secrets it needs. The channel reports it immediately,
// without any network call.
var ErrMissingCredentials = errors.New("missing credentials")

// Channel is one delivery target. Send returns nil only when the provider
// accepted the message; it never panics past its own boundary.
type Channel interface {
	Name() string
	Send(ctx context.Context, message string) error
}
