package client

import "context"

// OutboundMessage is a channel-agnostic notification payload.
// Each channel picks the recipient field it needs.
type OutboundMessage struct {
	Title string
	Body  string
	Email string
	Phone string
}

// Channel is a best-effort outbound notification channel.
// Send errors are logged by the caller, never propagated to the user.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg OutboundMessage) error
}
