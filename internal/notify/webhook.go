package notify

import (
	"context"
	"fmt"
)

type WebhookTransport interface {
	Post(ctx context.Context, url string, payload []byte) error
}

// WebhookChannel posts the rendered JSON payload to its target URL.
// Fire-and-forget: the caller only learns whether the POST was accepted.
type WebhookChannel struct {
	transport WebhookTransport
}

func NewWebhookChannel(transport WebhookTransport) *WebhookChannel {
	return &WebhookChannel{transport: transport}
}

func (c *WebhookChannel) Name() string { return ChannelWebhook }

func (c *WebhookChannel) Send(ctx context.Context, msg Message) error {
	if msg.Target == "" {
		return fmt.Errorf("webhook channel: no target url")
	}
	return c.transport.Post(ctx, msg.Target, []byte(msg.Text))
}
