package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// SMSChannel is the extension point for a texting integration. It posts
// {to, body} to whatever SMS gateway hook is configured; swapping providers
// means changing one URL.
type SMSChannel struct {
	transport  WebhookTransport
	gatewayURL string
}

func NewSMSChannel(transport WebhookTransport, gatewayURL string) *SMSChannel {
	return &SMSChannel{transport: transport, gatewayURL: gatewayURL}
}

func (c *SMSChannel) Name() string { return ChannelSMS }

func (c *SMSChannel) Send(ctx context.Context, msg Message) error {
	if c.gatewayURL == "" {
		return fmt.Errorf("sms channel: gateway not configured")
	}
	if msg.Target == "" {
		return fmt.Errorf("sms channel: no recipient number")
	}
	payload, err := json.Marshal(map[string]string{
		"to":   msg.Target,
		"body": msg.Text,
	})
	if err != nil {
		return err
	}
	return c.transport.Post(ctx, c.gatewayURL, payload)
}
