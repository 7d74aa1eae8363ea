package notify

import (
	"context"
	"fmt"
)

// MailMessage is the transport-level shape: multipart plain+HTML plus the
// optional list headers the email channel fills in.
type MailMessage struct {
	To      string
	Cc      []string
	Bcc     []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type MailTransport interface {
	Send(msg MailMessage) error
}

// EmailChannel adapts a MailTransport into a notification channel. The same
// type backs both the standard email channel and the on-call one; they
// differ only in name and header configuration.
type EmailChannel struct {
	name      string
	transport MailTransport
	cc        []string
	bcc       []string
	replyTo   string
}

type EmailOption func(*EmailChannel)

func WithCc(addrs ...string) EmailOption {
	return func(c *EmailChannel) { c.cc = addrs }
}

func WithBcc(addrs ...string) EmailOption {
	return func(c *EmailChannel) { c.bcc = addrs }
}

func WithReplyTo(addr string) EmailOption {
	return func(c *EmailChannel) { c.replyTo = addr }
}

func NewEmailChannel(name string, transport MailTransport, opts ...EmailOption) *EmailChannel {
	c := &EmailChannel{name: name, transport: transport}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *EmailChannel) Name() string { return c.name }

func (c *EmailChannel) Send(_ context.Context, msg Message) error {
	if msg.Target == "" {
		return fmt.Errorf("email channel %s: no recipient", c.name)
	}
	return c.transport.Send(MailMessage{
		To:      msg.Target,
		Cc:      c.cc,
		Bcc:     c.bcc,
		ReplyTo: c.replyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
}
