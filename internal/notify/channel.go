package notify

import "context"

// Message is a fully rendered payload for one channel. Email channels use
// Subject/Text/HTML; webhook-style channels carry their JSON body in Text.
type Message struct {
	Target  string
	Subject string
	Text    string
	HTML    string
}

// Channel is one delivery mechanism. Implementations must be safe for
// concurrent use; the engine fans out to all of them at once.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Registry maps channel names to implementations. Rules reference channels
// by name so the wiring stays in main.
type Registry struct {
	channels map[string]Channel
}

func NewRegistry(channels ...Channel) *Registry {
	r := &Registry{channels: make(map[string]Channel)}
	for _, c := range channels {
		r.channels[c.Name()] = c
	}
	return r
}

func (r *Registry) Register(c Channel) {
	r.channels[c.Name()] = c
}

func (r *Registry) Get(name string) (Channel, bool) {
	c, ok := r.channels[name]
	return c, ok
}
