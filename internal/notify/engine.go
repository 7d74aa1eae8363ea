package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/harborlight-care/leadcore/internal/entity"
)

// Event is one lead-created trigger. Context carries the rendering values
// (first_name, download_link, ...) assembled by the submitting use case.
type Event struct {
	LeadID  string            `json:"lead_id"`
	Kind    entity.LeadKind   `json:"kind"`
	Urgency entity.Urgency    `json:"urgency"`
	Context map[string]string `json:"context"`
}

// Urgent mirrors the lead rule: a raised urgency flag or a callback request
// pulls in the urgent channel set.
func (e Event) Urgent() bool {
	return e.Urgency != entity.UrgencyStandard || e.Kind == entity.KindCallbackRequest
}

// ChannelBinding ties a rule to one concrete delivery: which channel, where
// to, and which templates. Target may itself contain placeholders
// (the customer confirmation targets {{email}}).
type ChannelBinding struct {
	Channel    string
	Target     string
	SubjectTpl string
	TextTpl    string
	HTMLTpl    string
	// Async bindings go through the queue when a publisher is wired;
	// without one they fall back to inline delivery.
	Async bool
}

type Rule struct {
	Name     string
	Matches  func(Event) bool
	Bindings []ChannelBinding
}

type ChannelResult struct {
	Channel string
	Target  string
	Outcome string // sent | failed | queued
	Err     string
}

// Summary is what Dispatch returns instead of an error: per-channel results,
// never a failure for the event as a whole.
type Summary struct {
	LeadID  string
	Results []ChannelResult
}

func (s Summary) Failed() []string {
	var failed []string
	for _, r := range s.Results {
		if r.Outcome == entity.OutcomeFailed {
			failed = append(failed, r.Channel)
		}
	}
	return failed
}

func (s Summary) Sent(channel string) bool {
	for _, r := range s.Results {
		if r.Channel == channel && r.Outcome == entity.OutcomeSent {
			return true
		}
	}
	return false
}

type AttemptRecorder interface {
	Append(ctx context.Context, attempt *entity.NotificationAttempt) error
}

// DispatchTask is one queued channel delivery. The idempotency key is
// (lead, channel) so a redelivered message never double-sends.
type DispatchTask struct {
	IdempotencyKey string `json:"idempotency_key"`
	Channel        string `json:"channel"`
	Event          Event  `json:"event"`
}

type TaskPublisher interface {
	PublishDispatch(ctx context.Context, task DispatchTask) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine resolves rules for an event and fans the delivery out across
// channels. Channels run concurrently, each under its own timeout; one
// channel failing or stalling never touches the others.
type Engine struct {
	registry  *Registry
	rules     []Rule
	templates *TemplateChain
	attempts  AttemptRecorder
	publisher TaskPublisher
	clock     Clock
	timeout   time.Duration
}

type EngineOption func(*Engine)

func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

func WithChannelTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.timeout = d }
}

// WithPublisher routes async bindings through the queue instead of sending
// inline.
func WithPublisher(p TaskPublisher) EngineOption {
	return func(e *Engine) { e.publisher = p }
}

func NewEngine(registry *Registry, rules []Rule, templates *TemplateChain, attempts AttemptRecorder, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:  registry,
		rules:     rules,
		templates: templates,
		attempts:  attempts,
		clock:     systemClock{},
		timeout:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) resolve(ev Event) []ChannelBinding {
	var bindings []ChannelBinding
	for _, rule := range e.rules {
		if rule.Matches == nil || rule.Matches(ev) {
			bindings = append(bindings, rule.Bindings...)
		}
	}
	return bindings
}

// Dispatch runs every applicable binding and reports per-channel outcomes.
// It never returns an error: partial failure is a summary, not an exception.
func (e *Engine) Dispatch(ctx context.Context, ev Event) Summary {
	bindings := e.resolve(ev)
	summary := Summary{LeadID: ev.LeadID, Results: make([]ChannelResult, len(bindings))}

	var wg sync.WaitGroup
	for i, b := range bindings {
		if b.Async && e.publisher != nil {
			summary.Results[i] = e.enqueue(ctx, b, ev)
			continue
		}
		wg.Add(1)
		go func(i int, b ChannelBinding) {
			defer wg.Done()
			summary.Results[i] = e.deliver(ctx, b, ev)
		}(i, b)
	}
	wg.Wait()
	return summary
}

// DispatchChannel delivers one named channel inline. The queue worker calls
// this for tasks it pulls off the exchange.
func (e *Engine) DispatchChannel(ctx context.Context, channel string, ev Event) ChannelResult {
	for _, b := range e.resolve(ev) {
		if b.Channel == channel {
			return e.deliver(ctx, b, ev)
		}
	}
	return ChannelResult{Channel: channel, Outcome: entity.OutcomeFailed, Err: "no binding for channel"}
}

func (e *Engine) enqueue(ctx context.Context, b ChannelBinding, ev Event) ChannelResult {
	task := DispatchTask{
		IdempotencyKey: ev.LeadID + ":" + b.Channel,
		Channel:        b.Channel,
		Event:          ev,
	}
	if err := e.publisher.PublishDispatch(ctx, task); err != nil {
		log.Printf("notify: enqueue %s failed, sending inline: %v", b.Channel, err)
		return e.deliver(ctx, b, ev)
	}
	return ChannelResult{Channel: b.Channel, Target: Render(b.Target, ev.Context), Outcome: entity.OutcomeQueued}
}

func (e *Engine) deliver(ctx context.Context, b ChannelBinding, ev Event) ChannelResult {
	msg := Message{
		Target:  Render(b.Target, ev.Context),
		Subject: Render(e.templates.Resolve(b.SubjectTpl), ev.Context),
		Text:    Render(e.templates.Resolve(b.TextTpl), ev.Context),
		HTML:    Render(e.templates.Resolve(b.HTMLTpl), ev.Context),
	}

	result := ChannelResult{Channel: b.Channel, Target: msg.Target, Outcome: entity.OutcomeSent}
	ch, ok := e.registry.Get(b.Channel)
	if !ok {
		result.Outcome = entity.OutcomeFailed
		result.Err = "channel not registered"
	} else if err := e.send(ctx, ch, msg); err != nil {
		result.Outcome = entity.OutcomeFailed
		result.Err = err.Error()
	}

	e.record(ctx, ev, msg, result)
	return result
}

// send bounds a channel invocation with the per-channel timeout even when
// the underlying transport ignores the context.
func (e *Engine) send(ctx context.Context, ch Channel, msg Message) error {
	sctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- ch.Send(sctx, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-sctx.Done():
		return sctx.Err()
	}
}

func (e *Engine) record(ctx context.Context, ev Event, msg Message, result ChannelResult) {
	if e.attempts == nil {
		return
	}
	payload := msg.Text
	if payload == "" {
		payload = msg.HTML
	}
	attempt := entity.NewNotificationAttempt(
		ev.LeadID, result.Channel, result.Target, payload, result.Outcome, result.Err, e.clock.Now(),
	)
	if err := e.attempts.Append(ctx, attempt); err != nil {
		log.Printf("notify: failed to record attempt for %s: %v", result.Channel, err)
	}
}
