package notify

import "github.com/harborlight-care/leadcore/internal/entity"

// Channel names used by the default rule set. Wiring registers an
// implementation per name; unregistered names simply fail their binding.
const (
	ChannelEmail       = "email"
	ChannelOnCallEmail = "oncall_email"
	ChannelWebhook     = "webhook"
	ChannelSMS         = "sms"
)

// RuleConfig carries the wiring-time targets for the default rule set.
type RuleConfig struct {
	StaffEmail      string
	OnCallEmail     string
	AlertWebhookURL string
	SMSTarget       string
}

// DefaultRules builds the standard + urgent rule sets.
//
// The standard set always fires: a confirmation to the submitter and an
// alert to the staff inbox. Download requests swap the confirmation for the
// download-link email. The urgent set (on-call email, webhook alert, SMS
// hook) is added for urgent events only, and those channels are async — they
// go through the queue when one is wired.
func DefaultRules(cfg RuleConfig) []Rule {
	return []Rule{
		{
			Name: "confirmation",
			Matches: func(ev Event) bool {
				return ev.Kind != entity.KindDownloadRequest
			},
			Bindings: []ChannelBinding{
				{
					Channel:    ChannelEmail,
					Target:     "{{email}}",
					SubjectTpl: "customer_confirmation_subject",
					TextTpl:    "customer_confirmation_text",
					HTMLTpl:    "customer_confirmation_html",
				},
			},
		},
		{
			Name: "download_link",
			Matches: func(ev Event) bool {
				return ev.Kind == entity.KindDownloadRequest
			},
			Bindings: []ChannelBinding{
				{
					Channel:    ChannelEmail,
					Target:     "{{email}}",
					SubjectTpl: "download_ready_subject",
					TextTpl:    "download_ready_text",
					HTMLTpl:    "download_ready_html",
				},
			},
		},
		{
			Name: "staff_alert",
			Bindings: []ChannelBinding{
				{
					Channel:    ChannelEmail,
					Target:     cfg.StaffEmail,
					SubjectTpl: "staff_alert_subject",
					TextTpl:    "staff_alert_text",
					HTMLTpl:    "staff_alert_html",
				},
			},
		},
		{
			Name:    "urgent",
			Matches: Event.Urgent,
			Bindings: []ChannelBinding{
				{
					Channel:    ChannelOnCallEmail,
					Target:     cfg.OnCallEmail,
					SubjectTpl: "oncall_alert_subject",
					TextTpl:    "oncall_alert_text",
					Async:      true,
				},
				{
					Channel: ChannelWebhook,
					Target:  cfg.AlertWebhookURL,
					TextTpl: "webhook_alert_payload",
					Async:   true,
				},
				{
					Channel: ChannelSMS,
					Target:  cfg.SMSTarget,
					TextTpl: "sms_alert_body",
					Async:   true,
				},
			},
		},
	}
}
