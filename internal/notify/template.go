package notify

import "regexp"

// TemplateResolver returns the template text for an id, or "" if it has
// nothing for that id.
type TemplateResolver interface {
	Resolve(id string) string
}

// TemplateChain tries resolvers in order; the first non-empty result wins.
// Wiring puts the custom override source ahead of the built-in defaults.
type TemplateChain struct {
	resolvers []TemplateResolver
}

func NewTemplateChain(resolvers ...TemplateResolver) *TemplateChain {
	return &TemplateChain{resolvers: resolvers}
}

func (c *TemplateChain) Resolve(id string) string {
	for _, r := range c.resolvers {
		if tpl := r.Resolve(id); tpl != "" {
			return tpl
		}
	}
	return ""
}

// MapResolver serves templates from a plain map. The custom override source
// (admin-edited templates) is loaded into one of these at startup.
type MapResolver map[string]string

func (m MapResolver) Resolve(id string) string { return m[id] }

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Render substitutes {{placeholder}} occurrences from the context map.
// Unresolved placeholders are left verbatim so a missing key never breaks a
// send.
func Render(tpl string, context map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tpl, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		if val, ok := context[key]; ok {
			return val
		}
		return match
	})
}

// Built-in defaults, used when no override source carries the id. Kept
// deliberately plain; the site owner overrides these from the admin side.
var BuiltinTemplates = MapResolver{
	"customer_confirmation_subject": "Thanks for getting in touch with {{site_name}}",
	"customer_confirmation_text": "Hi {{first_name}},\n\n" +
		"Thanks for contacting {{site_name}}. A member of our team will be in touch shortly.\n\n" +
		"Kind regards,\nThe {{site_name}} team",
	"customer_confirmation_html": "<p>Hi {{first_name}},</p>" +
		"<p>Thanks for contacting <strong>{{site_name}}</strong>. A member of our team will be in touch shortly.</p>" +
		"<p>Kind regards,<br>The {{site_name}} team</p>",

	"download_ready_subject": "Your download from {{site_name}}",
	"download_ready_text": "Hi {{first_name}},\n\n" +
		"Here is your copy of {{resource_name}}:\n{{download_link}}\n\n" +
		"The link stays active for {{expiry_days}} days.\n\n" +
		"Kind regards,\nThe {{site_name}} team",
	"download_ready_html": "<p>Hi {{first_name}},</p>" +
		"<p>Here is your copy of <strong>{{resource_name}}</strong>:</p>" +
		"<p><a href=\"{{download_link}}\">Download {{resource_name}}</a></p>" +
		"<p>The link stays active for {{expiry_days}} days.</p>" +
		"<p>Kind regards,<br>The {{site_name}} team</p>",

	"staff_alert_subject": "New {{kind}} from {{name}}",
	"staff_alert_text": "New {{kind}} received.\n\n" +
		"Name: {{name}}\nEmail: {{email}}\nPhone: {{phone}}\nUrgency: {{urgency}}\n\n" +
		"{{message}}\n\nView the lead: {{lead_ref_url}}",
	"staff_alert_html": "<p>New <strong>{{kind}}</strong> received.</p>" +
		"<ul><li>Name: {{name}}</li><li>Email: {{email}}</li><li>Phone: {{phone}}</li><li>Urgency: {{urgency}}</li></ul>" +
		"<p>{{message}}</p><p><a href=\"{{lead_ref_url}}\">View the lead</a></p>",

	"oncall_alert_subject": "URGENT: {{kind}} from {{name}} ({{urgency}})",
	"oncall_alert_text": "Urgent lead needs a same-day response.\n\n" +
		"Name: {{name}}\nPhone: {{phone}}\nEmail: {{email}}\n\n" +
		"{{message}}\n\nView the lead: {{lead_ref_url}}",

	"webhook_alert_payload": `{"event":"lead.urgent","lead_id":"{{lead_id}}","kind":"{{kind}}","name":"{{name}}","phone":"{{phone}}","urgency":"{{urgency}}","lead_url":"{{lead_ref_url}}"}`,

	"sms_alert_body": "{{site_name}}: urgent {{kind}} from {{name}} {{phone}}. {{lead_ref_url}}",
}
