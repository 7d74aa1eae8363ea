package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/notify"
)

type SubmitLeadInput struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
	Message   string `json:"message"`
	Urgency   string `json:"urgency"`
	Consent   bool   `json:"consent"`

	ResourceID string `json:"resource_id"`

	// Anti-abuse fields. Website is the honeypot: humans never see it,
	// bots fill it.
	FormToken string `json:"form_token"`
	Website   string `json:"website"`

	// Filled by the HTTP layer, not the submitter.
	IP        string `json:"-"`
	UserAgent string `json:"-"`
	Referrer  string `json:"-"`
	UTM       string `json:"-"`
}

type SubmitLeadOutput struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
}

type SubmitLeadUseCase struct {
	Leads     LeadRepositoryInterface
	Resources ResourceRepositoryInterface
	Limiter   RateLimiter
	Security  SecurityTokenVerifier
	Tokens    *TokenService
	Notifier  NotificationDispatcher
	Clock     Clock

	BaseURL  string
	AdminURL string
	SiteName string
}

// Execute runs the full intake pipeline: honeypot, anti-forgery check, rate
// limit, validation, persist, then either token issuance (downloads) or
// notification fan-out (enquiries/callbacks). Notification failures never
// fail the submission.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	// A filled honeypot gets a success response and no record; the bot
	// learns nothing.
	if strings.TrimSpace(input.Website) != "" {
		log.Printf("submit: honeypot tripped from %s, discarding", input.IP)
		return &SubmitLeadOutput{Success: true}, nil
	}

	if uc.Security != nil && !uc.Security.Verify(input.FormToken) {
		return nil, ErrSecurityCheck
	}

	allowed, err := uc.Limiter.Allow(ctx, input.IP)
	if err != nil {
		// A broken limiter store should not take intake down with it.
		log.Printf("submit: rate limiter unavailable, admitting: %v", err)
	} else if !allowed {
		return nil, ErrRateLimited
	}

	if !input.Consent {
		return nil, ErrConsentRequired
	}
	if errs := ValidateSubmitLeadInput(input); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	var resource *entity.Resource
	if entity.LeadKind(input.Kind) == entity.KindDownloadRequest {
		resource, err = uc.Resources.FindByID(ctx, input.ResourceID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return nil, ValidationErrors{{Field: "resource_id", Message: "is unknown"}}
			}
			return nil, fmt.Errorf("failed to load resource: %w", err)
		}
	}

	lead := entity.NewLead(entity.LeadKind(input.Kind), strings.TrimSpace(input.Name), strings.TrimSpace(input.Email), uc.Clock.Now())
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.BirthDate = input.BirthDate
	lead.Message = strings.TrimSpace(input.Message)
	lead.Consent = input.Consent
	lead.ResourceID = input.ResourceID
	lead.Source = entity.SourceMeta{
		IP:        input.IP,
		UserAgent: input.UserAgent,
		Referrer:  input.Referrer,
		UTM:       input.UTM,
	}
	if input.Urgency != "" {
		lead.Urgency = entity.Urgency(input.Urgency)
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	// From here on the submission has succeeded; everything below is
	// best-effort follow-through.
	ev := uc.buildEvent(lead, resource)

	if lead.Kind == entity.KindDownloadRequest {
		expiryDays := entity.ClampExpiryDays(resource.ExpiryDays)
		rawToken, err := uc.Tokens.Issue(ctx, lead.ID, resource.ID, expiryDays)
		if err != nil {
			log.Printf("submit: token issuance failed for lead %s: %v", lead.ID, err)
		} else {
			ev.Context["download_link"] = uc.BaseURL + "/api/download/" + rawToken
			ev.Context["expiry_days"] = strconv.Itoa(expiryDays)
		}
	}

	if uc.Notifier != nil {
		summary := uc.Notifier.Dispatch(ctx, ev)
		if failed := summary.Failed(); len(failed) > 0 {
			log.Printf("submit: lead %s stored, channels failed: %s", lead.ID, strings.Join(failed, ", "))
		}
	}

	return &SubmitLeadOutput{ID: lead.ID, Success: true}, nil
}

func (uc *SubmitLeadUseCase) buildEvent(lead *entity.Lead, resource *entity.Resource) notify.Event {
	first, _, _ := strings.Cut(lead.Name, " ")
	ctxMap := map[string]string{
		"lead_id":      lead.ID,
		"kind":         string(lead.Kind),
		"name":         lead.Name,
		"first_name":   first,
		"email":        lead.Email,
		"phone":        lead.Phone,
		"message":      lead.Message,
		"urgency":      string(lead.Urgency),
		"site_name":    uc.SiteName,
		"lead_ref_url": uc.AdminURL + "/leads/" + lead.ID,
	}
	if resource != nil {
		ctxMap["resource_name"] = resource.Name
	}
	return notify.Event{
		LeadID:  lead.ID,
		Kind:    lead.Kind,
		Urgency: lead.Urgency,
		Context: ctxMap,
	}
}
