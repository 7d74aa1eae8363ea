package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LeadKind string

const (
	KindEnquiry         LeadKind = "enquiry"
	KindCallbackRequest LeadKind = "callback_request"
	KindDownloadRequest LeadKind = "download_request"
)

type Urgency string

const (
	UrgencyStandard  Urgency = "standard"
	UrgencySoon      Urgency = "soon"
	UrgencyImmediate Urgency = "immediate"
)

type LeadStatus string

const (
	StatusNew                 LeadStatus = "new"
	StatusContacted           LeadStatus = "contacted"
	StatusAssessmentScheduled LeadStatus = "assessment_scheduled"
	StatusProposalSent        LeadStatus = "proposal_sent"
	StatusWon                 LeadStatus = "won"
	StatusLost                LeadStatus = "lost"
	StatusNotRightFit         LeadStatus = "not_right_fit"
)

// Value Object: where the submission came from.
type SourceMeta struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer,omitempty"`
	UTM       string `json:"utm,omitempty"`
}

// Entidade: Lead
//
// Immutable once written, except the follow-up fields (Status, AssignedTo,
// ConvertedAt) which a case worker mutates through the status use case.
type Lead struct {
	ID        string   `json:"id"`
	Kind      LeadKind `json:"kind"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	BirthDate string   `json:"birth_date,omitempty"`
	Message   string   `json:"message,omitempty"`

	Consent bool       `json:"consent"`
	Source  SourceMeta `json:"source"`
	Urgency Urgency    `json:"urgency"`

	// Pipeline fields (enquiries only)
	Status      LeadStatus `json:"status"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`

	ResourceID string    `json:"resource_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Factory
func NewLead(kind LeadKind, name, email string, now time.Time) *Lead {
	return &Lead{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		Email:     email,
		Urgency:   UrgencyStandard,
		Status:    StatusNew,
		CreatedAt: now,
	}
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !l.Consent {
		return errors.New("consent is required")
	}
	if l.Kind == KindDownloadRequest && l.ResourceID == "" {
		return errors.New("resource_id is required for download requests")
	}
	return nil
}

// Urgent reports whether this lead should trigger the urgent channel set.
// Callback requests are always urgent regardless of the flag.
func (l *Lead) Urgent() bool {
	return l.Urgency != UrgencyStandard || l.Kind == KindCallbackRequest
}

var statusTransitions = map[LeadStatus][]LeadStatus{
	StatusNew:                 {StatusContacted},
	StatusContacted:           {StatusAssessmentScheduled},
	StatusAssessmentScheduled: {StatusProposalSent},
	StatusProposalSent:        {StatusWon, StatusLost, StatusNotRightFit},
}

// TransitionTo moves an enquiry through the pipeline. Entering won stamps
// ConvertedAt once; no other status change has side effects.
func (l *Lead) TransitionTo(next LeadStatus, now time.Time) error {
	if l.Kind != KindEnquiry {
		return fmt.Errorf("lead %s is a %s, only enquiries carry a pipeline status", l.ID, l.Kind)
	}
	allowed := false
	for _, s := range statusTransitions[l.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("illegal status transition %s -> %s", l.Status, next)
	}
	l.Status = next
	if next == StatusWon && l.ConvertedAt == nil {
		t := now
		l.ConvertedAt = &t
	}
	return nil
}

func ValidKind(k string) bool {
	switch LeadKind(k) {
	case KindEnquiry, KindCallbackRequest, KindDownloadRequest:
		return true
	}
	return false
}

func ValidUrgency(u string) bool {
	switch Urgency(u) {
	case UrgencyStandard, UrgencySoon, UrgencyImmediate:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch LeadStatus(s) {
	case StatusNew, StatusContacted, StatusAssessmentScheduled,
		StatusProposalSent, StatusWon, StatusLost, StatusNotRightFit:
		return true
	}
	return false
}
