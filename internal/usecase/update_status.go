package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/harborlight-care/leadcore/internal/entity"
)

type UpdateLeadStatusInput struct {
	LeadID     string `json:"-"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

// UpdateLeadStatusUseCase is the case-worker side of the pipeline. The lead
// itself stays immutable; only status, assignment and the won-conversion
// stamp move.
type UpdateLeadStatusUseCase struct {
	Leads LeadRepositoryInterface
	Clock Clock
}

func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, input UpdateLeadStatusInput) (*entity.Lead, error) {
	if !entity.ValidStatus(input.Status) {
		return nil, ValidationErrors{{Field: "status", Message: "is not a known status"}}
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}

	if err := lead.TransitionTo(entity.LeadStatus(input.Status), uc.Clock.Now()); err != nil {
		return nil, &DomainError{Code: "ILLEGAL_TRANSITION", Message: err.Error()}
	}
	if input.AssignedTo != "" {
		lead.AssignedTo = input.AssignedTo
	}

	if err := uc.Leads.UpdateStatus(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	return lead, nil
}
