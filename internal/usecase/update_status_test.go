package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight-care/leadcore/internal/entity"
)

func newStatusFixture(t *testing.T) (*UpdateLeadStatusUseCase, *memLeadRepo, *entity.Lead) {
	t.Helper()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	leads := newMemLeadRepo()
	lead := entity.NewLead(entity.KindEnquiry, "Margaret Hale", "margaret@example.com", now)
	lead.Consent = true
	require.NoError(t, leads.Create(context.Background(), lead))

	uc := &UpdateLeadStatusUseCase{Leads: leads, Clock: &fakeClock{now: now.Add(time.Hour)}}
	return uc, leads, lead
}

func TestUpdateStatusAdvancesPipeline(t *testing.T) {
	uc, leads, lead := newStatusFixture(t)

	updated, err := uc.Execute(context.Background(), UpdateLeadStatusInput{
		LeadID:     lead.ID,
		Status:     "contacted",
		AssignedTo: "worker-3",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusContacted, updated.Status)
	assert.Equal(t, "worker-3", updated.AssignedTo)

	stored, err := leads.FindByID(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusContacted, stored.Status)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	uc, leads, lead := newStatusFixture(t)

	_, err := uc.Execute(context.Background(), UpdateLeadStatusInput{LeadID: lead.ID, Status: "won"})
	assert.True(t, IsDomainError(err))

	stored, _ := leads.FindByID(context.Background(), lead.ID)
	assert.Equal(t, entity.StatusNew, stored.Status)
}

func TestUpdateStatusStampsConversion(t *testing.T) {
	uc, leads, lead := newStatusFixture(t)

	for _, status := range []string{"contacted", "assessment_scheduled", "proposal_sent", "won"} {
		_, err := uc.Execute(context.Background(), UpdateLeadStatusInput{LeadID: lead.ID, Status: status})
		require.NoError(t, err)
	}

	stored, _ := leads.FindByID(context.Background(), lead.ID)
	assert.Equal(t, entity.StatusWon, stored.Status)
	assert.NotNil(t, stored.ConvertedAt)
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	uc, _, _ := newStatusFixture(t)
	_, err := uc.Execute(context.Background(), UpdateLeadStatusInput{LeadID: "nope", Status: "contacted"})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	uc, _, lead := newStatusFixture(t)
	_, err := uc.Execute(context.Background(), UpdateLeadStatusInput{LeadID: lead.ID, Status: "archived"})
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
