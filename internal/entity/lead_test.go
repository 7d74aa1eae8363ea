package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeadPipelineHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	lead := NewLead(KindEnquiry, "Margaret Hale", "margaret@example.com", now)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, StatusNew, lead.Status)

	assert.NoError(t, lead.TransitionTo(StatusContacted, now))
	assert.NoError(t, lead.TransitionTo(StatusAssessmentScheduled, now))
	assert.NoError(t, lead.TransitionTo(StatusProposalSent, now))
	assert.Nil(t, lead.ConvertedAt)

	assert.NoError(t, lead.TransitionTo(StatusWon, now))
	if assert.NotNil(t, lead.ConvertedAt) {
		assert.Equal(t, now, *lead.ConvertedAt)
	}
}

func TestLeadIllegalTransitions(t *testing.T) {
	now := time.Now()
	lead := NewLead(KindEnquiry, "Margaret Hale", "margaret@example.com", now)

	// Cannot skip straight to won from new.
	assert.Error(t, lead.TransitionTo(StatusWon, now))
	assert.Equal(t, StatusNew, lead.Status)

	// Terminal states go nowhere.
	lead.Status = StatusLost
	assert.Error(t, lead.TransitionTo(StatusContacted, now))
}

func TestLeadConvertedAtStampedOnce(t *testing.T) {
	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	lead := NewLead(KindEnquiry, "Margaret Hale", "margaret@example.com", first)
	lead.Status = StatusProposalSent
	stamp := first.Add(time.Hour)
	lead.ConvertedAt = &stamp

	assert.NoError(t, lead.TransitionTo(StatusWon, first.Add(48*time.Hour)))
	assert.Equal(t, stamp, *lead.ConvertedAt, "an existing conversion date must not be overwritten")
}

func TestOnlyEnquiriesCarryStatus(t *testing.T) {
	lead := NewLead(KindDownloadRequest, "Margaret Hale", "margaret@example.com", time.Now())
	assert.Error(t, lead.TransitionTo(StatusContacted, time.Now()))
}

func TestLeadUrgent(t *testing.T) {
	now := time.Now()

	enquiry := NewLead(KindEnquiry, "A", "a@example.com", now)
	assert.False(t, enquiry.Urgent())

	enquiry.Urgency = UrgencyImmediate
	assert.True(t, enquiry.Urgent())

	// Callbacks are urgent even at standard urgency.
	callback := NewLead(KindCallbackRequest, "B", "b@example.com", now)
	assert.True(t, callback.Urgent())
}

func TestClampExpiryDays(t *testing.T) {
	assert.Equal(t, 1, ClampExpiryDays(0))
	assert.Equal(t, 1, ClampExpiryDays(-5))
	assert.Equal(t, 7, ClampExpiryDays(7))
	assert.Equal(t, 30, ClampExpiryDays(30))
	assert.Equal(t, 30, ClampExpiryDays(40))
}
