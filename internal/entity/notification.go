package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
	OutcomeQueued = "queued"
)

// NotificationAttempt is one row of the append-only delivery audit trail.
// Every channel invocation produces exactly one, success or not.
type NotificationAttempt struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Channel   string    `json:"channel"`
	Target    string    `json:"target"`
	Payload   string    `json:"payload"`
	Outcome   string    `json:"outcome"` // sent | failed | queued
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationAttempt(leadID, channel, target, payload, outcome, errDetail string, now time.Time) *NotificationAttempt {
	return &NotificationAttempt{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Channel:   channel,
		Target:    target,
		Payload:   payload,
		Outcome:   outcome,
		Error:     errDetail,
		CreatedAt: now,
	}
}
