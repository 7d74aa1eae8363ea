package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	v := NewFormTokenVerifier("secret", time.Hour, clock)

	token := v.Issue()
	assert.True(t, v.Verify(token))

	// Still valid inside the window, stale past it.
	clock.now = clock.now.Add(59 * time.Minute)
	assert.True(t, v.Verify(token))
	clock.now = clock.now.Add(2 * time.Minute)
	assert.False(t, v.Verify(token))
}

func TestFormTokenRejectsTampering(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	v := NewFormTokenVerifier("secret", time.Hour, clock)

	assert.False(t, v.Verify(""))
	assert.False(t, v.Verify("1741600000"))
	assert.False(t, v.Verify(v.Issue()+"x"))

	// A token signed with a different secret never verifies.
	other := NewFormTokenVerifier("other-secret", time.Hour, clock)
	assert.False(t, v.Verify(other.Issue()))
}
