package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight-care/leadcore/internal/entity"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.DownloadToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*entity.DownloadToken)}
}

func (r *memTokenRepo) Create(_ context.Context, token *entity.DownloadToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokens[token.TokenHash]; exists {
		return fmt.Errorf("duplicate token hash")
	}
	cp := *token
	r.tokens[token.TokenHash] = &cp
	return nil
}

func (r *memTokenRepo) FindByHash(_ context.Context, hash string) (*entity.DownloadToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[hash]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *token
	return &cp, nil
}

func (r *memTokenRepo) Redeem(_ context.Context, hash string, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[hash]
	if !ok || !now.Before(token.ExpiresAt) {
		return 0, ErrRecordNotFound
	}
	token.RedemptionCount++
	token.LastRedeemedAt = &now
	return token.RedemptionCount, nil
}

type memResourceRepo struct {
	resources map[string]*entity.Resource
}

func (r *memResourceRepo) FindByID(_ context.Context, id string) (*entity.Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return res, nil
}

type fakeFileStore struct {
	missing map[string]bool
}

func (s *fakeFileStore) Resolve(_ context.Context, ref string) (*File, error) {
	if s.missing[ref] {
		return nil, fmt.Errorf("no such file: %s", ref)
	}
	return &File{
		Name:        ref,
		Size:        4,
		ContentType: "application/pdf",
		Content:     io.NopCloser(strings.NewReader("%PDF")),
	}, nil
}

func newTokenFixture(now time.Time) (*TokenService, *memTokenRepo, *memResourceRepo, *fakeFileStore, *fakeClock) {
	clock := &fakeClock{now: now}
	tokens := newMemTokenRepo()
	resources := &memResourceRepo{resources: map[string]*entity.Resource{
		"res-7": {ID: "res-7", Name: "Care Funding Guide", FileReference: "guides/funding.pdf", Availability: "active", ExpiryDays: 7},
	}}
	files := &fakeFileStore{missing: make(map[string]bool)}
	return NewTokenService(tokens, resources, files, clock), tokens, resources, files, clock
}

func TestIssueAndRedeemRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTokenFixture(now)

	raw, err := svc.Issue(ctx, "lead-42", "res-7", 7)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	download, err := svc.Redeem(ctx, raw)
	require.NoError(t, err)
	defer download.File.Content.Close()

	assert.Equal(t, "lead-42", download.Token.LeadID)
	assert.Equal(t, "res-7", download.Resource.ID)
	assert.Equal(t, 1, download.Token.RedemptionCount)
}

func TestIssuedTokenEntropyAndSecrecy(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _, _, _ := newTokenFixture(time.Now())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		raw, err := svc.Issue(ctx, "lead-42", "res-7", 7)
		require.NoError(t, err)

		// 16 random bytes -> 22 chars of base64url. 128 bits of entropy.
		assert.GreaterOrEqual(t, len(raw), 22)
		assert.False(t, seen[raw], "raw tokens must never repeat")
		seen[raw] = true

		// Only the digest is stored; the raw token is unrecoverable.
		tokens.mu.Lock()
		for hash := range tokens.tokens {
			assert.NotEqual(t, raw, hash)
		}
		_, storedRaw := tokens.tokens[raw]
		tokens.mu.Unlock()
		assert.False(t, storedRaw)
	}
}

func TestIssueClampsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, tokens, _, _, _ := newTokenFixture(now)

	raw, err := svc.Issue(ctx, "lead-42", "res-7", 40)
	require.NoError(t, err)

	stored, err := tokens.FindByHash(ctx, HashToken(raw))
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 30), stored.ExpiresAt, "expiry must clamp to 30 days")
}

func TestRedeemIsMultiUse(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _, _, _ := newTokenFixture(time.Now())

	raw, err := svc.Issue(ctx, "lead-42", "res-7", 7)
	require.NoError(t, err)

	stored, _ := tokens.FindByHash(ctx, HashToken(raw))
	assert.Equal(t, 0, stored.RedemptionCount)

	first, err := svc.Redeem(ctx, raw)
	require.NoError(t, err)
	first.File.Content.Close()
	assert.Equal(t, 1, first.Token.RedemptionCount)

	second, err := svc.Redeem(ctx, raw)
	require.NoError(t, err)
	second.File.Content.Close()
	assert.Equal(t, 2, second.Token.RedemptionCount)
}

func TestRedeemFailsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, clock := newTokenFixture(now)

	raw, err := svc.Issue(ctx, "lead-42", "res-7", 7)
	require.NoError(t, err)

	clock.now = now.AddDate(0, 0, 7)
	_, err = svc.Redeem(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// One second before the boundary still redeems.
	clock.now = now.AddDate(0, 0, 7).Add(-time.Second)
	download, err := svc.Redeem(ctx, raw)
	require.NoError(t, err)
	download.File.Content.Close()
}

func TestRedeemFailsForUnknownToken(t *testing.T) {
	svc, _, _, _, _ := newTokenFixture(time.Now())
	_, err := svc.Redeem(context.Background(), "not-a-real-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedeemFailsForInactiveResource(t *testing.T) {
	ctx := context.Background()
	svc, _, resources, _, _ := newTokenFixture(time.Now())

	raw, err := svc.Issue(ctx, "lead-42", "res-7", 7)
	require.NoError(t, err)

	resources.resources["res-7"].Availability = "inactive"
	_, err = svc.Redeem(ctx, raw)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

func TestRedeemFailsForMissingFile(t *testing.T) {
	ctx := context.Background()
	svc, _, _, files, _ := newTokenFixture(time.Now())

	raw, err := svc.Issue(ctx, "lead-42", "res-7", 7)
	require.NoError(t, err)

	files.missing["guides/funding.pdf"] = true
	_, err = svc.Redeem(ctx, raw)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}
