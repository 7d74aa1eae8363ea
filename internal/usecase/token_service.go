package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/harborlight-care/leadcore/internal/entity"
)

// rawTokenBytes gives 128 bits of entropy per token.
const rawTokenBytes = 16

// HashToken is the only mapping from a raw token to stored state. One way:
// the hash is persisted, the raw token is not.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Download is a successful redemption: the opened file plus the state that
// authorised it.
type Download struct {
	File     *File
	Resource *entity.Resource
	Token    *entity.DownloadToken
}

// TokenService issues and redeems the capability tokens behind gated
// downloads. Tokens are multi-use until expiry; the same link re-downloads
// the same resource as often as the submitter likes inside the window.
type TokenService struct {
	Tokens    TokenRepositoryInterface
	Resources ResourceRepositoryInterface
	Files     FileStore
	Clock     Clock
}

func NewTokenService(tokens TokenRepositoryInterface, resources ResourceRepositoryInterface, files FileStore, clock Clock) *TokenService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenService{Tokens: tokens, Resources: resources, Files: files, Clock: clock}
}

// Issue mints a random token bound to (lead, resource), stores its hash and
// returns the raw form exactly once. expiryDays is clamped to the resource
// policy bounds.
func (s *TokenService) Issue(ctx context.Context, leadID, resourceID string, expiryDays int) (string, error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", &TechnicalError{Code: "TOKEN_GENERATION", Message: fmt.Sprintf("failed to generate token: %v", err)}
	}
	raw := base64.RawURLEncoding.EncodeToString(buf)

	now := s.Clock.Now()
	token := &entity.DownloadToken{
		TokenHash:  HashToken(raw),
		LeadID:     leadID,
		ResourceID: resourceID,
		IssuedAt:   now,
		ExpiresAt:  now.AddDate(0, 0, entity.ClampExpiryDays(expiryDays)),
	}
	if err := s.Tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store download token: %w", err)
	}
	return raw, nil
}

// Redeem exchanges a raw token for the file it guards. The three failure
// modes stay distinct here; the HTTP layer collapses them into one generic
// message.
func (s *TokenService) Redeem(ctx context.Context, rawToken string) (*Download, error) {
	token, err := s.Tokens.FindByHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	now := s.Clock.Now()
	if token.Expired(now) {
		return nil, ErrTokenExpired
	}

	resource, err := s.Resources.FindByID(ctx, token.ResourceID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrResourceUnavailable
		}
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if !resource.Active() {
		return nil, ErrResourceUnavailable
	}

	file, err := s.Files.Resolve(ctx, resource.FileReference)
	if err != nil {
		return nil, ErrResourceUnavailable
	}

	// Atomic increment at the store; concurrent redemptions must not lose
	// updates.
	count, err := s.Tokens.Redeem(ctx, token.TokenHash, now)
	if err != nil {
		file.Content.Close()
		if errors.Is(err, ErrRecordNotFound) {
			// Expired between lookup and redemption.
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	token.RedemptionCount = count
	token.LastRedeemedAt = &now

	return &Download{File: file, Resource: resource, Token: token}, nil
}
