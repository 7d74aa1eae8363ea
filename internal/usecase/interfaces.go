package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/notify"
)

// ErrRecordNotFound is what repositories return for a miss; use cases
// translate it into the appropriate domain error.
var ErrRecordNotFound = errors.New("record not found")

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	UpdateStatus(ctx context.Context, lead *entity.Lead) error
}

type ResourceRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Resource, error)
}

type TokenRepositoryInterface interface {
	Create(ctx context.Context, token *entity.DownloadToken) error
	FindByHash(ctx context.Context, hash string) (*entity.DownloadToken, error)
	// Redeem increments redemption_count and stamps last_redeemed_at in a
	// single atomic write, returning the post-increment count.
	Redeem(ctx context.Context, hash string, now time.Time) (int, error)
}

// File is an opened gated download ready to stream.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.ReadCloser
}

type FileStore interface {
	Resolve(ctx context.Context, fileReference string) (*File, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}

// SecurityTokenVerifier checks the anti-forgery token embedded in the form.
type SecurityTokenVerifier interface {
	Verify(token string) bool
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, ev notify.Event) notify.Summary
}

// Clock is injected so expiry behaviour is deterministic under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
