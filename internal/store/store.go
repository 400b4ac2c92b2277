package store

import (
	"context"
	"errors"

	"github.com/ppiankov/credibly/internal/model"
)

// ErrNotFound is returned when a media item, claim or creator does not exist
var ErrNotFound = errors.New("not found")

// Store is the persistence boundary for media, claims and creators.
//
// Implementations must enforce uniqueness of media URLs: CreateMedia is
// create-or-fetch, so two racing callers for the same unseen URL observe the
// same row. Claims are owned by their media item and removed with it.
type Store interface {
	// GetMediaByURL returns the media item for url, or ErrNotFound.
	GetMediaByURL(ctx context.Context, url string) (*model.Media, error)

	// CreateMedia inserts a media item for url, or returns the existing one
	// when the url is already known (unique-constraint create-or-fetch).
	CreateMedia(ctx context.Context, url, name string) (*model.Media, error)

	// SaveMedia persists mutable media fields (complete flag, creator).
	SaveMedia(ctx context.Context, media *model.Media) error

	// ListClaims returns all claims of a media item in creation order.
	ListClaims(ctx context.Context, mediaID int64) ([]model.Claim, error)

	// CreateClaim inserts a claim and fills in its ID.
	CreateClaim(ctx context.Context, claim *model.Claim) error

	// DeleteClaims removes every claim of a media item. Used to discard the
	// partial claim set of a failed run before re-extraction; deleting from
	// an item with no claims is a no-op.
	DeleteClaims(ctx context.Context, mediaID int64) error

	// GetClaim returns one claim by id, or ErrNotFound.
	GetClaim(ctx context.Context, id int64) (*model.Claim, error)

	// UpdateClaimAccuracy commits a verification judgment: both fields are
	// written together, exactly once per judgment.
	UpdateClaimAccuracy(ctx context.Context, id int64, accuracy, certainty float64) error

	// CreateCreator inserts a creator and fills in its ID.
	CreateCreator(ctx context.Context, creator *model.Creator) error

	// ListCreatorStandings returns creators ranked by mean confirmed accuracy
	// over their media's verified claims, best first.
	ListCreatorStandings(ctx context.Context) ([]model.CreatorStanding, error)
}
