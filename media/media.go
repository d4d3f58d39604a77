// Package media declares the persistence interface the image-ingestion task
// consumes. The concrete implementation (object storage, thumbnails, the
// relational image table) lives in the host application.
package media

import (
	"context"
	"fmt"
	"time"
)

// CreateImageParams carries one decoded upload. ListingID plus
// ListingCreatedAt form the composite identity of the owning listing.
type CreateImageParams struct {
	ListingID        string
	ListingCreatedAt time.Time
	File             []byte
	Filename         string
	AltText          string
}

// ImageRecord is the persisted image row.
type ImageRecord struct {
	ID        string
	ListingID string
	Filename  string
	CreatedAt time.Time
}

// ImageStore persists processed listing images. May fail on an invalid
// listing identity or a storage error.
type ImageStore interface {
	CreateImage(ctx context.Context, p CreateImageParams) (ImageRecord, error)
}

// ParseListingTimestamp parses the timestamp component of a listing's
// composite identity as it travels through task payloads.
func ParseListingTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("media: invalid listing_created_at %q: %w", s, err)
	}
	return t, nil
}
