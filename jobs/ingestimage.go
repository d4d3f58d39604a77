package jobs

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openestate/searchcache"
	"github.com/openestate/searchcache/media"
	"github.com/openestate/searchcache/tasks"
)

// TaskProcessImage names the image-ingestion task.
const TaskProcessImage = "media.process_image_upload"

// IngestImage returns the handler for TaskProcessImage. Every outcome is a
// well-formed result record echoing the input identifiers; a raw error never
// crosses the task boundary, so upstream retry logic can inspect the record
// instead of the broker's error channel.
func IngestImage(images media.ImageStore, log searchcache.Logger) tasks.Handler {
	if log == nil {
		log = searchcache.NopLogger{}
	}
	return func(ctx context.Context, kwargs map[string]any) (map[string]any, error) {
		listingID, _ := kwargs["listing_id"].(string)
		filename, _ := kwargs["filename"].(string)
		createdAtRaw, _ := kwargs["listing_created_at"].(string)
		contentB64, _ := kwargs["content_base64"].(string)
		altText, _ := kwargs["alt_text"].(string)

		fail := func(err error) (map[string]any, error) {
			log.Error("image ingestion failed", searchcache.Fields{
				"listing_id": listingID,
				"filename":   filename,
				"err":        err,
			})
			return map[string]any{
				"success":    false,
				"listing_id": listingID,
				"filename":   filename,
				"error":      err.Error(),
			}, nil
		}

		if listingID == "" || filename == "" {
			return fail(fmt.Errorf("listing_id and filename are required"))
		}
		file, err := base64.StdEncoding.DecodeString(contentB64)
		if err != nil {
			return fail(fmt.Errorf("undecodable file payload: %w", err))
		}
		if len(file) == 0 {
			return fail(fmt.Errorf("empty file payload"))
		}
		createdAt, err := media.ParseListingTimestamp(createdAtRaw)
		if err != nil {
			return fail(err)
		}

		rec, err := images.CreateImage(ctx, media.CreateImageParams{
			ListingID:        listingID,
			ListingCreatedAt: createdAt,
			File:             file,
			Filename:         filename,
			AltText:          altText,
		})
		if err != nil {
			return fail(fmt.Errorf("persist image: %w", err))
		}

		log.Info("image ingested", searchcache.Fields{
			"image_id":   rec.ID,
			"listing_id": rec.ListingID,
			"filename":   rec.Filename,
		})
		return map[string]any{
			"success":    true,
			"image_id":   rec.ID,
			"listing_id": rec.ListingID,
			"filename":   rec.Filename,
		}, nil
	}
}
