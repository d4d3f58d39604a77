package jobs

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openestate/searchcache/media"
	"github.com/openestate/searchcache/search"
)

type fakeImageStore struct {
	created []media.CreateImageParams
	err     error
}

func (f *fakeImageStore) CreateImage(_ context.Context, p media.CreateImageParams) (media.ImageRecord, error) {
	if f.err != nil {
		return media.ImageRecord{}, f.err
	}
	f.created = append(f.created, p)
	return media.ImageRecord{
		ID:        "img-1",
		ListingID: p.ListingID,
		Filename:  p.Filename,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type fakeNotifier struct {
	batches []int
	err     error
}

func (f *fakeNotifier) DrainPending(_ context.Context, batch int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.batches = append(f.batches, batch)
	return batch - 1, nil
}

func TestWarmSearchExecutes(t *testing.T) {
	ctx := context.Background()
	var got search.Filters
	exec := search.ExecutorFunc(func(_ context.Context, f search.Filters) (search.Page, error) {
		got = f
		return search.Page{TotalResults: 12, Page: f.Page, Limit: f.Limit}, nil
	})
	h := WarmSearch(exec, nil)

	out, err := h(ctx, map[string]any{
		"operation": "rent", "page": float64(1), "limit": float64(20),
		"sort_by": "published_at", "sort_order": "desc",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got.Operation != search.OpRent {
		t.Fatalf("executed filters = %+v", got)
	}
	if out["total_results"] != 12 || out["page"] != 1 || out["limit"] != 20 {
		t.Fatalf("result payload = %v", out)
	}
}

func TestWarmSearchRejectsMalformedFilters(t *testing.T) {
	exec := search.ExecutorFunc(func(context.Context, search.Filters) (search.Page, error) {
		t.Fatal("executor must not run for malformed filters")
		return search.Page{}, nil
	})
	h := WarmSearch(exec, nil)

	_, err := h(context.Background(), map[string]any{"operation": "lease"})
	var verr *search.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *search.ValidationError", err)
	}
}

func TestWarmSearchPropagatesExecutionError(t *testing.T) {
	boom := errors.New("db down")
	exec := search.ExecutorFunc(func(context.Context, search.Filters) (search.Page, error) {
		return search.Page{}, boom
	})
	h := WarmSearch(exec, nil)
	if _, err := h(context.Background(), map[string]any{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestIngestImageSuccess(t *testing.T) {
	ctx := context.Background()
	images := &fakeImageStore{}
	h := IngestImage(images, nil)

	out, err := h(ctx, map[string]any{
		"listing_id":         "L1",
		"filename":           "front.jpg",
		"listing_created_at": "2026-08-30T10:00:00Z",
		"content_base64":     base64.StdEncoding.EncodeToString([]byte("jpegbytes")),
		"alt_text":           "facade",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out["success"] != true || out["image_id"] != "img-1" || out["listing_id"] != "L1" {
		t.Fatalf("result payload = %v", out)
	}
	if len(images.created) != 1 {
		t.Fatalf("CreateImage called %d times", len(images.created))
	}
	p := images.created[0]
	if string(p.File) != "jpegbytes" || p.AltText != "facade" {
		t.Fatalf("persisted params = %+v", p)
	}
	if p.ListingCreatedAt.UTC() != time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) {
		t.Fatalf("timestamp = %v", p.ListingCreatedAt)
	}
}

func TestIngestImageBadTimestampIsStructuredFailure(t *testing.T) {
	images := &fakeImageStore{}
	h := IngestImage(images, nil)

	out, err := h(context.Background(), map[string]any{
		"listing_id":         "L1",
		"filename":           "front.jpg",
		"listing_created_at": "not-a-timestamp",
		"content_base64":     base64.StdEncoding.EncodeToString([]byte("jpegbytes")),
	})
	// The failure is a record, never an error across the task boundary.
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if out["success"] != false || out["listing_id"] != "L1" || out["filename"] != "front.jpg" {
		t.Fatalf("failure payload = %v", out)
	}
	msg, _ := out["error"].(string)
	if !strings.Contains(msg, "listing_created_at") {
		t.Fatalf("error field = %q", msg)
	}
	if len(images.created) != 0 {
		t.Fatal("image persisted despite invalid identity")
	}
}

func TestIngestImageFailures(t *testing.T) {
	cases := []struct {
		name    string
		kwargs  map[string]any
		store   *fakeImageStore
		errPart string
	}{
		{
			"missing identifiers",
			map[string]any{"content_base64": ""},
			&fakeImageStore{},
			"required",
		},
		{
			"undecodable payload",
			map[string]any{
				"listing_id": "L1", "filename": "a.jpg",
				"listing_created_at": "2026-08-30T10:00:00Z",
				"content_base64":     "!!not base64!!",
			},
			&fakeImageStore{},
			"undecodable",
		},
		{
			"empty payload",
			map[string]any{
				"listing_id": "L1", "filename": "a.jpg",
				"listing_created_at": "2026-08-30T10:00:00Z",
				"content_base64":     "",
			},
			&fakeImageStore{},
			"empty file payload",
		},
		{
			"store failure",
			map[string]any{
				"listing_id": "L1", "filename": "a.jpg",
				"listing_created_at": "2026-08-30T10:00:00Z",
				"content_base64":     base64.StdEncoding.EncodeToString([]byte("jpegbytes")),
			},
			&fakeImageStore{err: errors.New("bucket unavailable")},
			"persist image",
		},
	}
	for _, tc := range cases {
		h := IngestImage(tc.store, nil)
		out, err := h(context.Background(), tc.kwargs)
		if err != nil {
			t.Fatalf("%s: handler returned error: %v", tc.name, err)
		}
		if out["success"] != false {
			t.Fatalf("%s: payload = %v", tc.name, out)
		}
		if msg, _ := out["error"].(string); !strings.Contains(msg, tc.errPart) {
			t.Fatalf("%s: error field = %q, want substring %q", tc.name, msg, tc.errPart)
		}
	}
}

func TestDrainNotifications(t *testing.T) {
	ctx := context.Background()
	n := &fakeNotifier{}
	h := DrainNotifications(n, nil)

	out, err := h(ctx, map[string]any{"batch_size": float64(10)})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out["sent"] != 9 || out["batch_size"] != 10 {
		t.Fatalf("payload = %v", out)
	}

	// Missing or non-positive batch size falls back to the default.
	if _, err := h(ctx, nil); err != nil {
		t.Fatalf("default batch: %v", err)
	}
	if _, err := h(ctx, map[string]any{"batch_size": 0}); err != nil {
		t.Fatalf("zero batch: %v", err)
	}
	if n.batches[1] != DefaultDrainBatch || n.batches[2] != DefaultDrainBatch {
		t.Fatalf("batches = %v", n.batches)
	}

	// Non-numeric batch size fails the task.
	if _, err := h(ctx, map[string]any{"batch_size": "ten"}); err == nil {
		t.Fatal("expected error for non-numeric batch_size")
	}
}

func TestDrainNotificationsPropagatesError(t *testing.T) {
	boom := errors.New("smtp down")
	h := DrainNotifications(&fakeNotifier{err: boom}, nil)
	if _, err := h(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
