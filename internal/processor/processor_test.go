package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/vitalog/internal/ai"
	"github.com/louisbranch/vitalog/internal/storage"
	"github.com/louisbranch/vitalog/internal/storage/sqlite"
)

type fakeExtractor struct {
	extraction ai.Extraction
	err        error
}

func (f *fakeExtractor) ExtractLabData(ctx context.Context, rawText string) (ai.Extraction, error) {
	return f.extraction, f.err
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/vitalog.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestProcessPersistsExtractionAndCompletes(t *testing.T) {
	store := openStore(t)
	result, err := store.CreateLabResult(context.Background(), "labs.txt")
	if err != nil {
		t.Fatalf("create lab result: %v", err)
	}
	if result.Status != "processing" {
		t.Fatalf("status = %q, want processing", result.Status)
	}

	extractor := &fakeExtractor{extraction: ai.Extraction{
		Markers: []ai.Marker{
			{Name: "Ferritin", Value: 12, Unit: "ng/mL", NormalMin: 20, NormalMax: 250, Status: "low", Category: "minerals"},
			{Name: "TSH", Value: 2.1, Unit: "mIU/L", NormalMin: 0.4, NormalMax: 4.0, Status: "normal", Category: "hormones"},
		},
		Recommendations: []ai.Recommendation{
			{Type: "supplement", Title: "Iron", Description: "Supplement iron", Priority: "high",
				RelatedMarker: "Ferritin", ActionItems: []string{"Take with vitamin C"}},
		},
	}}

	p := New(store, extractor)
	p.Enqueue(result.ID, "raw lab text")
	p.Wait()

	refreshed, err := store.GetLabResult(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("get lab result: %v", err)
	}
	if refreshed.Status != "completed" {
		t.Fatalf("status = %q, want completed", refreshed.Status)
	}
	if refreshed.RawText == nil || *refreshed.RawText != "raw lab text" {
		t.Fatalf("raw text = %v, want stored text", refreshed.RawText)
	}

	markers, err := store.ListHealthMarkersByLabResult(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("list markers: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(markers))
	}
	recs, err := store.ListRecommendationsByLabResult(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("list recommendations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(recs))
	}
	if len(recs[0].ActionItems) != 1 || recs[0].ActionItems[0] != "Take with vitamin C" {
		t.Fatalf("action items = %v", recs[0].ActionItems)
	}
}

func TestProcessMarksErrorOnExtractorFailure(t *testing.T) {
	store := openStore(t)
	result, err := store.CreateLabResult(context.Background(), "labs.txt")
	if err != nil {
		t.Fatalf("create lab result: %v", err)
	}

	p := New(store, &fakeExtractor{err: errors.New("model unavailable")})
	p.Enqueue(result.ID, "raw")
	p.Wait()

	refreshed, err := store.GetLabResult(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("get lab result: %v", err)
	}
	if refreshed.Status != "error" {
		t.Fatalf("status = %q, want error", refreshed.Status)
	}
	if refreshed.RawText != nil {
		t.Fatalf("raw text should stay unset on failure, got %q", *refreshed.RawText)
	}
}

func TestProcessDropsCompletionWhenResultDeleted(t *testing.T) {
	store := openStore(t)
	result, err := store.CreateLabResult(context.Background(), "labs.txt")
	if err != nil {
		t.Fatalf("create lab result: %v", err)
	}
	if err := store.DeleteLabResult(context.Background(), result.ID); err != nil {
		t.Fatalf("delete lab result: %v", err)
	}

	p := New(store, &fakeExtractor{extraction: ai.Extraction{}})
	p.Enqueue(result.ID, "raw")
	p.Wait()

	if _, err := store.GetLabResult(context.Background(), result.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected deleted row to stay deleted, got %v", err)
	}
}
