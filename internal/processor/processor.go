// Package processor runs detached lab-result extraction jobs.
//
// A job is kicked off by the upload handler and outlives the request that
// created it. The completion write re-acquires the lab result by id so a
// delete racing with an in-flight extraction drops the completion instead of
// resurrecting the row.
package processor

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/louisbranch/vitalog/internal/ai"
	"github.com/louisbranch/vitalog/internal/health"
	"github.com/louisbranch/vitalog/internal/storage"
)

// Processor extracts health data from uploaded lab text in the background.
type Processor struct {
	store     storage.LabResultStore
	extractor ai.Extractor
	wg        sync.WaitGroup
}

// New creates a processor backed by the given store and extractor.
func New(store storage.LabResultStore, extractor ai.Extractor) *Processor {
	return &Processor{store: store, extractor: extractor}
}

// Enqueue starts a detached extraction job for the given lab result. It
// returns immediately; callers observe completion through the lab result's
// status transition.
func (p *Processor) Enqueue(labResultID int64, rawText string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.process(context.Background(), labResultID, rawText)
	}()
}

// Wait blocks until every enqueued job has finished. Used by tests and by
// graceful shutdown.
func (p *Processor) Wait() {
	p.wg.Wait()
}

func (p *Processor) process(ctx context.Context, labResultID int64, rawText string) {
	extraction, err := p.extractor.ExtractLabData(ctx, rawText)
	if err != nil {
		log.Printf("extract lab result %d: %v", labResultID, err)
		p.markError(ctx, labResultID)
		return
	}

	for _, marker := range extraction.Markers {
		if _, err := p.store.CreateHealthMarker(ctx, storage.NewHealthMarker{
			LabResultID: labResultID,
			Name:        marker.Name,
			Value:       marker.Value,
			Unit:        marker.Unit,
			NormalMin:   marker.NormalMin,
			NormalMax:   marker.NormalMax,
			Status:      marker.Status,
			Category:    marker.Category,
		}); err != nil {
			// Markers written before the failure stay; the result is flagged.
			log.Printf("persist marker for lab result %d: %v", labResultID, err)
			p.markError(ctx, labResultID)
			return
		}
	}

	for _, rec := range extraction.Recommendations {
		if _, err := p.store.CreateRecommendation(ctx, storage.NewRecommendation{
			LabResultID:   labResultID,
			Type:          rec.Type,
			Title:         rec.Title,
			Description:   rec.Description,
			Priority:      rec.Priority,
			RelatedMarker: rec.RelatedMarker,
			ActionItems:   rec.ActionItems,
		}); err != nil {
			log.Printf("persist recommendation for lab result %d: %v", labResultID, err)
			p.markError(ctx, labResultID)
			return
		}
	}

	completed := string(health.LabStatusCompleted)
	if _, err := p.store.UpdateLabResult(ctx, labResultID, storage.LabResultUpdate{
		Status:  &completed,
		RawText: &rawText,
	}); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted while processing; drop the completion.
			log.Printf("lab result %d deleted during processing", labResultID)
			return
		}
		log.Printf("complete lab result %d: %v", labResultID, err)
	}
}

func (p *Processor) markError(ctx context.Context, labResultID int64) {
	status := string(health.LabStatusError)
	if _, err := p.store.UpdateLabResult(ctx, labResultID, storage.LabResultUpdate{Status: &status}); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return
		}
		log.Printf("mark lab result %d errored: %v", labResultID, err)
	}
}
