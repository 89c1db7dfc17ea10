// Package ai integrates the external LLM service that extracts structured
// health data from lab text and flags medication-supplement interactions.
//
// The service is consumed as a black box: availability, latency, and
// determinism are outside this system's control, so callers treat every
// invocation as fallible and non-idempotent.
package ai

import "context"

// Marker is one extracted lab measurement.
type Marker struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	NormalMin float64 `json:"normalMin"`
	NormalMax float64 `json:"normalMax"`
	Status    string  `json:"status"`
	Category  string  `json:"category"`
}

// Recommendation is one extraction-produced suggestion.
type Recommendation struct {
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	RelatedMarker string   `json:"relatedMarker"`
	ActionItems   []string `json:"actionItems"`
}

// Extraction is the structured output for one lab document.
type Extraction struct {
	Markers         []Marker         `json:"markers"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Pill identifies one active medication or supplement by id and name.
type Pill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Finding is one flagged medication-supplement conflict.
type Finding struct {
	MedicationID   int64  `json:"medicationId"`
	SupplementID   int64  `json:"supplementId"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// Extractor turns raw lab text into structured markers and recommendations.
type Extractor interface {
	ExtractLabData(ctx context.Context, rawText string) (Extraction, error)
}

// InteractionChecker flags conflicts between active medications and
// supplements.
type InteractionChecker interface {
	CheckInteractions(ctx context.Context, medications, supplements []Pill) ([]Finding, error)
}
