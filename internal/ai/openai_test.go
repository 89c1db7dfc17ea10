package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"markers": []}`, `{"markers": []}`},
		{"fenced", "```\n{\"markers\": []}\n```", `{"markers": []}`},
		{"fenced with language", "```json\n{\"markers\": []}\n```", `{"markers": []}`},
		{"padded", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("%s: stripCodeFence = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIClient(OpenAIConfig{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

// completionStub serves a canned chat-completions reply.
func completionStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		reply := map[string]any{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			t.Errorf("encode stub reply: %v", err)
		}
	}))
}

func TestExtractLabDataParsesReply(t *testing.T) {
	server := completionStub(t, "```json\n"+`{
		"markers": [
			{"name": "Vitamin D", "value": 18.5, "unit": "ng/mL",
			 "normalMin": 30, "normalMax": 100, "status": "LOW", "category": "vitamins"}
		],
		"recommendations": [
			{"type": "Supplement", "title": "Vitamin D3", "description": "Supplement daily",
			 "priority": "HIGH", "relatedMarker": "Vitamin D", "actionItems": ["Take 2000 IU daily"]}
		]
	}`+"\n```")
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	extraction, err := client.ExtractLabData(context.Background(), "raw lab text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(extraction.Markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(extraction.Markers))
	}
	if extraction.Markers[0].Status != "low" {
		t.Fatalf("status = %q, want lowercased", extraction.Markers[0].Status)
	}
	if len(extraction.Recommendations) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(extraction.Recommendations))
	}
	if extraction.Recommendations[0].Priority != "high" {
		t.Fatalf("priority = %q, want lowercased", extraction.Recommendations[0].Priority)
	}
}

func TestCheckInteractionsParsesReply(t *testing.T) {
	server := completionStub(t, `{"interactions": [
		{"medicationId": 1, "supplementId": 2, "severity": "Moderate",
		 "description": "Absorption conflict", "recommendation": "Separate by 4 hours"}
	]}`)
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	findings, err := client.CheckInteractions(context.Background(),
		[]Pill{{ID: 1, Name: "Warfarin"}},
		[]Pill{{ID: 2, Name: "Fish Oil"}},
	)
	if err != nil {
		t.Fatalf("check interactions: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].Severity != "moderate" {
		t.Fatalf("severity = %q, want lowercased", findings[0].Severity)
	}
	if findings[0].MedicationID != 1 || findings[0].SupplementID != 2 {
		t.Fatalf("unexpected ids: %+v", findings[0])
	}
}

func TestExtractLabDataRejectsMalformedReply(t *testing.T) {
	server := completionStub(t, "not json at all")
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ExtractLabData(context.Background(), "raw"); err == nil {
		t.Fatal("expected parse error")
	}
}
