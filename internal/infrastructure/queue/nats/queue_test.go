package nats

import (
	"testing"
	"time"

	"github.com/askdoc/askdoc/internal/core/domain"
)

func TestIngestEventRoundTrip(t *testing.T) {
	published := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	payload, err := encodeIngestEvent(domain.IngestEvent{
		DocumentID:  "doc-1",
		PublishedAt: published,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	event, err := decodeIngestEvent(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.DocumentID != "doc-1" {
		t.Fatalf("document id = %q, want doc-1", event.DocumentID)
	}
	if !event.PublishedAt.Equal(published) {
		t.Fatalf("published at = %v, want %v", event.PublishedAt, published)
	}
}

func TestDecodeIngestEventBareDocumentID(t *testing.T) {
	event, err := decodeIngestEvent([]byte("doc-42"))
	if err != nil {
		t.Fatalf("decode bare id: %v", err)
	}
	if event.DocumentID != "doc-42" {
		t.Fatalf("document id = %q, want doc-42", event.DocumentID)
	}
	if !event.PublishedAt.IsZero() {
		t.Fatalf("expected zero publish time for bare id, got %v", event.PublishedAt)
	}
}

func TestDecodeIngestEventRejectsEmptyPayload(t *testing.T) {
	if _, err := decodeIngestEvent([]byte("  ")); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDecodeIngestEventRejectsMissingDocumentID(t *testing.T) {
	if _, err := decodeIngestEvent([]byte(`{"published_at":"2026-08-31T10:00:00Z"}`)); err == nil {
		t.Fatal("expected error for event without document id")
	}
}
