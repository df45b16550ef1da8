package asset

import (
	"os"
	"testing"
)

func TestPlaceholderCard(t *testing.T) {
	dir := t.TempDir()

	card, err := PlaceholderCard(dir, "https://example.com/channel")
	if err != nil {
		t.Fatalf("PlaceholderCard failed: %v", err)
	}

	if card.ID != "placeholder/cta_qr" {
		t.Errorf("Unexpected card id %q", card.ID)
	}
	if card.Kind != KindImage {
		t.Errorf("Expected image kind, got %s", card.Kind)
	}
	if _, err := os.Stat(card.Path); err != nil {
		t.Errorf("QR card file not written: %v", err)
	}
}

func TestPlaceholderCardRequiresURL(t *testing.T) {
	if _, err := PlaceholderCard(t.TempDir(), ""); err == nil {
		t.Error("Expected an error without a channel url")
	}
}
