package asset

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// PlaceholderCard generates a fallback still for sections that end up
// without a usable candidate. call_to_action sections get a QR card
// pointing at the channel URL so the slot stays actionable; other labels
// get nothing here and the orchestrator records the deficiency instead.
func PlaceholderCard(dir, channelURL string) (Asset, error) {
	if channelURL == "" {
		return Asset{}, fmt.Errorf("placeholder: no channel url configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("placeholder: %w", err)
	}

	out := filepath.Join(dir, "cta_qr.png")
	if err := qrcode.WriteFile(channelURL, qrcode.Medium, 512, out); err != nil {
		return Asset{}, fmt.Errorf("placeholder: generate qr card: %w", err)
	}

	return Asset{
		ID:     "placeholder/cta_qr",
		Kind:   KindImage,
		Path:   out,
		Tags:   []string{"placeholder", "qr", "subscribe"},
		Width:  512,
		Height: 512,
	}, nil
}
