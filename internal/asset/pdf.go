package asset

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// scanPDF exposes every page of a PDF document as a still-image asset.
// Page assets share the document's library metadata and get a per-page ID
// of the form "deck.pdf#page-3".
func scanPDF(path, rel string, meta libraryEntry) ([]Asset, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	assets := make([]Asset, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		rect, err := doc.Bound(i)
		if err != nil {
			return nil, fmt.Errorf("page %d bounds: %w", i, err)
		}
		assets = append(assets, Asset{
			ID:         fmt.Sprintf("%s#page-%d", rel, i+1),
			Kind:       KindImage,
			Path:       path,
			Tags:       mergeTags(meta.Tags, nameTags(rel)),
			Rating:     meta.Rating,
			UsageCount: meta.UsageCount,
			Width:      rect.Dx(),
			Height:     rect.Dy(),
		})
	}
	return assets, nil
}

// ExtractPDFPage renders one page asset to a PNG in dir and returns the
// file path. Used when a timeline plan chose a PDF page and the renderer
// needs a flat image to work with.
func ExtractPDFPage(a Asset, dir string, dpi int) (string, error) {
	docPath, page, ok := splitPageID(a.ID)
	if !ok {
		return "", fmt.Errorf("asset %s is not a pdf page", a.ID)
	}

	doc, err := fitz.New(a.Path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docPath, err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(page-1, float64(dpi))
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", page, err)
	}

	name := strings.ReplaceAll(strings.ReplaceAll(a.ID, string(filepath.Separator), "_"), "#", "_")
	out := filepath.Join(dir, name+".png")
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode page image: %w", err)
	}
	return out, nil
}

func splitPageID(id string) (string, int, bool) {
	idx := strings.LastIndex(id, "#page-")
	if idx < 0 {
		return "", 0, false
	}
	var page int
	if _, err := fmt.Sscanf(id[idx:], "#page-%d", &page); err != nil || page < 1 {
		return "", 0, false
	}
	return id[:idx], page, true
}
