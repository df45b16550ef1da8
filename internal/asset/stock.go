package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultStockBaseURL = "https://api.pexels.com"

// StockClient searches a Pexels-compatible stock media API. Results are
// mapped onto Assets with the query terms as tags; nothing is downloaded
// here, the renderer collaborator fetches media by URL later.
type StockClient struct {
	baseURL    string
	apiKey     string
	perPage    int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewStockClient constructs a stock search client.
func NewStockClient(apiKey string, logger zerolog.Logger, opts ...func(*StockClient)) *StockClient {
	c := &StockClient{
		baseURL: defaultStockBaseURL,
		apiKey:  apiKey,
		perPage: 10,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "stock").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithStockBaseURL overrides the API base URL (useful for tests).
func WithStockBaseURL(u string) func(*StockClient) {
	return func(c *StockClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithStockHTTPClient overrides the internal HTTP client.
func WithStockHTTPClient(hc *http.Client) func(*StockClient) {
	return func(c *StockClient) { c.httpClient = hc }
}

// Name implements Provider.
func (c *StockClient) Name() string { return "stock" }

type stockPhoto struct {
	ID  int    `json:"id"`
	Alt string `json:"alt"`
	Src struct {
		Large string `json:"large"`
	} `json:"src"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type stockVideo struct {
	ID         int `json:"id"`
	Width      int `json:"width"`
	Height     int `json:"height"`
	VideoFiles []struct {
		Link string `json:"link"`
	} `json:"video_files"`
}

type stockPhotoResponse struct {
	Photos []stockPhoto `json:"photos"`
}

type stockVideoResponse struct {
	Videos []stockVideo `json:"videos"`
}

// Search queries the photo and/or video endpoint depending on the
// preferred kind. A missing API key returns an error so the pool can fall
// back to the local catalog alone.
func (c *StockClient) Search(ctx context.Context, terms []string, preferred Kind) ([]Asset, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("stock: missing API key")
	}
	query := strings.TrimSpace(strings.Join(terms, " "))
	if query == "" {
		return nil, nil
	}

	var out []Asset
	if preferred == KindVideo || preferred == KindAny {
		videos, err := c.searchVideos(ctx, query, terms)
		if err != nil {
			return nil, err
		}
		out = append(out, videos...)
	}
	if preferred == KindImage || preferred == KindAny {
		photos, err := c.searchPhotos(ctx, query, terms)
		if err != nil {
			return nil, err
		}
		out = append(out, photos...)
	}
	return out, nil
}

func (c *StockClient) searchPhotos(ctx context.Context, query string, terms []string) ([]Asset, error) {
	var payload stockPhotoResponse
	if err := c.get(ctx, "/v1/search", query, &payload); err != nil {
		return nil, err
	}

	assets := make([]Asset, 0, len(payload.Photos))
	for _, p := range payload.Photos {
		assets = append(assets, Asset{
			ID:     "pexels_photo_" + strconv.Itoa(p.ID),
			Kind:   KindImage,
			URL:    p.Src.Large,
			Tags:   mergeTags(terms, strings.Fields(strings.ToLower(p.Alt))),
			Width:  p.Width,
			Height: p.Height,
		})
	}
	return assets, nil
}

func (c *StockClient) searchVideos(ctx context.Context, query string, terms []string) ([]Asset, error) {
	var payload stockVideoResponse
	if err := c.get(ctx, "/videos/search", query, &payload); err != nil {
		return nil, err
	}

	assets := make([]Asset, 0, len(payload.Videos))
	for _, v := range payload.Videos {
		a := Asset{
			ID:     "pexels_video_" + strconv.Itoa(v.ID),
			Kind:   KindVideo,
			Tags:   mergeTags(terms, nil),
			Width:  v.Width,
			Height: v.Height,
		}
		if len(v.VideoFiles) > 0 {
			a.URL = v.VideoFiles[0].Link
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func (c *StockClient) get(ctx context.Context, path, query string, payload any) error {
	u := fmt.Sprintf("%s%s?query=%s&per_page=%d", c.baseURL, path, url.QueryEscape(query), c.perPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("stock: create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stock: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("stock: api error %d: %s", resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("stock: decode response: %w", err)
	}
	return nil
}
