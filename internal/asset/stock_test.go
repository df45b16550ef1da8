package asset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestStockClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/v1/search":
			w.Write([]byte(`{"photos":[{"id":101,"alt":"Rocket on the pad","src":{"large":"https://img/101.jpg"},"width":1920,"height":1080}]}`))
		case "/videos/search":
			w.Write([]byte(`{"videos":[{"id":202,"width":1280,"height":720,"video_files":[{"link":"https://vid/202.mp4"}]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewStockClient("test-key", zerolog.Nop(), WithStockBaseURL(srv.URL))

	assets, err := c.Search(context.Background(), []string{"rocket", "launch"}, KindAny)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("Expected 2 assets (video + photo), got %d", len(assets))
	}

	byID := map[string]Asset{}
	for _, a := range assets {
		byID[a.ID] = a
	}

	photo, ok := byID["pexels_photo_101"]
	if !ok {
		t.Fatal("Photo result missing")
	}
	if photo.Kind != KindImage || photo.URL != "https://img/101.jpg" {
		t.Errorf("Unexpected photo asset: %+v", photo)
	}

	video, ok := byID["pexels_video_202"]
	if !ok {
		t.Fatal("Video result missing")
	}
	if video.Kind != KindVideo || video.URL != "https://vid/202.mp4" {
		t.Errorf("Unexpected video asset: %+v", video)
	}
}

func TestStockClientPreferredKindLimitsEndpoints(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"photos":[],"videos":[]}`))
	}))
	defer srv.Close()

	c := NewStockClient("k", zerolog.Nop(), WithStockBaseURL(srv.URL))
	if _, err := c.Search(context.Background(), []string{"x"}, KindVideo); err != nil {
		t.Fatal(err)
	}

	if len(paths) != 1 || paths[0] != "/videos/search" {
		t.Errorf("Video preference should hit only the video endpoint, got %v", paths)
	}
}

func TestStockClientMissingKey(t *testing.T) {
	c := NewStockClient("", zerolog.Nop())
	if _, err := c.Search(context.Background(), []string{"x"}, KindAny); err == nil {
		t.Error("Expected an error without an API key")
	}
}

func TestStockClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewStockClient("k", zerolog.Nop(), WithStockBaseURL(srv.URL))
	if _, err := c.Search(context.Background(), []string{"x"}, KindImage); err == nil {
		t.Error("Expected an error for a non-2xx response")
	}
}

func TestStockClientEmptyQuery(t *testing.T) {
	c := NewStockClient("k", zerolog.Nop())
	assets, err := c.Search(context.Background(), nil, KindAny)
	if err != nil {
		t.Fatalf("Empty query should be a no-op: %v", err)
	}
	if len(assets) != 0 {
		t.Errorf("Expected no assets, got %d", len(assets))
	}
}
