package nlt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		RPS:     1000, // keep tests fast
		Burst:   100,
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(client.Close)

	return client
}

func TestClient_GetChapter(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"ref":     r.URL.Query().Get("ref"),
			"version": r.URL.Query().Get("version"),
			"key":     r.URL.Query().Get("key"),
		}
		w.Write([]byte(chapterFixture))
	})

	chapter, err := client.GetChapter(context.Background(), "John.3", "NLT")
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}

	if gotQuery["ref"] != "John.3" || gotQuery["version"] != "NLT" || gotQuery["key"] != "test-key" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	if len(chapter.Verses) != 2 {
		t.Errorf("got %d verses, want 2", len(chapter.Verses))
	}
	if strings.Contains(chapter.SourceURL, "test-key") {
		t.Errorf("API key leaked into SourceURL: %s", chapter.SourceURL)
	}
	if !strings.Contains(chapter.SourceURL, "ref=John.3") {
		t.Errorf("SourceURL missing reference: %s", chapter.SourceURL)
	}
}

func TestClient_GetChapter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.GetChapter(context.Background(), "John.3", "NLT")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error does not carry operation context: %v", err)
			}
			if apiErr.Op != "getChapter" || apiErr.Ref != "John.3" {
				t.Errorf("context = %s/%s", apiErr.Op, apiErr.Ref)
			}
		})
	}
}

func TestClient_GetChapter_DefaultVersion(t *testing.T) {
	var gotVersion string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.URL.Query().Get("version")
		w.Write([]byte(chapterFixture))
	})

	if _, err := client.GetChapter(context.Background(), "John.3", ""); err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if gotVersion != DefaultVersion {
		t.Errorf("version = %q, want %q", gotVersion, DefaultVersion)
	}
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("text") != "love" {
			t.Errorf("text param = %q", r.URL.Query().Get("text"))
		}
		w.Write([]byte(`<div class="result"><a href="/John.3">John 3:16</a> For this is how God loved the world.</div>`))
	})

	results, err := client.Search(context.Background(), "love", "NLT")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Reference != "John 3:16" {
		t.Errorf("reference = %q", results[0].Reference)
	}
}

func TestClient_ParseReference(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"book":"John","chapter":3,"verse":16}`))
	})

	parsed, err := client.ParseReference(context.Background(), "jn 3:16")
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	if parsed.Book != "John" || parsed.Chapter != 3 || parsed.Verse != 16 {
		t.Errorf("parsed = %+v", parsed)
	}
}
