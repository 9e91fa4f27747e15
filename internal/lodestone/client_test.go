package lodestone

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second)
}

func TestGetCharacter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/character/4201234" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "naago/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`{"character":{"id":4201234,"name":"Alpha One","world":"Phoenix","bio":"please verify: naago-ab12cd"}}`))
	})

	got, err := c.GetCharacter(context.Background(), 4201234)
	if err != nil {
		t.Fatalf("GetCharacter error: %v", err)
	}
	if got.Name != "Alpha One" || got.Bio != "please verify: naago-ab12cd" {
		t.Errorf("unexpected character: %+v", got)
	}
}

func TestGetCharacterErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantNotFound    bool
		wantUnavailable bool
	}{
		{"not found", http.StatusNotFound, ``, true, false},
		{"server error", http.StatusBadGateway, ``, false, true},
		{"garbage body", http.StatusOK, `{not json`, false, true},
		{"missing character", http.StatusOK, `{}`, false, true},
		{"missing name", http.StatusOK, `{"character":{"id":7,"world":"Odin"}}`, false, true},
		{"wrong id", http.StatusOK, `{"character":{"id":8,"name":"X","world":"Odin"}}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetCharacter(context.Background(), 7)
			if err == nil {
				t.Fatal("expected error")
			}
			var upErr *domain.UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("want *domain.UpstreamError, got %T", err)
			}
			if got := errors.Is(err, domain.ErrNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", got, tt.wantNotFound)
			}
			if got := errors.Is(err, domain.ErrUpstreamUnavailable); got != tt.wantUnavailable {
				t.Errorf("errors.Is(ErrUpstreamUnavailable) = %v, want %v", got, tt.wantUnavailable)
			}
		})
	}
}

func TestGetCharacterUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.GetCharacter(context.Background(), 1)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSearchCharacter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/character/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("name") != "Alpha One" || r.URL.Query().Get("worldname") != "Phoenix" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[{"id":1,"name":"Alpha One","world":"Phoenix"},{"id":2,"name":"Alpha Onea","world":"Phoenix"}]}`))
	})

	got, err := c.SearchCharacter(context.Background(), "Alpha One", "Phoenix")
	if err != nil {
		t.Fatalf("SearchCharacter error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 {
		t.Errorf("unexpected results: %+v", got)
	}
}

func TestSearchCharacterRejectsInvalidEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":0,"name":""}]}`))
	})

	_, err := c.SearchCharacter(context.Background(), "x", "")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
}
