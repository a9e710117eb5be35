package catalog

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
)

// newTestServer fakes the three catalog endpoints a details fetch hits.
func newTestServer(t *testing.T) *httptest.Server {
    t.Helper()
    mux := http.NewServeMux()
    mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Query().Get("api_key") == "" {
            w.WriteHeader(http.StatusUnauthorized)
            return
        }
        if r.URL.Query().Get("language") != "fr-FR" {
            t.Errorf("language = %q, want fr-FR", r.URL.Query().Get("language"))
        }
        _ = json.NewEncoder(w).Encode(map[string]any{
            "results": []map[string]any{
                {"id": 603, "title": "Matrix", "release_date": "1999-06-23", "poster_path": "/matrix.jpg"},
                {"id": 604, "title": "Matrix Reloaded", "release_date": "2003-05-16"},
            },
        })
    })
    mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewEncoder(w).Encode(map[string]any{
            "id":           603,
            "title":        "Matrix",
            "overview":     "Un pirate informatique.",
            "release_date": "1999-06-23",
            "poster_path":  "/matrix.jpg",
            "runtime":      136,
            "genres":       []map[string]any{{"name": "Action"}, {"name": "Science-Fiction"}},
        })
    })
    mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, r *http.Request) {
        cast := make([]map[string]any, 0, 15)
        for i := 0; i < 15; i++ {
            cast = append(cast, map[string]any{"name": "Acteur", "character": "Rôle", "order": i})
        }
        _ = json.NewEncoder(w).Encode(map[string]any{
            "cast": cast,
            "crew": []map[string]any{
                {"name": "Bill Pope", "job": "Director of Photography"},
                {"name": "Lana Wachowski", "job": "Director"},
            },
        })
    })
    mux.HandleFunc("/movie/603/videos", func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewEncoder(w).Encode(map[string]any{
            "results": []map[string]any{
                {"site": "Vimeo", "type": "Trailer", "key": "nope"},
                {"site": "YouTube", "type": "Clip", "key": "nope"},
                {"site": "YouTube", "type": "Trailer", "key": "m8e-FF8MsqU"},
            },
        })
    })
    mux.HandleFunc("/movie/999", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusNotFound)
        _, _ = w.Write([]byte(`{"status_message":"not found"}`))
    })
    return httptest.NewServer(mux)
}

func TestSearchBuildsSuggestions(t *testing.T) {
    srv := newTestServer(t)
    defer srv.Close()
    tmdb := NewTMDbWithBase("test-key", srv.URL)

    out, err := tmdb.Search(context.Background(), "matrix", 0)
    if err != nil {
        t.Fatalf("Search: %v", err)
    }
    if len(out) != 2 {
        t.Fatalf("got %d suggestions, want 2", len(out))
    }
    if out[0].ID != "603" || out[0].Title != "Matrix" {
        t.Fatalf("first suggestion: %+v", out[0])
    }
    if out[0].PosterURL != "https://image.tmdb.org/t/p/w500/matrix.jpg" {
        t.Fatalf("poster URL: %q", out[0].PosterURL)
    }
    if out[1].PosterURL != "" {
        t.Fatalf("missing poster must stay empty, got %q", out[1].PosterURL)
    }
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
    tmdb := NewTMDbWithBase("test-key", "http://127.0.0.1:0")
    out, err := tmdb.Search(context.Background(), "", 5)
    if err != nil {
        t.Fatalf("Search: %v", err)
    }
    if len(out) != 0 {
        t.Fatalf("empty query returned %d results", len(out))
    }
}

func TestSearchLimit(t *testing.T) {
    srv := newTestServer(t)
    defer srv.Close()
    tmdb := NewTMDbWithBase("test-key", srv.URL)

    out, err := tmdb.Search(context.Background(), "matrix", 1)
    if err != nil {
        t.Fatalf("Search: %v", err)
    }
    if len(out) != 1 {
        t.Fatalf("limit ignored: got %d results", len(out))
    }
}

func TestMovieDetails(t *testing.T) {
    srv := newTestServer(t)
    defer srv.Close()
    tmdb := NewTMDbWithBase("test-key", srv.URL)

    d, err := tmdb.MovieDetails(context.Background(), "603")
    if err != nil {
        t.Fatalf("MovieDetails: %v", err)
    }
    if d.Title != "Matrix" || d.DurationMinutes != 136 {
        t.Fatalf("base fields: %+v", d)
    }
    if d.Director != "Lana Wachowski" {
        t.Fatalf("director = %q", d.Director)
    }
    if d.TrailerURL != "https://www.youtube.com/watch?v=m8e-FF8MsqU" {
        t.Fatalf("trailer = %q", d.TrailerURL)
    }
    if len(d.Genres) != 2 {
        t.Fatalf("genres = %v", d.Genres)
    }
    if len(d.Cast) != maxBilledCast {
        t.Fatalf("cast capped at %d, got %d", maxBilledCast, len(d.Cast))
    }
}

func TestMovieDetailsUpstreamError(t *testing.T) {
    srv := newTestServer(t)
    defer srv.Close()
    tmdb := NewTMDbWithBase("test-key", srv.URL)

    _, err := tmdb.MovieDetails(context.Background(), "999")
    perr, ok := err.(*ProviderError)
    if !ok {
        t.Fatalf("err = %v, want ProviderError", err)
    }
    if perr.StatusCode != http.StatusNotFound {
        t.Fatalf("StatusCode = %d, want 404", perr.StatusCode)
    }
}

func TestMissingAPIKey(t *testing.T) {
    tmdb := NewTMDb("")
    if _, err := tmdb.Search(context.Background(), "matrix", 0); err == nil {
        t.Fatal("expected error without API key")
    }
}
