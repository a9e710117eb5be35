// Package catalog integrates the external movie metadata catalog
// (TMDb).  It is a collaborator of the scheduling engine, never a
// dependency of it: handlers call the importer, the importer calls the
// engine's status refresh once the film data is in place.
package catalog

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "time"
)

const (
    tmdbBaseURL   = "https://api.themoviedb.org/3"
    tmdbImageBase = "https://image.tmdb.org/t/p/w500"

    defaultSearchLimit = 8
    maxBilledCast      = 12
)

// ProviderError reports a failure talking to the external catalog:
// missing API key, transport error or a non-200 upstream response.
// StatusCode carries the upstream HTTP status when one was received.
type ProviderError struct {
    Message    string
    StatusCode int
}

func (e *ProviderError) Error() string { return e.Message }

// Suggestion is one search result, enough to render a picker.
type Suggestion struct {
    ID          string `json:"id"`
    Title       string `json:"title"`
    ReleaseDate string `json:"release_date,omitempty"`
    PosterURL   string `json:"poster_url,omitempty"`
}

// CastMember is one billed cast entry from the catalog.
type CastMember struct {
    Name      string
    Character string
    Order     uint32
}

// Details is the full record fetched for one movie: base data plus
// credits and a trailer when available.  Empty strings and zero values
// mean the catalog does not know the field.
type Details struct {
    ExternalID      string
    Title           string
    Synopsis        string
    Director        string
    ReleaseDate     string // YYYY-MM-DD
    PosterURL       string
    TrailerURL      string
    DurationMinutes uint32
    Genres          []string
    Cast            []CastMember
}

// Provider abstracts the external catalog so the importer can be tested
// without network access.
type Provider interface {
    Search(ctx context.Context, query string, limit int) ([]Suggestion, error)
    MovieDetails(ctx context.Context, id string) (*Details, error)
}

// TMDb is the production Provider backed by api.themoviedb.org.
type TMDb struct {
    apiKey string
    base   string
    client *http.Client
}

// NewTMDb builds a TMDb client.  The base URL is overridable for tests.
func NewTMDb(apiKey string) *TMDb {
    return &TMDb{
        apiKey: apiKey,
        base:   tmdbBaseURL,
        client: &http.Client{Timeout: 15 * time.Second},
    }
}

// NewTMDbWithBase is NewTMDb pointed at a different base URL.
func NewTMDbWithBase(apiKey, base string) *TMDb {
    t := NewTMDb(apiKey)
    t.base = base
    return t
}

func (t *TMDb) get(ctx context.Context, path string, params url.Values, out any) error {
    if t.apiKey == "" {
        return &ProviderError{Message: "TMDB_API_KEY is missing"}
    }
    params.Set("api_key", t.apiKey)
    params.Set("language", "fr-FR")
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base+path+"?"+params.Encode(), nil)
    if err != nil {
        return err
    }
    resp, err := t.client.Do(req)
    if err != nil {
        return &ProviderError{Message: fmt.Sprintf("catalog request failed: %v", err)}
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
        return &ProviderError{
            Message:    fmt.Sprintf("catalog error on %s: %d %s", path, resp.StatusCode, body),
            StatusCode: resp.StatusCode,
        }
    }
    return json.NewDecoder(resp.Body).Decode(out)
}

type tmdbMovie struct {
    ID          int64  `json:"id"`
    Title       string `json:"title"`
    Overview    string `json:"overview"`
    ReleaseDate string `json:"release_date"`
    PosterPath  string `json:"poster_path"`
    Runtime     uint32 `json:"runtime"`
    Genres      []struct {
        Name string `json:"name"`
    } `json:"genres"`
}

type tmdbCredits struct {
    Cast []struct {
        Name      string `json:"name"`
        Character string `json:"character"`
        Order     uint32 `json:"order"`
    } `json:"cast"`
    Crew []struct {
        Name string `json:"name"`
        Job  string `json:"job"`
    } `json:"crew"`
}

type tmdbVideos struct {
    Results []struct {
        Site string `json:"site"`
        Type string `json:"type"`
        Key  string `json:"key"`
    } `json:"results"`
}

// Search returns up to limit suggestions for the query.  An empty query
// yields no results without calling the catalog.
func (t *TMDb) Search(ctx context.Context, query string, limit int) ([]Suggestion, error) {
    if query == "" {
        return []Suggestion{}, nil
    }
    if limit <= 0 {
        limit = defaultSearchLimit
    }
    params := url.Values{}
    params.Set("query", query)
    params.Set("include_adult", "false")
    params.Set("page", "1")
    var payload struct {
        Results []tmdbMovie `json:"results"`
    }
    if err := t.get(ctx, "/search/movie", params, &payload); err != nil {
        return nil, err
    }
    if len(payload.Results) > limit {
        payload.Results = payload.Results[:limit]
    }
    out := make([]Suggestion, 0, len(payload.Results))
    for _, m := range payload.Results {
        s := Suggestion{
            ID:          strconv.FormatInt(m.ID, 10),
            Title:       m.Title,
            ReleaseDate: m.ReleaseDate,
        }
        if m.PosterPath != "" {
            s.PosterURL = tmdbImageBase + m.PosterPath
        }
        out = append(out, s)
    }
    return out, nil
}

// MovieDetails fetches the movie record, its credits and its videos.
// The videos call is best-effort: a missing trailer never fails the
// whole fetch.
func (t *TMDb) MovieDetails(ctx context.Context, id string) (*Details, error) {
    if id == "" {
        return nil, &ProviderError{Message: "catalog id is required"}
    }
    var movie tmdbMovie
    if err := t.get(ctx, "/movie/"+id, url.Values{}, &movie); err != nil {
        return nil, err
    }
    var credits tmdbCredits
    if err := t.get(ctx, "/movie/"+id+"/credits", url.Values{}, &credits); err != nil {
        return nil, err
    }
    var videos tmdbVideos
    _ = t.get(ctx, "/movie/"+id+"/videos", url.Values{}, &videos)

    d := &Details{
        ExternalID:      strconv.FormatInt(movie.ID, 10),
        Title:           movie.Title,
        Synopsis:        movie.Overview,
        ReleaseDate:     movie.ReleaseDate,
        DurationMinutes: movie.Runtime,
    }
    if movie.PosterPath != "" {
        d.PosterURL = tmdbImageBase + movie.PosterPath
    }
    for _, g := range movie.Genres {
        if g.Name != "" {
            d.Genres = append(d.Genres, g.Name)
        }
    }
    for _, c := range credits.Cast {
        if c.Name == "" {
            continue
        }
        d.Cast = append(d.Cast, CastMember{Name: c.Name, Character: c.Character, Order: c.Order})
        if len(d.Cast) == maxBilledCast {
            break
        }
    }
    for _, c := range credits.Crew {
        if c.Job == "Director" {
            d.Director = c.Name
            break
        }
    }
    for _, v := range videos.Results {
        if v.Site == "YouTube" && v.Type == "Trailer" {
            d.TrailerURL = "https://www.youtube.com/watch?v=" + v.Key
            break
        }
    }
    return d, nil
}
