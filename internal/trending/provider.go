package trending

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/davrell/etui/pkg/emby"
)

// Entry is one title in a popularity listing, keyed by the provider's opaque
// numeric id.
type Entry struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Name     string `json:"name"` // TV listings use Name instead of Title
	Overview string `json:"overview"`
}

// DisplayTitle returns the title regardless of listing kind.
func (e Entry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Name
}

type page struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Results    []Entry `json:"results"`
}

// Provider fetches paged trending/popular listings from a TMDB-compatible API.
// It is optional: without an API key every call reports disabled and the UI
// omits the trending row.
type Provider struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

func NewProvider(baseURL, apiKey string, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Enabled reports whether an API key is configured.
func (p *Provider) Enabled() bool {
	return p.apiKey != ""
}

// ErrDisabled is returned by listing calls when no API key is configured.
var ErrDisabled = fmt.Errorf("trending provider is not configured")

// TrendingMovies returns one page of the weekly movie trending listing.
func (p *Provider) TrendingMovies(pageNum int) ([]Entry, error) {
	return p.listing("/trending/movie/week", pageNum)
}

// TrendingShows returns one page of the weekly TV trending listing.
func (p *Provider) TrendingShows(pageNum int) ([]Entry, error) {
	return p.listing("/trending/tv/week", pageNum)
}

// PopularMovies returns one page of the all-time popular movie listing.
func (p *Provider) PopularMovies(pageNum int) ([]Entry, error) {
	return p.listing("/movie/popular", pageNum)
}

func (p *Provider) listing(path string, pageNum int) ([]Entry, error) {
	if !p.Enabled() {
		return nil, ErrDisabled
	}
	if pageNum < 1 {
		pageNum = 1
	}

	query := url.Values{}
	query.Set("api_key", p.apiKey)
	query.Set("page", strconv.Itoa(pageNum))

	resp, err := p.http.Get(p.baseURL + path + "?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("trending request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trending request returned status %d", resp.StatusCode)
	}

	var result page
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode trending response: %w", err)
	}

	p.log.Debug("trending listing fetched",
		zap.String("path", path),
		zap.Int("page", result.Page),
		zap.Int("results", len(result.Results)))
	return result.Results, nil
}

// providerKeys are the item provider-id names that carry the listing's id.
var providerKeys = []string{"Tmdb", "tmdb"}

// CrossReference maps listing entries to owned library items by provider id,
// preserving listing order. Each entry takes the first matching library item;
// entries the library does not own are dropped.
func CrossReference(entries []Entry, items []emby.DetailedItem) []emby.DetailedItem {
	byProviderID := make(map[string]*emby.DetailedItem, len(items))
	for i := range items {
		for _, key := range providerKeys {
			id, ok := items[i].ProviderIDs[key]
			if !ok || id == "" {
				continue
			}
			if _, taken := byProviderID[id]; !taken {
				byProviderID[id] = &items[i]
			}
		}
	}

	var out []emby.DetailedItem
	seen := make(map[string]bool)
	for _, entry := range entries {
		item, ok := byProviderID[strconv.FormatInt(entry.ID, 10)]
		if !ok || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, *item)
	}
	return out
}
