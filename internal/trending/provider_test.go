package trending

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrell/etui/pkg/emby"
)

func libraryItem(id, tmdbID string) emby.DetailedItem {
	item := emby.DetailedItem{}
	item.ID = id
	item.Name = "Item " + id
	if tmdbID != "" {
		item.ProviderIDs = map[string]string{"Tmdb": tmdbID}
	}
	return item
}

func TestProviderDisabledWithoutKey(t *testing.T) {
	p := NewProvider("http://unused", "", nil)
	assert.False(t, p.Enabled())

	_, err := p.TrendingMovies(1)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestTrendingMoviesPaging(t *testing.T) {
	var gotPath, gotPage, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(`{"page":2,"total_pages":5,"results":[
			{"id":603,"title":"The Matrix"},
			{"id":27205,"title":"Inception"}
		]}`))
	}))
	defer server.Close()

	p := NewProvider(server.URL, "secret", nil)
	entries, err := p.TrendingMovies(2)
	require.NoError(t, err)

	assert.Equal(t, "/trending/movie/week", gotPath)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(603), entries[0].ID)
	assert.Equal(t, "The Matrix", entries[0].DisplayTitle())
}

func TestTrendingShowsUseNameField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[{"id":1396,"name":"Breaking Bad"}]}`))
	}))
	defer server.Close()

	p := NewProvider(server.URL, "secret", nil)
	entries, err := p.TrendingShows(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Breaking Bad", entries[0].DisplayTitle())
}

func TestListingErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewProvider(server.URL, "bad-key", nil)
	_, err := p.TrendingMovies(1)
	assert.Error(t, err)
}

func TestCrossReferenceFirstMatchWins(t *testing.T) {
	entries := []Entry{
		{ID: 603, Title: "The Matrix"},
		{ID: 27205, Title: "Inception"},
		{ID: 99999, Title: "Not Owned"},
	}
	items := []emby.DetailedItem{
		libraryItem("lib-1", "27205"),
		libraryItem("lib-2", "603"),
		libraryItem("lib-3", "603"), // duplicate edition, first one wins
		libraryItem("lib-4", ""),
	}

	matched := CrossReference(entries, items)

	require.Len(t, matched, 2)
	// Listing order preserved, duplicate provider id resolved to the first item.
	assert.Equal(t, "lib-2", matched[0].ID)
	assert.Equal(t, "lib-1", matched[1].ID)
}

func TestCrossReferenceEmpty(t *testing.T) {
	assert.Empty(t, CrossReference(nil, nil))
	assert.Empty(t, CrossReference([]Entry{{ID: 1}}, nil))
}
