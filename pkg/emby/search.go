package emby

import (
	"fmt"
	"net/url"
)

// SearchAPI handles search-related operations
type SearchAPI struct {
	client *Client
}

// SearchOptions represents search configuration options
type SearchOptions struct {
	Query     string
	Limit     int
	Recursive bool
	Genre     string
	Year      int
}

// NewSearchOptions creates default search options
func NewSearchOptions(query string) *SearchOptions {
	return &SearchOptions{
		Query:     query,
		Limit:     50,
		Recursive: true,
	}
}

// WithLimit sets the maximum number of results to return
func (s *SearchOptions) WithLimit(limit int) *SearchOptions {
	s.Limit = limit
	return s
}

// WithGenre restricts results to a genre facet
func (s *SearchOptions) WithGenre(genre string) *SearchOptions {
	s.Genre = genre
	return s
}

// WithYear restricts results to a production year facet
func (s *SearchOptions) WithYear(year int) *SearchOptions {
	s.Year = year
	return s
}

// Items searches for items using the server's search API
func (s *SearchAPI) Items(options *SearchOptions) ([]DetailedItem, error) {
	if !s.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	if options == nil {
		return nil, fmt.Errorf("search options cannot be nil")
	}

	if options.Query == "" && options.Genre == "" && options.Year == 0 {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	searchURL := fmt.Sprintf(
		"%s/Users/%s/Items?searchTerm=%s&Recursive=%t&Fields=BasicSyncInfo,UserData,PrimaryImageAspectRatio&EnableImageTypes=Primary,Backdrop,Thumb&EnableTotalRecordCount=false&ImageTypeLimit=1&Limit=%d",
		s.client.config.ServerURL,
		s.client.config.UserID,
		url.QueryEscape(options.Query),
		options.Recursive,
		options.Limit,
	)
	if options.Genre != "" {
		searchURL += "&Genres=" + url.QueryEscape(options.Genre)
	}
	if options.Year != 0 {
		searchURL += fmt.Sprintf("&Years=%d", options.Year)
	}

	var response DetailedItemsResponse
	if err := s.client.getJSON(searchURL, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// Quick performs a quick search with default options
func (s *SearchAPI) Quick(query string) ([]DetailedItem, error) {
	return s.Items(NewSearchOptions(query))
}
