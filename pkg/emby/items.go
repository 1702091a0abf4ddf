package emby

import (
	"fmt"
	"net/url"
)

// ItemsAPI handles item-related operations
type ItemsAPI struct {
	client *Client
}

func toItems(detailed []DetailedItem) []Item {
	items := make([]Item, len(detailed))
	for i, item := range detailed {
		items[i] = item
	}
	return items
}

// Get returns items within a specified parent, optionally including folders
func (i *ItemsAPI) Get(parentID string, includeFolders bool) ([]Item, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Items?ParentId=%s&Fields=BasicSyncInfo,UserData&SortBy=SortName&SortOrder=Ascending",
		i.client.config.ServerURL, url.QueryEscape(parentID))
	if !includeFolders {
		u += "&ExcludeItemTypes=Folder"
	}

	var result DetailedItemsResponse
	if err := i.client.getJSON(u, &result); err != nil {
		return nil, err
	}

	return toItems(result.Items), nil
}

// GetDetails returns detailed information about a specific item
func (i *ItemsAPI) GetDetails(itemID string) (*DetailedItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Users/%s/Items/%s?Fields=BasicSyncInfo,UserData,Overview,Genres,ProviderIds,SeriesInfo",
		i.client.config.ServerURL, i.client.config.UserID, url.QueryEscape(itemID))

	var item DetailedItem
	if err := i.client.getJSON(u, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// GetResumeItems returns items that can be resumed by the current user
func (i *ItemsAPI) GetResumeItems() ([]DetailedItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf(
		"%s/Users/%s/Items/Resume?Limit=12&Recursive=true&Fields=BasicSyncInfo,UserData,PrimaryImageAspectRatio&EnableImageTypes=Primary,Backdrop,Thumb&EnableTotalRecordCount=false&ImageTypeLimit=1",
		i.client.config.ServerURL, i.client.config.UserID)

	var response DetailedItemsResponse
	if err := i.client.getJSON(u, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// GetNextUp returns next up items for TV shows
func (i *ItemsAPI) GetNextUp() ([]DetailedItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf(
		"%s/Shows/NextUp?UserId=%s&Limit=12&Fields=BasicSyncInfo,UserData,PrimaryImageAspectRatio&EnableImageTypes=Primary,Backdrop,Thumb&EnableTotalRecordCount=false&ImageTypeLimit=1",
		i.client.config.ServerURL, i.client.config.UserID)

	var response DetailedItemsResponse
	if err := i.client.getJSON(u, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// GetRecentlyAdded returns the latest additions of the given item type
// (e.g. "Movie", "Series", "Episode").
func (i *ItemsAPI) GetRecentlyAdded(itemType string, limit int) ([]DetailedItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}
	if limit <= 0 {
		limit = 12
	}

	u := fmt.Sprintf(
		"%s/Users/%s/Items/Latest?IncludeItemTypes=%s&Limit=%d&Fields=BasicSyncInfo,UserData&EnableImageTypes=Primary,Backdrop&ImageTypeLimit=1",
		i.client.config.ServerURL, i.client.config.UserID, url.QueryEscape(itemType), limit)

	// The Latest endpoint returns a bare array rather than an Items wrapper.
	var items []DetailedItem
	if err := i.client.getJSON(u, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// GetSimilar returns items similar to the given one.
func (i *ItemsAPI) GetSimilar(itemID string, limit int) ([]DetailedItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}
	if limit <= 0 {
		limit = 12
	}

	u := fmt.Sprintf("%s/Items/%s/Similar?UserId=%s&Limit=%d&Fields=BasicSyncInfo,UserData",
		i.client.config.ServerURL, url.QueryEscape(itemID), i.client.config.UserID, limit)

	var response DetailedItemsResponse
	if err := i.client.getJSON(u, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// GetEpisodes returns the full ordered episode list of a series. Adjacent
// episode links are resolved by locating an item in this list by position.
func (i *ItemsAPI) GetEpisodes(seriesID string) ([]DetailedItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Shows/%s/Episodes?UserId=%s&Fields=BasicSyncInfo,UserData,SeriesInfo",
		i.client.config.ServerURL, url.QueryEscape(seriesID), i.client.config.UserID)

	var response DetailedItemsResponse
	if err := i.client.getJSON(u, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// GetGenres returns the genre facets of a library.
func (i *ItemsAPI) GetGenres(parentID string) ([]SimpleItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Genres?ParentId=%s&UserId=%s&SortBy=SortName",
		i.client.config.ServerURL, url.QueryEscape(parentID), i.client.config.UserID)

	var response ItemsResponse
	if err := i.client.getJSON(u, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// GetYears returns the production-year facets of a library.
func (i *ItemsAPI) GetYears(parentID string) ([]SimpleItem, error) {
	if !i.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Years?ParentId=%s&UserId=%s&SortOrder=Descending",
		i.client.config.ServerURL, url.QueryEscape(parentID), i.client.config.UserID)

	var response ItemsResponse
	if err := i.client.getJSON(u, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// SetFavorite marks or unmarks an item as a favorite.
func (i *ItemsAPI) SetFavorite(itemID string, favorite bool) error {
	if !i.client.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Users/%s/FavoriteItems/%s", i.client.config.ServerURL, i.client.config.UserID, url.QueryEscape(itemID))

	method := "POST"
	if !favorite {
		method = "DELETE"
	}

	resp, err := i.client.do(method, u, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// MarkWatched marks an item as watched
func (i *ItemsAPI) MarkWatched(itemID string) error {
	return i.setPlayed(itemID, true)
}

// MarkUnwatched marks an item as unwatched
func (i *ItemsAPI) MarkUnwatched(itemID string) error {
	return i.setPlayed(itemID, false)
}

func (i *ItemsAPI) setPlayed(itemID string, played bool) error {
	if !i.client.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Users/%s/PlayedItems/%s", i.client.config.ServerURL, i.client.config.UserID, url.QueryEscape(itemID))

	method := "POST"
	if !played {
		method = "DELETE"
	}

	resp, err := i.client.do(method, u, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
