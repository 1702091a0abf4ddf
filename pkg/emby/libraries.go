package emby

import (
	"fmt"
	"net/url"
)

// LibrariesAPI handles library-related operations
type LibrariesAPI struct {
	client *Client
}

// GetAll returns all media libraries available to the authenticated user
func (l *LibrariesAPI) GetAll() ([]Item, error) {
	if !l.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Library/MediaFolders", l.client.config.ServerURL)

	var result ItemsResponse
	if err := l.client.getJSON(u, &result); err != nil {
		return nil, err
	}

	items := make([]Item, len(result.Items))
	for i, item := range result.Items {
		items[i] = item
	}

	return items, nil
}

// GetByName finds a library by its name and returns its ID
func (l *LibrariesAPI) GetByName(libraryName string) (string, error) {
	libraries, err := l.GetAll()
	if err != nil {
		return "", err
	}

	for _, item := range libraries {
		if item.GetName() == libraryName {
			return item.GetID(), nil
		}
	}

	return "", fmt.Errorf("library not found: %s", libraryName)
}

// GetFolders returns all folders within a specified parent (typically a library)
func (l *LibrariesAPI) GetFolders(parentID string) ([]Item, error) {
	if !l.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Items?ParentId=%s&IncludeItemTypes=Folder", l.client.config.ServerURL, url.QueryEscape(parentID))

	var result ItemsResponse
	if err := l.client.getJSON(u, &result); err != nil {
		return nil, err
	}

	items := make([]Item, len(result.Items))
	for i, item := range result.Items {
		items[i] = item
	}

	return items, nil
}
