package emby

import (
	"fmt"
	"net/url"
)

// ImagesAPI builds image URLs for items.
type ImagesAPI struct {
	client *Client
}

// ImageOptions controls the dimensions and quality of a requested image.
type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// URL generates an image URL for an item and image type. The tag doubles as a
// cache buster; an empty tag means the item has no such image.
func (i *ImagesAPI) URL(itemID, imageType, tag string, opts ImageOptions) string {
	if tag == "" {
		return ""
	}
	if opts.Quality == 0 {
		opts.Quality = 90
	}

	u := fmt.Sprintf("%s/Items/%s/Images/%s?tag=%s&quality=%d",
		i.client.config.ServerURL, url.QueryEscape(itemID), imageType, url.QueryEscape(tag), opts.Quality)
	if opts.MaxWidth > 0 {
		u += fmt.Sprintf("&maxWidth=%d", opts.MaxWidth)
	}
	if opts.MaxHeight > 0 {
		u += fmt.Sprintf("&maxHeight=%d", opts.MaxHeight)
	}
	return u
}

// Primary generates a primary-image URL with a default width suited to thumbnails.
func (i *ImagesAPI) Primary(item *DetailedItem, maxWidth int) string {
	if item == nil || !item.HasPrimaryImage() {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 300
	}
	return i.URL(item.ID, "Primary", item.ImageTags.Primary, ImageOptions{MaxWidth: maxWidth})
}

// Backdrop generates the first backdrop-image URL, if any.
func (i *ImagesAPI) Backdrop(item *DetailedItem, maxWidth int) string {
	if item == nil || len(item.BackdropImageTags) == 0 {
		return ""
	}
	return i.URL(item.ID, "Backdrop", item.BackdropImageTags[0], ImageOptions{MaxWidth: maxWidth})
}
