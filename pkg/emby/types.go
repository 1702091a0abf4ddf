package emby

import (
	"fmt"
	"strings"
)

// Item represents an Emby media item interface
type Item interface {
	GetName() string
	GetID() string
	GetIsFolder() bool
}

// SimpleItem is a basic implementation of Item
type SimpleItem struct {
	Name     string `json:"Name"`
	ID       string `json:"Id"`
	IsFolder bool   `json:"IsFolder"`
	Type     string `json:"Type,omitempty"`
}

func (s SimpleItem) GetName() string {
	return s.Name
}

func (s SimpleItem) GetID() string {
	return s.ID
}

func (s SimpleItem) GetIsFolder() bool {
	return s.IsFolder
}

// UserData holds per-user playback state for an item.
type UserData struct {
	PlaybackPositionTicks int64   `json:"PlaybackPositionTicks"`
	PlayCount             int     `json:"PlayCount"`
	IsFavorite            bool    `json:"IsFavorite"`
	Played                bool    `json:"Played"`
	PlayedPercentage      float64 `json:"PlayedPercentage"`
}

// DetailedItem represents an Emby item with additional metadata
type DetailedItem struct {
	SimpleItem
	Overview       string   `json:"Overview"`
	ProductionYear int      `json:"ProductionYear"`
	RunTimeTicks   int64    `json:"RunTimeTicks"`
	Genres         []string `json:"Genres"`
	Studios        []struct {
		Name string `json:"Name"`
	} `json:"Studios"`
	ImageTags struct {
		Primary string `json:"Primary"`
	} `json:"ImageTags"`
	BackdropImageTags []string          `json:"BackdropImageTags"`
	ProviderIDs       map[string]string `json:"ProviderIds,omitempty"`
	UserData          UserData          `json:"UserData"`

	// Series/Season information
	SeriesID          string `json:"SeriesId,omitempty"`
	SeriesName        string `json:"SeriesName,omitempty"`
	SeasonID          string `json:"SeasonId,omitempty"`
	SeasonName        string `json:"SeasonName,omitempty"`
	ParentIndexNumber int    `json:"ParentIndexNumber,omitempty"`
	IndexNumber       int    `json:"IndexNumber,omitempty"`
}

func (d DetailedItem) GetOverview() string {
	return d.Overview
}

func (d DetailedItem) GetYear() int {
	return d.ProductionYear
}

func (d DetailedItem) GetRuntime() string {
	if d.RunTimeTicks == 0 {
		return ""
	}
	minutes := d.RunTimeTicks / (TicksPerSecond * 60)
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

func (d DetailedItem) GetGenres() string {
	if len(d.Genres) == 0 {
		return ""
	}
	return strings.Join(d.Genres, ", ")
}

func (d DetailedItem) GetStudio() string {
	if len(d.Studios) == 0 {
		return ""
	}
	return d.Studios[0].Name
}

func (d DetailedItem) HasPrimaryImage() bool {
	return d.ImageTags.Primary != ""
}

func (d DetailedItem) GetPlaybackPositionTicks() int64 {
	return d.UserData.PlaybackPositionTicks
}

func (d DetailedItem) IsWatched() bool {
	return d.UserData.Played
}

func (d DetailedItem) IsFavorite() bool {
	return d.UserData.IsFavorite
}

func (d DetailedItem) GetPlayedPercentage() float64 {
	return d.UserData.PlayedPercentage
}

func (d DetailedItem) HasResumePosition() bool {
	return d.UserData.PlaybackPositionTicks > 0 && !d.UserData.Played
}

// IsEpisode reports whether the item is an episode belonging to a series.
func (d DetailedItem) IsEpisode() bool {
	return d.Type == "Episode" && d.SeriesID != ""
}

func (d DetailedItem) GetSeriesName() string {
	return d.SeriesName
}

func (d DetailedItem) GetSeasonNumber() int {
	return d.ParentIndexNumber
}

func (d DetailedItem) GetEpisodeNumber() int {
	return d.IndexNumber
}

// MediaStream describes one video/audio/subtitle stream within a media source.
type MediaStream struct {
	Index        int    `json:"Index"`
	Type         string `json:"Type"` // Video, Audio, Subtitle
	Codec        string `json:"Codec"`
	Language     string `json:"Language,omitempty"`
	DisplayTitle string `json:"DisplayTitle,omitempty"`
	IsDefault    bool   `json:"IsDefault"`
	IsExternal   bool   `json:"IsExternal"`
	Width        int    `json:"Width,omitempty"`
	Height       int    `json:"Height,omitempty"`
}

// MediaSource is one server-offered encoding/rendition of a playable item.
type MediaSource struct {
	ID                   string        `json:"Id"`
	Name                 string        `json:"Name"`
	Container            string        `json:"Container"`
	Bitrate              int64         `json:"Bitrate"`
	RunTimeTicks         int64         `json:"RunTimeTicks"`
	SupportsDirectStream bool          `json:"SupportsDirectStream"`
	SupportsTranscoding  bool          `json:"SupportsTranscoding"`
	TranscodingURL       string        `json:"TranscodingUrl,omitempty"`
	MediaStreams         []MediaStream `json:"MediaStreams"`
}

// VideoHeight returns the vertical resolution of the first video stream, 0 if none.
func (m MediaSource) VideoHeight() int {
	for _, s := range m.MediaStreams {
		if s.Type == "Video" {
			return s.Height
		}
	}
	return 0
}

// AudioStreams returns the audio streams of the source in declaration order.
func (m MediaSource) AudioStreams() []MediaStream {
	var out []MediaStream
	for _, s := range m.MediaStreams {
		if s.Type == "Audio" {
			out = append(out, s)
		}
	}
	return out
}

// SubtitleStreams returns the subtitle streams of the source in declaration order.
func (m MediaSource) SubtitleStreams() []MediaStream {
	var out []MediaStream
	for _, s := range m.MediaStreams {
		if s.Type == "Subtitle" {
			out = append(out, s)
		}
	}
	return out
}

// PlaybackInfoResponse is the result of playback capability negotiation.
type PlaybackInfoResponse struct {
	MediaSources  []MediaSource `json:"MediaSources"`
	PlaySessionID string        `json:"PlaySessionId"`
	ErrorCode     string        `json:"ErrorCode,omitempty"`
}

// PlaybackReport carries a session lifecycle event to the server.
type PlaybackReport struct {
	ItemID              string `json:"ItemId"`
	PlaySessionID       string `json:"PlaySessionId"`
	MediaSourceID       string `json:"MediaSourceId"`
	PositionTicks       int64  `json:"PositionTicks"`
	AudioStreamIndex    *int   `json:"AudioStreamIndex,omitempty"`
	SubtitleStreamIndex *int   `json:"SubtitleStreamIndex,omitempty"`
	IsPaused            bool   `json:"IsPaused"`
	CanSeek             bool   `json:"CanSeek"`
	PlayMethod          string `json:"PlayMethod,omitempty"`
	EventName           string `json:"EventName,omitempty"`
}

// SessionData holds session information for persistence
type SessionData struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	DeviceID    string `json:"device_id"`
}

// ItemsResponse represents the response from Items API endpoints
type ItemsResponse struct {
	Items []SimpleItem `json:"Items"`
}

// DetailedItemsResponse represents the response from detailed Items API endpoints
type DetailedItemsResponse struct {
	Items []DetailedItem `json:"Items"`
}

// UserInfo represents user information
type UserInfo struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// AuthenticationResult represents the result of authentication
type AuthenticationResult struct {
	AccessToken string   `json:"AccessToken"`
	User        UserInfo `json:"User"`
}
