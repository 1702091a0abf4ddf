package emby

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// PlaybackAPI negotiates playback capabilities and builds stream URLs.
type PlaybackAPI struct {
	client *Client
}

// deviceProfile is the capability profile sent with PlaybackInfo requests.
// It advertises HLS with common containers so the server can decide between
// direct streaming and transcoding.
type deviceProfile struct {
	MaxStreamingBitrate int64 `json:"MaxStreamingBitrate"`
	DeviceProfile       struct {
		DirectPlayProfiles []map[string]string `json:"DirectPlayProfiles"`
		TranscodingProfiles []map[string]string `json:"TranscodingProfiles"`
	} `json:"DeviceProfile"`
}

func defaultDeviceProfile() deviceProfile {
	var p deviceProfile
	p.MaxStreamingBitrate = 120_000_000
	p.DeviceProfile.DirectPlayProfiles = []map[string]string{
		{"Container": "mp4,mkv,webm", "Type": "Video"},
	}
	p.DeviceProfile.TranscodingProfiles = []map[string]string{
		{"Container": "ts", "Type": "Video", "Protocol": "hls", "VideoCodec": "h264", "AudioCodec": "aac"},
	}
	return p
}

// GetPlaybackInfo negotiates a playback session for the item. startTicks is the
// advisory resume position; audioStreamIndex below zero means server default.
func (p *PlaybackAPI) GetPlaybackInfo(itemID string, startTicks int64, mediaSourceID string, audioStreamIndex int) (*PlaybackInfoResponse, error) {
	if !p.client.IsAuthenticated() {
		return nil, fmt.Errorf("client is not authenticated")
	}

	u := fmt.Sprintf("%s/Items/%s/PlaybackInfo?UserId=%s&StartTimeTicks=%d&IsPlayback=true&AutoOpenLiveStream=true",
		p.client.config.ServerURL, url.QueryEscape(itemID), p.client.config.UserID, startTicks)
	if mediaSourceID != "" {
		u += "&MediaSourceId=" + url.QueryEscape(mediaSourceID)
	}
	if audioStreamIndex >= 0 {
		u += fmt.Sprintf("&AudioStreamIndex=%d", audioStreamIndex)
	}

	resp, err := p.client.do("POST", u, defaultDeviceProfile())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result PlaybackInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.ErrorCode != "" {
		return nil, fmt.Errorf("playback negotiation failed: %s", result.ErrorCode)
	}

	return &result, nil
}

// StreamURL builds the playback URL for a negotiated source. Transcoded
// sources carry a server-relative manifest URL; direct sources stream the
// original container with the chosen audio track.
func (p *PlaybackAPI) StreamURL(source *MediaSource, playSessionID string, audioStreamIndex int) string {
	if source.TranscodingURL != "" {
		return p.client.config.ServerURL + source.TranscodingURL
	}

	u := fmt.Sprintf("%s/Videos/%s/stream?static=true&MediaSourceId=%s&PlaySessionId=%s&api_key=%s",
		p.client.config.ServerURL, url.QueryEscape(source.ID), url.QueryEscape(source.ID),
		url.QueryEscape(playSessionID), p.client.config.AccessToken)
	if audioStreamIndex >= 0 {
		u += fmt.Sprintf("&AudioStreamIndex=%d", audioStreamIndex)
	}
	return u
}

// ManifestURL builds the HLS master manifest URL for a source.
func (p *PlaybackAPI) ManifestURL(itemID string, source *MediaSource, playSessionID string, audioStreamIndex int) string {
	u := fmt.Sprintf("%s/Videos/%s/master.m3u8?MediaSourceId=%s&PlaySessionId=%s&api_key=%s",
		p.client.config.ServerURL, url.QueryEscape(itemID), url.QueryEscape(source.ID),
		url.QueryEscape(playSessionID), p.client.config.AccessToken)
	if audioStreamIndex >= 0 {
		u += fmt.Sprintf("&AudioStreamIndex=%d", audioStreamIndex)
	}
	return u
}

// SubtitleURL builds the sidecar subtitle URL for a subtitle stream.
// Subtitles are delivered separately and never require session renegotiation.
func (p *PlaybackAPI) SubtitleURL(itemID string, source *MediaSource, streamIndex int, format string) string {
	if format == "" {
		format = "srt"
	}
	return fmt.Sprintf("%s/Videos/%s/%s/Subtitles/%d/Stream.%s?api_key=%s",
		p.client.config.ServerURL, url.QueryEscape(itemID), url.QueryEscape(source.ID),
		streamIndex, format, p.client.config.AccessToken)
}
