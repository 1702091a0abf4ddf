package emby

import (
	"fmt"
)

// SessionsAPI reports play-session lifecycle events so the server's
// "now playing" view and resume positions stay accurate.
type SessionsAPI struct {
	client *Client
}

// Progress event names understood by the server.
const (
	EventTimeUpdate = "TimeUpdate"
	EventPause      = "Pause"
	EventUnpause    = "Unpause"
)

// ReportStart reports that playback has started for the given session.
func (s *SessionsAPI) ReportStart(report PlaybackReport) error {
	if !s.client.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}
	if report.PlaySessionID == "" {
		return fmt.Errorf("play session id is required")
	}

	report.CanSeek = true
	url := fmt.Sprintf("%s/Sessions/Playing", s.client.config.ServerURL)
	return s.client.postJSON(url, report)
}

// ReportProgress reports the current playback position for the session.
func (s *SessionsAPI) ReportProgress(report PlaybackReport) error {
	if !s.client.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}
	if report.PlaySessionID == "" {
		return fmt.Errorf("play session id is required")
	}

	report.CanSeek = true
	if report.EventName == "" {
		report.EventName = EventTimeUpdate
	}
	url := fmt.Sprintf("%s/Sessions/Playing/Progress", s.client.config.ServerURL)
	return s.client.postJSON(url, report)
}

// ReportStop reports that playback has stopped, releasing the server-side
// session and any transcode resources bound to it.
func (s *SessionsAPI) ReportStop(report PlaybackReport) error {
	if !s.client.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}
	if report.PlaySessionID == "" {
		return fmt.Errorf("play session id is required")
	}

	url := fmt.Sprintf("%s/Sessions/Playing/Stopped", s.client.config.ServerURL)
	return s.client.postJSON(url, report)
}
