// Package player drives one video playback session against an Emby-compatible
// server: capability negotiation, progress reporting, track switching, episode
// continuity, and teardown.
package player

// Engine abstracts the media decoder the controller drives. Implementations
// must be safe to Stop more than once.
type Engine interface {
	// Load starts playback of the stream URL at the given position in seconds,
	// tearing down any previous stream first.
	Load(url string, startSeconds float64) error
	// Stop terminates playback and releases decoder resources.
	Stop() error
	// Running reports whether the decoder is still playing or paused on a
	// loaded stream. False after natural end of media or Stop.
	Running() bool

	Position() (float64, error)
	Duration() (float64, error)
	Seek(seconds float64) error
	SetPause(paused bool) error
	SetVolume(percent int) error
	SetMute(muted bool) error
	// SetSubtitleTrack enables exactly one subtitle stream by index; a
	// negative index disables subtitles.
	SetSubtitleTrack(index int) error
}
