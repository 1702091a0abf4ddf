package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/davrell/etui/pkg/emby"
)

// State is the controller's transport state.
type State int

const (
	StateIdle State = iota
	StateNegotiating
	StateSourcePending // multiple sources offered and no preference resolves
	StateReady
	StatePlaying
	StatePaused
	StateSeeking
	StateStopped
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateSourcePending:
		return "source-pending"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateSeeking:
		return "seeking"
	case StateStopped:
		return "stopped"
	default:
		return "errored"
	}
}

var (
	// ErrNoPlayableSource is returned when negotiation yields zero media sources.
	ErrNoPlayableSource = errors.New("no playable media source")
	// ErrBusy is returned when a track change or seek arrives while another
	// session-mutating operation is in flight.
	ErrBusy = errors.New("operation already in flight")
	// ErrNoSession is returned for transport operations without an active session.
	ErrNoSession = errors.New("no active play session")
	// ErrNoAdjacentEpisode is returned when no episode is linked in that direction.
	ErrNoAdjacentEpisode = errors.New("no adjacent episode")
)

const (
	// progressInterval is the period of the recurring progress report timer.
	progressInterval = 10 * time.Second
	// progressDelta is the minimum position change, in seconds, worth reporting.
	progressDelta = 1.0
	// upNextWindow is the remaining-duration window that arms the up-next
	// affordance when a next episode is linked.
	upNextWindow = 120.0
)

// SessionAPI is the server surface the controller needs. *emby.Client
// satisfies it through NewSessionAPI.
type SessionAPI interface {
	GetDetails(itemID string) (*emby.DetailedItem, error)
	GetEpisodes(seriesID string) ([]emby.DetailedItem, error)
	GetPlaybackInfo(itemID string, startTicks int64, mediaSourceID string, audioStreamIndex int) (*emby.PlaybackInfoResponse, error)
	StreamURL(source *emby.MediaSource, playSessionID string, audioStreamIndex int) string
	ReportStart(report emby.PlaybackReport) error
	ReportProgress(report emby.PlaybackReport) error
	ReportStop(report emby.PlaybackReport) error
}

type clientAdapter struct {
	c *emby.Client
}

// NewSessionAPI adapts an emby.Client to the controller's server surface.
func NewSessionAPI(c *emby.Client) SessionAPI {
	return clientAdapter{c: c}
}

func (a clientAdapter) GetDetails(itemID string) (*emby.DetailedItem, error) {
	return a.c.Items.GetDetails(itemID)
}

func (a clientAdapter) GetEpisodes(seriesID string) ([]emby.DetailedItem, error) {
	return a.c.Items.GetEpisodes(seriesID)
}

func (a clientAdapter) GetPlaybackInfo(itemID string, startTicks int64, mediaSourceID string, audioStreamIndex int) (*emby.PlaybackInfoResponse, error) {
	return a.c.Playback.GetPlaybackInfo(itemID, startTicks, mediaSourceID, audioStreamIndex)
}

func (a clientAdapter) StreamURL(source *emby.MediaSource, playSessionID string, audioStreamIndex int) string {
	return a.c.Playback.StreamURL(source, playSessionID, audioStreamIndex)
}

func (a clientAdapter) ReportStart(report emby.PlaybackReport) error {
	return a.c.Sessions.ReportStart(report)
}

func (a clientAdapter) ReportProgress(report emby.PlaybackReport) error {
	return a.c.Sessions.ReportProgress(report)
}

func (a clientAdapter) ReportStop(report emby.PlaybackReport) error {
	return a.c.Sessions.ReportStop(report)
}

// Preferences are the externally persisted playback preferences read at
// session start. The controller does not own or write them.
type Preferences struct {
	Quality       string // quality preference token, see SelectByQuality
	AudioLanguage string // preferred audio language code, e.g. "jpn"
}

// Controller owns one play session at a time: the negotiated server session
// id and the decoder are held exclusively by the most recent LoadItem call,
// handed off sequentially, never concurrently.
type Controller struct {
	mu     sync.Mutex
	api    SessionAPI
	engine Engine
	prefs  Preferences
	log    *zap.Logger

	state   State
	lastErr string

	item          *emby.DetailedItem
	sources       []emby.MediaSource
	source        *emby.MediaSource
	playSessionID string
	audioIndex    int
	subtitleIndex int

	nextEpisode *emby.DetailedItem
	prevEpisode *emby.DetailedItem

	lastPos      float64
	lastReported float64
	busy         bool
	progressStop chan struct{}

	// onAdvance is invoked outside the lock when natural end of media
	// auto-advances to the linked next episode.
	onAdvance func(itemID string)
}

// New creates a Controller. A nil logger disables logging.
func New(api SessionAPI, engine Engine, prefs Preferences, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		api:           api,
		engine:        engine,
		prefs:         prefs,
		log:           log,
		state:         StateIdle,
		audioIndex:    -1,
		subtitleIndex: -1,
	}
}

// SetAdvanceHandler installs the callback used when playback auto-advances to
// the next episode on natural end of media.
func (c *Controller) SetAdvanceHandler(fn func(itemID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAdvance = fn
}

// State returns the current transport state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the user-visible error message, if any.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Item returns the item of the active session, nil when idle.
func (c *Controller) Item() *emby.DetailedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item
}

// Sources returns the server-offered media sources of the current negotiation.
func (c *Controller) Sources() []emby.MediaSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sources
}

// Source returns the selected media source, nil before selection.
func (c *Controller) Source() *emby.MediaSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// AudioIndex returns the selected audio stream index, -1 for server default.
func (c *Controller) AudioIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audioIndex
}

// SubtitleIndex returns the enabled subtitle stream index, -1 when off.
func (c *Controller) SubtitleIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtitleIndex
}

// Position returns the last known playback position in seconds.
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

// Duration returns the media duration in seconds, 0 when unknown.
func (c *Controller) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil || !c.engine.Running() {
		return 0
	}
	dur, err := c.engine.Duration()
	if err != nil {
		return 0
	}
	return dur
}

// Busy reports whether a session-mutating operation is in flight; the UI must
// disable track selection and seeking while true.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// HasNextEpisode reports whether a next episode is linked.
func (c *Controller) HasNextEpisode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextEpisode != nil
}

// NextEpisodeItem returns the linked next episode, nil when none.
func (c *Controller) NextEpisodeItem() *emby.DetailedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextEpisode
}

// HasPreviousEpisode reports whether a previous episode is linked.
func (c *Controller) HasPreviousEpisode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prevEpisode != nil
}

// LoadItem tears down any existing session and negotiates playback for the
// item. With multiple offered sources and an ambiguous quality preference the
// controller parks in StateSourcePending until SelectSource is called.
func (c *Controller) LoadItem(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Sequential hand-off: the previous owner's session and decoder are
	// released before anything new is acquired.
	c.teardownLocked()
	c.lastErr = ""
	c.state = StateNegotiating

	item, err := c.api.GetDetails(itemID)
	if err != nil {
		return c.failLocked(fmt.Errorf("failed to load item: %w", err))
	}

	resumeTicks := item.UserData.PlaybackPositionTicks
	info, err := c.api.GetPlaybackInfo(itemID, resumeTicks, "", -1)
	if err != nil {
		return c.failLocked(fmt.Errorf("playback negotiation failed: %w", err))
	}
	if len(info.MediaSources) == 0 {
		return c.failLocked(ErrNoPlayableSource)
	}

	c.item = item
	c.sources = info.MediaSources
	c.playSessionID = info.PlaySessionID
	c.resolveAdjacentLocked(item)

	resumeSeconds := emby.TicksToSeconds(resumeTicks)

	if len(info.MediaSources) == 1 {
		return c.selectSourceLocked(&c.sources[0], resumeSeconds)
	}
	if source, ok := SelectByQuality(c.sources, c.prefs.Quality); ok {
		return c.selectSourceLocked(source, resumeSeconds)
	}

	c.state = StateSourcePending
	return nil
}

// resolveAdjacentLocked resolves previous/next episode links by position in
// the full sibling-episode list. Links are optional; lookup failures only log.
func (c *Controller) resolveAdjacentLocked(item *emby.DetailedItem) {
	c.nextEpisode = nil
	c.prevEpisode = nil
	if !item.IsEpisode() {
		return
	}

	episodes, err := c.api.GetEpisodes(item.SeriesID)
	if err != nil {
		c.log.Warn("failed to resolve adjacent episodes", zap.String("series", item.SeriesID), zap.Error(err))
		return
	}

	for i := range episodes {
		if episodes[i].ID != item.ID {
			continue
		}
		if i > 0 {
			prev := episodes[i-1]
			c.prevEpisode = &prev
		}
		if i < len(episodes)-1 {
			next := episodes[i+1]
			c.nextEpisode = &next
		}
		return
	}
}

// SelectSource completes a negotiation parked in StateSourcePending with a
// manual source choice.
func (c *Controller) SelectSource(sourceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSourcePending {
		return fmt.Errorf("no source selection pending")
	}
	for i := range c.sources {
		if c.sources[i].ID == sourceID {
			resume := 0.0
			if c.item != nil {
				resume = emby.TicksToSeconds(c.item.UserData.PlaybackPositionTicks)
			}
			return c.selectSourceLocked(&c.sources[i], resume)
		}
	}
	return fmt.Errorf("unknown media source %q", sourceID)
}

// defaultAudioIndex picks the server-flagged default audio stream, overridden
// by the persisted language preference when a matching track exists.
func defaultAudioIndex(source *emby.MediaSource, language string) int {
	audio := source.AudioStreams()
	if len(audio) == 0 {
		return -1
	}

	index := audio[0].Index
	for _, s := range audio {
		if s.IsDefault {
			index = s.Index
			break
		}
	}
	if language != "" {
		for _, s := range audio {
			if s.Language == language {
				index = s.Index
				break
			}
		}
	}
	return index
}

func (c *Controller) selectSourceLocked(source *emby.MediaSource, resumeSeconds float64) error {
	c.source = source
	c.audioIndex = defaultAudioIndex(source, c.prefs.AudioLanguage)
	c.subtitleIndex = -1

	url := c.api.StreamURL(source, c.playSessionID, c.audioIndex)
	if err := c.engine.Load(url, resumeSeconds); err != nil {
		return c.failLocked(fmt.Errorf("failed to start stream: %w", err))
	}

	if err := c.api.ReportStart(c.startReportLocked(resumeSeconds)); err != nil {
		// Reporting never blocks playback; the next progress tick is the retry.
		c.log.Warn("start report failed", zap.Error(err))
	}

	c.lastPos = resumeSeconds
	c.lastReported = resumeSeconds
	c.state = StatePlaying
	c.startProgressLoopLocked()
	return nil
}

func (c *Controller) startReportLocked(position float64) emby.PlaybackReport {
	report := emby.PlaybackReport{
		ItemID:        c.item.ID,
		PlaySessionID: c.playSessionID,
		MediaSourceID: c.source.ID,
		PositionTicks: emby.SecondsToTicks(position),
		PlayMethod:    "DirectStream",
	}
	if c.audioIndex >= 0 {
		idx := c.audioIndex
		report.AudioStreamIndex = &idx
	}
	if c.subtitleIndex >= 0 {
		idx := c.subtitleIndex
		report.SubtitleStreamIndex = &idx
	}
	return report
}

func (c *Controller) startProgressLoopLocked() {
	stop := make(chan struct{})
	c.progressStop = stop
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.progressTick()
			}
		}
	}()
}

// progressTick is one timer beat: syncs position, reports when the delta is
// worth it, and handles natural end of media.
func (c *Controller) progressTick() {
	c.mu.Lock()

	if c.state != StatePlaying && c.state != StatePaused {
		c.mu.Unlock()
		return
	}

	if !c.engine.Running() && c.state == StatePlaying {
		// Natural end of media: auto-advance when a next episode is linked.
		next := c.nextEpisode
		advance := c.onAdvance
		c.teardownLocked()
		c.mu.Unlock()
		if next != nil && advance != nil {
			advance(next.ID)
		}
		return
	}

	pos, err := c.engine.Position()
	if err != nil {
		c.log.Debug("position query failed", zap.Error(err))
		c.mu.Unlock()
		return
	}
	c.lastPos = pos

	if abs(pos-c.lastReported) <= progressDelta {
		c.mu.Unlock()
		return
	}

	report := c.progressReportLocked(pos, emby.EventTimeUpdate)
	c.lastReported = pos
	c.mu.Unlock()

	if err := c.api.ReportProgress(report); err != nil {
		c.log.Warn("progress report failed", zap.Error(err))
	}
}

func (c *Controller) progressReportLocked(position float64, event string) emby.PlaybackReport {
	report := c.startReportLocked(position)
	report.EventName = event
	report.IsPaused = c.state == StatePaused
	return report
}

// UpNext reports whether the up-next affordance should show: a next episode
// is linked and remaining duration is within the window.
func (c *Controller) UpNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nextEpisode == nil || c.state == StateIdle || c.state == StateStopped {
		return false
	}
	dur, err := c.engine.Duration()
	if err != nil || dur <= 0 {
		return false
	}
	return dur-c.lastPos <= upNextWindow
}

// ChangeAudioTrack renegotiates the session with a new audio stream: the
// server binds audio selection at session start, so the old session is
// stopped, a fresh one opened, and the decoder reattached at the previous
// position.
func (c *Controller) ChangeAudioTrack(streamIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.playSessionID == "" || c.source == nil {
		return ErrNoSession
	}
	c.busy = true
	defer func() { c.busy = false }()

	pos := c.positionLocked()

	// Release the old server session. A rejected stop report is logged, not
	// fatal: the orphaned server session is a documented residual risk.
	stopReport := c.progressReportLocked(pos, "")
	if err := c.api.ReportStop(stopReport); err != nil {
		c.log.Warn("stop report failed during track change", zap.Error(err))
	}
	oldSession := c.playSessionID
	c.playSessionID = ""

	if err := c.engine.Stop(); err != nil {
		return c.trackChangeFailedLocked(err)
	}

	info, err := c.api.GetPlaybackInfo(c.item.ID, emby.SecondsToTicks(pos), c.source.ID, streamIndex)
	if err != nil {
		return c.trackChangeFailedLocked(err)
	}
	if len(info.MediaSources) == 0 {
		return c.trackChangeFailedLocked(ErrNoPlayableSource)
	}

	c.playSessionID = info.PlaySessionID
	source := &info.MediaSources[0]
	for i := range info.MediaSources {
		if info.MediaSources[i].ID == c.source.ID {
			source = &info.MediaSources[i]
			break
		}
	}
	c.source = source
	c.audioIndex = streamIndex

	url := c.api.StreamURL(source, c.playSessionID, streamIndex)
	if err := c.engine.Load(url, pos); err != nil {
		return c.trackChangeFailedLocked(err)
	}

	if err := c.api.ReportStart(c.startReportLocked(pos)); err != nil {
		c.log.Warn("start report failed after track change", zap.Error(err))
	}

	c.log.Info("audio track changed",
		zap.String("old_session", oldSession),
		zap.String("new_session", c.playSessionID),
		zap.Int("audio_index", streamIndex))

	c.lastPos = pos
	c.lastReported = pos
	c.state = StatePlaying
	return nil
}

func (c *Controller) failLocked(err error) error {
	c.lastErr = err.Error()
	c.state = StateErrored
	c.log.Error("playback error", zap.Error(err))
	return err
}

func (c *Controller) trackChangeFailedLocked(err error) error {
	c.lastErr = "failed to change audio track"
	c.state = StateErrored
	c.log.Error("audio track change failed", zap.Error(err))
	return fmt.Errorf("failed to change audio track: %w", err)
}

// ChangeSubtitleTrack enables exactly one subtitle stream, or none for a
// negative index. Purely local: subtitles are a sidecar, no renegotiation.
func (c *Controller) ChangeSubtitleTrack(streamIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playSessionID == "" {
		return ErrNoSession
	}
	if err := c.engine.SetSubtitleTrack(streamIndex); err != nil {
		return fmt.Errorf("failed to change subtitle track: %w", err)
	}
	if streamIndex < 0 {
		c.subtitleIndex = -1
	} else {
		c.subtitleIndex = streamIndex
	}
	return nil
}

// Seek jumps to the absolute position and reports it out of band.
func (c *Controller) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.playSessionID == "" {
		return ErrNoSession
	}
	if seconds < 0 {
		seconds = 0
	}

	prev := c.state
	c.state = StateSeeking
	if err := c.engine.Seek(seconds); err != nil {
		c.state = prev
		return fmt.Errorf("seek failed: %w", err)
	}
	c.state = prev
	c.lastPos = seconds
	c.lastReported = seconds

	report := c.progressReportLocked(seconds, emby.EventTimeUpdate)
	go c.report(report)
	return nil
}

// Play resumes playback and reports the unpause out of band.
func (c *Controller) Play() error {
	return c.setPaused(false)
}

// Pause pauses playback and reports the pause out of band.
func (c *Controller) Pause() error {
	return c.setPaused(true)
}

// TogglePause flips between playing and paused.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	paused := c.state == StatePaused
	c.mu.Unlock()
	return c.setPaused(!paused)
}

func (c *Controller) setPaused(paused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playSessionID == "" {
		return ErrNoSession
	}
	if err := c.engine.SetPause(paused); err != nil {
		return fmt.Errorf("pause toggle failed: %w", err)
	}

	event := emby.EventUnpause
	c.state = StatePlaying
	if paused {
		event = emby.EventPause
		c.state = StatePaused
	}

	report := c.progressReportLocked(c.positionLocked(), event)
	go c.report(report)
	return nil
}

// SetVolume sets the decoder volume in percent.
func (c *Controller) SetVolume(percent int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return c.engine.SetVolume(percent)
}

// SetMute mutes or unmutes the decoder.
func (c *Controller) SetMute(muted bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.SetMute(muted)
}

// NextEpisode stops the current session and loads the linked next episode.
func (c *Controller) NextEpisode() error {
	c.mu.Lock()
	next := c.nextEpisode
	c.mu.Unlock()
	if next == nil {
		return ErrNoAdjacentEpisode
	}
	return c.LoadItem(next.ID)
}

// PreviousEpisode stops the current session and loads the linked previous episode.
func (c *Controller) PreviousEpisode() error {
	c.mu.Lock()
	prev := c.prevEpisode
	c.mu.Unlock()
	if prev == nil {
		return ErrNoAdjacentEpisode
	}
	return c.LoadItem(prev.ID)
}

// Teardown releases the session: reports stop at the last known position if a
// session is active, stops the decoder, and cancels the progress timer. Safe
// to call multiple times and before setup completes.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

func (c *Controller) teardownLocked() {
	if c.progressStop != nil {
		close(c.progressStop)
		c.progressStop = nil
	}

	if c.playSessionID != "" {
		report := emby.PlaybackReport{
			PlaySessionID: c.playSessionID,
			PositionTicks: emby.SecondsToTicks(c.positionLocked()),
		}
		if c.item != nil {
			report.ItemID = c.item.ID
		}
		// A partially established session (navigation away mid-load) has no
		// selected source yet; the stop report still releases it.
		if c.source != nil {
			report.MediaSourceID = c.source.ID
		}
		if err := c.api.ReportStop(report); err != nil {
			c.log.Warn("stop report failed", zap.Error(err))
		}
		c.playSessionID = ""
	}

	if c.engine != nil {
		if err := c.engine.Stop(); err != nil {
			c.log.Debug("engine stop failed", zap.Error(err))
		}
	}

	c.item = nil
	c.source = nil
	c.sources = nil
	c.nextEpisode = nil
	c.prevEpisode = nil
	c.audioIndex = -1
	c.subtitleIndex = -1
	c.lastPos = 0
	c.lastReported = 0
	c.state = StateStopped
}

// positionLocked returns the freshest position available: the decoder when it
// answers, the last synced position otherwise.
func (c *Controller) positionLocked() float64 {
	if c.engine != nil && c.engine.Running() {
		if pos, err := c.engine.Position(); err == nil {
			c.lastPos = pos
		}
	}
	return c.lastPos
}

func (c *Controller) report(report emby.PlaybackReport) {
	if err := c.api.ReportProgress(report); err != nil {
		c.log.Warn("progress report failed", zap.Error(err))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
