package player

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrell/etui/pkg/emby"
)

const (
	eventuallyWait = 2 * time.Second
	eventuallyTick = 10 * time.Millisecond
)

// fakeEngine is an in-memory decoder.
type fakeEngine struct {
	mu       sync.Mutex
	loads    []string
	starts   []float64
	running  bool
	pos      float64
	dur      float64
	paused   bool
	subtitle int
	failLoad bool
}

func (e *fakeEngine) Load(url string, start float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failLoad {
		return fmt.Errorf("decoder refused stream")
	}
	e.loads = append(e.loads, url)
	e.starts = append(e.starts, start)
	e.running = true
	e.pos = start
	e.paused = false
	return nil
}

func (e *fakeEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	return nil
}

func (e *fakeEngine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *fakeEngine) Position() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos, nil
}

func (e *fakeEngine) Duration() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dur, nil
}

func (e *fakeEngine) Seek(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos = seconds
	return nil
}

func (e *fakeEngine) SetPause(paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
	return nil
}

func (e *fakeEngine) SetVolume(int) error { return nil }
func (e *fakeEngine) SetMute(bool) error  { return nil }

func (e *fakeEngine) SetSubtitleTrack(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subtitle = index
	return nil
}

func (e *fakeEngine) setPos(pos float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos = pos
}

type reportRecord struct {
	kind   string // start, progress, stop
	report emby.PlaybackReport
}

// fakeAPI is a scriptable server that records lifecycle reports in order.
type fakeAPI struct {
	mu         sync.Mutex
	items      map[string]*emby.DetailedItem
	episodes   map[string][]emby.DetailedItem
	sources    []emby.MediaSource
	sessionSeq int
	reports    []reportRecord
	infoErr    error
}

func (f *fakeAPI) GetDetails(itemID string) (*emby.DetailedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s not found", itemID)
	}
	return item, nil
}

func (f *fakeAPI) GetEpisodes(seriesID string) ([]emby.DetailedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.episodes[seriesID], nil
}

func (f *fakeAPI) GetPlaybackInfo(string, int64, string, int) (*emby.PlaybackInfoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	f.sessionSeq++
	return &emby.PlaybackInfoResponse{
		MediaSources:  f.sources,
		PlaySessionID: fmt.Sprintf("sess-%d", f.sessionSeq),
	}, nil
}

func (f *fakeAPI) StreamURL(source *emby.MediaSource, playSessionID string, audioStreamIndex int) string {
	return fmt.Sprintf("http://srv/videos/%s/stream?session=%s&audio=%d", source.ID, playSessionID, audioStreamIndex)
}

func (f *fakeAPI) record(kind string, report emby.PlaybackReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, reportRecord{kind: kind, report: report})
}

func (f *fakeAPI) ReportStart(r emby.PlaybackReport) error    { f.record("start", r); return nil }
func (f *fakeAPI) ReportProgress(r emby.PlaybackReport) error { f.record("progress", r); return nil }
func (f *fakeAPI) ReportStop(r emby.PlaybackReport) error     { f.record("stop", r); return nil }

func (f *fakeAPI) recorded(kind string) []reportRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []reportRecord
	for _, r := range f.reports {
		if r.kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func movieItem(id string) *emby.DetailedItem {
	item := &emby.DetailedItem{}
	item.ID = id
	item.Name = "Movie " + id
	item.Type = "Movie"
	return item
}

func newFakes() (*fakeAPI, *fakeEngine) {
	api := &fakeAPI{
		items: map[string]*emby.DetailedItem{
			"a": movieItem("a"),
			"b": movieItem("b"),
		},
		episodes: map[string][]emby.DetailedItem{},
		sources: []emby.MediaSource{{
			ID: "src-1",
			MediaStreams: []emby.MediaStream{
				{Index: 0, Type: "Video", Height: 1080},
				{Index: 1, Type: "Audio", Language: "eng", IsDefault: true},
				{Index: 2, Type: "Audio", Language: "jpn"},
				{Index: 3, Type: "Subtitle", Language: "eng"},
			},
		}},
	}
	return api, &fakeEngine{dur: 3600}
}

func newController(api *fakeAPI, engine *fakeEngine) *Controller {
	return New(api, engine, Preferences{Quality: QualityHighest}, nil)
}

func TestLoadItemStartsSession(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))

	assert.Equal(t, StatePlaying, c.State())
	starts := api.recorded("start")
	require.Len(t, starts, 1)
	assert.Equal(t, "sess-1", starts[0].report.PlaySessionID)
	assert.Equal(t, "a", starts[0].report.ItemID)
	require.NotNil(t, starts[0].report.AudioStreamIndex)
	assert.Equal(t, 1, *starts[0].report.AudioStreamIndex)
	require.Len(t, engine.loads, 1)
	assert.Contains(t, engine.loads[0], "session=sess-1")
}

func TestLoadItemNoSources(t *testing.T) {
	api, engine := newFakes()
	api.sources = nil
	c := newController(api, engine)

	err := c.LoadItem("a")
	assert.ErrorIs(t, err, ErrNoPlayableSource)
	assert.Equal(t, StateErrored, c.State())
}

func TestLoadItemResumesFromSavedPosition(t *testing.T) {
	api, engine := newFakes()
	api.items["a"].UserData.PlaybackPositionTicks = 90 * emby.TicksPerSecond
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))

	require.Len(t, engine.starts, 1)
	assert.InDelta(t, 90.0, engine.starts[0], 1e-9)
	starts := api.recorded("start")
	require.Len(t, starts, 1)
	assert.Equal(t, 90*emby.TicksPerSecond, starts[0].report.PositionTicks)
}

func TestPreferredAudioLanguageOverridesDefault(t *testing.T) {
	api, engine := newFakes()
	c := New(api, engine, Preferences{Quality: QualityHighest, AudioLanguage: "jpn"}, nil)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	assert.Equal(t, 2, c.AudioIndex())
}

func TestSourceSelectionPending(t *testing.T) {
	api, engine := newFakes()
	api.sources = []emby.MediaSource{
		sourceWithHeight("hi", 2160),
		sourceWithHeight("lo", 720),
	}
	c := New(api, engine, Preferences{}, nil) // no quality preference
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	assert.Equal(t, StateSourcePending, c.State())
	assert.Empty(t, api.recorded("start"))

	require.NoError(t, c.SelectSource("lo"))
	assert.Equal(t, StatePlaying, c.State())
	require.Len(t, engine.loads, 1)
	assert.Contains(t, engine.loads[0], "/videos/lo/")
}

func TestSessionHandOff(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	engine.setPos(300)
	require.NoError(t, c.LoadItem("b"))

	// Exactly one stop for A's session, sent before B's start.
	var sequence []string
	for _, r := range api.reports {
		sequence = append(sequence, r.kind+":"+r.report.PlaySessionID)
	}
	assert.Equal(t, []string{"start:sess-1", "stop:sess-1", "start:sess-2"}, sequence)
}

func TestProgressThrottling(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))

	// Simulated 60-second playback, one tick every 10 seconds.
	for i := 1; i <= 6; i++ {
		engine.setPos(float64(i * 10))
		c.progressTick()
	}

	progress := api.recorded("progress")
	assert.LessOrEqual(t, len(progress), 6)
	prev := int64(-1)
	for _, r := range progress {
		assert.GreaterOrEqual(t, r.report.PositionTicks, prev)
		prev = r.report.PositionTicks
	}

	// A tick without meaningful movement reports nothing.
	before := len(api.recorded("progress"))
	c.progressTick()
	assert.Equal(t, before, len(api.recorded("progress")))
}

func TestChangeAudioTrack(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	engine.setPos(42.0)

	require.NoError(t, c.ChangeAudioTrack(2))

	stops := api.recorded("stop")
	require.Len(t, stops, 1)
	assert.Equal(t, "sess-1", stops[0].report.PlaySessionID)
	assert.InDelta(t, 42.0, emby.TicksToSeconds(stops[0].report.PositionTicks), 0.5)

	starts := api.recorded("start")
	require.Len(t, starts, 2)
	newStart := starts[1].report
	assert.Equal(t, "sess-2", newStart.PlaySessionID)
	assert.InDelta(t, 42.0, emby.TicksToSeconds(newStart.PositionTicks), 1e-9)
	require.NotNil(t, newStart.AudioStreamIndex)
	assert.Equal(t, 2, *newStart.AudioStreamIndex)

	// Decoder reattached at the previous position, playing.
	require.Len(t, engine.starts, 2)
	assert.InDelta(t, 42.0, engine.starts[1], 1e-9)
	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 2, c.AudioIndex())
}

func TestChangeAudioTrackFailureSurfaces(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)

	require.NoError(t, c.LoadItem("a"))
	api.infoErr = fmt.Errorf("server unavailable")

	err := c.ChangeAudioTrack(2)
	require.Error(t, err)
	assert.Equal(t, "failed to change audio track", c.Err())
	assert.Equal(t, StateErrored, c.State())
}

func TestConcurrentTrackChangeRejected(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	c.mu.Lock()
	c.busy = true
	c.mu.Unlock()

	assert.ErrorIs(t, c.ChangeAudioTrack(2), ErrBusy)
	assert.ErrorIs(t, c.Seek(10), ErrBusy)

	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func TestChangeSubtitleTrackIsLocal(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	before := len(api.reports)

	require.NoError(t, c.ChangeSubtitleTrack(3))
	assert.Equal(t, 3, c.SubtitleIndex())
	assert.Equal(t, 3, engine.subtitle)

	require.NoError(t, c.ChangeSubtitleTrack(-1))
	assert.Equal(t, -1, c.SubtitleIndex())

	// No server traffic for subtitle switches.
	assert.Equal(t, before, len(api.reports))
	assert.Equal(t, "sess-1", api.recorded("start")[0].report.PlaySessionID)
}

func TestPauseReportsOutOfBand(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	engine.setPos(30)

	require.NoError(t, c.Pause())
	assert.Equal(t, StatePaused, c.State())
	require.NoError(t, c.Play())
	assert.Equal(t, StatePlaying, c.State())

	// Reports run on a goroutine; the state transitions above are the
	// synchronous contract, event names are checked once they land.
	assert.Eventually(t, func() bool {
		events := map[string]bool{}
		for _, r := range api.recorded("progress") {
			events[r.report.EventName] = true
		}
		return events[emby.EventPause] && events[emby.EventUnpause]
	}, eventuallyWait, eventuallyTick)
}

func TestSeekReportsNewPosition(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	require.NoError(t, c.Seek(600))

	assert.InDelta(t, 600.0, engine.pos, 1e-9)
	assert.Eventually(t, func() bool {
		for _, r := range api.recorded("progress") {
			if r.report.PositionTicks == 600*emby.TicksPerSecond {
				return true
			}
		}
		return false
	}, eventuallyWait, eventuallyTick)
}

func TestUpNextTrigger(t *testing.T) {
	api, engine := newFakes()
	episode := movieItem("ep2")
	episode.Type = "Episode"
	episode.SeriesID = "series"
	ep1, ep3 := movieItem("ep1"), movieItem("ep3")
	api.items["ep2"] = episode
	api.episodes["series"] = []emby.DetailedItem{*ep1, *episode, *ep3}

	c := newController(api, engine)
	defer c.Teardown()
	require.NoError(t, c.LoadItem("ep2"))
	require.True(t, c.HasNextEpisode())
	require.True(t, c.HasPreviousEpisode())

	engine.dur = 3600

	cases := []struct {
		pos  float64
		want bool
	}{
		{3480.0, true},  // exactly 120s remaining
		{3479.9, false}, // 120.1s remaining
		{3480.1, true},  // just inside the window
		{3599.0, true},
		{1800.0, false},
	}
	for _, tc := range cases {
		c.mu.Lock()
		c.lastPos = tc.pos
		c.mu.Unlock()
		assert.Equal(t, tc.want, c.UpNext(), "position %.1f", tc.pos)
	}
}

func TestUpNextFalseWithoutLink(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)
	defer c.Teardown()

	require.NoError(t, c.LoadItem("a"))
	c.mu.Lock()
	c.lastPos = 3590
	c.mu.Unlock()
	assert.False(t, c.UpNext())
}

func TestAutoAdvanceOnNaturalEnd(t *testing.T) {
	api, engine := newFakes()
	episode := movieItem("ep1")
	episode.Type = "Episode"
	episode.SeriesID = "series"
	ep2 := movieItem("ep2")
	ep2.Type = "Episode"
	ep2.SeriesID = "series"
	api.items["ep1"] = episode
	api.items["ep2"] = ep2
	api.episodes["series"] = []emby.DetailedItem{*episode, *ep2}

	c := newController(api, engine)
	defer c.Teardown()
	var advanced string
	c.SetAdvanceHandler(func(itemID string) { advanced = itemID })

	require.NoError(t, c.LoadItem("ep1"))
	engine.Stop() // natural end: decoder no longer running

	c.progressTick()
	assert.Equal(t, "ep2", advanced)
}

func TestNextEpisodeHandsOffSession(t *testing.T) {
	api, engine := newFakes()
	ep1, ep2 := movieItem("ep1"), movieItem("ep2")
	ep1.Type, ep2.Type = "Episode", "Episode"
	ep1.SeriesID, ep2.SeriesID = "series", "series"
	api.items["ep1"] = ep1
	api.items["ep2"] = ep2
	api.episodes["series"] = []emby.DetailedItem{*ep1, *ep2}

	c := newController(api, engine)
	defer c.Teardown()
	require.NoError(t, c.LoadItem("ep1"))

	assert.ErrorIs(t, c.PreviousEpisode(), ErrNoAdjacentEpisode)
	require.NoError(t, c.NextEpisode())

	assert.Equal(t, "ep2", c.Item().ID)
	stops := api.recorded("stop")
	require.Len(t, stops, 1)
	assert.Equal(t, "sess-1", stops[0].report.PlaySessionID)
}

func TestTeardownIdempotent(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)

	require.NoError(t, c.LoadItem("a"))
	c.Teardown()
	c.Teardown()

	assert.Len(t, api.recorded("stop"), 1)
	assert.Equal(t, StateStopped, c.State())
	assert.False(t, engine.Running())
}

func TestTeardownBeforeSetupCompletes(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)

	// Never loaded anything: teardown must be a no-op, not a panic.
	c.Teardown()
	assert.Empty(t, api.reports)
}

func TestTransportWithoutSession(t *testing.T) {
	api, engine := newFakes()
	c := newController(api, engine)

	assert.ErrorIs(t, c.Seek(10), ErrNoSession)
	assert.ErrorIs(t, c.Pause(), ErrNoSession)
	assert.ErrorIs(t, c.ChangeAudioTrack(1), ErrNoSession)
	assert.ErrorIs(t, c.ChangeSubtitleTrack(1), ErrNoSession)
}
