package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrell/etui/pkg/emby"
)

func sourceWithHeight(id string, height int) emby.MediaSource {
	return emby.MediaSource{
		ID: id,
		MediaStreams: []emby.MediaStream{
			{Index: 0, Type: "Video", Height: height, Width: height * 16 / 9},
			{Index: 1, Type: "Audio", IsDefault: true},
		},
	}
}

func TestSelectByQualityExtremes(t *testing.T) {
	sources := []emby.MediaSource{
		sourceWithHeight("720", 720),
		sourceWithHeight("2160", 2160),
		sourceWithHeight("480", 480),
	}

	got, ok := SelectByQuality(sources, QualityHighest)
	require.True(t, ok)
	assert.Equal(t, "2160", got.ID)

	got, ok = SelectByQuality(sources, QualityLowest)
	require.True(t, ok)
	assert.Equal(t, "480", got.ID)
}

func TestSelectByQualityExactTarget(t *testing.T) {
	sources := []emby.MediaSource{
		sourceWithHeight("480", 480),
		sourceWithHeight("720", 720),
		sourceWithHeight("1080", 1080),
		sourceWithHeight("2160", 2160),
	}

	got, ok := SelectByQuality(sources, Quality1080p)
	require.True(t, ok)
	assert.Equal(t, "1080", got.ID)
}

func TestSelectByQualityClosestBelow(t *testing.T) {
	sources := []emby.MediaSource{
		sourceWithHeight("480", 480),
		sourceWithHeight("720", 720),
	}

	got, ok := SelectByQuality(sources, Quality1080p)
	require.True(t, ok)
	assert.Equal(t, "720", got.ID)
}

func TestSelectByQualityFallsBackUpward(t *testing.T) {
	sources := []emby.MediaSource{
		sourceWithHeight("2160", 2160),
	}

	// Nothing at or below 720p: never silently fail, take the lowest above.
	got, ok := SelectByQuality(sources, Quality720p)
	require.True(t, ok)
	assert.Equal(t, "2160", got.ID)
}

func TestSelectByQualityUnknownToken(t *testing.T) {
	sources := []emby.MediaSource{sourceWithHeight("720", 720)}

	_, ok := SelectByQuality(sources, "")
	assert.False(t, ok)

	_, ok = SelectByQuality(nil, QualityHighest)
	assert.False(t, ok)
}

func TestDefaultAudioIndex(t *testing.T) {
	source := &emby.MediaSource{
		MediaStreams: []emby.MediaStream{
			{Index: 0, Type: "Video"},
			{Index: 1, Type: "Audio", Language: "eng", IsDefault: true},
			{Index: 2, Type: "Audio", Language: "jpn"},
		},
	}

	// Server default without a language preference.
	assert.Equal(t, 1, defaultAudioIndex(source, ""))

	// Persisted language preference overrides the default.
	assert.Equal(t, 2, defaultAudioIndex(source, "jpn"))

	// No matching language: fall back to the default.
	assert.Equal(t, 1, defaultAudioIndex(source, "fra"))

	// No audio at all.
	assert.Equal(t, -1, defaultAudioIndex(&emby.MediaSource{}, "eng"))
}
