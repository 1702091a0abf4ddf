package player

import (
	"sort"

	"github.com/davrell/etui/pkg/emby"
)

// Quality preference tokens.
const (
	QualityHighest = "highest"
	QualityLowest  = "lowest"
	Quality4K      = "4k"
	Quality1080p   = "1080p"
	Quality720p    = "720p"
)

var qualityTargets = map[string]int{
	Quality4K:    2160,
	Quality1080p: 1080,
	Quality720p:  720,
}

// SelectByQuality picks a media source matching the preference token. For a
// specific target resolution the closest source at or below the target wins;
// when nothing qualifies beneath it, the lowest source at or above the target
// is used instead. ok is false when the preference resolves to nothing
// (unknown token or empty source list), leaving selection to the user.
func SelectByQuality(sources []emby.MediaSource, pref string) (*emby.MediaSource, bool) {
	if len(sources) == 0 {
		return nil, false
	}

	// Sort by descending vertical resolution, stable so equal-height sources
	// keep server order.
	sorted := make([]emby.MediaSource, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VideoHeight() > sorted[j].VideoHeight()
	})

	switch pref {
	case QualityHighest:
		return &sorted[0], true
	case QualityLowest:
		return &sorted[len(sorted)-1], true
	}

	target, known := qualityTargets[pref]
	if !known {
		return nil, false
	}

	// Closest at or below the target.
	for i := range sorted {
		if sorted[i].VideoHeight() <= target {
			return &sorted[i], true
		}
	}

	// Nothing at or below: fall back to the lowest source above the target.
	return &sorted[len(sorted)-1], true
}
