package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/davrell/etui/internal/logging"
	"github.com/davrell/etui/internal/player"
	"github.com/davrell/etui/internal/trending"
	"github.com/davrell/etui/pkg/emby"
)

func viperString(key string) string {
	return viper.GetString(key)
}

func loadHomeRows(client *emby.Client, popularity *trending.Provider) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return errMsg{fmt.Errorf("client is nil")}
		}

		var rows []homeRow

		resume, err := client.Items.GetResumeItems()
		if err != nil {
			return errMsg{err}
		}
		if len(resume) > 0 {
			rows = append(rows, homeRow{id: "continue", title: "Continue Watching", items: resume})
		}

		nextUp, err := client.Items.GetNextUp()
		if err != nil {
			return errMsg{err}
		}
		if len(nextUp) > 0 {
			rows = append(rows, homeRow{id: "nextup", title: "Next Up", items: nextUp})
		}

		recent, err := client.Items.GetRecentlyAdded("", 24)
		if err != nil {
			return errMsg{err}
		}
		if len(recent) > 0 {
			rows = append(rows, homeRow{id: "recent", title: "Recently Added", items: recent})
		}

		// Trending is strictly optional: absent key or provider failure just
		// means no trending row.
		if popularity != nil && popularity.Enabled() {
			if trendingRow := buildTrendingRow(client, popularity); len(trendingRow.items) > 0 {
				rows = append(rows, trendingRow)
			}
		}

		return homeRowsLoadedMsg{rows: rows}
	}
}

func buildTrendingRow(client *emby.Client, popularity *trending.Provider) homeRow {
	row := homeRow{id: "trending", title: "Trending"}

	entries, err := popularity.TrendingMovies(1)
	if err != nil {
		logging.Logger.Warn("trending listing failed", zap.Error(err))
		return row
	}

	library, err := client.Search.Items(emby.NewSearchOptions("").WithLimit(1000))
	if err != nil {
		logging.Logger.Warn("library fetch for trending failed", zap.Error(err))
		return row
	}

	row.items = trending.CrossReference(entries, library)
	return row
}

func loadBrowse(client *emby.Client, parentID string) tea.Cmd {
	return func() tea.Msg {
		var items []emby.Item
		var err error
		if parentID == "" {
			items, err = client.Libraries.GetAll()
		} else {
			items, err = client.Items.Get(parentID, true)
		}
		if err != nil {
			return errMsg{err}
		}
		return browseLoadedMsg{items: items}
	}
}

func loadDetail(client *emby.Client, itemID string, ret screenType) tea.Cmd {
	return func() tea.Msg {
		details, err := client.Items.GetDetails(itemID)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{details: details, ret: ret}
	}
}

func loadSimilar(client *emby.Client, itemID string) tea.Cmd {
	return func() tea.Msg {
		items, err := client.Items.GetSimilar(itemID, 12)
		if err != nil {
			// Similar titles are decoration; their absence is not an error state.
			logging.Logger.Debug("similar items fetch failed", zap.Error(err))
			return similarLoadedMsg{}
		}
		return similarLoadedMsg{items: items}
	}
}

func runSearch(client *emby.Client, query string) tea.Cmd {
	return func() tea.Msg {
		items, err := client.Search.Quick(query)
		if err != nil {
			return errMsg{err}
		}
		return searchDoneMsg{items: items}
	}
}

const (
	detailThumbWidth  = 36
	detailThumbHeight = 14
)

func loadDetailThumbnail(client *emby.Client, details *emby.DetailedItem, cache map[string]string) tea.Cmd {
	if details == nil || !details.HasPrimaryImage() {
		return nil
	}
	cacheKey := fmt.Sprintf("%s_%dx%d", details.ID, detailThumbWidth, detailThumbHeight)
	if _, ok := cache[cacheKey]; ok {
		return nil
	}

	imageURL := client.Images.Primary(details, 400)
	itemID := details.ID
	return func() tea.Msg {
		rendered, err := renderThumbnail(imageURL, detailThumbWidth, detailThumbHeight, itemID)
		if err != nil {
			logging.Logger.Debug("thumbnail render failed", zap.String("item", itemID), zap.Error(err))
			return thumbnailLoadedMsg{cacheKey: cacheKey}
		}
		return thumbnailLoadedMsg{cacheKey: cacheKey, thumbnail: rendered}
	}
}

func toggleFavorite(client *emby.Client, itemID string, favorite bool) tea.Cmd {
	return func() tea.Msg {
		err := client.Items.SetFavorite(itemID, favorite)
		return favoriteToggledMsg{itemID: itemID, favorite: favorite, err: err}
	}
}

func toggleWatched(client *emby.Client, itemID string, watched bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if watched {
			err = client.Items.MarkWatched(itemID)
		} else {
			err = client.Items.MarkUnwatched(itemID)
		}
		return watchStatusUpdatedMsg{itemID: itemID, watched: watched, err: err}
	}
}

func startPlayback(controller *player.Controller, itemID string) tea.Cmd {
	return func() tea.Msg {
		return playbackStartedMsg{err: controller.LoadItem(itemID)}
	}
}

func selectSource(controller *player.Controller, sourceID string) tea.Cmd {
	return func() tea.Msg {
		return playbackStartedMsg{err: controller.SelectSource(sourceID)}
	}
}

func playerTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return playerTickMsg{}
	})
}

func changeAudio(controller *player.Controller, streamIndex int) tea.Cmd {
	return func() tea.Msg {
		return trackChangedMsg{err: controller.ChangeAudioTrack(streamIndex)}
	}
}

func changeSubtitle(controller *player.Controller, streamIndex int) tea.Cmd {
	return func() tea.Msg {
		return trackChangedMsg{err: controller.ChangeSubtitleTrack(streamIndex)}
	}
}

func togglePause(controller *player.Controller) tea.Cmd {
	return func() tea.Msg {
		return trackChangedMsg{err: controller.TogglePause()}
	}
}

func seekBy(controller *player.Controller, delta float64) tea.Cmd {
	return func() tea.Msg {
		target := controller.Position() + delta
		if target < 0 {
			target = 0
		}
		return trackChangedMsg{err: controller.Seek(target)}
	}
}

func setVolume(controller *player.Controller, percent int) tea.Cmd {
	return func() tea.Msg {
		return trackChangedMsg{err: controller.SetVolume(percent)}
	}
}

func setMute(controller *player.Controller, muted bool) tea.Cmd {
	return func() tea.Msg {
		return trackChangedMsg{err: controller.SetMute(muted)}
	}
}

func nextEpisode(controller *player.Controller) tea.Cmd {
	return func() tea.Msg {
		return playbackStartedMsg{err: controller.NextEpisode()}
	}
}

func previousEpisode(controller *player.Controller) tea.Cmd {
	return func() tea.Msg {
		return playbackStartedMsg{err: controller.PreviousEpisode()}
	}
}
