package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davrell/etui/internal/nav"
	"github.com/davrell/etui/pkg/emby"
)

// libRootID marks the top of the library tree in the browse path.
const libRootID = "lib-root"

// activate performs the action bound to the focused node.
func (m model) activate(id nav.NodeID) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	s := string(id)

	switch {
	case s == "nav-home":
		return m.goHome()
	case s == "nav-library":
		m.screen = screenBrowse
		m.browsePath = []pathItem{{name: "Libraries", id: libRootID}}
		m.loading = true
		m.scene.clearScroll()
		return m, loadBrowse(m.client, "")
	case s == "nav-search":
		return m.openSearch()
	case s == "nav-settings":
		m.screen = screenSettings
		m.scene.clearScroll()
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, nil

	case strings.HasPrefix(s, "hdr-"):
		return m.openRowAsList(strings.TrimPrefix(s, "hdr-"))

	case strings.HasPrefix(s, "card-"):
		rest := strings.TrimPrefix(s, "card-")
		rowID, itemID, ok := strings.Cut(rest, "-")
		if !ok {
			return m, nil
		}
		_ = rowID
		m.loading = true
		return m, loadDetail(m.client, itemID, screenHome)

	case strings.HasPrefix(s, "sim-"):
		m.loading = true
		return m, loadDetail(m.client, strings.TrimPrefix(s, "sim-"), m.detailReturn)

	case strings.HasPrefix(s, "item-"):
		return m.activateBrowseItem(strings.TrimPrefix(s, "item-"))

	case strings.HasPrefix(s, "res-"):
		m.loading = true
		return m, loadDetail(m.client, strings.TrimPrefix(s, "res-"), screenSearch)

	case s == "act-play":
		if m.detail == nil {
			return m, nil
		}
		m.screen = screenPlayer
		m.playerMenu = ""
		m.scene.clearScroll()
		m.rebuildScene()
		return m, startPlayback(m.controller, m.detail.ID)

	case s == "act-favorite":
		if m.detail == nil {
			return m, nil
		}
		// Optimistic flip, rolled back if the server rejects it.
		m.detail.UserData.IsFavorite = !m.detail.UserData.IsFavorite
		return m, toggleFavorite(m.client, m.detail.ID, m.detail.UserData.IsFavorite)

	case s == "act-watched":
		if m.detail == nil {
			return m, nil
		}
		m.detail.UserData.Played = !m.detail.UserData.Played
		return m, toggleWatched(m.client, m.detail.ID, m.detail.UserData.Played)

	case strings.HasPrefix(s, "src-"):
		m.loading = false
		return m, selectSource(m.controller, strings.TrimPrefix(s, "src-"))

	case strings.HasPrefix(s, "menu-audio-"):
		index, err := strconv.Atoi(strings.TrimPrefix(s, "menu-audio-"))
		if err != nil {
			return m, nil
		}
		m.playerMenu = ""
		m.navigator.PopModal()
		m.rebuildScene()
		return m, changeAudio(m.controller, index)

	case s == "menu-sub-off":
		m.playerMenu = ""
		m.navigator.PopModal()
		m.rebuildScene()
		return m, changeSubtitle(m.controller, -1)

	case strings.HasPrefix(s, "menu-sub-"):
		index, err := strconv.Atoi(strings.TrimPrefix(s, "menu-sub-"))
		if err != nil {
			return m, nil
		}
		m.playerMenu = ""
		m.navigator.PopModal()
		m.rebuildScene()
		return m, changeSubtitle(m.controller, index)

	case strings.HasPrefix(s, "set-"):
		return m.activateSetting(id)
	}

	return m, nil
}

// openRowAsList expands a home carousel into a full browse list.
func (m model) openRowAsList(rowID string) (tea.Model, tea.Cmd) {
	if rowID == "similar" {
		items := make([]emby.Item, 0, len(m.similar))
		for _, item := range m.similar {
			items = append(items, item)
		}
		return m.showList("More Like This", items)
	}
	for _, row := range m.rows {
		if row.id != rowID {
			continue
		}
		items := make([]emby.Item, 0, len(row.items))
		for _, item := range row.items {
			items = append(items, item)
		}
		return m.showList(row.title, items)
	}
	return m, nil
}

func (m model) showList(title string, items []emby.Item) (tea.Model, tea.Cmd) {
	m.screen = screenBrowse
	m.browsePath = []pathItem{{name: title, id: "row:" + title}}
	m.browseItems = items
	m.scene.clearScroll()
	m.rebuildScene()
	m.navigator.EnsureFocus()
	return m, nil
}

func (m model) activateBrowseItem(itemID string) (tea.Model, tea.Cmd) {
	for _, item := range m.browseItems {
		if item.GetID() != itemID {
			continue
		}
		if item.GetIsFolder() {
			m.browsePath = append(m.browsePath, pathItem{name: item.GetName(), id: itemID})
			m.loading = true
			return m, loadBrowse(m.client, itemID)
		}
		m.loading = true
		return m, loadDetail(m.client, itemID, screenBrowse)
	}
	return m, nil
}

func (m model) handleSearchTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.searchQuery == "" {
			return m, nil
		}
		m.searchTyping = false
		m.loading = true
		return m, runSearch(m.client, m.searchQuery)
	case "esc":
		return m.goHome()
	case "backspace":
		if len(m.searchQuery) > 0 {
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.searchQuery += string(msg.Runes)
		}
	}
	return m, nil
}
