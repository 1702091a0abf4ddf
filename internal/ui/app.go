package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/davrell/etui/internal/config"
	"github.com/davrell/etui/internal/logging"
	"github.com/davrell/etui/internal/nav"
	"github.com/davrell/etui/internal/player"
	"github.com/davrell/etui/internal/trending"
	"github.com/davrell/etui/pkg/emby"
)

type screenType int

const (
	screenHome screenType = iota
	screenBrowse
	screenSearch
	screenDetail
	screenPlayer
	screenSettings
)

type pathItem struct {
	name string
	id   string
}

type homeRow struct {
	id    string
	title string
	items []emby.DetailedItem
}

type settingsState struct {
	editing   string
	buffer    string
	serverURL string
	quality   string
	audioLang string
}

type model struct {
	client     *emby.Client
	popularity *trending.Provider
	controller *player.Controller

	scene     *sceneGraph
	navigator *nav.Navigator

	screen       screenType
	detailReturn screenType

	width   int
	height  int
	loading bool
	err     error
	notice  string

	rows []homeRow

	browsePath  []pathItem
	browseItems []emby.Item

	searchQuery   string
	searchTyping  bool
	searchResults []emby.DetailedItem

	detail     *emby.DetailedItem
	similar    []emby.DetailedItem
	thumbCache map[string]string
	playerMenu string // "", "audio" or "subtitle"
	volume     int
	muted      bool
	settings   settingsState
}

// Messages
type homeRowsLoadedMsg struct {
	rows []homeRow
}

type browseLoadedMsg struct {
	items []emby.Item
}

type detailLoadedMsg struct {
	details *emby.DetailedItem
	ret     screenType
}

type searchDoneMsg struct {
	items []emby.DetailedItem
}

type similarLoadedMsg struct {
	items []emby.DetailedItem
}

type thumbnailLoadedMsg struct {
	cacheKey  string
	thumbnail string
}

type favoriteToggledMsg struct {
	itemID   string
	favorite bool
	err      error
}

type watchStatusUpdatedMsg struct {
	itemID  string
	watched bool
	err     error
}

type playbackStartedMsg struct {
	err error
}

type playerTickMsg struct{}

type trackChangedMsg struct {
	err error
}

type autoAdvanceMsg struct {
	itemID string
}

type errMsg struct {
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

// Global program reference to send messages from background goroutines
var globalProgram *tea.Program

// Run starts the TUI over an authenticated client.
func Run(client *emby.Client) {
	go cleanupThumbCache()

	prefs := config.PlaybackPreferences()
	engine := player.NewMPVEngine(logging.Logger)
	controller := player.New(
		player.NewSessionAPI(client),
		engine,
		player.Preferences{Quality: prefs.Quality, AudioLanguage: prefs.AudioLanguage},
		logging.Logger,
	)
	controller.SetAdvanceHandler(func(itemID string) {
		if globalProgram != nil {
			globalProgram.Send(autoAdvanceMsg{itemID: itemID})
		}
	})

	p := tea.NewProgram(initialModel(client, controller), tea.WithAltScreen())
	globalProgram = p
	_, err := p.Run()
	controller.Teardown()
	if err != nil {
		logging.Logger.Error("TUI exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func initialModel(client *emby.Client, controller *player.Controller) model {
	scene := newSceneGraph()
	m := model{
		client:     client,
		controller: controller,
		popularity: trending.NewProvider(
			viperString("trending.base_url"),
			viperString("trending.api_key"),
			logging.Logger,
		),
		scene:      scene,
		screen:     screenHome,
		loading:    true,
		width:      80,
		height:     24,
		thumbCache: make(map[string]string),
		volume:     100,
		settings: settingsState{
			serverURL: viperString("emby.server_url"),
			quality:   viperString("playback.quality"),
			audioLang: viperString("playback.audio_language"),
		},
	}
	m.navigator = nav.New(scene)
	return m
}

func (m model) Init() tea.Cmd {
	return loadHomeRows(m.client, m.popularity)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildScene()
		return m, nil

	case homeRowsLoadedMsg:
		m.loading = false
		m.rows = msg.rows
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, nil

	case browseLoadedMsg:
		m.loading = false
		m.browseItems = msg.items
		m.scene.clearScroll()
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, nil

	case detailLoadedMsg:
		m.loading = false
		m.detail = msg.details
		m.similar = nil
		m.detailReturn = msg.ret
		m.screen = screenDetail
		m.scene.clearScroll()
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, tea.Batch(
			loadDetailThumbnail(m.client, msg.details, m.thumbCache),
			loadSimilar(m.client, msg.details.ID),
		)

	case similarLoadedMsg:
		m.similar = msg.items
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, nil

	case searchDoneMsg:
		m.loading = false
		m.searchResults = msg.items
		m.scene.clearScroll()
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, nil

	case thumbnailLoadedMsg:
		m.thumbCache[msg.cacheKey] = msg.thumbnail
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			// Roll back the optimistic flip.
			if m.detail != nil && m.detail.ID == msg.itemID {
				m.detail.UserData.IsFavorite = !msg.favorite
			}
			m.notice = "Failed to update favorite"
		}
		return m, nil

	case watchStatusUpdatedMsg:
		if msg.err != nil {
			if m.detail != nil && m.detail.ID == msg.itemID {
				m.detail.UserData.Played = !msg.watched
			}
			m.notice = "Failed to update watched state"
		}
		return m, nil

	case playbackStartedMsg:
		m.loading = false
		if msg.err != nil {
			// The controller keeps the user-facing message; stay on the player
			// screen so it is visible with a go-back affordance.
			logging.Logger.Warn("playback start failed", zap.Error(msg.err))
		}
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, playerTick()

	case playerTickMsg:
		if m.screen != screenPlayer {
			return m, nil
		}
		if m.controller.State() == player.StateStopped {
			return m.leavePlayer()
		}
		m.rebuildScene()
		return m, playerTick()

	case trackChangedMsg:
		if msg.err != nil {
			logging.Logger.Warn("track change failed", zap.Error(msg.err))
		}
		m.rebuildScene()
		return m, nil

	case autoAdvanceMsg:
		m.loading = true
		return m, startPlayback(m.controller, msg.itemID)

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			m.err = nil
			return m, nil
		}
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry modes capture printable keys before navigation.
	if m.screen == screenSearch && m.searchTyping {
		return m.handleSearchTyping(msg)
	}
	if m.screen == screenSettings && m.settings.editing != "" {
		return m.handleSettingsTyping(msg)
	}

	if m.screen == screenPlayer {
		return m.handlePlayerKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		return m.navMove(nav.KeyUp)
	case "down", "j":
		return m.navMove(nav.KeyDown)
	case "left", "h":
		return m.navMove(nav.KeyLeft)
	case "right", "l":
		return m.navMove(nav.KeyRight)
	case "enter", " ":
		return m.activate(m.navigator.FocusedID())
	case "esc", "backspace":
		return m.goBack()
	case "/":
		return m.openSearch()
	}
	return m, nil
}

func (m model) navMove(key nav.Key) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.navigator.HandleKey(nav.KeyEvent{Key: key})
	m.rebuildScene()
	return m, nil
}

// goBack implements the back chain: open modal first, then screen-specific
// history; home swallows back so input cannot leave the application.
func (m model) goBack() (tea.Model, tea.Cmd) {
	if m.navigator.ModalOpen() {
		m.playerMenu = ""
		m.navigator.PopModal()
		m.rebuildScene()
		return m, nil
	}

	switch m.screen {
	case screenHome:
		return m, nil
	case screenBrowse:
		if len(m.browsePath) > 1 {
			m.browsePath = m.browsePath[:len(m.browsePath)-1]
			parent := m.browsePath[len(m.browsePath)-1]
			if parent.id == libRootID {
				m.loading = true
				return m, loadBrowse(m.client, "")
			}
			if strings.HasPrefix(parent.id, "row:") {
				// Expanded home carousels have no server-side parent.
				return m.goHome()
			}
			m.loading = true
			return m, loadBrowse(m.client, parent.id)
		}
		return m.goHome()
	case screenSearch:
		return m.goHome()
	case screenDetail:
		m.screen = m.detailReturn
		if m.screen == screenDetail {
			m.screen = screenHome
		}
		m.scene.clearScroll()
		m.rebuildScene()
		m.navigator.EnsureFocus()
		return m, nil
	case screenPlayer:
		m.controller.Teardown()
		return m.leavePlayer()
	case screenSettings:
		return m.goHome()
	}
	return m, nil
}

func (m model) goHome() (tea.Model, tea.Cmd) {
	m.screen = screenHome
	m.browsePath = nil
	m.searchTyping = false
	m.loading = true
	m.scene.clearScroll()
	return m, loadHomeRows(m.client, m.popularity)
}

func (m model) leavePlayer() (tea.Model, tea.Cmd) {
	m.playerMenu = ""
	for m.navigator.ModalOpen() {
		m.navigator.PopModal()
	}
	if m.detail != nil {
		m.screen = screenDetail
	} else {
		m.screen = screenHome
	}
	m.scene.clearScroll()
	m.rebuildScene()
	m.navigator.EnsureFocus()
	return m, nil
}

func (m model) openSearch() (tea.Model, tea.Cmd) {
	m.screen = screenSearch
	m.searchTyping = true
	m.searchQuery = ""
	m.searchResults = nil
	m.scene.clearScroll()
	m.rebuildScene()
	return m, nil
}

// rebuildScene lays out the current screen's focusable nodes.
func (m *model) rebuildScene() {
	switch m.screen {
	case screenHome:
		m.buildHomeScene()
	case screenBrowse:
		m.buildBrowseScene()
	case screenSearch:
		m.buildSearchScene()
	case screenDetail:
		m.buildDetailScene()
	case screenPlayer:
		m.buildPlayerScene()
	case screenSettings:
		m.buildSettingsScene()
	}
}

func (m model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) +
			dimStyle.Render("\n\nPress Esc to dismiss, q to quit.")
	}
	if m.loading {
		return dimStyle.Render("Loading...")
	}

	var body string
	switch m.screen {
	case screenHome:
		body = m.viewHome()
	case screenBrowse:
		body = m.viewBrowse()
	case screenSearch:
		body = m.viewSearch()
	case screenDetail:
		body = m.viewDetail()
	case screenPlayer:
		return m.viewPlayer()
	case screenSettings:
		body = m.viewSettings()
	}

	header := m.renderHeader()
	help := m.renderHelp()
	content := lipgloss.JoinVertical(lipgloss.Left, header, body)
	if m.notice != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, help)
}

func (m model) renderHeader() string {
	appName := headerTitleStyle.Render("ETUI")
	status := headerStatusStyle.Render("ONLINE")

	var location string
	switch m.screen {
	case screenHome:
		location = "Home"
	case screenBrowse:
		if len(m.browsePath) > 0 {
			location = m.browsePath[len(m.browsePath)-1].name
		} else {
			location = "Browse"
		}
	case screenSearch:
		location = "Search: " + m.searchQuery
	case screenDetail:
		if m.detail != nil {
			location = m.detail.Name
		}
	case screenSettings:
		location = "Settings"
	}

	divider := headerDividerStyle.Render(" │ ")
	leftSide := appName + divider + location
	spacer := strings.Repeat(" ", maxInt(1, m.width-lipgloss.Width(leftSide)-lipgloss.Width(status)-4))
	return headerStyle.Width(m.width).Render(leftSide + spacer + status)
}

func (m model) renderHelp() string {
	var help string
	switch m.screen {
	case screenPlayer:
		help = "space: pause • ←→: seek • a: audio • s: subtitles • m: mute • +/-: volume • n: next • b: previous • Esc: stop"
	case screenSearch:
		help = "type to search • Enter: run/select • Esc: back"
	case screenSettings:
		help = "Enter: edit/cycle • Esc: back"
	default:
		help = "↑↓←→/hjkl: navigate • Enter: select • Esc: back • /: search • q: quit"
	}
	if lipgloss.Width(help) > m.width-2 {
		return dimStyle.Render(lipgloss.NewStyle().Width(m.width - 2).Render(help))
	}
	return dimStyle.Render(help)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
