package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davrell/etui/internal/nav"
	"github.com/davrell/etui/internal/player"
	"github.com/davrell/etui/pkg/emby"
)

func (m *model) buildPlayerScene() {
	m.scene.reset(m.bodyViewport())

	if m.controller.State() == player.StateSourcePending {
		for i, source := range m.controller.Sources() {
			m.scene.add(nav.Node{
				ID:      nav.NodeID("src-" + source.ID),
				Rect:    nav.Rect{X: 0, Y: float64(i), W: 40, H: 1},
				Visible: true,
			})
		}
		return
	}

	if m.playerMenu == "" {
		return
	}
	source := m.controller.Source()
	if source == nil {
		return
	}

	y := 0.0
	if m.playerMenu == "audio" {
		for _, stream := range source.AudioStreams() {
			m.scene.add(nav.Node{
				ID:      nav.NodeID(fmt.Sprintf("menu-audio-%d", stream.Index)),
				Rect:    nav.Rect{X: 0, Y: y, W: 40, H: 1},
				Group:   "track-menu",
				Visible: true,
			})
			y++
		}
		return
	}

	m.scene.add(nav.Node{
		ID:      "menu-sub-off",
		Rect:    nav.Rect{X: 0, Y: y, W: 40, H: 1},
		Group:   "track-menu",
		Visible: true,
	})
	y++
	for _, stream := range source.SubtitleStreams() {
		m.scene.add(nav.Node{
			ID:      nav.NodeID(fmt.Sprintf("menu-sub-%d", stream.Index)),
			Rect:    nav.Rect{X: 0, Y: y, W: 40, H: 1},
			Group:   "track-menu",
			Visible: true,
		})
		y++
	}
}

func (m model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	menuOpen := m.navigator.ModalOpen()
	state := m.controller.State()

	switch msg.String() {
	case "q":
		m.controller.Teardown()
		return m, tea.Quit
	case "esc", "backspace":
		return m.goBack()
	case "enter":
		if menuOpen || state == player.StateSourcePending {
			return m.activate(m.navigator.FocusedID())
		}
		return m, togglePause(m.controller)
	case "up", "k":
		if menuOpen || state == player.StateSourcePending {
			return m.navMove(nav.KeyUp)
		}
	case "down", "j":
		if menuOpen || state == player.StateSourcePending {
			return m.navMove(nav.KeyDown)
		}
	case "left", "h":
		if menuOpen {
			return m.navMove(nav.KeyLeft)
		}
		if !m.controller.Busy() {
			return m, seekBy(m.controller, -10)
		}
	case "right", "l":
		if menuOpen {
			return m.navMove(nav.KeyRight)
		}
		if !m.controller.Busy() {
			return m, seekBy(m.controller, 10)
		}
	case " ":
		return m, togglePause(m.controller)
	case "a":
		// Track menus are unavailable while a session change is in flight.
		if !menuOpen && !m.controller.Busy() && m.controller.Source() != nil {
			m.playerMenu = "audio"
			m.rebuildScene()
			m.navigator.PushModal("track-menu")
		}
		return m, nil
	case "s":
		if !menuOpen && !m.controller.Busy() && m.controller.Source() != nil {
			m.playerMenu = "subtitle"
			m.rebuildScene()
			m.navigator.PushModal("track-menu")
		}
		return m, nil
	case "m":
		m.muted = !m.muted
		return m, setMute(m.controller, m.muted)
	case "-":
		m.volume = maxInt(m.volume-5, 0)
		return m, setVolume(m.controller, m.volume)
	case "+", "=":
		m.volume = minInt(m.volume+5, 130)
		return m, setVolume(m.controller, m.volume)
	case "n":
		if m.controller.HasNextEpisode() && !m.controller.Busy() {
			m.loading = true
			return m, nextEpisode(m.controller)
		}
	case "b":
		if m.controller.HasPreviousEpisode() && !m.controller.Busy() {
			m.loading = true
			return m, previousEpisode(m.controller)
		}
	}
	return m, nil
}

func (m model) viewPlayer() string {
	state := m.controller.State()
	item := m.controller.Item()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	title := "Player"
	if item != nil {
		title = item.Name
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch state {
	case player.StateErrored:
		b.WriteString(errorStyle.Render("Playback failed: " + m.controller.Err()))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Press Esc to go back."))
		return b.String()

	case player.StateNegotiating:
		b.WriteString(dimStyle.Render("Negotiating playback..."))
		return b.String()

	case player.StateSourcePending:
		b.WriteString(infoStyle.Render("Multiple versions available:"))
		b.WriteString("\n\n")
		b.WriteString(m.renderSourceList())
		return b.String()
	}

	b.WriteString(m.renderTransport())

	if m.playerMenu != "" {
		b.WriteString("\n\n")
		b.WriteString(m.renderTrackMenu())
	}

	if m.controller.UpNext() {
		if next := m.controller.NextEpisodeItem(); next != nil {
			b.WriteString("\n\n")
			b.WriteString(upNextStyle.Render("Up next: " + next.Name + "  (press n)"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m model) renderSourceList() string {
	focused := m.navigator.FocusedID()
	var b strings.Builder
	for _, source := range m.controller.Sources() {
		label := sourceLabel(source)
		if focused == nav.NodeID("src-"+source.ID) {
			b.WriteString(selectedStyle.Render(" ▶ " + label + " "))
		} else {
			b.WriteString(itemStyle.Render("   " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sourceLabel(source emby.MediaSource) string {
	label := source.Name
	if label == "" {
		label = source.Container
	}
	if h := source.VideoHeight(); h > 0 {
		label = fmt.Sprintf("%s  %dp", label, h)
	}
	if source.Bitrate > 0 {
		label = fmt.Sprintf("%s  %.1f Mbps", label, float64(source.Bitrate)/1e6)
	}
	return label
}

func (m model) renderTransport() string {
	position := m.controller.Position()
	duration := m.controller.Duration()

	var percentage float64
	if duration > 0 {
		percentage = position / duration * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	barWidth := m.width - 22
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(percentage / 100 * float64(barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	stateLabel := "▶"
	if m.controller.State() == player.StatePaused {
		stateLabel = "⏸"
	}
	if m.controller.Busy() {
		stateLabel = "…"
	}

	line := fmt.Sprintf("%s %s [%s] %s",
		stateLabel,
		formatSeconds(position),
		bar,
		formatSeconds(duration),
	)

	tracks := m.renderTrackStatus()
	return lipgloss.JoinVertical(lipgloss.Left, infoStyle.Render(line), dimStyle.Render(tracks))
}

func (m model) renderTrackStatus() string {
	source := m.controller.Source()
	if source == nil {
		return ""
	}

	audio := "default"
	if idx := m.controller.AudioIndex(); idx >= 0 {
		audio = streamTitle(source.MediaStreams, idx)
	}
	sub := "off"
	if idx := m.controller.SubtitleIndex(); idx >= 0 {
		sub = streamTitle(source.MediaStreams, idx)
	}
	status := fmt.Sprintf("audio: %s  •  subtitles: %s", audio, sub)
	if m.controller.Busy() {
		status += "  •  switching..."
	}
	return status
}

func streamTitle(streams []emby.MediaStream, index int) string {
	for _, s := range streams {
		if s.Index != index {
			continue
		}
		if s.DisplayTitle != "" {
			return s.DisplayTitle
		}
		if s.Language != "" {
			return s.Language
		}
		return fmt.Sprintf("track %d", s.Index)
	}
	return fmt.Sprintf("track %d", index)
}

func (m model) renderTrackMenu() string {
	source := m.controller.Source()
	if source == nil {
		return ""
	}
	focused := m.navigator.FocusedID()
	var b strings.Builder

	if m.playerMenu == "audio" {
		b.WriteString(titleStyle.Render("Audio track"))
		b.WriteString("\n")
		for _, stream := range source.AudioStreams() {
			id := nav.NodeID(fmt.Sprintf("menu-audio-%d", stream.Index))
			b.WriteString(menuLine(streamTitle(source.MediaStreams, stream.Index), focused == id, m.controller.AudioIndex() == stream.Index))
		}
		return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
	}

	b.WriteString(titleStyle.Render("Subtitles"))
	b.WriteString("\n")
	b.WriteString(menuLine("Off", focused == nav.NodeID("menu-sub-off"), m.controller.SubtitleIndex() < 0))
	for _, stream := range source.SubtitleStreams() {
		id := nav.NodeID(fmt.Sprintf("menu-sub-%d", stream.Index))
		b.WriteString(menuLine(streamTitle(source.MediaStreams, stream.Index), focused == id, m.controller.SubtitleIndex() == stream.Index))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func menuLine(label string, focused, active bool) string {
	marker := "  "
	if active {
		marker = "✓ "
	}
	if focused {
		return selectedStyle.Render(" ▶ "+marker+label+" ") + "\n"
	}
	return itemStyle.Render("   "+marker+label) + "\n"
}

// formatSeconds converts seconds to MM:SS or HH:MM:SS format
func formatSeconds(seconds float64) string {
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
