package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/davrell/etui/internal/nav"
	"github.com/davrell/etui/internal/player"
)

var qualityTokens = []string{
	player.QualityHighest,
	player.Quality4K,
	player.Quality1080p,
	player.Quality720p,
	player.QualityLowest,
}

var settingsFields = []struct {
	id    nav.NodeID
	label string
}{
	{"set-server", "Server URL"},
	{"set-quality", "Quality"},
	{"set-audio-lang", "Audio language"},
	{"set-save", "Save"},
}

func (m *model) buildSettingsScene() {
	m.scene.reset(m.bodyViewport())
	for i, field := range settingsFields {
		kind := nav.KindGeneric
		if field.id == "set-save" {
			kind = nav.KindPrimary
		}
		m.scene.add(nav.Node{
			ID:      field.id,
			Rect:    nav.Rect{X: 0, Y: float64(i * 2), W: 50, H: 1},
			Kind:    kind,
			Visible: true,
		})
	}
}

func (m model) viewSettings() string {
	focused := m.navigator.FocusedID()
	var b strings.Builder

	for _, field := range settingsFields {
		value := ""
		switch field.id {
		case "set-server":
			value = m.settings.serverURL
		case "set-quality":
			value = m.settings.quality
		case "set-audio-lang":
			value = m.settings.audioLang
			if value == "" {
				value = "(server default)"
			}
		}

		if m.settings.editing == string(field.id) {
			value = m.settings.buffer + "█"
		}

		line := field.label
		if field.id != "set-save" {
			line = padLine(field.label, 16) + value
		}
		if focused == field.id {
			b.WriteString(selectedStyle.Render(" ▶ " + line + " "))
		} else if field.id == "set-save" {
			b.WriteString(buttonStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render("   " + line))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("Playback preferences are read at the next session start."))
	return b.String()
}

func (m model) handleSettingsTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		switch m.settings.editing {
		case "set-server":
			m.settings.serverURL = m.settings.buffer
		case "set-audio-lang":
			m.settings.audioLang = m.settings.buffer
		}
		m.settings.editing = ""
		m.settings.buffer = ""
	case "esc":
		m.settings.editing = ""
		m.settings.buffer = ""
	case "backspace":
		if len(m.settings.buffer) > 0 {
			m.settings.buffer = m.settings.buffer[:len(m.settings.buffer)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.settings.buffer += string(msg.Runes)
		}
	}
	return m, nil
}

func (m model) activateSetting(id nav.NodeID) (tea.Model, tea.Cmd) {
	switch id {
	case "set-server":
		m.settings.editing = "set-server"
		m.settings.buffer = m.settings.serverURL
	case "set-audio-lang":
		m.settings.editing = "set-audio-lang"
		m.settings.buffer = m.settings.audioLang
	case "set-quality":
		m.settings.quality = nextQualityToken(m.settings.quality)
	case "set-save":
		viper.Set("emby.server_url", m.settings.serverURL)
		viper.Set("playback.quality", m.settings.quality)
		viper.Set("playback.audio_language", m.settings.audioLang)
		if err := viper.WriteConfig(); err != nil {
			m.notice = "Failed to save settings"
		} else {
			m.notice = "Settings saved"
		}
	}
	return m, nil
}

func nextQualityToken(current string) string {
	for i, token := range qualityTokens {
		if token == current {
			return qualityTokens[(i+1)%len(qualityTokens)]
		}
	}
	return qualityTokens[0]
}
