package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/davrell/etui/internal/nav"
	"github.com/davrell/etui/pkg/emby"
)

const (
	cardWidth  = 24.0
	cardHeight = 5.0
	rowBlock   = cardHeight + 2 // header line + cards + spacing
	navBarH    = 2.0
)

var navBarButtons = []struct {
	id    nav.NodeID
	label string
	x     float64
	w     float64
}{
	{"nav-home", "Home", 0, 10},
	{"nav-library", "Library", 12, 12},
	{"nav-search", "Search", 26, 12},
	{"nav-settings", "Settings", 40, 14},
}

func (m *model) bodyViewport() nav.Rect {
	return nav.Rect{X: 0, Y: 0, W: float64(m.width), H: float64(m.height) - 4}
}

func (m *model) buildHomeScene() {
	m.scene.reset(m.bodyViewport())

	for _, btn := range navBarButtons {
		m.scene.add(nav.Node{
			ID:      btn.id,
			Rect:    nav.Rect{X: btn.x, Y: 0, W: btn.w, H: 1},
			Kind:    nav.KindNavBar,
			Visible: true,
		})
	}

	y := navBarH
	for _, row := range m.rows {
		m.scene.add(nav.Node{
			ID:      nav.NodeID("hdr-" + row.id),
			Rect:    nav.Rect{X: 0, Y: y, W: 20, H: 1},
			Row:     row.id,
			Kind:    nav.KindRowHeader,
			Visible: true,
		})
		for j, item := range row.items {
			m.scene.add(nav.Node{
				ID:      cardID(row.id, item.ID),
				Rect:    nav.Rect{X: float64(j) * cardWidth, Y: y + 1, W: cardWidth, H: cardHeight},
				Row:     row.id,
				Kind:    nav.KindCard,
				Visible: true,
			})
		}
		y += rowBlock
	}
}

func cardID(rowID, itemID string) nav.NodeID {
	return nav.NodeID("card-" + rowID + "-" + itemID)
}

func (m model) viewHome() string {
	var b strings.Builder
	focused := m.navigator.FocusedID()

	b.WriteString(m.renderNavBar(focused))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("Nothing to show yet. Press / to search your library."))
		return b.String()
	}

	for _, row := range m.rows {
		b.WriteString(m.renderRow(row, focused))
	}

	return m.clipVertical(b.String())
}

func (m model) renderNavBar(focused nav.NodeID) string {
	parts := make([]string, 0, len(navBarButtons))
	for _, btn := range navBarButtons {
		style := buttonStyle
		if focused == btn.id {
			style = buttonFocusStyle
		}
		parts = append(parts, style.Render(btn.label))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m model) renderRow(row homeRow, focused nav.NodeID) string {
	headerStyle := rowHeaderStyle
	if focused == nav.NodeID("hdr-"+row.id) {
		headerStyle = rowHeaderFocusStyle
	}
	header := headerStyle.Render(row.title)

	first, last := m.scene.visibleRange(row.id, cardWidth, len(row.items))
	cards := make([]string, 0, last-first)
	for j := first; j < last; j++ {
		item := row.items[j]
		cards = append(cards, m.renderCard(item, focused == cardID(row.id, item.ID)))
	}

	strip := ""
	if len(cards) > 0 {
		strip = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		strip = dimStyle.Render("(empty)")
	}
	return header + "\n" + strip + "\n\n"
}

func (m model) renderCard(item emby.DetailedItem, focused bool) string {
	style := cardStyle
	if focused {
		style = cardFocusStyle
	}

	name := truncate(item.Name, 20)
	var second string
	if item.IsEpisode() {
		second = truncate(fmt.Sprintf("%s S%02dE%02d", item.SeriesName, item.ParentIndexNumber, item.IndexNumber), 20)
	} else if item.ProductionYear > 0 {
		second = fmt.Sprintf("%d", item.ProductionYear)
	}

	var third string
	switch {
	case item.IsWatched():
		third = "watched"
	case item.HasResumePosition():
		third = fmt.Sprintf("resume %d%%", int(item.GetPlayedPercentage()))
	case item.GetRuntime() != "":
		third = item.GetRuntime()
	}

	content := padLine(name, 20) + "\n" + padLine(second, 20) + "\n" + padLine(third, 20)
	return style.Render(content)
}

// clipVertical drops lines scrolled above the viewport and truncates to its
// height, keeping the rendered output aligned with the scene's scroll state.
func (m model) clipVertical(s string) string {
	lines := strings.Split(s, "\n")
	skip := int(m.scene.scrollY)
	if skip >= len(lines) {
		return ""
	}
	lines = lines[skip:]
	maxLines := m.height - 4
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func padLine(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
