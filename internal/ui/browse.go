package ui

import (
	"strconv"
	"strings"

	"github.com/davrell/etui/internal/nav"
)

func (m *model) buildBrowseScene() {
	m.scene.reset(m.bodyViewport())
	for i, item := range m.browseItems {
		m.scene.add(nav.Node{
			ID:      nav.NodeID("item-" + item.GetID()),
			Rect:    nav.Rect{X: 0, Y: float64(i), W: float64(m.width), H: 1},
			Visible: true,
		})
	}
}

func (m model) viewBrowse() string {
	if len(m.browseItems) == 0 {
		return dimStyle.Render("No items found")
	}

	focused := m.navigator.FocusedID()
	var b strings.Builder
	for _, item := range m.browseItems {
		name := item.GetName()
		if item.GetIsFolder() {
			name += "/"
		}
		line := truncate(name, m.width-6)
		if focused == nav.NodeID("item-"+item.GetID()) {
			b.WriteString(selectedStyle.Render(" ▶ " + line + " "))
		} else {
			b.WriteString(itemStyle.Render("   " + line))
		}
		b.WriteString("\n")
	}
	return m.clipVertical(b.String())
}

func (m *model) buildSearchScene() {
	m.scene.reset(m.bodyViewport())
	if m.searchTyping {
		return
	}
	// Input line occupies y=0, results start below it.
	for i, item := range m.searchResults {
		m.scene.add(nav.Node{
			ID:      nav.NodeID("res-" + item.ID),
			Rect:    nav.Rect{X: 0, Y: float64(i + 2), W: float64(m.width), H: 1},
			Visible: true,
		})
	}
}

func (m model) viewSearch() string {
	var b strings.Builder

	prompt := "Search: " + m.searchQuery
	if m.searchTyping {
		prompt += "█"
		b.WriteString(titleStyle.Render(prompt))
	} else {
		b.WriteString(dimStyle.Render(prompt))
	}
	b.WriteString("\n\n")

	if m.searchTyping {
		b.WriteString(dimStyle.Render("Type a title and press Enter."))
		return b.String()
	}
	if len(m.searchResults) == 0 {
		b.WriteString(dimStyle.Render("No results."))
		return b.String()
	}

	focused := m.navigator.FocusedID()
	for _, item := range m.searchResults {
		line := truncate(item.Name, m.width-20)
		if item.ProductionYear > 0 {
			line += dimStyle.Render("  " + strconv.Itoa(item.ProductionYear))
		}
		if focused == nav.NodeID("res-"+item.ID) {
			b.WriteString(selectedStyle.Render(" ▶ " + truncate(item.Name, m.width-20) + " "))
		} else {
			b.WriteString(itemStyle.Render("   " + line))
		}
		b.WriteString("\n")
	}
	return m.clipVertical(b.String())
}
