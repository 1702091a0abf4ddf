package ui

import (
	"fmt"
	"strings"

	"github.com/davrell/etui/internal/nav"
)

func (m *model) buildDetailScene() {
	m.scene.reset(m.bodyViewport())
	if m.detail == nil {
		return
	}

	m.scene.add(nav.Node{
		ID:      "act-play",
		Rect:    nav.Rect{X: 0, Y: 0, W: 14, H: 1},
		Kind:    nav.KindPrimary,
		Visible: true,
	})
	m.scene.add(nav.Node{
		ID:      "act-favorite",
		Rect:    nav.Rect{X: 16, Y: 0, W: 16, H: 1},
		Visible: true,
	})
	m.scene.add(nav.Node{
		ID:      "act-watched",
		Rect:    nav.Rect{X: 34, Y: 0, W: 16, H: 1},
		Visible: true,
	})

	if len(m.similar) > 0 {
		// Similar titles live below the metadata block as one carousel row.
		y := float64(detailThumbHeight + 10)
		m.scene.add(nav.Node{
			ID:      "hdr-similar",
			Rect:    nav.Rect{X: 0, Y: y, W: 20, H: 1},
			Row:     "similar",
			Kind:    nav.KindRowHeader,
			Visible: true,
		})
		for j, item := range m.similar {
			m.scene.add(nav.Node{
				ID:      nav.NodeID("sim-" + item.ID),
				Rect:    nav.Rect{X: float64(j) * cardWidth, Y: y + 1, W: cardWidth, H: cardHeight},
				Row:     "similar",
				Kind:    nav.KindCard,
				Visible: true,
			})
		}
	}
}

func (m model) viewDetail() string {
	if m.detail == nil {
		return dimStyle.Render("No item selected")
	}
	d := m.detail
	focused := m.navigator.FocusedID()

	var b strings.Builder

	playLabel := "▶ Play"
	if d.HasResumePosition() {
		playLabel = fmt.Sprintf("▶ Resume %d%%", int(d.GetPlayedPercentage()))
	}
	favLabel := "♡ Favorite"
	if d.IsFavorite() {
		favLabel = "♥ Favorited"
	}
	watchLabel := "Mark watched"
	if d.IsWatched() {
		watchLabel = "Mark unwatched"
	}
	b.WriteString(m.renderButton("act-play", playLabel, focused, true))
	b.WriteString("  ")
	b.WriteString(m.renderButton("act-favorite", favLabel, focused, false))
	b.WriteString("  ")
	b.WriteString(m.renderButton("act-watched", watchLabel, focused, false))
	b.WriteString("\n\n")

	cacheKey := fmt.Sprintf("%s_%dx%d", d.ID, detailThumbWidth, detailThumbHeight)
	if thumb, ok := m.thumbCache[cacheKey]; ok && thumb != "" {
		b.WriteString(thumb)
		b.WriteString("\n\n")
	}

	b.WriteString(titleStyle.Render(d.Name))
	b.WriteString("\n")
	if series := d.GetSeriesName(); series != "" {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Series: %s  S%02dE%02d", series, d.GetSeasonNumber(), d.GetEpisodeNumber())))
		b.WriteString("\n")
	}
	var meta []string
	if d.ProductionYear > 0 {
		meta = append(meta, fmt.Sprintf("%d", d.ProductionYear))
	}
	if runtime := d.GetRuntime(); runtime != "" {
		meta = append(meta, runtime)
	}
	if genres := d.GetGenres(); genres != "" {
		meta = append(meta, genres)
	}
	if len(meta) > 0 {
		b.WriteString(dimStyle.Render(strings.Join(meta, "  •  ")))
		b.WriteString("\n")
	}

	if overview := d.GetOverview(); overview != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(wrap(overview, minInt(m.width-4, 80), 6)))
		b.WriteString("\n")
	}

	if len(m.similar) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderRow(homeRow{id: "similar", title: "More Like This", items: m.similar}, focused))
	}

	return m.clipVertical(b.String())
}

func (m model) renderButton(id nav.NodeID, label string, focused nav.NodeID, primary bool) string {
	switch {
	case focused == id:
		return buttonFocusStyle.Render(label)
	case primary:
		return primaryButtonStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}

// wrap breaks text into at most maxLines lines of the given width.
func wrap(text string, width, maxLines int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(text)
	var lines []string
	line := ""
	for _, word := range words {
		if line != "" && len(line)+len(word)+1 > width {
			lines = append(lines, line)
			if len(lines) == maxLines {
				lines[maxLines-1] += " ..."
				return strings.Join(lines, "\n")
			}
			line = word
			continue
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
