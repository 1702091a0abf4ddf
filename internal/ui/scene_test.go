package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrell/etui/internal/nav"
)

func card(id string, row string, x, y float64) nav.Node {
	return nav.Node{
		ID:      nav.NodeID(id),
		Rect:    nav.Rect{X: x, Y: y, W: cardWidth, H: cardHeight},
		Row:     row,
		Kind:    nav.KindCard,
		Visible: true,
	}
}

func TestSceneScrollSurvivesRebuild(t *testing.T) {
	s := newSceneGraph()
	s.reset(nav.Rect{W: 80, H: 20})
	for i := 0; i < 10; i++ {
		s.add(card("card-recent-"+string(rune('a'+i)), "recent", float64(i)*cardWidth, 2))
	}

	// Scroll the sixth card into view, then rebuild with the same geometry.
	s.EnsureVisible("card-recent-f", nav.Right)
	offset := s.rowOffsets["recent"]
	require.Greater(t, offset, 0.0)

	s.reset(nav.Rect{W: 80, H: 20})
	s.add(card("card-recent-f", "recent", 5*cardWidth, 2))
	assert.Equal(t, offset, s.rowOffsets["recent"], "row offset must survive reset")

	nodes := s.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, 5*cardWidth-offset, nodes[0].Rect.X)
}

func TestSceneHorizontalScrollClamps(t *testing.T) {
	s := newSceneGraph()
	s.reset(nav.Rect{W: 80, H: 20})
	s.add(card("card-recent-a", "recent", 0, 2))
	s.add(card("card-recent-b", "recent", cardWidth, 2))

	// Already fully visible on the left edge, nothing to do.
	s.EnsureVisible("card-recent-a", nav.Left)
	assert.Zero(t, s.rowOffsets["recent"])

	// Scrolling left past the row start never produces a negative offset.
	s.rowOffsets["recent"] = 4
	s.EnsureVisible("card-recent-a", nav.Left)
	assert.Zero(t, s.rowOffsets["recent"])
}

func TestSceneVerticalScroll(t *testing.T) {
	s := newSceneGraph()
	s.reset(nav.Rect{W: 80, H: 20})
	for i := 0; i < 6; i++ {
		s.add(card("card-r"+string(rune('0'+i))+"-x", "", 0, float64(i)*rowBlock))
	}

	// The fifth row starts below the viewport; moving down scrolls it in.
	s.EnsureVisible("card-r4-x", nav.Down)
	assert.Equal(t, 4*rowBlock+cardHeight-20, s.scrollY)

	// Moving back to the first row scrolls to the top.
	s.EnsureVisible("card-r0-x", nav.Up)
	assert.Zero(t, s.scrollY)
}

func TestSceneVerticalScrollIgnoresHorizontalIntentOutsideRows(t *testing.T) {
	s := newSceneGraph()
	s.reset(nav.Rect{W: 80, H: 10})
	s.add(card("item-a", "", 0, 15))

	// Nodes outside a row scroll vertically even for horizontal intent.
	s.EnsureVisible("item-a", nav.Right)
	assert.Equal(t, 15+cardHeight-10, s.scrollY)
}

func TestVisibleRange(t *testing.T) {
	s := newSceneGraph()
	s.reset(nav.Rect{W: 80, H: 20})

	first, last := s.visibleRange("recent", cardWidth, 10)
	assert.Equal(t, 0, first)
	assert.Equal(t, 3, last, "80 wide viewport fits three 24-wide cards")

	s.rowOffsets["recent"] = 5 * cardWidth
	first, last = s.visibleRange("recent", cardWidth, 10)
	assert.Equal(t, 5, first)
	assert.Equal(t, 8, last)

	// Near the end of the row the range is capped at the card count.
	s.rowOffsets["recent"] = 9 * cardWidth
	first, last = s.visibleRange("recent", cardWidth, 10)
	assert.Equal(t, 9, first)
	assert.Equal(t, 10, last)

	first, last = s.visibleRange("empty", cardWidth, 0)
	assert.Zero(t, first)
	assert.Zero(t, last)
}

func TestClearScroll(t *testing.T) {
	s := newSceneGraph()
	s.reset(nav.Rect{W: 80, H: 20})
	s.rowOffsets["recent"] = 48
	s.scrollY = 7

	s.clearScroll()
	assert.Zero(t, s.scrollY)
	assert.Empty(t, s.rowOffsets)
}
