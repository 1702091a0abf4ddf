package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id string, row string, x, y float64) Node {
	return Node{ID: NodeID(id), Row: row, Kind: KindCard, Visible: true, Rect: Rect{X: x, Y: y, W: 100, H: 60}}
}

func viewport() Rect {
	return Rect{X: 0, Y: 0, W: 1280, H: 720}
}

// A home-screen-like fixture: a nav bar, a primary action, and two carousels
// with headers.
func homeNodes() []Node {
	return []Node{
		{ID: "nav-search", Kind: KindNavBar, Visible: true, Rect: Rect{X: 40, Y: 10, W: 80, H: 30}},
		{ID: "nav-settings", Kind: KindNavBar, Visible: true, Rect: Rect{X: 140, Y: 10, W: 80, H: 30}},
		{ID: "play", Kind: KindPrimary, Visible: true, Rect: Rect{X: 40, Y: 80, W: 120, H: 40}},
		{ID: "row1-header", Kind: KindRowHeader, Row: "row1", Visible: true, Rect: Rect{X: 40, Y: 160, W: 150, H: 24}},
		card("row1-a", "row1", 40, 200),
		card("row1-b", "row1", 160, 200),
		card("row1-c", "row1", 280, 200),
		{ID: "row2-header", Kind: KindRowHeader, Row: "row2", Visible: true, Rect: Rect{X: 40, Y: 300, W: 150, H: 24}},
		card("row2-a", "row2", 40, 340),
		card("row2-b", "row2", 160, 340),
	}
}

func TestResolveNextDeterministic(t *testing.T) {
	nodes := homeNodes()
	first, ok := ResolveNext(nodes, "row1-a", Right)
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		got, ok := ResolveNext(nodes, "row1-a", Right)
		require.True(t, ok)
		assert.Equal(t, first, got)
	}
}

func TestResolveNextNeverSelf(t *testing.T) {
	nodes := homeNodes()
	for _, n := range nodes {
		for _, dir := range []Direction{Up, Down, Left, Right} {
			got, ok := ResolveNext(nodes, n.ID, dir)
			if ok {
				assert.NotEqual(t, n.ID, got, "move %s from %s", dir, n.ID)
			}
		}
	}
}

func TestRowContainmentByOrder(t *testing.T) {
	// Absolute pixel positions deliberately contradict insertion order: the
	// later sibling sits left of the earlier one, as happens mid-scroll in a
	// carousel. Order must still win.
	nodes := []Node{
		card("a", "row", 500, 200),
		card("b", "row", 100, 200),
	}

	got, ok := ResolveNext(nodes, "a", Right)
	require.True(t, ok)
	assert.Equal(t, NodeID("b"), got)

	got, ok = ResolveNext(nodes, "b", Left)
	require.True(t, ok)
	assert.Equal(t, NodeID("a"), got)
}

func TestGracefulNoOpAtEdge(t *testing.T) {
	nodes := homeNodes()

	_, ok := ResolveNext(nodes, "nav-search", Up)
	assert.False(t, ok)

	_, ok = ResolveNext(nodes, "row2-a", Down)
	assert.False(t, ok)

	_, ok = ResolveNext(nodes, "row1-a", Left)
	assert.False(t, ok)
}

func TestResolveNextUnknownCurrent(t *testing.T) {
	_, ok := ResolveNext(homeNodes(), "missing", Down)
	assert.False(t, ok)
}

func TestHorizontalStaysInVisualRowBand(t *testing.T) {
	nodes := []Node{
		card("cur", "", 100, 200),
		// Misaligned but within the 80px band.
		card("near", "", 300, 250),
		// Far outside the band: no horizontal intent.
		card("far", "", 250, 400),
	}

	got, ok := ResolveNext(nodes, "cur", Right)
	require.True(t, ok)
	assert.Equal(t, NodeID("near"), got)

	_, ok = ResolveNext([]Node{nodes[0], nodes[2]}, "cur", Right)
	assert.False(t, ok)
}

func TestVerticalPrefersOwnRowHeader(t *testing.T) {
	nodes := homeNodes()

	// Up from a row-2 card lands on row 2's header, not a row-1 card.
	got, ok := ResolveNext(nodes, "row2-b", Up)
	require.True(t, ok)
	assert.Equal(t, NodeID("row2-header"), got)
}

func TestDownFromHeaderPrefersFirstCard(t *testing.T) {
	nodes := homeNodes()

	got, ok := ResolveNext(nodes, "row1-header", Down)
	require.True(t, ok)
	assert.Equal(t, NodeID("row1-a"), got)

	// Down from a card row lands on the next row's header before its cards.
	got, ok = ResolveNext(nodes, "row1-a", Down)
	require.True(t, ok)
	assert.Equal(t, NodeID("row2-header"), got)
}

func TestPrimaryActionBonus(t *testing.T) {
	nodes := homeNodes()

	// Down from the nav bar lands on the primary action.
	got, ok := ResolveNext(nodes, "nav-search", Down)
	require.True(t, ok)
	assert.Equal(t, NodeID("play"), got)

	// Up from a content row without its own header also lands on it.
	headerless := []Node{
		{ID: "play", Kind: KindPrimary, Visible: true, Rect: Rect{X: 40, Y: 80, W: 120, H: 40}},
		{ID: "hero", Kind: KindGeneric, Visible: true, Rect: Rect{X: 300, Y: 90, W: 200, H: 30}},
		card("row-a", "row", 40, 200),
	}
	got, ok = ResolveNext(headerless, "row-a", Up)
	require.True(t, ok)
	assert.Equal(t, NodeID("play"), got)
}

func TestComputeFocusableSetFilters(t *testing.T) {
	nodes := []Node{
		card("visible", "", 100, 100),
		{ID: "hidden", Kind: KindCard, Rect: Rect{X: 100, Y: 200, W: 100, H: 60}},
		{ID: "empty", Kind: KindCard, Visible: true, Rect: Rect{X: 100, Y: 300}},
		// Off to the right but within the generous margin: carousel overflow.
		card("overflow", "row", 1500, 100),
		// Far beyond the margin.
		card("distant", "", 5000, 100),
	}

	got := ComputeFocusableSet(nodes, viewport())
	ids := make([]NodeID, len(got))
	for i, n := range got {
		ids[i] = n.ID
	}
	assert.Equal(t, []NodeID{"visible", "overflow"}, ids)
}
