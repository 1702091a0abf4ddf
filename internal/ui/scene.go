package ui

import (
	"github.com/davrell/etui/internal/nav"
)

// scrollPadding keeps the focused node this many cells away from the viewport
// edge when scrolling it into view.
const scrollPadding = 2.0

// sceneGraph is the navigator's view of the rendered screen. Screens rebuild
// it on every layout pass with unscrolled node geometry; scroll offsets are
// owned here so they survive rebuilds.
type sceneGraph struct {
	nodes []nav.Node
	vp    nav.Rect

	rowOffsets map[string]float64
	scrollY    float64
}

func newSceneGraph() *sceneGraph {
	return &sceneGraph{rowOffsets: make(map[string]float64)}
}

// reset replaces the node set and viewport, keeping scroll state.
func (s *sceneGraph) reset(vp nav.Rect) {
	s.nodes = s.nodes[:0]
	s.vp = vp
}

// clearScroll drops all scroll state, used on screen changes.
func (s *sceneGraph) clearScroll() {
	s.rowOffsets = make(map[string]float64)
	s.scrollY = 0
}

func (s *sceneGraph) add(node nav.Node) {
	s.nodes = append(s.nodes, node)
}

// Nodes returns the node set with scroll offsets applied.
func (s *sceneGraph) Nodes() []nav.Node {
	out := make([]nav.Node, len(s.nodes))
	for i, node := range s.nodes {
		node.Rect.X -= s.rowOffset(node.Row)
		node.Rect.Y -= s.scrollY
		out[i] = node
	}
	return out
}

func (s *sceneGraph) Viewport() nav.Rect {
	return s.vp
}

func (s *sceneGraph) rowOffset(row string) float64 {
	if row == "" {
		return 0
	}
	return s.rowOffsets[row]
}

// EnsureVisible scrolls the node's row horizontally for horizontal intent,
// the page vertically otherwise.
func (s *sceneGraph) EnsureVisible(id nav.NodeID, dir nav.Direction) {
	var base *nav.Node
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			base = &s.nodes[i]
			break
		}
	}
	if base == nil {
		return
	}

	if base.Row != "" && dir.Horizontal() {
		offset := s.rowOffsets[base.Row]
		left := base.Rect.X - offset
		right := left + base.Rect.W
		if left < s.vp.X+scrollPadding {
			offset -= (s.vp.X + scrollPadding) - left
		} else if right > s.vp.X+s.vp.W-scrollPadding {
			offset += right - (s.vp.X + s.vp.W - scrollPadding)
		}
		if offset < 0 {
			offset = 0
		}
		s.rowOffsets[base.Row] = offset
		return
	}

	top := base.Rect.Y - s.scrollY
	bottom := top + base.Rect.H
	if top < s.vp.Y {
		s.scrollY -= s.vp.Y - top
	} else if bottom > s.vp.Y+s.vp.H {
		s.scrollY += bottom - (s.vp.Y + s.vp.H)
	}
	if s.scrollY < 0 {
		s.scrollY = 0
	}
}

// visibleRange returns the first and last card index of a row that fit in the
// viewport at the current offset, given uniform card width and count.
func (s *sceneGraph) visibleRange(row string, cardWidth float64, count int) (int, int) {
	if count == 0 || cardWidth <= 0 {
		return 0, 0
	}
	offset := s.rowOffsets[row]
	first := int(offset / cardWidth)
	if first < 0 {
		first = 0
	}
	perScreen := int(s.vp.W / cardWidth)
	if perScreen < 1 {
		perScreen = 1
	}
	last := first + perScreen
	if last > count {
		last = count
	}
	return first, last
}
