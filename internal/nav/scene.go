// Package nav implements directional focus management over an abstract scene
// graph. The resolution algorithm is a pure function of node geometry so any
// UI layer that can enumerate its focusable surfaces can drive it.
package nav

// NodeID identifies a focusable node within a scene.
type NodeID string

// Kind classifies a node for structural scoring.
type Kind int

const (
	KindGeneric Kind = iota
	KindCard         // an item inside a row container
	KindRowHeader    // a row's header or "see more" control
	KindPrimary      // the designated primary call-to-action
	KindNavBar       // a top navigation control
)

// Direction is one of the four directional inputs.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Horizontal reports whether the direction moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// Rect is an axis-aligned bounding box in scene coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// CenterX returns the horizontal center of the rect.
func (r Rect) CenterX() float64 {
	return r.X + r.W/2
}

// CenterY returns the vertical center of the rect.
func (r Rect) CenterY() float64 {
	return r.Y + r.H/2
}

// Node is one focusable surface. The scene owns the underlying element; nodes
// are transient snapshots of its geometry and structure.
type Node struct {
	ID      NodeID
	Rect    Rect
	Row     string // row container id; empty when not inside a carousel
	Group   string // modal/menu container id; empty for page scope
	Kind    Kind
	Visible bool
}

// Scene is the queryable scene graph the navigator operates on. Nodes are
// returned in insertion order, which stands in for document order.
type Scene interface {
	Nodes() []Node
	Viewport() Rect
	// EnsureVisible scrolls intermediate containers so the node is on screen:
	// edge-padded horizontal scroll for row containers, vertical otherwise.
	// The top-level viewport is adjusted only for vertical intent or nodes
	// outside any row.
	EnsureVisible(id NodeID, dir Direction)
}
