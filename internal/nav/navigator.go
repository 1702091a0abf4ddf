package nav

import (
	"time"
)

// Key is a navigation-relevant input key.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBack
)

// KeyEvent is one key input. Repeat marks held-key auto-repeat, which the
// navigator swallows to prevent overshoot.
type KeyEvent struct {
	Key    Key
	Repeat bool
}

// navThrottle is the minimum interval between directional moves.
const navThrottle = 80 * time.Millisecond

// Navigator owns the ephemeral navigation session: the last-focused node (a
// restoring reference only), the input throttle timestamp, and the stack of
// open modal containers that trap focus. It holds no references into the
// scene beyond node IDs.
type Navigator struct {
	scene Scene

	last    NodeID
	lastNav time.Time
	modals  []string

	onFocus    func(NodeID)
	onActivate func(NodeID)
	onBack     func() bool
	onHistory  func()
	isHome     func() bool

	now func() time.Time
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithFocusHandler is invoked after focus transfers to a node.
func WithFocusHandler(fn func(NodeID)) Option {
	return func(n *Navigator) { n.onFocus = fn }
}

// WithActivateHandler is invoked when the focused node is activated.
func WithActivateHandler(fn func(NodeID)) Option {
	return func(n *Navigator) { n.onActivate = fn }
}

// WithBackHandler installs the caller's back handler; it returns true when it
// consumed the event.
func WithBackHandler(fn func() bool) Option {
	return func(n *Navigator) { n.onBack = fn }
}

// WithHistoryBack installs the history fallback for unhandled back events.
func WithHistoryBack(fn func()) Option {
	return func(n *Navigator) { n.onHistory = fn }
}

// WithHomeCheck suppresses history-back while the reported route is home, so
// back input cannot navigate out of the application.
func WithHomeCheck(fn func() bool) Option {
	return func(n *Navigator) { n.isHome = fn }
}

func withClock(fn func() time.Time) Option {
	return func(n *Navigator) { n.now = fn }
}

// New creates a Navigator over the scene.
func New(scene Scene, opts ...Option) *Navigator {
	n := &Navigator{
		scene: scene,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// FocusedID returns the last-focused node id, empty when nothing has focus.
func (n *Navigator) FocusedID() NodeID {
	return n.last
}

// PushModal opens a modal container; focus is trapped inside it until it is
// popped. The first focusable node of the group receives focus.
func (n *Navigator) PushModal(group string) {
	n.modals = append(n.modals, group)
	n.focusFirst()
}

// PopModal closes the top modal container and restores a valid focus target.
func (n *Navigator) PopModal() {
	if len(n.modals) == 0 {
		return
	}
	n.modals = n.modals[:len(n.modals)-1]
	n.EnsureFocus()
}

// ModalOpen reports whether any modal container is trapping focus.
func (n *Navigator) ModalOpen() bool {
	return len(n.modals) > 0
}

// HandleKey processes one key event. It returns true when the event was
// consumed by the navigator.
func (n *Navigator) HandleKey(ev KeyEvent) bool {
	switch ev.Key {
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		if ev.Repeat {
			return true
		}
		now := n.now()
		if now.Sub(n.lastNav) < navThrottle {
			return true
		}
		n.lastNav = now
		n.Move(directionFor(ev.Key))
		return true
	case KeyEnter:
		if n.last != "" && n.onActivate != nil {
			n.onActivate(n.last)
		}
		return true
	case KeyBack:
		return n.handleBack()
	}
	return false
}

func directionFor(k Key) Direction {
	switch k {
	case KeyUp:
		return Up
	case KeyDown:
		return Down
	case KeyLeft:
		return Left
	default:
		return Right
	}
}

func (n *Navigator) handleBack() bool {
	if len(n.modals) > 0 {
		n.PopModal()
		return true
	}
	if n.onBack != nil && n.onBack() {
		return true
	}
	if n.isHome != nil && n.isHome() {
		// Never navigate out of the application from home.
		return true
	}
	if n.onHistory != nil {
		n.onHistory()
		return true
	}
	return false
}

// Move transfers focus one step in dir. Absence of a qualifying candidate is
// a no-op: indistinguishable from "already at the edge".
func (n *Navigator) Move(dir Direction) bool {
	nodes := n.focusables()
	if len(nodes) == 0 {
		return false
	}

	if _, ok := findNode(nodes, n.last); !ok {
		// Nothing validly focused: the first directional input lands on the
		// first focusable node instead of silently failing.
		n.MoveTo(nodes[0].ID, dir)
		return true
	}

	next, ok := ResolveNext(nodes, n.last, dir)
	if !ok {
		return false
	}
	n.MoveTo(next, dir)
	return true
}

// MoveTo scrolls the node into view and transfers focus to it.
func (n *Navigator) MoveTo(id NodeID, dir Direction) {
	n.scene.EnsureVisible(id, dir)
	n.last = id
	if n.onFocus != nil {
		n.onFocus(id)
	}
}

// EnsureFocus re-establishes a valid focus target after a re-render. The UI
// layer must call it whenever a render may have removed the focused node:
// focus is restored to the last-known node if it still exists and is visible,
// else to the first focusable node.
func (n *Navigator) EnsureFocus() {
	nodes := n.focusables()
	if len(nodes) == 0 {
		n.last = ""
		return
	}
	if _, ok := findNode(nodes, n.last); ok {
		return
	}
	n.MoveTo(nodes[0].ID, Down)
}

func (n *Navigator) focusFirst() {
	nodes := n.focusables()
	if len(nodes) > 0 {
		n.MoveTo(nodes[0].ID, Down)
	}
}

// focusables returns the current candidate set, restricted to the top modal
// container when one is open.
func (n *Navigator) focusables() []Node {
	nodes := ComputeFocusableSet(n.scene.Nodes(), n.scene.Viewport())
	if len(n.modals) == 0 {
		return nodes
	}
	group := n.modals[len(n.modals)-1]
	trapped := nodes[:0:0]
	for _, node := range nodes {
		if node.Group == group {
			trapped = append(trapped, node)
		}
	}
	return trapped
}
