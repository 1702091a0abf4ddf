package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScene is a scriptable Scene for tests.
type fakeScene struct {
	nodes    []Node
	vp       Rect
	scrolled []NodeID
}

func (s *fakeScene) Nodes() []Node  { return s.nodes }
func (s *fakeScene) Viewport() Rect { return s.vp }
func (s *fakeScene) EnsureVisible(id NodeID, _ Direction) {
	s.scrolled = append(s.scrolled, id)
}

func newTestNavigator(nodes []Node, opts ...Option) (*Navigator, *fakeScene, *time.Time) {
	scene := &fakeScene{nodes: nodes, vp: viewport()}
	clock := time.Unix(0, 0)
	opts = append(opts, withClock(func() time.Time { return clock }))
	return New(scene, opts...), scene, &clock
}

func TestFirstInputFocusesFirstNode(t *testing.T) {
	n, scene, _ := newTestNavigator(homeNodes())

	require.Empty(t, n.FocusedID())
	n.HandleKey(KeyEvent{Key: KeyDown})

	assert.Equal(t, NodeID("nav-search"), n.FocusedID())
	assert.Equal(t, []NodeID{"nav-search"}, scene.scrolled)
}

func TestDirectionalMoveScrollsTarget(t *testing.T) {
	n, scene, clock := newTestNavigator(homeNodes())
	n.MoveTo("row1-a", Down)
	scene.scrolled = nil

	*clock = clock.Add(time.Second)
	n.HandleKey(KeyEvent{Key: KeyRight})

	assert.Equal(t, NodeID("row1-b"), n.FocusedID())
	assert.Equal(t, []NodeID{"row1-b"}, scene.scrolled)
}

func TestThrottleDropsRapidInput(t *testing.T) {
	n, _, clock := newTestNavigator(homeNodes())
	n.MoveTo("row1-a", Down)

	*clock = clock.Add(time.Second)
	n.HandleKey(KeyEvent{Key: KeyRight})
	require.Equal(t, NodeID("row1-b"), n.FocusedID())

	// Within the throttle window: dropped, not buffered.
	*clock = clock.Add(30 * time.Millisecond)
	n.HandleKey(KeyEvent{Key: KeyRight})
	assert.Equal(t, NodeID("row1-b"), n.FocusedID())

	*clock = clock.Add(100 * time.Millisecond)
	n.HandleKey(KeyEvent{Key: KeyRight})
	assert.Equal(t, NodeID("row1-c"), n.FocusedID())
}

func TestKeyRepeatSwallowed(t *testing.T) {
	n, _, clock := newTestNavigator(homeNodes())
	n.MoveTo("row1-a", Down)

	*clock = clock.Add(time.Second)
	consumed := n.HandleKey(KeyEvent{Key: KeyRight, Repeat: true})

	assert.True(t, consumed)
	assert.Equal(t, NodeID("row1-a"), n.FocusedID())
}

func TestEdgeMoveKeepsFocus(t *testing.T) {
	n, _, clock := newTestNavigator(homeNodes())
	n.MoveTo("nav-search", Down)

	*clock = clock.Add(time.Second)
	n.HandleKey(KeyEvent{Key: KeyUp})

	assert.Equal(t, NodeID("nav-search"), n.FocusedID())
}

func TestEnsureFocusRestoresAfterRerender(t *testing.T) {
	n, scene, _ := newTestNavigator(homeNodes())
	n.MoveTo("row1-b", Down)

	// Focused node survives the re-render: nothing changes.
	n.EnsureFocus()
	assert.Equal(t, NodeID("row1-b"), n.FocusedID())

	// Focused node was removed by a content swap: fall back to the first
	// focusable node.
	scene.nodes = []Node{
		card("fresh-a", "fresh", 40, 200),
		card("fresh-b", "fresh", 160, 200),
	}
	n.EnsureFocus()
	assert.Equal(t, NodeID("fresh-a"), n.FocusedID())
}

func TestEnsureFocusEmptyScene(t *testing.T) {
	n, scene, _ := newTestNavigator(homeNodes())
	n.MoveTo("row1-b", Down)

	scene.nodes = nil
	n.EnsureFocus()
	assert.Empty(t, n.FocusedID())
}

func TestModalTrapsFocus(t *testing.T) {
	nodes := append(homeNodes(),
		Node{ID: "menu-1", Group: "menu", Kind: KindGeneric, Visible: true, Rect: Rect{X: 400, Y: 200, W: 100, H: 30}},
		Node{ID: "menu-2", Group: "menu", Kind: KindGeneric, Visible: true, Rect: Rect{X: 400, Y: 240, W: 100, H: 30}},
	)
	n, scene, clock := newTestNavigator(nodes)
	n.MoveTo("row1-a", Down)

	n.PushModal("menu")
	assert.Equal(t, NodeID("menu-1"), n.FocusedID())

	// Page nodes are unreachable while the modal is open.
	*clock = clock.Add(time.Second)
	n.HandleKey(KeyEvent{Key: KeyDown})
	assert.Equal(t, NodeID("menu-2"), n.FocusedID())

	*clock = clock.Add(time.Second)
	n.HandleKey(KeyEvent{Key: KeyDown})
	assert.Equal(t, NodeID("menu-2"), n.FocusedID())

	// Back closes the modal; once the UI removes the menu nodes and reports
	// the re-render, page focus is re-established.
	n.HandleKey(KeyEvent{Key: KeyBack})
	assert.False(t, n.ModalOpen())
	scene.nodes = homeNodes()
	n.EnsureFocus()
	assert.Equal(t, NodeID("nav-search"), n.FocusedID())
}

func TestActivateInvokesHandler(t *testing.T) {
	var activated NodeID
	n, _, _ := newTestNavigator(homeNodes(), WithActivateHandler(func(id NodeID) {
		activated = id
	}))
	n.MoveTo("play", Down)

	n.HandleKey(KeyEvent{Key: KeyEnter})
	assert.Equal(t, NodeID("play"), activated)
}

func TestBackHandlerChain(t *testing.T) {
	handled := false
	historyCalls := 0
	home := false
	n, _, _ := newTestNavigator(homeNodes(),
		WithBackHandler(func() bool { return handled }),
		WithHistoryBack(func() { historyCalls++ }),
		WithHomeCheck(func() bool { return home }),
	)

	// Caller handler declines: history fallback runs.
	n.HandleKey(KeyEvent{Key: KeyBack})
	assert.Equal(t, 1, historyCalls)

	// Caller handler consumes the event.
	handled = true
	n.HandleKey(KeyEvent{Key: KeyBack})
	assert.Equal(t, 1, historyCalls)

	// On home, back is suppressed entirely.
	handled = false
	home = true
	n.HandleKey(KeyEvent{Key: KeyBack})
	assert.Equal(t, 1, historyCalls)
}
