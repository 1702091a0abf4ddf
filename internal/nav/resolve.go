package nav

const (
	// viewportMargin tolerates off-screen carousel items when collecting
	// focusable candidates.
	viewportMargin = 600.0

	// sameRowBand is the vertical band within which two nodes are treated as
	// sharing a visual row even when their containers are imperfectly aligned.
	sameRowBand = 80.0

	// axisThresholdRow is the primary-axis qualification threshold for
	// candidates sharing the current node's row container.
	axisThresholdRow = 1.0

	// axisThreshold is the looser threshold for cross-row geometric candidates.
	axisThreshold = 8.0

	// secondaryWeight is the fraction of secondary-axis distance added to the
	// score.
	secondaryWeight = 0.3
)

// ComputeFocusableSet filters the scene's nodes down to the focusable
// candidates: visible, non-empty, and within a generous margin of the
// viewport. Order is preserved. No side effects.
func ComputeFocusableSet(nodes []Node, viewport Rect) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !n.Visible || n.Rect.Empty() {
			continue
		}
		if n.Rect.X+n.Rect.W < viewport.X-viewportMargin ||
			n.Rect.X > viewport.X+viewport.W+viewportMargin ||
			n.Rect.Y+n.Rect.H < viewport.Y-viewportMargin ||
			n.Rect.Y > viewport.Y+viewport.H+viewportMargin {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ResolveNext computes which node should receive focus when moving in dir from
// the current node. It never returns the current node; ok is false when no
// candidate qualifies, in which case focus should not move. Deterministic for
// fixed geometry; ties break by node order.
func ResolveNext(nodes []Node, currentID NodeID, dir Direction) (NodeID, bool) {
	cur, found := findNode(nodes, currentID)
	if !found {
		return "", false
	}

	// Row-order resolution first: within a carousel, sibling order is more
	// robust than geometry.
	if dir.Horizontal() && cur.Row != "" {
		if id, ok := resolveByRowOrder(nodes, cur, dir); ok {
			return id, true
		}
	}

	return resolveGeometric(nodes, cur, dir)
}

func findNode(nodes []Node, id NodeID) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// resolveByRowOrder picks the next or previous sibling within the current
// node's row container by insertion order.
func resolveByRowOrder(nodes []Node, cur Node, dir Direction) (NodeID, bool) {
	var prev NodeID
	var seen bool
	for _, n := range nodes {
		if n.Row != cur.Row || n.Kind != cur.Kind {
			continue
		}
		if n.ID == cur.ID {
			if dir == Left {
				if prev != "" {
					return prev, true
				}
				return "", false
			}
			seen = true
			continue
		}
		if seen {
			// First same-row sibling after the current one.
			return n.ID, true
		}
		prev = n.ID
	}
	return "", false
}

// firstCardOfRow reports whether n is the leftmost card of its row container.
func firstCardOfRow(nodes []Node, n Node) bool {
	if n.Kind != KindCard || n.Row == "" {
		return false
	}
	for _, o := range nodes {
		if o.Row == n.Row && o.Kind == KindCard && o.Rect.X < n.Rect.X {
			return false
		}
	}
	return true
}

func resolveGeometric(nodes []Node, cur Node, dir Direction) (NodeID, bool) {
	var best NodeID
	bestScore := 0.0
	qualified := false

	for _, cand := range nodes {
		if cand.ID == cur.ID {
			continue
		}

		dx := cand.Rect.CenterX() - cur.Rect.CenterX()
		dy := cand.Rect.CenterY() - cur.Rect.CenterY()

		score, ok := scoreCandidate(nodes, cur, cand, dir, dx, dy)
		if !ok {
			continue
		}
		if !qualified || score < bestScore {
			qualified = true
			best = cand.ID
			bestScore = score
		}
	}

	return best, qualified
}

func scoreCandidate(nodes []Node, cur, cand Node, dir Direction, dx, dy float64) (float64, bool) {
	sameRow := cur.Row != "" && cand.Row == cur.Row

	var primary, secondary float64
	switch dir {
	case Left, Right:
		threshold := axisThreshold
		if sameRow {
			threshold = axisThresholdRow
		}
		if dir == Right && dx <= threshold {
			return 0, false
		}
		if dir == Left && -dx <= threshold {
			return 0, false
		}
		// Keep horizontal intent: only nodes roughly on the same visual row
		// qualify for horizontal moves.
		if !sameRow && abs(dy) > sameRowBand {
			return 0, false
		}
		primary, secondary = abs(dx), abs(dy)
	case Up, Down:
		if dir == Down && dy <= axisThreshold {
			return 0, false
		}
		if dir == Up && -dy <= axisThreshold {
			return 0, false
		}
		primary, secondary = abs(dy), abs(dx)
	}

	score := primary + secondaryWeight*secondary

	if dir.Horizontal() {
		// Strongly prefer staying within the same row container.
		if sameRow {
			score *= 0.25
		}
		return score, true
	}

	// Vertical structural preferences.
	switch {
	case cand.Kind == KindRowHeader && cur.Kind == KindCard && cand.Row == cur.Row:
		// A row's own header wins over cards of other rows, both moving up
		// into it and down past the cards.
		score *= 0.5
	case cur.Kind == KindRowHeader || cur.Kind == KindNavBar:
		if dir == Down {
			if cand.Kind == KindRowHeader {
				score *= 1.5
			} else if firstCardOfRow(nodes, cand) {
				score *= 0.6
			}
		}
	}

	// Land remote users on the main call-to-action.
	if cand.Kind == KindPrimary {
		if (dir == Down && cur.Kind == KindNavBar) || (dir == Up && cur.Kind == KindCard) {
			score *= 0.3
		}
	}

	return score, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
