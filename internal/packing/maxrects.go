package packing

// Rect is an axis-aligned rectangle on a single atlas page.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) empty() bool {
	return r.W == 0 || r.H == 0
}

// MaxRects is a single bin implementing the MaxRects free-rectangle
// bin-packing heuristic (BestShortSideFit selection, optional rotation).
// It is not safe for concurrent use — the packer driving it is required to
// stay strictly sequential (spec §5).
type MaxRects struct {
	binW, binH int
	free       []Rect
}

// NewMaxRects creates an empty bin of size w×h.
func NewMaxRects(w, h int) *MaxRects {
	return &MaxRects{binW: w, binH: h, free: []Rect{{0, 0, w, h}}}
}

// Insert attempts to place a w×h rectangle using BestShortSideFit, trying
// both orientations if allowRotate is set. It returns the placed rectangle
// (whose W/H reflect the chosen orientation) and true on success, or a
// zero Rect and false if no free rectangle admits the piece.
func (m *MaxRects) Insert(w, h int, allowRotate bool) (Rect, bool) {
	best, found := m.findBest(w, h, allowRotate)
	if !found {
		return Rect{}, false
	}
	m.place(best)
	return best, true
}

// findBest scans the free list in order, keeping the first strictly-best
// candidate by (shortSideResidual, longSideResidual). Equal scores across
// different free rectangles resolve to "first-fit in list order". Within a
// single free rectangle the non-rotated orientation is tried first, and the
// rotated orientation wins an exact tie with it.
func (m *MaxRects) findBest(w, h int, allowRotate bool) (Rect, bool) {
	bestShort, bestLong := -1, -1
	var best Rect
	found := false

	consider := func(x, y, rw, rh, freeW, freeH int, winTie bool) bool {
		leftoverW := freeW - rw
		leftoverH := freeH - rh
		short, long := leftoverW, leftoverH
		if short > long {
			short, long = long, short
		}
		if !found || short < bestShort || (short == bestShort && (long < bestLong || (winTie && long == bestLong))) {
			bestShort, bestLong = short, long
			best = Rect{X: x, Y: y, W: rw, H: rh}
			found = true
			return true
		}
		return false
	}

	for _, f := range m.free {
		tookUpright := false
		if f.W >= w && f.H >= h {
			tookUpright = consider(f.X, f.Y, w, h, f.W, f.H, false)
		}
		if allowRotate && f.W >= h && f.H >= w {
			consider(f.X, f.Y, h, w, f.W, f.H, tookUpright)
		}
	}

	return best, found
}

// place commits a rectangle into the bin: every free rectangle overlapping
// placed is split into its non-overlapping maximal remainders, and the
// resulting list is pruned of any rectangle contained in another.
func (m *MaxRects) place(placed Rect) {
	var next []Rect
	for _, f := range m.free {
		if nodes, split := splitFreeNode(f, placed); split {
			next = append(next, nodes...)
		} else {
			next = append(next, f)
		}
	}
	m.free = pruneFreeList(next)
}

// splitFreeNode replaces freeNode with the (up to four) maximal
// sub-rectangles that remain once usedNode is carved out of it.
func splitFreeNode(freeNode, usedNode Rect) ([]Rect, bool) {
	if usedNode.X >= freeNode.X+freeNode.W || usedNode.X+usedNode.W <= freeNode.X ||
		usedNode.Y >= freeNode.Y+freeNode.H || usedNode.Y+usedNode.H <= freeNode.Y {
		return nil, false
	}

	var out []Rect

	if usedNode.X < freeNode.X+freeNode.W && usedNode.X+usedNode.W > freeNode.X {
		if usedNode.Y > freeNode.Y && usedNode.Y < freeNode.Y+freeNode.H {
			n := freeNode
			n.H = usedNode.Y - n.Y
			out = append(out, n)
		}
		if usedNode.Y+usedNode.H < freeNode.Y+freeNode.H {
			n := freeNode
			n.Y = usedNode.Y + usedNode.H
			n.H = freeNode.Y + freeNode.H - n.Y
			out = append(out, n)
		}
	}

	if usedNode.Y < freeNode.Y+freeNode.H && usedNode.Y+usedNode.H > freeNode.Y {
		if usedNode.X > freeNode.X && usedNode.X < freeNode.X+freeNode.W {
			n := freeNode
			n.W = usedNode.X - n.X
			out = append(out, n)
		}
		if usedNode.X+usedNode.W < freeNode.X+freeNode.W {
			n := freeNode
			n.X = usedNode.X + usedNode.W
			n.W = freeNode.X + freeNode.W - n.X
			out = append(out, n)
		}
	}

	return out, true
}

// pruneFreeList removes every empty rectangle and every rectangle contained
// within another; of two identical rectangles, one is kept.
func pruneFreeList(rects []Rect) []Rect {
	for i := 0; i < len(rects); i++ {
		if rects[i].empty() {
			rects = append(rects[:i], rects[i+1:]...)
			i--
			continue
		}
		for j := i + 1; j < len(rects); j++ {
			if containedIn(rects[i], rects[j]) {
				rects = append(rects[:i], rects[i+1:]...)
				i--
				break
			}
			if containedIn(rects[j], rects[i]) {
				rects = append(rects[:j], rects[j+1:]...)
				j--
			}
		}
	}
	return rects
}

func containedIn(a, b Rect) bool {
	return a.X >= b.X && a.Y >= b.Y && a.X+a.W <= b.X+b.W && a.Y+a.H <= b.Y+b.H
}
