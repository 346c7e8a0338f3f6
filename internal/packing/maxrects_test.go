package packing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertSingleRect(t *testing.T) {
	m := NewMaxRects(64, 64)
	r, ok := m.Insert(10, 10, false)
	require.True(t, ok)
	require.Equal(t, Rect{0, 0, 10, 10}, r)
}

func TestInsertFailsWhenTooBig(t *testing.T) {
	m := NewMaxRects(64, 64)
	_, ok := m.Insert(65, 10, false)
	require.False(t, ok)

	_, ok = m.Insert(65, 10, true)
	require.False(t, ok)
}

func TestInsertRotatesWhenItHelps(t *testing.T) {
	m := NewMaxRects(64, 16)
	r, ok := m.Insert(8, 32, true)
	require.True(t, ok)
	// 8x32 doesn't fit in 64x16 unrotated (32 > 16), but 32x8 does.
	require.Equal(t, 32, r.W)
	require.Equal(t, 8, r.H)
}

func TestInsertDoesNotRotateWithoutPermission(t *testing.T) {
	m := NewMaxRects(64, 16)
	_, ok := m.Insert(8, 32, false)
	require.False(t, ok)
}

func TestNoOverlapAcrossMultipleInserts(t *testing.T) {
	m := NewMaxRects(64, 64)
	var placed []Rect
	for i := 0; i < 10; i++ {
		r, ok := m.Insert(12, 12, false)
		if !ok {
			break
		}
		placed = append(placed, r)
	}
	require.NotEmpty(t, placed)
	for i := range placed {
		for j := range placed {
			if i == j {
				continue
			}
			require.False(t, overlaps(placed[i], placed[j]), "rects %v and %v overlap", placed[i], placed[j])
		}
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}
