package orrery

import "github.com/hajimehoshi/ebiten/v2"

// triangle is one projected, shaded triangle ready for submission.
type triangle struct {
	verts [3]ebiten.Vertex
	img   *ebiten.Image
	depth float64 // mean view depth of the three vertices
	order int     // submission order, for stability
}

// triangleLessOrEqual orders far triangles first. Using <= on order keeps
// the sort stable.
func triangleLessOrEqual(a, b *triangle) bool {
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.order <= b.order
}

// depthSorter sorts triangles back to front with a bottom-up merge sort. It
// keeps its scratch buffer between frames, so steady-state sorting does not
// allocate.
type depthSorter struct {
	buf []triangle
}

func (s *depthSorter) sort(tris []triangle) {
	n := len(tris)
	if n <= 1 {
		return
	}
	if cap(s.buf) < n {
		s.buf = make([]triangle, n)
	}
	s.buf = s.buf[:n]

	a, b := tris, s.buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(tris, s.buf)
	}
}

// mergeRun merges the sorted runs [lo, mid) and [mid, hi) of src into dst.
func mergeRun(src, dst []triangle, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if triangleLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:hi], src[i:mid])
	copy(dst[k:hi], src[j:hi])
}
