package clipping

import "slices"

// Triangulator splits simple polygons into triangles and merges the
// triangles back into convex pieces. Its scratch buffers are reused
// between calls, so one Triangulator must not be used concurrently.
type Triangulator struct {
	indices   []int
	concave   []bool
	triangles []int
}

// Triangulate ear-clips a simple polygon given as x,y pairs and returns
// the triangles as vertex indices. Triangles keep the polygon's winding.
// The returned slice is reused by the next call.
func (t *Triangulator) Triangulate(vertices []float64) []int {
	n := len(vertices) >> 1
	t.triangles = t.triangles[:0]
	if n < 3 {
		return t.triangles
	}
	orient := 1.0
	if signedArea(vertices) > 0 {
		orient = -1
	}

	t.indices = t.indices[:0]
	for i := range n {
		t.indices = append(t.indices, i)
	}
	t.concave = t.concave[:0]
	for i := range n {
		t.concave = append(t.concave, t.isConcave(i, n, vertices, orient))
	}

	indices, concave := t.indices, t.concave
	for n > 3 {
		prev, i, next := n-1, 0, 1
		for {
			if !concave[i] && !t.earHasVertex(prev, i, next, n, vertices, orient) {
				break
			}
			if next == 0 {
				for i > 0 && concave[i] {
					i--
				}
				break
			}
			prev, i, next = i, next, (next+1)%n
		}

		t.triangles = append(t.triangles, indices[(n+i-1)%n], indices[i], indices[(i+1)%n])
		indices = slices.Delete(indices, i, i+1)
		concave = slices.Delete(concave, i, i+1)
		t.indices, t.concave = indices, concave
		n--

		pi := (n + i - 1) % n
		ni := i
		if i == n {
			ni = 0
		}
		concave[pi] = t.isConcave(pi, n, vertices, orient)
		concave[ni] = t.isConcave(ni, n, vertices, orient)
	}
	if n == 3 {
		t.triangles = append(t.triangles, indices[2], indices[0], indices[1])
	}
	return t.triangles
}

// earHasVertex reports whether a concave vertex lies inside the candidate
// ear prev, i, next.
func (t *Triangulator) earHasVertex(prev, i, next, n int, vertices []float64, orient float64) bool {
	p1, p2, p3 := t.indices[prev]<<1, t.indices[i]<<1, t.indices[next]<<1
	p1x, p1y := vertices[p1], vertices[p1+1]
	p2x, p2y := vertices[p2], vertices[p2+1]
	p3x, p3y := vertices[p3], vertices[p3+1]
	for ii := (next + 1) % n; ii != prev; ii = (ii + 1) % n {
		if !t.concave[ii] {
			continue
		}
		v := t.indices[ii] << 1
		vx, vy := vertices[v], vertices[v+1]
		if turns(p3x, p3y, p1x, p1y, vx, vy, orient) &&
			turns(p1x, p1y, p2x, p2y, vx, vy, orient) &&
			turns(p2x, p2y, p3x, p3y, vx, vy, orient) {
			return true
		}
	}
	return false
}

func (t *Triangulator) isConcave(index, n int, vertices []float64, orient float64) bool {
	prev := t.indices[(n+index-1)%n] << 1
	cur := t.indices[index] << 1
	next := t.indices[(index+1)%n] << 1
	return !turns(vertices[prev], vertices[prev+1], vertices[cur], vertices[cur+1],
		vertices[next], vertices[next+1], orient)
}

// turns reports whether p1, p2, p3 turn with the polygon's orientation,
// counting collinear points as turning.
func turns(p1x, p1y, p2x, p2y, p3x, p3y, orient float64) bool {
	return orient*(p1x*(p3y-p2y)+p2x*(p1y-p3y)+p3x*(p2y-p1y)) >= 0
}

// Decompose merges the triangles of a triangulated polygon into convex
// polygons. Each result is clockwise and closed: its first vertex is
// repeated at the end.
func (t *Triangulator) Decompose(vertices []float64, triangles []int) [][]float64 {
	var polygons [][]float64
	var polygonIndices [][]int
	var polygon []float64
	var indices []int

	// Merge consecutive triangles sharing a base vertex into fans.
	fanBase, lastWinding := -1, 0
	for i := 0; i+2 < len(triangles); i += 3 {
		t1, t2, t3 := triangles[i]<<1, triangles[i+1]<<1, triangles[i+2]<<1
		x1, y1 := vertices[t1], vertices[t1+1]
		x2, y2 := vertices[t2], vertices[t2+1]
		x3, y3 := vertices[t3], vertices[t3+1]

		merged := false
		if fanBase == t1 {
			o := len(polygon) - 4
			w1 := winding(polygon[o], polygon[o+1], polygon[o+2], polygon[o+3], x3, y3)
			w2 := winding(x3, y3, polygon[0], polygon[1], polygon[2], polygon[3])
			if w1 == lastWinding && w2 == lastWinding {
				polygon = append(polygon, x3, y3)
				indices = append(indices, t3)
				merged = true
			}
		}
		if !merged {
			if len(polygon) > 0 {
				polygons = append(polygons, polygon)
				polygonIndices = append(polygonIndices, indices)
			}
			polygon = []float64{x1, y1, x2, y2, x3, y3}
			indices = []int{t1, t2, t3}
			lastWinding = winding(x1, y1, x2, y2, x3, y3)
			fanBase = t1
		}
	}
	if len(polygon) > 0 {
		polygons = append(polygons, polygon)
		polygonIndices = append(polygonIndices, indices)
	}

	// Absorb lone triangles that extend a fan without breaking convexity.
	for i := range polygons {
		idx := polygonIndices[i]
		if len(idx) == 0 {
			continue
		}
		first, last := idx[0], idx[len(idx)-1]
		poly := polygons[i]
		o := len(poly) - 4
		prevPrevX, prevPrevY := poly[o], poly[o+1]
		prevX, prevY := poly[o+2], poly[o+3]
		firstX, firstY := poly[0], poly[1]
		secondX, secondY := poly[2], poly[3]
		w := winding(prevPrevX, prevPrevY, prevX, prevY, firstX, firstY)

		for ii := 0; ii < len(polygons); ii++ {
			if ii == i {
				continue
			}
			other := polygonIndices[ii]
			if len(other) != 3 || other[0] != first || other[1] != last {
				continue
			}
			otherPoly := polygons[ii]
			x3, y3 := otherPoly[len(otherPoly)-2], otherPoly[len(otherPoly)-1]
			if winding(prevPrevX, prevPrevY, prevX, prevY, x3, y3) != w ||
				winding(x3, y3, firstX, firstY, secondX, secondY) != w {
				continue
			}
			polygons[ii] = polygons[ii][:0]
			polygonIndices[ii] = polygonIndices[ii][:0]
			poly = append(poly, x3, y3)
			idx = append(idx, other[2])
			last = other[2]
			prevPrevX, prevPrevY = prevX, prevY
			prevX, prevY = x3, y3
			ii = -1
		}
		polygons[i] = poly
		polygonIndices[i] = idx
	}

	out := polygons[:0]
	for _, p := range polygons {
		if len(p) == 0 {
			continue
		}
		MakeClockwise(p)
		out = append(out, append(p, p[0], p[1]))
	}
	return out
}

func winding(p1x, p1y, p2x, p2y, p3x, p3y float64) int {
	px, py := p2x-p1x, p2y-p1y
	if p3x*py-p3y*px+px*p1y-p1x*py >= 0 {
		return 1
	}
	return -1
}

// signedArea returns twice the shoelace area of a polygon of x,y pairs.
// Clockwise polygons have a negative area.
func signedArea(p []float64) float64 {
	n := len(p)
	if n < 6 {
		return 0
	}
	area := p[n-2]*p[1] - p[0]*p[n-1]
	for i := 0; i+3 < n; i += 2 {
		area += p[i]*p[i+3] - p[i+2]*p[i+1]
	}
	return area
}

// MakeClockwise reverses the vertex order of a counter-clockwise polygon
// in place.
func MakeClockwise(p []float64) {
	if signedArea(p) < 0 {
		return
	}
	for i, j := 0, len(p)-2; i < j; i, j = i+2, j-2 {
		p[i], p[j] = p[j], p[i]
		p[i+1], p[j+1] = p[j+1], p[i+1]
	}
}
