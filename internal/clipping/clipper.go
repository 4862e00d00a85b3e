// Package clipping clips rendered attachment triangles against the convex
// pieces of a clipping attachment polygon.
package clipping

import (
	"math"

	"github.com/inamate/rig/internal/skeleton"
)

// Vertex layouts of ClippedVertices.
const (
	// Stride is x, y, r, g, b, a, u, v.
	Stride = 8
	// TwoColorStride appends the dark color r, g, b, a after the light color.
	TwoColorStride = 12
)

// parallelEpsilon is the cross product below which a triangle edge is
// treated as parallel to a clip edge.
const parallelEpsilon = 1e-6

// Clipper clips attachment triangles against the polygon of the active
// clipping attachment. A clip session starts at the clipping attachment's
// slot and ends at its end slot, or when ClipEnd is called.
type Clipper struct {
	triangulator Triangulator

	attachment *skeleton.ClippingAttachment
	polygon    []float64
	polygons   [][]float64

	clipOutput []float64
	scratch    []float64

	vertices  []float64
	triangles []int
}

// ClipStart begins clipping against clip, posed by slot. It does nothing
// while a session is already active. It returns the number of convex
// polygons the clip region was split into; zero means nothing is clipped.
func (c *Clipper) ClipStart(slot *skeleton.Slot, clip *skeleton.ClippingAttachment) int {
	if c.attachment != nil || clip == nil {
		return 0
	}
	n := clip.WorldVerticesLength
	if n < 6 {
		return 0
	}
	c.attachment = clip

	c.polygon = grow(c.polygon, n)
	clip.ComputeWorldVertices(slot, 0, n, c.polygon, 0, 2)
	MakeClockwise(c.polygon)
	triangles := c.triangulator.Triangulate(c.polygon)
	c.polygons = c.triangulator.Decompose(c.polygon, triangles)
	return len(c.polygons)
}

// ClipEndWithSlot ends the session if slot is the clip's end slot.
func (c *Clipper) ClipEndWithSlot(slot *skeleton.Slot) {
	if c.attachment != nil && c.attachment.EndSlot == slot.Data().Index {
		c.ClipEnd()
	}
}

// ClipEnd ends the session. Calling it without an active session is a
// no-op, so it is safe to defer.
func (c *Clipper) ClipEnd() {
	if c.attachment == nil {
		return
	}
	c.attachment = nil
	c.polygons = nil
	c.polygon = c.polygon[:0]
	c.vertices = c.vertices[:0]
	c.triangles = c.triangles[:0]
}

// IsClipping reports whether a clip session is active.
func (c *Clipper) IsClipping() bool { return c.attachment != nil }

// Polygons returns the convex, clockwise, closed pieces of the active clip
// region.
func (c *Clipper) Polygons() [][]float64 { return c.polygons }

// ClippedVertices returns the output of the last ClipTriangles call, laid
// out per Stride or TwoColorStride.
func (c *Clipper) ClippedVertices() []float64 { return c.vertices }

// ClippedTriangles returns the triangle indices of the last ClipTriangles
// call into ClippedVertices.
func (c *Clipper) ClippedTriangles() []int { return c.triangles }

// Mesh is one attachment's world-space geometry.
type Mesh struct {
	// Vertices and UVs are x,y and u,v pairs, one pair per vertex.
	Vertices  []float64
	UVs       []float64
	Triangles []int
	// Colors optionally holds a light color per vertex. Light is used for
	// every vertex when it is nil.
	Colors []skeleton.Color
	Light  skeleton.Color
	Dark   skeleton.Color
}

func (m *Mesh) color(i int) skeleton.Color {
	if m.Colors == nil {
		return m.Light
	}
	return m.Colors[i]
}

// ClipTriangles clips every triangle of m against every convex clip
// polygon. Colors and UVs of new vertices are interpolated
// barycentrically. With twoColor the dark color is written too.
func (c *Clipper) ClipTriangles(m *Mesh, twoColor bool) {
	c.vertices = c.vertices[:0]
	c.triangles = c.triangles[:0]

	index := 0
	tris := m.Triangles
outer:
	for i := 0; i+2 < len(tris); i += 3 {
		i1, i2, i3 := tris[i], tris[i+1], tris[i+2]
		x1, y1 := m.Vertices[i1<<1], m.Vertices[i1<<1+1]
		x2, y2 := m.Vertices[i2<<1], m.Vertices[i2<<1+1]
		x3, y3 := m.Vertices[i3<<1], m.Vertices[i3<<1+1]

		for _, polygon := range c.polygons {
			if !c.Clip(x1, y1, x2, y2, x3, y3, polygon) {
				// Entirely inside this piece, so no other piece holds any of it.
				for _, vi := range [3]int{i1, i2, i3} {
					c.vertices = appendVertex(c.vertices, m.Vertices[vi<<1], m.Vertices[vi<<1+1],
						m.color(vi), m.Dark, m.UVs[vi<<1], m.UVs[vi<<1+1], twoColor)
				}
				c.triangles = append(c.triangles, index, index+1, index+2)
				index += 3
				continue outer
			}
			out := c.clipOutput
			count := len(out) >> 1
			if count < 3 {
				continue
			}

			d0, d1, d2, d4 := y2-y3, x3-x2, x1-x3, y3-y1
			d := 1 / (d0*d2 + d1*(y1-y3))
			c1, c2, c3 := m.color(i1), m.color(i2), m.color(i3)
			for ii := 0; ii < len(out); ii += 2 {
				x, y := out[ii], out[ii+1]
				cx, cy := x-x3, y-y3
				a := (d0*cx + d1*cy) * d
				b := (d4*cx + d2*cy) * d
				g := 1 - a - b
				col := skeleton.Color{
					R: c1.R*a + c2.R*b + c3.R*g,
					G: c1.G*a + c2.G*b + c3.G*g,
					B: c1.B*a + c2.B*b + c3.B*g,
					A: c1.A*a + c2.A*b + c3.A*g,
				}
				u := m.UVs[i1<<1]*a + m.UVs[i2<<1]*b + m.UVs[i3<<1]*g
				v := m.UVs[i1<<1+1]*a + m.UVs[i2<<1+1]*b + m.UVs[i3<<1+1]*g
				c.vertices = appendVertex(c.vertices, x, y, col, m.Dark, u, v, twoColor)
			}
			for ii := 1; ii < count-1; ii++ {
				c.triangles = append(c.triangles, index, index+ii, index+ii+1)
			}
			index += count
		}
	}
}

func appendVertex(dst []float64, x, y float64, light, dark skeleton.Color, u, v float64, twoColor bool) []float64 {
	dst = append(dst, x, y, light.R, light.G, light.B, light.A)
	if twoColor {
		dst = append(dst, dark.R, dark.G, dark.B, dark.A)
	}
	return append(dst, u, v)
}

// Clip clips the triangle against one convex, clockwise, closed polygon
// and leaves the result in ClipOutput. It returns false, with an empty
// output, when the triangle lies entirely inside the polygon. It returns
// true with an empty output when the triangle lies entirely outside.
func (c *Clipper) Clip(x1, y1, x2, y2, x3, y3 float64, polygon []float64) bool {
	input := append(c.scratch[:0], x1, y1, x2, y2, x3, y3, x1, y1)
	output := c.clipOutput[:0]
	clipped := false

	last := len(polygon) - 4
	for i := 0; i <= last; i += 2 {
		edgeX, edgeY := polygon[i], polygon[i+1]
		edgeX2, edgeY2 := polygon[i+2], polygon[i+3]
		deltaX, deltaY := edgeX-edgeX2, edgeY-edgeY2

		output = output[:0]
		for ii := 0; ii+3 < len(input); ii += 2 {
			inX, inY := input[ii], input[ii+1]
			inX2, inY2 := input[ii+2], input[ii+3]
			side2 := deltaX*(inY2-edgeY2)-deltaY*(inX2-edgeX2) > 0
			if deltaX*(inY-edgeY2)-deltaY*(inX-edgeX2) > 0 {
				if side2 {
					output = append(output, inX2, inY2)
					continue
				}
				output = appendIntersection(output, edgeX, edgeY, edgeX2, edgeY2, inX, inY, inX2, inY2)
			} else if side2 {
				output = appendIntersection(output, edgeX, edgeY, edgeX2, edgeY2, inX, inY, inX2, inY2)
				output = append(output, inX2, inY2)
			}
			clipped = true
		}

		if len(output) == 0 {
			c.scratch, c.clipOutput = input, output
			return true
		}
		output = append(output, output[0], output[1])
		input, output = output, input
	}

	// input holds the closed result after the final swap.
	c.scratch, c.clipOutput = output, input
	if !clipped {
		c.clipOutput = c.clipOutput[:0]
		return false
	}
	c.clipOutput = c.clipOutput[:len(c.clipOutput)-2]
	return true
}

// ClipOutput returns the polygon produced by the last Clip call as x,y
// pairs, not closed.
func (c *Clipper) ClipOutput() []float64 { return c.clipOutput }

func appendIntersection(dst []float64, edgeX, edgeY, edgeX2, edgeY2, inX, inY, inX2, inY2 float64) []float64 {
	c0, c2 := inY2-inY, inX2-inX
	s := c0*(edgeX2-edgeX) - c2*(edgeY2-edgeY)
	if math.Abs(s) <= parallelEpsilon {
		return append(dst, edgeX, edgeY)
	}
	ua := (c2*(edgeY-inY) - c0*(edgeX-inX)) / s
	return append(dst, edgeX+(edgeX2-edgeX)*ua, edgeY+(edgeY2-edgeY)*ua)
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
