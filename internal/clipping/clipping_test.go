package clipping

import (
	"math"
	"slices"
	"testing"

	"github.com/inamate/rig/internal/skeleton"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func triangleArea(v []float64, i1, i2, i3 int) float64 {
	x1, y1 := v[i1*2], v[i1*2+1]
	x2, y2 := v[i2*2], v[i2*2+1]
	x3, y3 := v[i3*2], v[i3*2+1]
	return ((x2-x1)*(y3-y1) - (x3-x1)*(y2-y1)) / 2
}

func regularPolygon(n int, ccw bool) []float64 {
	var p []float64
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		if !ccw {
			a = -a
		}
		p = append(p, 10*math.Cos(a), 10*math.Sin(a))
	}
	return p
}

// notch is a concave "C" opening to the right, listed counter-clockwise.
var notch = []float64{0, 0, 6, 0, 6, 2, 2, 2, 2, 4, 6, 4, 6, 6, 0, 6}

func checkTriangulation(t *testing.T, poly []float64, tris []int) {
	t.Helper()
	n := len(poly) / 2
	if len(tris) != 3*(n-2) {
		t.Fatalf("got %d triangles, want %d", len(tris)/3, n-2)
	}
	polyArea := signedArea(poly) / 2
	var sum float64
	for i := 0; i < len(tris); i += 3 {
		a := triangleArea(poly, tris[i], tris[i+1], tris[i+2])
		if math.Signbit(a) != math.Signbit(polyArea) && math.Abs(a) > epsilon {
			t.Errorf("triangle %d has area %v, against polygon area %v", i/3, a, polyArea)
		}
		sum += a
	}
	if !near(sum, polyArea) {
		t.Errorf("triangle area sum = %v, want %v", sum, polyArea)
	}
}

func TestTriangulateConvex(t *testing.T) {
	for _, n := range []int{3, 4, 5, 8, 13} {
		for _, ccw := range []bool{true, false} {
			var tr Triangulator
			poly := regularPolygon(n, ccw)
			checkTriangulation(t, poly, slices.Clone(tr.Triangulate(poly)))
		}
	}
}

func TestTriangulateConcave(t *testing.T) {
	var tr Triangulator
	for _, ccw := range []bool{true, false} {
		poly := slices.Clone(notch)
		if !ccw {
			MakeClockwise(poly)
		}
		tris := slices.Clone(tr.Triangulate(poly))
		checkTriangulation(t, poly, tris)
		for i := 0; i < len(tris); i += 3 {
			var cx, cy float64
			for _, vi := range tris[i : i+3] {
				cx += poly[vi*2] / 3
				cy += poly[vi*2+1] / 3
			}
			if !skeleton.PolygonContainsPoint(poly, cx, cy) {
				t.Errorf("triangle %v lies outside the polygon", tris[i:i+3])
			}
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	var tr Triangulator
	if got := tr.Triangulate([]float64{0, 0, 1, 1}); len(got) != 0 {
		t.Fatalf("two points triangulated to %v", got)
	}
}

func TestMakeClockwise(t *testing.T) {
	p := regularPolygon(5, true)
	MakeClockwise(p)
	if signedArea(p) >= 0 {
		t.Fatal("polygon is still counter-clockwise")
	}
	before := slices.Clone(p)
	MakeClockwise(p)
	if !slices.Equal(p, before) {
		t.Fatal("clockwise polygon was changed")
	}
}

func TestDecomposeConvexPieces(t *testing.T) {
	var tr Triangulator
	poly := slices.Clone(notch)
	MakeClockwise(poly)
	pieces := tr.Decompose(poly, slices.Clone(tr.Triangulate(poly)))
	if len(pieces) < 2 {
		t.Fatalf("concave polygon decomposed into %d pieces", len(pieces))
	}

	var total float64
	for i, piece := range pieces {
		n := len(piece)
		if piece[0] != piece[n-2] || piece[1] != piece[n-1] {
			t.Fatalf("piece %d is not closed: %v", i, piece)
		}
		open := piece[:n-2]
		area := signedArea(open)
		if area >= 0 {
			t.Errorf("piece %d is not clockwise: %v", i, piece)
		}
		total += area / 2
		m := len(open) / 2
		for v := range m {
			a, b, c := v, (v+1)%m, (v+2)%m
			if turn := winding(open[a*2], open[a*2+1], open[b*2], open[b*2+1], open[c*2], open[c*2+1]); turn != winding(open[0], open[1], open[2], open[3], open[4], open[5]) {
				t.Errorf("piece %d is not convex at vertex %d: %v", i, b, open)
			}
		}
	}
	if !near(math.Abs(total), 28) {
		t.Errorf("pieces cover area %v, want 28", math.Abs(total))
	}
}

func closedSquare(size float64) []float64 {
	p := []float64{0, 0, 0, size, size, size, size, 0}
	MakeClockwise(p)
	return append(p, p[0], p[1])
}

func TestClip(t *testing.T) {
	square := closedSquare(10)
	tests := []struct {
		name        string
		tri         [6]float64
		wantClipped bool
		wantArea    float64
	}{
		{"inside", [6]float64{2, 2, 8, 2, 2, 8}, false, 0},
		{"outside", [6]float64{20, 20, 30, 20, 20, 30}, true, 0},
		{"partial", [6]float64{5, 5, 15, 5, 5, 15}, true, 25},
		{"covers clip", [6]float64{-100, -100, 100, -100, 0, 100}, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Clipper
			v := tt.tri
			got := c.Clip(v[0], v[1], v[2], v[3], v[4], v[5], square)
			if got != tt.wantClipped {
				t.Fatalf("Clip = %v, want %v", got, tt.wantClipped)
			}
			out := c.ClipOutput()
			if tt.wantArea == 0 {
				if len(out) != 0 {
					t.Fatalf("output = %v, want empty", out)
				}
				return
			}
			if area := math.Abs(signedArea(out)) / 2; !near(area, tt.wantArea) {
				t.Fatalf("clipped area = %v, want %v (output %v)", area, tt.wantArea, out)
			}
		})
	}
}

func TestClipReusesBuffers(t *testing.T) {
	var c Clipper
	square := closedSquare(10)
	c.Clip(5, 5, 15, 5, 5, 15, square)
	first := math.Abs(signedArea(c.ClipOutput()))
	c.Clip(20, 20, 30, 20, 20, 30, square)
	c.Clip(5, 5, 15, 5, 5, 15, square)
	if again := math.Abs(signedArea(c.ClipOutput())); !near(first, again) {
		t.Fatalf("repeated clip area = %v, want %v", again, first)
	}
}

// clipRig builds a skeleton with a clip slot followed by two drawn slots.
// The clip ends at the first drawn slot.
func clipRig(t *testing.T) (*skeleton.Skeleton, *skeleton.ClippingAttachment) {
	t.Helper()
	data := skeleton.NewSkeletonData()
	root := skeleton.NewBoneData(0, "root", -1)
	root.X, root.Y = 100, 100
	data.Bones = append(data.Bones, root)
	for i, name := range []string{"clip", "body", "shadow"} {
		data.Slots = append(data.Slots, skeleton.NewSlotData(i, name, 0))
	}
	s, err := skeleton.NewSkeleton(data)
	if err != nil {
		t.Fatal(err)
	}
	s.UpdateWorldTransform()

	clip := skeleton.NewClippingAttachment("mask")
	clip.Vertices = []float64{0, 0, 10, 0, 10, 10, 0, 10}
	clip.WorldVerticesLength = 8
	clip.EndSlot = 1
	return s, clip
}

func TestClipSession(t *testing.T) {
	s, clip := clipRig(t)
	var c Clipper
	if c.IsClipping() {
		t.Fatal("new clipper is clipping")
	}
	if n := c.ClipStart(s.FindSlot("clip"), clip); n != 1 {
		t.Fatalf("ClipStart = %d polygons, want 1", n)
	}
	if !c.IsClipping() {
		t.Fatal("not clipping after ClipStart")
	}
	// The square follows the bone to (100, 100).
	if p := c.Polygons()[0]; slices.Min(evens(p)) != 100 {
		t.Fatalf("clip polygon not in world space: %v", p)
	}

	other := skeleton.NewClippingAttachment("other")
	other.Vertices = []float64{0, 0, 1, 0, 0, 1}
	other.WorldVerticesLength = 6
	if n := c.ClipStart(s.FindSlot("clip"), other); n != 0 {
		t.Fatal("nested ClipStart replaced the active clip")
	}

	c.ClipEndWithSlot(s.FindSlot("shadow"))
	if !c.IsClipping() {
		t.Fatal("session ended at a slot that is not the end slot")
	}
	c.ClipEndWithSlot(s.FindSlot("body"))
	if c.IsClipping() {
		t.Fatal("session did not end at the end slot")
	}
	c.ClipEnd()
	c.ClipEnd()
	if c.IsClipping() || c.Polygons() != nil {
		t.Fatal("ClipEnd left state behind")
	}
}

func TestClipStartRejectsSmallPolygon(t *testing.T) {
	s, _ := clipRig(t)
	line := skeleton.NewClippingAttachment("line")
	line.Vertices = []float64{0, 0, 1, 1}
	line.WorldVerticesLength = 4
	var c Clipper
	if n := c.ClipStart(s.FindSlot("clip"), line); n != 0 || c.IsClipping() {
		t.Fatal("ClipStart accepted a polygon with fewer than three vertices")
	}
}

func evens(p []float64) []float64 {
	var out []float64
	for i := 0; i < len(p); i += 2 {
		out = append(out, p[i])
	}
	return out
}

func TestClipTrianglesInterpolates(t *testing.T) {
	s, clip := clipRig(t)
	var c Clipper
	c.ClipStart(s.FindSlot("clip"), clip)
	defer c.ClipEnd()

	// One triangle straddling the clip edge, one fully inside.
	verts := []float64{105, 105, 115, 105, 105, 115, 101, 101, 103, 101, 101, 103}
	mesh := &Mesh{
		Vertices:  verts,
		Triangles: []int{0, 1, 2, 3, 4, 5},
		Dark:      skeleton.Color{R: 0.1, G: 0.2, B: 0.3, A: 1},
	}
	for i := 0; i < len(verts); i += 2 {
		// UVs and red are linear in position, so barycentric
		// interpolation must reproduce them exactly.
		mesh.UVs = append(mesh.UVs, verts[i]/200, verts[i+1]/200)
		mesh.Colors = append(mesh.Colors, skeleton.Color{R: (verts[i] - 100) / 20, G: 1, B: 1, A: 1})
	}

	for _, twoColor := range []bool{false, true} {
		c.ClipTriangles(mesh, twoColor)
		stride := Stride
		if twoColor {
			stride = TwoColorStride
		}
		out := c.ClippedVertices()
		if len(out)%stride != 0 {
			t.Fatalf("twoColor=%v: %d floats is not a multiple of %d", twoColor, len(out), stride)
		}
		count := len(out) / stride
		// Clipped square of four vertices plus the untouched triangle.
		if count != 7 {
			t.Fatalf("twoColor=%v: %d vertices, want 7", twoColor, count)
		}
		for v := range count {
			o := v * stride
			x, y := out[o], out[o+1]
			if x < 100-epsilon || x > 110+epsilon || y < 100-epsilon || y > 110+epsilon {
				t.Errorf("vertex (%v, %v) outside the clip", x, y)
			}
			if !near(out[o+2], (x-100)/20) {
				t.Errorf("red at (%v, %v) = %v, want %v", x, y, out[o+2], (x-100)/20)
			}
			if twoColor && out[o+8] != 0.3 {
				t.Errorf("dark blue = %v, want 0.3", out[o+7])
			}
			u, vv := out[o+stride-2], out[o+stride-1]
			if !near(u, x/200) || !near(vv, y/200) {
				t.Errorf("uv at (%v, %v) = (%v, %v)", x, y, u, vv)
			}
		}
		tris := c.ClippedTriangles()
		if len(tris) != 3*3 {
			t.Fatalf("twoColor=%v: %d triangles, want 3", twoColor, len(tris)/3)
		}
		for _, i := range tris {
			if i < 0 || i >= count {
				t.Fatalf("triangle index %d out of range", i)
			}
		}
	}
}
