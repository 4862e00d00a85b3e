package skeleton

import "testing"

func TestPolygonContainsPoint(t *testing.T) {
	square := []float64{0, 0, 4, 0, 4, 4, 0, 4}
	// Concave "C" opening to the right.
	notch := []float64{0, 0, 6, 0, 6, 2, 2, 2, 2, 4, 6, 4, 6, 6, 0, 6}

	tests := []struct {
		name string
		poly []float64
		x, y float64
		want bool
	}{
		{"center", square, 2, 2, true},
		{"outside", square, 5, 2, false},
		{"above", square, 2, 4.5, false},
		{"arm", notch, 4, 1, true},
		{"inside notch", notch, 4, 3, false},
		{"spine", notch, 1, 3, true},
		{"degenerate", []float64{0, 0, 1, 1}, 0.5, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonContainsPoint(tt.poly, tt.x, tt.y); got != tt.want {
				t.Errorf("PolygonContainsPoint(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func boxRig() *rig {
	r := newRig()
	r.bone("root", "", nil)
	r.bone("hand", "root", at(10, 0))
	r.slot("hitbox", "hand").AttachmentName = "box"
	r.slot("sprite", "root").AttachmentName = "body"

	box := NewBoundingBoxAttachment("box")
	box.Vertices = []float64{0, 0, 4, 0, 4, 4, 0, 4}
	box.WorldVerticesLength = 8
	body := NewRegionAttachment("body")
	body.Width, body.Height = 2, 6
	body.UpdateOffset()

	def := NewSkin("default")
	def.SetAttachment(0, "box", box)
	def.SetAttachment(1, "body", body)
	r.data.DefaultSkin = def
	return r
}

func TestSkeletonBounds(t *testing.T) {
	s := boxRig().skeleton(t)
	s.UpdateWorldTransform()

	var b SkeletonBounds
	b.Update(s, true)
	if len(b.Polygons) != 1 {
		t.Fatalf("polygons = %d, want 1", len(b.Polygons))
	}
	assertApprox(t, "minX", b.MinX, 10)
	assertApprox(t, "maxY", b.MaxY, 4)
	if !b.AABBContainsPoint(12, 2) || b.AABBContainsPoint(2, 2) {
		t.Fatal("AABB test disagrees with the box")
	}
	if got := b.ContainsPoint(12, 2); got == nil || got.Name() != "box" {
		t.Fatalf("ContainsPoint(12, 2) = %v, want box", got)
	}
	if b.ContainsPoint(15, 2) != nil {
		t.Fatal("ContainsPoint outside the box returned a hit")
	}

	b.Update(s, false)
	if !b.AABBContainsPoint(-1e9, 1e9) {
		t.Fatal("AABB without recompute must contain everything")
	}
}

func TestSkeletonVisualBounds(t *testing.T) {
	s := boxRig().skeleton(t)
	s.UpdateWorldTransform()

	x, y, w, h, ok := s.Bounds()
	if !ok {
		t.Fatal("Bounds reported nothing visible")
	}
	assertApprox(t, "x", x, -1)
	assertApprox(t, "y", y, -3)
	assertApprox(t, "width", w, 2)
	assertApprox(t, "height", h, 6)

	if err := s.SetAttachment("sprite", ""); err != nil {
		t.Fatal(err)
	}
	if _, _, _, _, ok := s.Bounds(); ok {
		t.Fatal("Bounds with no visible attachments reported ok")
	}
}
