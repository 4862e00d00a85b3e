package skeleton

import (
	"math"
	"testing"
)

func TestChainTranslationSums(t *testing.T) {
	modes := []TransformMode{
		TransformNormal,
		TransformOnlyTranslation,
		TransformNoRotationOrReflection,
		TransformNoScale,
		TransformNoScaleOrReflection,
	}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			r := newRig()
			r.bone("root", "", nil)
			r.bone("a", "root", func(b *BoneData) { b.X, b.Y, b.TransformMode = 5, 3, mode })
			r.bone("b", "a", func(b *BoneData) { b.X, b.Y, b.TransformMode = 7, -2, mode })
			s := r.skeleton(t)
			s.UpdateWorldTransform()

			b := s.FindBone("b")
			assertApprox(t, "worldX", b.WorldX, 12)
			assertApprox(t, "worldY", b.WorldY, 1)
		})
	}
}

func TestRootChildGrandchild(t *testing.T) {
	r := newRig()
	r.bone("root", "", nil)
	r.bone("a", "root", at(10, 0))
	r.bone("b", "a", at(10, 0))
	s := r.skeleton(t)

	for _, b := range s.Bones() {
		b.UpdateWorldTransform()
	}
	b := s.FindBone("b")
	if b.WorldX != 20 || b.WorldY != 0 {
		t.Fatalf("b world = (%v, %v), want (20, 0)", b.WorldX, b.WorldY)
	}
}

func TestUpdateAppliedTransformInverts(t *testing.T) {
	tests := []struct {
		name                      string
		x, y, rot, sx, sy, shearY float64
		parentRot, parentScale    float64
	}{
		{"identity", 0, 0, 0, 1, 1, 0, 0, 1},
		{"translated", 12, -4, 0, 1, 1, 0, 0, 1},
		{"rotated", 3, 4, 135, 1, 1, 0, 0, 1},
		{"scaled", -2, 7, -60, 2.5, 0.5, 0, 0, 1},
		{"sheared", 1, 1, 20, 1.5, 1, 15, 0, 1},
		{"under rotated parent", 5, 5, 30, 1, 2, 0, 75, 1},
		{"under scaled parent", 5, -5, -150, 0.75, 1.25, 0, -40, 3},
		{"under rotated scaled parent", 3, 4, 30, 1, 1, 0, 60, 2},
		{"sheared under rotated scaled parent", -6, 2, 110, 0.5, 1.5, -25, 60, 2},
	}
	modes := []TransformMode{
		TransformNormal,
		TransformOnlyTranslation,
		TransformNoRotationOrReflection,
		TransformNoScale,
		TransformNoScaleOrReflection,
	}
	for _, tt := range tests {
		for _, mode := range modes {
			t.Run(tt.name+"/"+mode.String(), func(t *testing.T) {
				r := newRig()
				r.bone("root", "", func(b *BoneData) {
					b.Rotation = tt.parentRot
					b.ScaleX, b.ScaleY = tt.parentScale, tt.parentScale
				})
				r.bone("child", "root", func(b *BoneData) { b.TransformMode = mode })
				s := r.skeleton(t)
				s.X, s.Y = 3, -8
				s.ScaleX, s.ScaleY = 1.5, 0.8
				s.UpdateWorldTransform()

				for _, b := range s.Bones() {
					bx, by, brot, bsx, bsy := tt.x, tt.y, tt.rot, tt.sx, tt.sy
					if b.Parent() == nil {
						bx, by, brot = -tt.x, tt.y*2, tt.rot/3
					}
					b.UpdateWorldTransformWith(bx, by, brot, bsx, bsy, 0, tt.shearY)
					if b.Parent() == nil {
						// children depend on the root's new world transform
						s.FindBone("child").Update()
					}
					b.UpdateAppliedTransform()
					assertApprox(t, b.Data().Name+" ax", b.AX, bx)
					assertApprox(t, b.Data().Name+" ay", b.AY, by)
					assertApprox(t, b.Data().Name+" arotation", b.ARotation, brot)
					assertApprox(t, b.Data().Name+" ascaleX", b.AScaleX, bsx)
					assertApprox(t, b.Data().Name+" ascaleY", b.AScaleY, bsy)
					assertApprox(t, b.Data().Name+" ashearY", b.AShearY, tt.shearY)
				}
			})
		}
	}
}

// A world matrix written directly must survive a round trip through the
// applied pose under every mode.
func TestUpdateAppliedTransformReproducesWorld(t *testing.T) {
	modes := []TransformMode{
		TransformOnlyTranslation,
		TransformNoRotationOrReflection,
		TransformNoScale,
		TransformNoScaleOrReflection,
	}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			r := newRig()
			r.bone("root", "", func(b *BoneData) { b.Rotation, b.ScaleX, b.ScaleY = 60, 2, 2 })
			r.bone("child", "root", func(b *BoneData) {
				b.X, b.Y, b.Rotation, b.TransformMode = 3, 4, 30, mode
			})
			s := r.skeleton(t)
			s.UpdateWorldTransform()

			c := s.FindBone("child")
			c.RotateWorld(40)
			wa, wb, wc, wd := c.A, c.B, c.C, c.D
			c.UpdateAppliedTransform()
			c.Update()
			assertApprox(t, "a", c.A, wa)
			assertApprox(t, "b", c.B, wb)
			assertApprox(t, "c", c.C, wc)
			assertApprox(t, "d", c.D, wd)
			assertApprox(t, "arotation", c.ARotation, 70)
		})
	}
}

func TestRotateWorld(t *testing.T) {
	r := newRig()
	r.bone("root", "", func(b *BoneData) { b.Rotation, b.ScaleX, b.ScaleY = 20, 2, 3 })
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	b := s.RootBone()
	x, y := b.WorldX, b.WorldY
	b.RotateWorld(90)
	assertApprox(t, "world rotationX", b.WorldRotationX(), 110)
	assertApprox(t, "world rotationY", b.WorldRotationY(), -160)
	assertApprox(t, "world scaleX", b.WorldScaleX(), 2)
	assertApprox(t, "world scaleY", b.WorldScaleY(), 3)
	assertApprox(t, "worldX", b.WorldX, x)
	assertApprox(t, "worldY", b.WorldY, y)
	// Only the world transform moves.
	assertApprox(t, "arotation", b.ARotation, 20)
}

func TestUpdateAppliedTransformNearSingular(t *testing.T) {
	r := newRig()
	r.bone("root", "", nil)
	s := r.skeleton(t)
	b := s.RootBone()
	b.UpdateWorldTransformWith(0, 0, 0, 0, 2, 0, 0)
	b.UpdateAppliedTransform()

	assertApprox(t, "ascaleX", b.AScaleX, 0)
	assertApprox(t, "ascaleY", b.AScaleY, 2)
	assertApprox(t, "ashearY", b.AShearY, 0)
	assertApprox(t, "arotation", b.ARotation, 0)
}

func TestTransformModes(t *testing.T) {
	parent := func(b *BoneData) {
		b.Rotation = 60
		b.ScaleX, b.ScaleY = 2, 2
	}
	tests := []struct {
		mode      TransformMode
		wantRot   float64
		wantScale float64
	}{
		{TransformNormal, 60, 2},
		{TransformOnlyTranslation, 0, 1},
		{TransformNoRotationOrReflection, 0, 2},
		{TransformNoScale, 60, 1},
		{TransformNoScaleOrReflection, 60, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			r := newRig()
			r.bone("root", "", parent)
			r.bone("child", "root", func(b *BoneData) { b.X, b.TransformMode = 4, tt.mode })
			s := r.skeleton(t)
			s.UpdateWorldTransform()

			c := s.FindBone("child")
			assertApprox(t, "world rotation", c.WorldRotationX(), tt.wantRot)
			assertApprox(t, "world scaleX", c.WorldScaleX(), tt.wantScale)
			// Translation always inherits the full parent transform.
			assertApprox(t, "worldX", c.WorldX, 8*math.Cos(math.Pi/3))
			assertApprox(t, "worldY", c.WorldY, 8*math.Sin(math.Pi/3))
		})
	}
}

func TestSkeletonScaleAndOffset(t *testing.T) {
	r := newRig()
	r.bone("root", "", at(2, 3))
	r.bone("child", "root", at(1, 1))
	s := r.skeleton(t)
	s.X, s.Y = 100, 50
	s.ScaleX, s.ScaleY = 2, -1
	s.UpdateWorldTransform()

	root := s.RootBone()
	assertApprox(t, "root worldX", root.WorldX, 104)
	assertApprox(t, "root worldY", root.WorldY, 47)
	assertApprox(t, "root a", root.A, 2)
	assertApprox(t, "root d", root.D, -1)

	child := s.FindBone("child")
	assertApprox(t, "child worldX", child.WorldX, 106)
	assertApprox(t, "child worldY", child.WorldY, 46)
}

func TestWorldLocalRoundTrip(t *testing.T) {
	r := newRig()
	r.bone("root", "", func(b *BoneData) { b.Rotation, b.ScaleX, b.ShearY = 33, 1.7, 12 })
	r.bone("child", "root", func(b *BoneData) { b.X, b.Rotation = 6, -80 })
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	c := s.FindBone("child")
	wx, wy := c.LocalToWorld(3, -2)
	lx, ly := c.WorldToLocal(wx, wy)
	assertApprox(t, "local x", lx, 3)
	assertApprox(t, "local y", ly, -2)

	rot := c.LocalToWorldRotation(25)
	assertApprox(t, "local rotation", c.WorldToLocalRotation(rot), 25)
}

func TestWorldToLocalSingular(t *testing.T) {
	r := newRig()
	r.bone("root", "", func(b *BoneData) { b.ScaleX = 0 })
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	x, y := s.RootBone().WorldToLocal(1, 1)
	if !(math.IsNaN(x) || math.IsInf(x, 0)) || !(math.IsNaN(y) || math.IsInf(y, 0)) {
		t.Fatalf("WorldToLocal on singular bone = (%v, %v), want NaN or Inf", x, y)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	r := newRig()
	r.bone("root", "", func(b *BoneData) { b.Rotation = 10 })
	r.bone("child", "root", func(b *BoneData) { b.X, b.Rotation, b.ScaleY = 5, 45, 3 })
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	c := s.FindBone("child")
	before := [6]float64{c.A, c.B, c.C, c.D, c.WorldX, c.WorldY}
	c.Update()
	c.Update()
	after := [6]float64{c.A, c.B, c.C, c.D, c.WorldX, c.WorldY}
	if before != after {
		t.Fatalf("Update changed world transform: %v -> %v", before, after)
	}
}
