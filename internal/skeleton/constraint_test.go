package skeleton

import (
	"slices"
	"testing"
)

func transformRig(setup func(*TransformConstraintData)) *rig {
	r := newRig()
	r.bone("root", "", nil)
	r.bone("target", "root", func(b *BoneData) {
		b.X, b.Y, b.Rotation, b.ScaleX = 5, 5, 45, 2
	})
	r.bone("follower", "root", at(1, 0))
	tc := NewTransformConstraintData("copy")
	tc.Bones = []int{2}
	tc.Target = 1
	if setup != nil {
		setup(tc)
	}
	r.data.TransformConstraints = append(r.data.TransformConstraints, tc)
	return r
}

func TestTransformConstraintAbsoluteWorld(t *testing.T) {
	s := transformRig(func(tc *TransformConstraintData) {
		tc.MixX, tc.MixY, tc.MixScaleX, tc.MixScaleY, tc.MixShearY = 0, 0, 0, 0, 0
	}).skeleton(t)
	s.UpdateWorldTransform()

	f := s.FindBone("follower")
	assertApprox(t, "world rotation", f.WorldRotationX(), 45)
	assertApprox(t, "arotation", f.ARotation, 45)
	assertApprox(t, "worldX", f.WorldX, 1)
	assertApprox(t, "worldY", f.WorldY, 0)
}

func TestTransformConstraintFullMix(t *testing.T) {
	s := transformRig(func(tc *TransformConstraintData) {
		tc.OffsetX = 2
	}).skeleton(t)
	s.UpdateWorldTransform()

	f, target := s.FindBone("follower"), s.FindBone("target")
	wantX, wantY := target.LocalToWorld(2, 0)
	assertApprox(t, "worldX", f.WorldX, wantX)
	assertApprox(t, "worldY", f.WorldY, wantY)
	assertApprox(t, "world rotation", f.WorldRotationX(), 45)
	assertApprox(t, "world scaleX", f.WorldScaleX(), 2)
	assertApprox(t, "world scaleY", f.WorldScaleY(), 1)
}

func TestTransformConstraintPartialMix(t *testing.T) {
	s := transformRig(func(tc *TransformConstraintData) {
		tc.MixRotate, tc.MixX, tc.MixY = 0.5, 0.5, 0
		tc.MixScaleX, tc.MixScaleY, tc.MixShearY = 0, 0, 0
	}).skeleton(t)
	s.UpdateWorldTransform()

	f := s.FindBone("follower")
	assertApprox(t, "world rotation", f.WorldRotationX(), 22.5)
	assertApprox(t, "worldX", f.WorldX, 3)
	assertApprox(t, "worldY", f.WorldY, 0)
}

func TestTransformConstraintRelativeWorld(t *testing.T) {
	s := transformRig(func(tc *TransformConstraintData) {
		tc.Relative = true
		tc.MixX, tc.MixY, tc.MixScaleY, tc.MixShearY = 0, 0, 0, 0
	}).skeleton(t)
	s.UpdateWorldTransform()

	f := s.FindBone("follower")
	assertApprox(t, "world rotation", f.WorldRotationX(), 45)
	assertApprox(t, "world scaleX", f.WorldScaleX(), 2)
}

func TestTransformConstraintLocal(t *testing.T) {
	tests := []struct {
		name     string
		relative bool
		wantX    float64
		wantRot  float64
		wantSX   float64
	}{
		{"absolute", false, 5, 45, 2},
		{"relative", true, 6, 45, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := transformRig(func(tc *TransformConstraintData) {
				tc.Local, tc.Relative = true, tt.relative
				tc.MixY, tc.MixScaleY, tc.MixShearY = 0, 0, 0
			}).skeleton(t)
			s.UpdateWorldTransform()

			f := s.FindBone("follower")
			assertApprox(t, "ax", f.AX, tt.wantX)
			assertApprox(t, "ay", f.AY, 0)
			assertApprox(t, "arotation", f.ARotation, tt.wantRot)
			assertApprox(t, "ascaleX", f.AScaleX, tt.wantSX)
		})
	}
}

func TestTransformConstraintZeroMixIsNoop(t *testing.T) {
	s := transformRig(func(tc *TransformConstraintData) {
		tc.MixRotate, tc.MixX, tc.MixY = 0, 0, 0
		tc.MixScaleX, tc.MixScaleY, tc.MixShearY = 0, 0, 0
	}).skeleton(t)
	s.UpdateWorldTransform()

	f := s.FindBone("follower")
	assertApprox(t, "worldX", f.WorldX, 1)
	assertApprox(t, "a", f.A, 1)
	assertApprox(t, "c", f.C, 0)
}

// cacheNames lists the update cache as bone names and constraint names.
func cacheNames(s *Skeleton) []string {
	var names []string
	for _, u := range s.cache {
		switch v := u.(type) {
		case *Bone:
			names = append(names, v.data.Name)
		case *IkConstraint:
			names = append(names, "ik:"+v.data.Name)
		case *TransformConstraint:
			names = append(names, "transform:"+v.data.Name)
		case *PathConstraint:
			names = append(names, "path:"+v.data.Name)
		}
	}
	return names
}

func TestUpdateCacheOrder(t *testing.T) {
	r := newRig()
	r.bone("root", "", nil)
	r.bone("a", "root", nil)
	r.bone("b", "a", nil)
	r.bone("target", "root", nil)

	ik := NewIkConstraintData("ik")
	ik.Bones, ik.Target, ik.Order = []int{1, 2}, 3, 1
	tc := NewTransformConstraintData("copy")
	tc.Bones, tc.Target, tc.Order = []int{2}, 3, 0
	r.data.IkConstraints = append(r.data.IkConstraints, ik)
	r.data.TransformConstraints = append(r.data.TransformConstraints, tc)

	s := r.skeleton(t)
	got := cacheNames(s)
	// The IK child is updated by the solver and is not re-queued.
	want := []string{"root", "target", "a", "b", "transform:copy", "ik:ik"}
	if !slices.Equal(got, want) {
		t.Fatalf("cache = %v, want %v", got, want)
	}

	ik.Order, tc.Order = 0, 1
	s.UpdateCache()
	got = cacheNames(s)
	want = []string{"root", "target", "a", "b", "ik:ik", "transform:copy"}
	if !slices.Equal(got, want) {
		t.Fatalf("reordered cache = %v, want %v", got, want)
	}
}

func TestUpdateCacheEqualOrderIsStable(t *testing.T) {
	r := newRig()
	r.bone("root", "", nil)
	r.bone("x", "root", nil)
	r.bone("y", "root", nil)
	first := NewTransformConstraintData("first")
	first.Bones, first.Target = []int{1}, 0
	second := NewIkConstraintData("second")
	second.Bones, second.Target = []int{2}, 0
	r.data.TransformConstraints = append(r.data.TransformConstraints, first)
	r.data.IkConstraints = append(r.data.IkConstraints, second)

	got := cacheNames(r.skeleton(t))
	// IK constraints are collected first when orders tie.
	want := []string{"root", "y", "ik:second", "x", "transform:first"}
	if !slices.Equal(got, want) {
		t.Fatalf("cache = %v, want %v", got, want)
	}
}

func TestSkinRequiredActivation(t *testing.T) {
	r := newRig()
	r.bone("root", "", nil)
	r.bone("cape", "root", func(b *BoneData) { b.SkinRequired = true })
	ik := NewIkConstraintData("capeAim")
	ik.Bones, ik.Target, ik.SkinRequired = []int{1}, 0, true
	r.data.IkConstraints = append(r.data.IkConstraints, ik)

	hero := NewSkin("hero")
	hero.Bones = []int{1}
	hero.Constraints = []ConstraintData{ik}
	r.data.Skins = append(r.data.Skins, hero)

	s := r.skeleton(t)
	if s.FindBone("cape").Active() || s.FindIkConstraint("capeAim").Active() {
		t.Fatal("skin-required items active without a skin")
	}
	if got := cacheNames(s); !slices.Equal(got, []string{"root"}) {
		t.Fatalf("cache without skin = %v", got)
	}

	if err := s.SetSkinByName("hero"); err != nil {
		t.Fatalf("SetSkinByName: %v", err)
	}
	if !s.FindBone("cape").Active() || !s.FindIkConstraint("capeAim").Active() {
		t.Fatal("skin-required items inactive with their skin")
	}
	if got := cacheNames(s); !slices.Contains(got, "ik:capeAim") {
		t.Fatalf("cache with skin = %v, want the IK constraint", got)
	}
}
