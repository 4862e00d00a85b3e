package skeleton

import (
	"errors"
	"math"
	"testing"
)

func oneBoneRig(mix float64) *rig {
	r := newRig()
	r.bone("arm", "", func(b *BoneData) { b.Length = 10 })
	r.bone("target", "", at(0, 10))
	ik := NewIkConstraintData("aim")
	ik.Bones = []int{0}
	ik.Target = 1
	ik.Mix = mix
	r.data.IkConstraints = append(r.data.IkConstraints, ik)
	return r
}

func TestIkOneBoneAimsAtTarget(t *testing.T) {
	s := oneBoneRig(1).skeleton(t)
	s.UpdateWorldTransform()

	arm := s.FindBone("arm")
	assertApprox(t, "arotation", arm.ARotation, 90)
	// Local pose is left for animation to own.
	assertApprox(t, "rotation", arm.Rotation, 0)
	x, y := arm.LocalToWorld(10, 0)
	assertApprox(t, "tip x", x, 0)
	assertApprox(t, "tip y", y, 10)
}

func TestIkMixBlends(t *testing.T) {
	tests := []struct {
		mix  float64
		want float64
	}{
		{0, 0},
		{0.5, 45},
		{1, 90},
	}
	for _, tt := range tests {
		s := oneBoneRig(tt.mix).skeleton(t)
		s.UpdateWorldTransform()
		assertApprox(t, "arotation", s.FindBone("arm").ARotation, tt.want)
	}
}

func TestIkOneBoneStretch(t *testing.T) {
	r := oneBoneRig(1)
	r.data.IkConstraints[0].Stretch = true
	r.data.Bones[1].Y = 25
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	arm := s.FindBone("arm")
	assertApprox(t, "ascaleX", arm.AScaleX, 2.5)
	assertApprox(t, "ascaleY", arm.AScaleY, 1)

	r.data.IkConstraints[0].Uniform = true
	s = r.skeleton(t)
	s.UpdateWorldTransform()
	assertApprox(t, "uniform ascaleY", s.FindBone("arm").AScaleY, 2.5)
}

func TestIkOneBoneCompress(t *testing.T) {
	r := oneBoneRig(1)
	r.data.IkConstraints[0].Compress = true
	r.data.Bones[1].Y = 4
	s := r.skeleton(t)
	s.UpdateWorldTransform()
	assertApprox(t, "ascaleX", s.FindBone("arm").AScaleX, 0.4)
}

func twoBoneRig(childX, targetX, targetY float64) *rig {
	r := newRig()
	r.bone("upper", "", func(b *BoneData) { b.Length = childX })
	r.bone("lower", "upper", func(b *BoneData) { b.X, b.Length = childX, 10 })
	r.bone("target", "", at(targetX, targetY))
	ik := NewIkConstraintData("leg")
	ik.Bones = []int{0, 1}
	ik.Target = 2
	r.data.IkConstraints = append(r.data.IkConstraints, ik)
	return r
}

func TestIkTwoBoneFullReach(t *testing.T) {
	s := twoBoneRig(10, 0, 20).skeleton(t)
	s.UpdateWorldTransform()

	upper, lower := s.FindBone("upper"), s.FindBone("lower")
	assertApprox(t, "upper arotation", upper.ARotation, 90)
	assertApprox(t, "bend", lower.ARotation, 0)
	x, y := lower.LocalToWorld(10, 0)
	assertApprox(t, "tip x", x, 0)
	assertApprox(t, "tip y", y, 20)
}

func TestIkTwoBoneBends(t *testing.T) {
	for _, bend := range []int{1, -1} {
		r := twoBoneRig(10, 12, 0)
		r.data.IkConstraints[0].BendDirection = bend
		s := r.skeleton(t)
		s.UpdateWorldTransform()

		lower := s.FindBone("lower")
		x, y := lower.LocalToWorld(10, 0)
		assertApprox(t, "tip x", x, 12)
		assertApprox(t, "tip y", y, 0)
		if got := math.Copysign(1, lower.ARotation); got != float64(bend) {
			t.Errorf("bend %d: lower rotation %v has wrong sign", bend, lower.ARotation)
		}
		// Positions, scales and shears are not touched.
		if lower.AX != 10 || lower.AY != 0 || lower.AScaleX != 1 || lower.AShearY != 0 {
			t.Errorf("bend %d: lower pose changed: %+v", bend, lower)
		}
	}
}

func TestIkTwoBoneSoftness(t *testing.T) {
	r := twoBoneRig(10, 0, 20)
	r.data.IkConstraints[0].Softness = 5
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	// The eased target sits 1.25 short of full reach.
	x, y := s.FindBone("lower").LocalToWorld(10, 0)
	assertApprox(t, "tip x", x, 0)
	assertApprox(t, "tip y", y, 18.75)
}

func TestIkTwoBoneOutOfReach(t *testing.T) {
	s := twoBoneRig(10, 0, 50).skeleton(t)
	s.UpdateWorldTransform()

	upper, lower := s.FindBone("upper"), s.FindBone("lower")
	assertApprox(t, "upper arotation", upper.ARotation, 90)
	assertApprox(t, "lower arotation", lower.ARotation, 0)
	assertApprox(t, "no stretch", upper.AScaleX, 1)
}

func TestIkTwoBoneStretch(t *testing.T) {
	r := twoBoneRig(10, 0, 40)
	r.data.IkConstraints[0].Stretch = true
	s := r.skeleton(t)
	s.UpdateWorldTransform()
	assertApprox(t, "upper ascaleX", s.FindBone("upper").AScaleX, 2)
}

func TestIkTwoBoneNonUniformParent(t *testing.T) {
	r := twoBoneRig(10, 8, 8)
	r.data.Bones[0].ScaleY = 2
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	x, y := s.FindBone("lower").LocalToWorld(10, 0)
	assertApprox(t, "tip x", x, 8)
	assertApprox(t, "tip y", y, 8)
}

func TestIkTwoBoneDegenerateParent(t *testing.T) {
	s := twoBoneRig(0, 0, 20).skeleton(t)
	s.UpdateWorldTransform()

	assertApprox(t, "upper arotation", s.FindBone("upper").ARotation, 90)
	assertApprox(t, "lower arotation", s.FindBone("lower").ARotation, 0)
}

func TestIkTwoBoneKeepsChildOffset(t *testing.T) {
	tests := []struct {
		name             string
		parentScaleX     float64
		stretch          bool
		targetX, targetY float64
	}{
		{"non-uniform parent", 2, false, 15, 10},
		{"stretch", 1, true, 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			r.bone("upper", "", func(b *BoneData) { b.ScaleX, b.Length = tt.parentScaleX, 10 })
			r.bone("lower", "upper", func(b *BoneData) { b.X, b.Y, b.Length = 10, 3, 10 })
			s := r.skeleton(t)
			s.UpdateWorldTransform()

			upper, lower := s.FindBone("upper"), s.FindBone("lower")
			ApplyIK2(upper, lower, tt.targetX, tt.targetY, 1, tt.stretch, false, 0, 1)
			assertApprox(t, "lower ax", lower.AX, 10)
			assertApprox(t, "lower ay", lower.AY, 3)
			x, y := upper.LocalToWorld(10, 3)
			assertApprox(t, "lower worldX", lower.WorldX, x)
			assertApprox(t, "lower worldY", lower.WorldY, y)
		})
	}
}

func TestIkTwoBoneDegenerateKeepsChildRotation(t *testing.T) {
	r := newRig()
	r.bone("upper", "", nil)
	r.bone("lower", "upper", func(b *BoneData) { b.Rotation, b.Length = 25, 10 })
	s := r.skeleton(t)
	s.UpdateWorldTransform()

	upper, lower := s.FindBone("upper"), s.FindBone("lower")
	ApplyIK2(upper, lower, 0, 20, 1, false, false, 0, 1)
	assertApprox(t, "upper arotation", upper.ARotation, 90)
	assertApprox(t, "lower arotation", lower.ARotation, 25)
	assertApprox(t, "lower world rotation", lower.WorldRotationX(), 115)
}

func TestIkConstructionFailures(t *testing.T) {
	if _, err := NewIkConstraint(nil, &Skeleton{}); !errors.Is(err, ErrNilData) {
		t.Errorf("nil data: err = %v, want ErrNilData", err)
	}
	if _, err := NewIkConstraint(NewIkConstraintData("x"), nil); !errors.Is(err, ErrNilData) {
		t.Errorf("nil skeleton: err = %v, want ErrNilData", err)
	}

	tests := []struct {
		name       string
		bones      []int
		target     int
		unresolved bool
	}{
		{"no bones", nil, 1, false},
		{"three bones", []int{0, 1, 2}, 1, false},
		{"unknown bone", []int{7}, 1, true},
		{"unknown target", []int{0}, 9, true},
		{"not a chain", []int{0, 2}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := twoBoneRig(10, 0, 20)
			ik := r.data.IkConstraints[0]
			ik.Bones, ik.Target = tt.bones, tt.target
			_, err := NewSkeleton(r.data)
			if err == nil {
				t.Fatal("NewSkeleton succeeded, want error")
			}
			if errors.Is(err, ErrUnresolved) != tt.unresolved {
				t.Fatalf("err = %v, unresolved = %v", err, tt.unresolved)
			}
		})
	}
}
