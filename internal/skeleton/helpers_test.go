package skeleton

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func approx(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func assertApprox(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approx(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// rig builds setup data from (name, parent name) pairs. The first bone
// must be a root.
type rig struct {
	data *SkeletonData
}

func newRig() *rig {
	return &rig{data: NewSkeletonData()}
}

func (r *rig) bone(name, parent string, setup func(*BoneData)) *BoneData {
	p := -1
	if parent != "" {
		p = r.data.FindBone(parent).Index
	}
	b := NewBoneData(len(r.data.Bones), name, p)
	if setup != nil {
		setup(b)
	}
	r.data.Bones = append(r.data.Bones, b)
	return b
}

func (r *rig) slot(name, bone string) *SlotData {
	s := NewSlotData(len(r.data.Slots), name, r.data.FindBone(bone).Index)
	r.data.Slots = append(r.data.Slots, s)
	return s
}

func (r *rig) skeleton(t *testing.T) *Skeleton {
	t.Helper()
	s, err := NewSkeleton(r.data)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	return s
}

func at(x, y float64) func(*BoneData) {
	return func(b *BoneData) { b.X, b.Y = x, y }
}
