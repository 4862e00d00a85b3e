package skeleton

// SkeletonData is the complete setup data of a rig. It is not modified
// after decoding and may back any number of Skeletons.
type SkeletonData struct {
	Name    string
	Hash    string
	Version string

	X, Y          float64
	Width, Height float64

	// Nonessential authoring data.
	FPS        float64
	ImagesPath string
	AudioPath  string

	Bones                []*BoneData
	Slots                []*SlotData
	Skins                []*Skin
	DefaultSkin          *Skin
	Events               []*EventData
	Animations           []*Animation
	IkConstraints        []*IkConstraintData
	TransformConstraints []*TransformConstraintData
	PathConstraints      []*PathConstraintData
}

// NewSkeletonData returns empty setup data at 30 frames per second.
func NewSkeletonData() *SkeletonData {
	return &SkeletonData{FPS: 30}
}

func findByName[T any](items []T, name string, nameOf func(T) string) T {
	for _, it := range items {
		if nameOf(it) == name {
			return it
		}
	}
	var zero T
	return zero
}

// FindBone returns the named bone, or nil.
func (d *SkeletonData) FindBone(name string) *BoneData {
	return findByName(d.Bones, name, func(b *BoneData) string { return b.Name })
}

// FindSlot returns the named slot, or nil.
func (d *SkeletonData) FindSlot(name string) *SlotData {
	return findByName(d.Slots, name, func(s *SlotData) string { return s.Name })
}

// FindSkin returns the named skin, or nil.
func (d *SkeletonData) FindSkin(name string) *Skin {
	return findByName(d.Skins, name, func(s *Skin) string { return s.Name })
}

// FindEvent returns the named event, or nil.
func (d *SkeletonData) FindEvent(name string) *EventData {
	return findByName(d.Events, name, func(e *EventData) string { return e.Name })
}

// FindAnimation returns the named animation, or nil.
func (d *SkeletonData) FindAnimation(name string) *Animation {
	return findByName(d.Animations, name, func(a *Animation) string { return a.Name })
}

// FindIkConstraint returns the named IK constraint, or nil.
func (d *SkeletonData) FindIkConstraint(name string) *IkConstraintData {
	return findByName(d.IkConstraints, name, func(c *IkConstraintData) string { return c.Name })
}

// FindTransformConstraint returns the named transform constraint, or nil.
func (d *SkeletonData) FindTransformConstraint(name string) *TransformConstraintData {
	return findByName(d.TransformConstraints, name, func(c *TransformConstraintData) string { return c.Name })
}

// FindPathConstraint returns the named path constraint, or nil.
func (d *SkeletonData) FindPathConstraint(name string) *PathConstraintData {
	return findByName(d.PathConstraints, name, func(c *PathConstraintData) string { return c.Name })
}
