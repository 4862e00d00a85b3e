package skeleton

import (
	"fmt"
	"math"
	"slices"
)

// updatable is an entry of the update cache: a bone or a constraint.
type updatable interface {
	Update()
}

// Skeleton is the runtime pose of a rig built from SkeletonData.
type Skeleton struct {
	data                 *SkeletonData
	bones                []*Bone
	slots                []*Slot
	drawOrder            []*Slot
	ikConstraints        []*IkConstraint
	transformConstraints []*TransformConstraint
	pathConstraints      []*PathConstraint
	cache                []updatable
	skin                 *Skin

	Color          Color
	X, Y           float64
	ScaleX, ScaleY float64
}

// NewSkeleton builds the runtime bones, slots and constraints of data and
// poses them in the setup pose. It fails if data references a bone or
// slot that does not exist.
func NewSkeleton(data *SkeletonData) (*Skeleton, error) {
	if data == nil {
		return nil, ErrNilData
	}
	s := &Skeleton{data: data, Color: White, ScaleX: 1, ScaleY: 1}

	for i, bd := range data.Bones {
		if bd.Parent >= i {
			return nil, unresolved("parent bone", bd.Parent, bd.Name)
		}
		b := newBone(bd, s)
		if bd.Parent >= 0 {
			parent := s.bones[bd.Parent]
			parent.children = append(parent.children, i)
		}
		s.bones = append(s.bones, b)
	}
	for _, sd := range data.Slots {
		if s.boneAt(sd.Bone) == nil {
			return nil, unresolved("bone", sd.Bone, sd.Name)
		}
		sl := newSlot(sd, s)
		s.slots = append(s.slots, sl)
	}
	s.drawOrder = slices.Clone(s.slots)

	for _, cd := range data.IkConstraints {
		c, err := NewIkConstraint(cd, s)
		if err != nil {
			return nil, err
		}
		s.ikConstraints = append(s.ikConstraints, c)
	}
	for _, cd := range data.TransformConstraints {
		c, err := NewTransformConstraint(cd, s)
		if err != nil {
			return nil, err
		}
		s.transformConstraints = append(s.transformConstraints, c)
	}
	for _, cd := range data.PathConstraints {
		c, err := NewPathConstraint(cd, s)
		if err != nil {
			return nil, err
		}
		s.pathConstraints = append(s.pathConstraints, c)
	}

	s.SetSlotsToSetupPose()
	s.UpdateCache()
	return s, nil
}

func (s *Skeleton) boneAt(i int) *Bone {
	if i < 0 || i >= len(s.bones) {
		return nil
	}
	return s.bones[i]
}

func (s *Skeleton) slotAt(i int) *Slot {
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i]
}

func (s *Skeleton) Data() *SkeletonData                          { return s.data }
func (s *Skeleton) Bones() []*Bone                               { return s.bones }
func (s *Skeleton) Slots() []*Slot                               { return s.slots }
func (s *Skeleton) IkConstraints() []*IkConstraint               { return s.ikConstraints }
func (s *Skeleton) TransformConstraints() []*TransformConstraint { return s.transformConstraints }
func (s *Skeleton) PathConstraints() []*PathConstraint           { return s.pathConstraints }

// Skin returns the active skin, or nil when only the default skin is used.
func (s *Skeleton) Skin() *Skin { return s.skin }

// DrawOrder returns the slots in the order they are drawn.
func (s *Skeleton) DrawOrder() []*Slot { return s.drawOrder }

// SetDrawOrder sets the draw order from slot indices. A nil order restores
// the setup order.
func (s *Skeleton) SetDrawOrder(order []int) error {
	if order == nil {
		copy(s.drawOrder, s.slots)
		return nil
	}
	if len(order) != len(s.slots) {
		return fmt.Errorf("draw order has %d slots, want %d", len(order), len(s.slots))
	}
	for i, idx := range order {
		sl := s.slotAt(idx)
		if sl == nil {
			return unresolved("slot", idx, "draw order")
		}
		s.drawOrder[i] = sl
	}
	return nil
}

// RootBone returns the first bone, or nil for an empty skeleton.
func (s *Skeleton) RootBone() *Bone {
	if len(s.bones) == 0 {
		return nil
	}
	return s.bones[0]
}

// FindBone returns the named bone, or nil.
func (s *Skeleton) FindBone(name string) *Bone {
	return findByName(s.bones, name, func(b *Bone) string { return b.data.Name })
}

// FindSlot returns the named slot, or nil.
func (s *Skeleton) FindSlot(name string) *Slot {
	return findByName(s.slots, name, func(sl *Slot) string { return sl.data.Name })
}

// FindIkConstraint returns the named IK constraint, or nil.
func (s *Skeleton) FindIkConstraint(name string) *IkConstraint {
	return findByName(s.ikConstraints, name, func(c *IkConstraint) string { return c.data.Name })
}

// FindTransformConstraint returns the named transform constraint, or nil.
func (s *Skeleton) FindTransformConstraint(name string) *TransformConstraint {
	return findByName(s.transformConstraints, name, func(c *TransformConstraint) string { return c.data.Name })
}

// FindPathConstraint returns the named path constraint, or nil.
func (s *Skeleton) FindPathConstraint(name string) *PathConstraint {
	return findByName(s.pathConstraints, name, func(c *PathConstraint) string { return c.data.Name })
}

type cacheConstraint struct {
	order int
	sort  func()
}

// UpdateCache rebuilds the order in which bones and constraints are
// updated. It must be called after changing the skin or adding or
// removing constraints. Constraints run in ascending Order across all
// constraint types; each runs after every bone it reads and before every
// bone that depends on the bones it writes.
func (s *Skeleton) UpdateCache() {
	s.cache = s.cache[:0]

	for _, b := range s.bones {
		b.sorted = b.data.SkinRequired
		b.active = !b.sorted
	}
	if s.skin != nil {
		for _, bi := range s.skin.Bones {
			for b := s.boneAt(bi); b != nil; b = b.Parent() {
				b.sorted = false
				b.active = true
			}
		}
	}

	var constraints []cacheConstraint
	for _, c := range s.ikConstraints {
		constraints = append(constraints, cacheConstraint{c.data.Order, func() { s.sortIkConstraint(c) }})
	}
	for _, c := range s.transformConstraints {
		constraints = append(constraints, cacheConstraint{c.data.Order, func() { s.sortTransformConstraint(c) }})
	}
	for _, c := range s.pathConstraints {
		constraints = append(constraints, cacheConstraint{c.data.Order, func() { s.sortPathConstraint(c) }})
	}
	slices.SortStableFunc(constraints, func(a, b cacheConstraint) int { return a.order - b.order })
	for _, c := range constraints {
		c.sort()
	}

	for _, b := range s.bones {
		s.sortBone(b)
	}
}

func (s *Skeleton) skinHasConstraint(d ConstraintData) bool {
	return !d.IsSkinRequired() || (s.skin != nil && slices.Contains(s.skin.Constraints, d))
}

func (s *Skeleton) sortIkConstraint(c *IkConstraint) {
	c.active = c.target.active && s.skinHasConstraint(c.data)
	if !c.active {
		return
	}
	s.sortBone(c.target)
	parent := c.bones[0]
	s.sortBone(parent)
	if len(c.bones) == 1 {
		s.cache = append(s.cache, c)
		s.sortReset(parent.children)
		return
	}
	child := c.bones[len(c.bones)-1]
	s.sortBone(child)
	s.cache = append(s.cache, c)
	s.sortReset(parent.children)
	child.sorted = true
}

func (s *Skeleton) sortTransformConstraint(c *TransformConstraint) {
	c.active = c.target.active && s.skinHasConstraint(c.data)
	if !c.active {
		return
	}
	s.sortBone(c.target)
	for _, b := range c.bones {
		if c.data.Local {
			if p := b.Parent(); p != nil {
				s.sortBone(p)
			}
		}
		s.sortBone(b)
	}
	s.cache = append(s.cache, c)
	for _, b := range c.bones {
		s.sortReset(b.children)
	}
	for _, b := range c.bones {
		b.sorted = true
	}
}

func (s *Skeleton) sortPathConstraint(c *PathConstraint) {
	slot := c.target
	slotBone := slot.Bone()
	c.active = slotBone.active && s.skinHasConstraint(c.data)
	if !c.active {
		return
	}
	if s.skin != nil {
		s.sortPathAttachments(s.skin, slot.data.Index, slotBone)
	}
	if def := s.data.DefaultSkin; def != nil && def != s.skin {
		s.sortPathAttachments(def, slot.data.Index, slotBone)
	}
	s.sortPathAttachment(slot.attachment, slotBone)

	for _, b := range c.bones {
		s.sortBone(b)
	}
	s.cache = append(s.cache, c)
	for _, b := range c.bones {
		s.sortReset(b.children)
	}
	for _, b := range c.bones {
		b.sorted = true
	}
}

func (s *Skeleton) sortPathAttachments(skin *Skin, slotIndex int, slotBone *Bone) {
	for _, e := range skin.entries {
		if e.SlotIndex == slotIndex {
			s.sortPathAttachment(e.Attachment, slotBone)
		}
	}
}

func (s *Skeleton) sortPathAttachment(a Attachment, slotBone *Bone) {
	path, ok := a.(*PathAttachment)
	if !ok {
		return
	}
	if path.Bones == nil {
		s.sortBone(slotBone)
		return
	}
	for i := 0; i < len(path.Bones); {
		n := path.Bones[i]
		i++
		for end := i + n; i < end; i++ {
			s.sortBone(s.bones[path.Bones[i]])
		}
	}
}

func (s *Skeleton) sortBone(b *Bone) {
	if b.sorted {
		return
	}
	if p := b.Parent(); p != nil {
		s.sortBone(p)
	}
	b.sorted = true
	s.cache = append(s.cache, b)
}

func (s *Skeleton) sortReset(children []int) {
	for _, ci := range children {
		b := s.bones[ci]
		if !b.active {
			continue
		}
		if b.sorted {
			s.sortReset(b.children)
		}
		b.sorted = false
	}
}

// UpdateWorldTransform copies every bone's local pose to its applied pose,
// then updates bones and constraints in cache order.
func (s *Skeleton) UpdateWorldTransform() {
	for _, b := range s.bones {
		b.AX, b.AY = b.X, b.Y
		b.ARotation = b.Rotation
		b.AScaleX, b.AScaleY = b.ScaleX, b.ScaleY
		b.AShearX, b.AShearY = b.ShearX, b.ShearY
	}
	for _, u := range s.cache {
		u.Update()
	}
}

// SetToSetupPose resets bones, constraints, slots and draw order.
func (s *Skeleton) SetToSetupPose() {
	s.SetBonesToSetupPose()
	s.SetSlotsToSetupPose()
}

// SetBonesToSetupPose resets bones and constraint mixes.
func (s *Skeleton) SetBonesToSetupPose() {
	for _, b := range s.bones {
		b.SetToSetupPose()
	}
	for _, c := range s.ikConstraints {
		c.SetToSetupPose()
	}
	for _, c := range s.transformConstraints {
		c.SetToSetupPose()
	}
	for _, c := range s.pathConstraints {
		c.SetToSetupPose()
	}
}

// SetSlotsToSetupPose resets slot tints, attachments and the draw order.
func (s *Skeleton) SetSlotsToSetupPose() {
	copy(s.drawOrder, s.slots)
	for _, sl := range s.slots {
		sl.SetToSetupPose()
	}
}

// SetSkin changes the active skin. Slots showing an attachment of the old
// skin switch to the new skin's attachment of the same name. Without an
// old skin, each slot's setup attachment is looked up in the new skin.
// Passing nil leaves the default skin only.
func (s *Skeleton) SetSkin(skin *Skin) {
	if skin == s.skin {
		return
	}
	if skin != nil {
		if s.skin != nil {
			skin.attachAll(s, s.skin)
		} else {
			for i, sl := range s.slots {
				if name := sl.data.AttachmentName; name != "" {
					if a := skin.Attachment(i, name); a != nil {
						sl.SetAttachment(a)
					}
				}
			}
		}
	}
	s.skin = skin
	s.UpdateCache()
}

// SetSkinByName sets the named skin. An empty name clears the skin.
func (s *Skeleton) SetSkinByName(name string) error {
	if name == "" {
		s.SetSkin(nil)
		return nil
	}
	skin := s.data.FindSkin(name)
	if skin == nil {
		return fmt.Errorf("skin not found: %s", name)
	}
	s.SetSkin(skin)
	return nil
}

// AttachmentForSlot looks the attachment up in the active skin, then in
// the default skin. It returns nil when neither has it.
func (s *Skeleton) AttachmentForSlot(slotIndex int, name string) Attachment {
	if s.skin != nil {
		if a := s.skin.Attachment(slotIndex, name); a != nil {
			return a
		}
	}
	if s.data.DefaultSkin != nil {
		return s.data.DefaultSkin.Attachment(slotIndex, name)
	}
	return nil
}

// SetAttachment shows the named attachment in the named slot. An empty
// attachment name hides the slot's attachment.
func (s *Skeleton) SetAttachment(slotName, attachmentName string) error {
	sl := s.FindSlot(slotName)
	if sl == nil {
		return fmt.Errorf("slot not found: %s", slotName)
	}
	if attachmentName == "" {
		sl.SetAttachment(nil)
		return nil
	}
	a := s.AttachmentForSlot(sl.data.Index, attachmentName)
	if a == nil {
		return fmt.Errorf("attachment not found: %s, for slot: %s", attachmentName, slotName)
	}
	sl.SetAttachment(a)
	return nil
}

// Bounds returns the axis-aligned box around all visible region and mesh
// attachments. ok is false when nothing is visible.
func (s *Skeleton) Bounds() (x, y, width, height float64, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	var buf []float64
	for _, sl := range s.drawOrder {
		if !sl.Bone().active {
			continue
		}
		var n int
		switch a := sl.attachment.(type) {
		case *RegionAttachment:
			n = 8
			buf = grow(buf, n)
			a.ComputeWorldVertices(sl.Bone(), buf, 0, 2)
		case *MeshAttachment:
			n = a.WorldVerticesLength
			buf = grow(buf, n)
			a.ComputeWorldVertices(sl, 0, n, buf, 0, 2)
		}
		for i := 0; i < n; i += 2 {
			minX = math.Min(minX, buf[i])
			minY = math.Min(minY, buf[i+1])
			maxX = math.Max(maxX, buf[i])
			maxY = math.Max(maxY, buf[i+1])
		}
	}
	if minX > maxX {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX - minX, maxY - minY, true
}
