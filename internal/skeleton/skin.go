package skeleton

import "slices"

// SkinEntry is one attachment of a skin.
type SkinEntry struct {
	SlotIndex  int
	Name       string
	Attachment Attachment
}

type skinKey struct {
	slot int
	name string
}

// Skin maps (slot index, attachment name) to attachments, in insertion
// order. Bones and Constraints list the skin-required bones and
// constraints that are active only while the skin is.
type Skin struct {
	Name        string
	Bones       []int
	Constraints []ConstraintData
	Color       Color

	entries []SkinEntry
	index   map[skinKey]int
}

// NewSkin returns an empty skin.
func NewSkin(name string) *Skin {
	return &Skin{Name: name, Color: Color{0.99607843, 0.61960787, 0.30980393, 1}, index: map[skinKey]int{}}
}

// SetAttachment adds or replaces the attachment for a slot and name.
func (s *Skin) SetAttachment(slot int, name string, a Attachment) {
	k := skinKey{slot, name}
	if i, ok := s.index[k]; ok {
		s.entries[i].Attachment = a
		return
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, SkinEntry{SlotIndex: slot, Name: name, Attachment: a})
}

// Attachment returns the attachment for a slot and name, or nil.
func (s *Skin) Attachment(slot int, name string) Attachment {
	if i, ok := s.index[skinKey{slot, name}]; ok {
		return s.entries[i].Attachment
	}
	return nil
}

// RemoveAttachment removes the attachment for a slot and name, if any.
func (s *Skin) RemoveAttachment(slot int, name string) {
	k := skinKey{slot, name}
	i, ok := s.index[k]
	if !ok {
		return
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	delete(s.index, k)
	for j := i; j < len(s.entries); j++ {
		e := s.entries[j]
		s.index[skinKey{e.SlotIndex, e.Name}] = j
	}
}

// Attachments returns every entry in insertion order.
func (s *Skin) Attachments() []SkinEntry {
	return slices.Clone(s.entries)
}

// AttachmentsForSlot returns the entries for one slot in insertion order.
func (s *Skin) AttachmentsForSlot(slot int) []SkinEntry {
	var out []SkinEntry
	for _, e := range s.entries {
		if e.SlotIndex == slot {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of attachments in the skin.
func (s *Skin) Len() int { return len(s.entries) }

func (s *Skin) addRequirements(other *Skin) {
	for _, b := range other.Bones {
		if !slices.Contains(s.Bones, b) {
			s.Bones = append(s.Bones, b)
		}
	}
	for _, c := range other.Constraints {
		if !slices.Contains(s.Constraints, c) {
			s.Constraints = append(s.Constraints, c)
		}
	}
}

// AddSkin adds other's attachments, bones and constraints to s. The
// attachments are shared, not copied.
func (s *Skin) AddSkin(other *Skin) {
	s.addRequirements(other)
	for _, e := range other.entries {
		s.SetAttachment(e.SlotIndex, e.Name, e.Attachment)
	}
}

// CopySkin adds copies of other's attachments, and its bones and
// constraints, to s. Meshes are copied as linked meshes so the copies
// keep sharing geometry.
func (s *Skin) CopySkin(other *Skin) {
	s.addRequirements(other)
	for _, e := range other.entries {
		switch a := e.Attachment.(type) {
		case nil:
			s.SetAttachment(e.SlotIndex, e.Name, nil)
		case *MeshAttachment:
			s.SetAttachment(e.SlotIndex, e.Name, a.NewLinkedMesh())
		default:
			s.SetAttachment(e.SlotIndex, e.Name, a.Copy())
		}
	}
}

// attachAll replaces each attachment shown from old with the attachment
// of the same slot and name in s, when s has one.
func (s *Skin) attachAll(skel *Skeleton, old *Skin) {
	for _, e := range old.entries {
		slot := skel.slots[e.SlotIndex]
		if slot.attachment == e.Attachment {
			if a := s.Attachment(e.SlotIndex, e.Name); a != nil {
				slot.SetAttachment(a)
			}
		}
	}
}
