package skeleton

import "fmt"

// BlendMode selects how a slot's attachment is composited.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

var blendModeNames = [...]string{"normal", "additive", "multiply", "screen"}

func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendModeNames) {
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
	return blendModeNames[m]
}

// ParseBlendMode resolves the document name of a blend mode.
func ParseBlendMode(s string) (BlendMode, error) {
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown blend mode %q", s)
}

// BlendModeFromIndex converts the binary ordinal of a blend mode.
func BlendModeFromIndex(i int) (BlendMode, error) {
	if i < 0 || i >= len(blendModeNames) {
		return 0, fmt.Errorf("unknown blend mode %d", i)
	}
	return BlendMode(i), nil
}

// SlotData is the setup state of a slot. Slots are ordered by index, which
// is also the setup draw order.
type SlotData struct {
	Index int
	Name  string
	Bone  int
	Color Color
	// DarkColor is non-nil for slots using two-color tinting.
	DarkColor *Color
	// AttachmentName is the setup attachment, or "" for none.
	AttachmentName string
	BlendMode      BlendMode
}

// NewSlotData returns slot setup data with a white tint.
func NewSlotData(index int, name string, bone int) *SlotData {
	return &SlotData{Index: index, Name: name, Bone: bone, Color: White}
}

// Slot is the runtime state of a slot: which attachment is shown, its tint
// and any deformation applied to vertex attachments.
type Slot struct {
	data      *SlotData
	skeleton  *Skeleton
	Color     Color
	DarkColor *Color

	attachment Attachment
	// Deform replaces the vertices of an unweighted vertex attachment, or
	// holds x,y offsets per bone influence of a weighted one. Empty means
	// no deformation.
	Deform []float64
}

func newSlot(data *SlotData, s *Skeleton) *Slot {
	sl := &Slot{data: data, skeleton: s}
	if data.DarkColor != nil {
		dark := *data.DarkColor
		sl.DarkColor = &dark
	}
	return sl
}

// Data returns the setup data of the slot.
func (s *Slot) Data() *SlotData { return s.data }

// Bone returns the bone the slot is attached to.
func (s *Slot) Bone() *Bone { return s.skeleton.bones[s.data.Bone] }

// Skeleton returns the skeleton that owns the slot.
func (s *Slot) Skeleton() *Skeleton { return s.skeleton }

// Attachment returns the visible attachment, or nil.
func (s *Slot) Attachment() Attachment { return s.attachment }

// SetAttachment changes the visible attachment. Deform offsets are kept
// only when both attachments deform the same vertices.
func (s *Slot) SetAttachment(a Attachment) {
	if s.attachment == a {
		return
	}
	va, ok := a.(VertexAttachment)
	oldVa, oldOk := s.attachment.(VertexAttachment)
	if !ok || !oldOk || va.Vertex().DeformAttachment != oldVa.Vertex().DeformAttachment {
		s.Deform = s.Deform[:0]
	}
	s.attachment = a
}

// SetToSetupPose resets the tint and the setup attachment.
func (s *Slot) SetToSetupPose() {
	s.Color = s.data.Color
	if s.data.DarkColor != nil {
		dark := *s.data.DarkColor
		s.DarkColor = &dark
	}
	if s.data.AttachmentName == "" {
		s.attachment = nil
		s.Deform = s.Deform[:0]
		return
	}
	s.attachment = nil
	s.SetAttachment(s.skeleton.AttachmentForSlot(s.data.Index, s.data.AttachmentName))
}
