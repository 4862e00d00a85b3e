package skeleton

import "fmt"

// Property identifies what a timeline animates. Together with an index it
// forms the timeline's property IDs, which tell whether two timelines
// write the same values.
type Property int

const (
	PropRotate Property = iota
	PropX
	PropY
	PropScaleX
	PropScaleY
	PropShearX
	PropShearY
	PropRGB
	PropAlpha
	PropRGB2
	PropAttachment
	PropDeform
	PropEvent
	PropDrawOrder
	PropIkConstraint
	PropTransformConstraint
	PropPathConstraintPosition
	PropPathConstraintSpacing
	PropPathConstraintMix
)

func propertyID(p Property, index int) string {
	return fmt.Sprintf("%d|%d", int(p), index)
}

// Timeline is a sequence of keys for one animated property. Applying keys
// to a skeleton is left to the caller.
type Timeline interface {
	PropertyIDs() []string
	Frames() []float64
	FrameEntries() int
	FrameCount() int
	Duration() float64
}

// BoneProperty selects the bone values a BoneTimeline keys.
type BoneProperty int

const (
	BoneRotate BoneProperty = iota
	BoneTranslate
	BoneTranslateX
	BoneTranslateY
	BoneScale
	BoneScaleX
	BoneScaleY
	BoneShear
	BoneShearX
	BoneShearY
)

var boneProperties = [...]struct {
	name  string
	props []Property
}{
	BoneRotate:     {"rotate", []Property{PropRotate}},
	BoneTranslate:  {"translate", []Property{PropX, PropY}},
	BoneTranslateX: {"translatex", []Property{PropX}},
	BoneTranslateY: {"translatey", []Property{PropY}},
	BoneScale:      {"scale", []Property{PropScaleX, PropScaleY}},
	BoneScaleX:     {"scalex", []Property{PropScaleX}},
	BoneScaleY:     {"scaley", []Property{PropScaleY}},
	BoneShear:      {"shear", []Property{PropShearX, PropShearY}},
	BoneShearX:     {"shearx", []Property{PropShearX}},
	BoneShearY:     {"sheary", []Property{PropShearY}},
}

func (p BoneProperty) String() string {
	if p < 0 || int(p) >= len(boneProperties) {
		return fmt.Sprintf("BoneProperty(%d)", int(p))
	}
	return boneProperties[p].name
}

// Values returns how many values each key of the property holds.
func (p BoneProperty) Values() int { return len(boneProperties[p].props) }

// ParseBoneProperty resolves the document name of a bone timeline.
func ParseBoneProperty(s string) (BoneProperty, error) {
	for i, bp := range boneProperties {
		if bp.name == s {
			return BoneProperty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown bone timeline %q", s)
}

// BonePropertyFromIndex converts a binary bone timeline code.
func BonePropertyFromIndex(i int) (BoneProperty, error) {
	if i < 0 || i >= len(boneProperties) {
		return 0, fmt.Errorf("unknown bone timeline %d", i)
	}
	return BoneProperty(i), nil
}

// BoneTimeline keys one or two local pose values of a bone.
type BoneTimeline struct {
	CurveTimeline
	Property  BoneProperty
	BoneIndex int
}

// NewBoneTimeline allocates a bone timeline.
func NewBoneTimeline(p BoneProperty, boneIndex, frameCount, bezierCount int) *BoneTimeline {
	return &BoneTimeline{
		CurveTimeline: newCurveTimeline(frameCount, bezierCount, 1+p.Values()),
		Property:      p,
		BoneIndex:     boneIndex,
	}
}

func (t *BoneTimeline) PropertyIDs() []string {
	var ids []string
	for _, p := range boneProperties[t.Property].props {
		ids = append(ids, propertyID(p, t.BoneIndex))
	}
	return ids
}

// ColorMode selects the color channels a SlotColorTimeline keys.
type ColorMode int

const (
	ColorRGBA ColorMode = iota
	ColorRGB
	ColorRGBA2
	ColorRGB2
	ColorAlpha
)

var colorModes = [...]struct {
	name   string
	values int
	props  []Property
}{
	ColorRGBA:  {"rgba", 4, []Property{PropRGB, PropAlpha}},
	ColorRGB:   {"rgb", 3, []Property{PropRGB}},
	ColorRGBA2: {"rgba2", 7, []Property{PropRGB, PropAlpha, PropRGB2}},
	ColorRGB2:  {"rgb2", 6, []Property{PropRGB, PropRGB2}},
	ColorAlpha: {"alpha", 1, []Property{PropAlpha}},
}

func (m ColorMode) String() string {
	if m < 0 || int(m) >= len(colorModes) {
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
	return colorModes[m].name
}

// Values returns how many values each key of the mode holds.
func (m ColorMode) Values() int { return colorModes[m].values }

// ParseColorMode resolves the document name of a slot color timeline.
func ParseColorMode(s string) (ColorMode, error) {
	for i, cm := range colorModes {
		if cm.name == s {
			return ColorMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown slot timeline %q", s)
}

// SlotColorTimeline keys a slot's tint. Two-color modes key the light
// color first, then the dark color's RGB.
type SlotColorTimeline struct {
	CurveTimeline
	Mode      ColorMode
	SlotIndex int
}

// NewSlotColorTimeline allocates a slot color timeline.
func NewSlotColorTimeline(m ColorMode, slotIndex, frameCount, bezierCount int) *SlotColorTimeline {
	return &SlotColorTimeline{
		CurveTimeline: newCurveTimeline(frameCount, bezierCount, 1+m.Values()),
		Mode:          m,
		SlotIndex:     slotIndex,
	}
}

func (t *SlotColorTimeline) PropertyIDs() []string {
	var ids []string
	for _, p := range colorModes[t.Mode].props {
		ids = append(ids, propertyID(p, t.SlotIndex))
	}
	return ids
}

// keyTimeline holds keys with a time and no curve.
type keyTimeline struct {
	frames []float64
}

func (t *keyTimeline) Frames() []float64 { return t.frames }
func (t *keyTimeline) FrameEntries() int { return 1 }
func (t *keyTimeline) FrameCount() int   { return len(t.frames) }

func (t *keyTimeline) Duration() float64 {
	if len(t.frames) == 0 {
		return 0
	}
	return t.frames[len(t.frames)-1]
}

// Frame returns the index of the key at or before time, or -1 before the
// first key.
func (t *keyTimeline) Frame(time float64) int {
	if len(t.frames) == 0 || time < t.frames[0] {
		return -1
	}
	return search(t.frames, time, 1)
}

// AttachmentTimeline keys which attachment a slot shows. An empty name
// hides the attachment.
type AttachmentTimeline struct {
	keyTimeline
	SlotIndex       int
	AttachmentNames []string
}

// NewAttachmentTimeline allocates an attachment timeline.
func NewAttachmentTimeline(slotIndex, frameCount int) *AttachmentTimeline {
	return &AttachmentTimeline{
		keyTimeline:     keyTimeline{frames: make([]float64, frameCount)},
		SlotIndex:       slotIndex,
		AttachmentNames: make([]string, frameCount),
	}
}

func (t *AttachmentTimeline) PropertyIDs() []string {
	return []string{propertyID(PropAttachment, t.SlotIndex)}
}

// SetFrame sets the time and attachment name of a key.
func (t *AttachmentTimeline) SetFrame(frame int, time float64, name string) {
	t.frames[frame] = time
	t.AttachmentNames[frame] = name
}

// DeformTimeline keys vertex offsets of a vertex attachment. Its curves
// are progress curves from one key's vertices to the next.
type DeformTimeline struct {
	CurveTimeline
	SlotIndex  int
	Attachment VertexAttachment
	Vertices   [][]float64
}

// NewDeformTimeline allocates a deform timeline.
func NewDeformTimeline(slotIndex int, attachment VertexAttachment, frameCount, bezierCount int) *DeformTimeline {
	return &DeformTimeline{
		CurveTimeline: newCurveTimeline(frameCount, bezierCount, 1),
		SlotIndex:     slotIndex,
		Attachment:    attachment,
		Vertices:      make([][]float64, frameCount),
	}
}

func (t *DeformTimeline) PropertyIDs() []string {
	return []string{fmt.Sprintf("%d|%d|%s", int(PropDeform), t.SlotIndex, t.Attachment.Name())}
}

// SetKey sets the time and vertex offsets of a key.
func (t *DeformTimeline) SetKey(frame int, time float64, vertices []float64) {
	t.frames[frame] = time
	t.Vertices[frame] = vertices
}

// DrawOrderTimeline keys the slot draw order. A nil order is the setup
// order; otherwise entry i is the slot index drawn at position i.
type DrawOrderTimeline struct {
	keyTimeline
	DrawOrders [][]int
}

// NewDrawOrderTimeline allocates a draw order timeline.
func NewDrawOrderTimeline(frameCount int) *DrawOrderTimeline {
	return &DrawOrderTimeline{
		keyTimeline: keyTimeline{frames: make([]float64, frameCount)},
		DrawOrders:  make([][]int, frameCount),
	}
}

func (t *DrawOrderTimeline) PropertyIDs() []string {
	return []string{fmt.Sprint(int(PropDrawOrder))}
}

// SetFrame sets the time and draw order of a key.
func (t *DrawOrderTimeline) SetFrame(frame int, time float64, order []int) {
	t.frames[frame] = time
	t.DrawOrders[frame] = order
}

// EventTimeline fires events at key times.
type EventTimeline struct {
	keyTimeline
	Events []*Event
}

// NewEventTimeline allocates an event timeline.
func NewEventTimeline(frameCount int) *EventTimeline {
	return &EventTimeline{
		keyTimeline: keyTimeline{frames: make([]float64, frameCount)},
		Events:      make([]*Event, frameCount),
	}
}

func (t *EventTimeline) PropertyIDs() []string {
	return []string{fmt.Sprint(int(PropEvent))}
}

// SetFrame stores an event keyed at its own time.
func (t *EventTimeline) SetFrame(frame int, e *Event) {
	t.frames[frame] = e.Time
	t.Events[frame] = e
}

// EventsBetween returns the events with lastTime < time <= now.
func (t *EventTimeline) EventsBetween(lastTime, now float64) []*Event {
	var out []*Event
	for i, time := range t.frames {
		if time > lastTime && time <= now {
			out = append(out, t.Events[i])
		}
	}
	return out
}

// IkConstraintTimeline keys mix, softness, bend direction, compress and
// stretch of an IK constraint. Only mix and softness are curved.
type IkConstraintTimeline struct {
	CurveTimeline
	ConstraintIndex int
}

// NewIkConstraintTimeline allocates an IK constraint timeline.
func NewIkConstraintTimeline(constraintIndex, frameCount, bezierCount int) *IkConstraintTimeline {
	return &IkConstraintTimeline{
		CurveTimeline:   newCurveTimeline(frameCount, bezierCount, 6),
		ConstraintIndex: constraintIndex,
	}
}

func (t *IkConstraintTimeline) PropertyIDs() []string {
	return []string{propertyID(PropIkConstraint, t.ConstraintIndex)}
}

// SetIkFrame sets a key's values.
func (t *IkConstraintTimeline) SetIkFrame(frame int, time, mix, softness float64, bendDirection int, compress, stretch bool) {
	t.SetFrame(frame, time, mix, softness, float64(bendDirection), boolFloat(compress), boolFloat(stretch))
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// TransformConstraintTimeline keys the six mixes of a transform constraint.
type TransformConstraintTimeline struct {
	CurveTimeline
	ConstraintIndex int
}

// NewTransformConstraintTimeline allocates a transform constraint timeline.
func NewTransformConstraintTimeline(constraintIndex, frameCount, bezierCount int) *TransformConstraintTimeline {
	return &TransformConstraintTimeline{
		CurveTimeline:   newCurveTimeline(frameCount, bezierCount, 7),
		ConstraintIndex: constraintIndex,
	}
}

func (t *TransformConstraintTimeline) PropertyIDs() []string {
	return []string{propertyID(PropTransformConstraint, t.ConstraintIndex)}
}

// PathProperty selects what a PathConstraintTimeline keys.
type PathProperty int

const (
	PathPosition PathProperty = iota
	PathSpacing
	PathMix
)

var pathPropertyNames = [...]string{"position", "spacing", "mix"}

func (p PathProperty) String() string { return enumName(pathPropertyNames[:], int(p), "PathProperty") }

// ParsePathProperty resolves the document name of a path timeline.
func ParsePathProperty(s string) (PathProperty, error) {
	i, err := enumIndex(pathPropertyNames[:], s, "path timeline")
	return PathProperty(i), err
}

// PathPropertyFromIndex converts a binary path timeline code.
func PathPropertyFromIndex(i int) (PathProperty, error) {
	if i < 0 || i >= len(pathPropertyNames) {
		return 0, fmt.Errorf("unknown path timeline %d", i)
	}
	return PathProperty(i), nil
}

// PathConstraintTimeline keys position, spacing or the three mixes of a
// path constraint.
type PathConstraintTimeline struct {
	CurveTimeline
	Property        PathProperty
	ConstraintIndex int
}

// NewPathConstraintTimeline allocates a path constraint timeline.
func NewPathConstraintTimeline(p PathProperty, constraintIndex, frameCount, bezierCount int) *PathConstraintTimeline {
	entries := 2
	if p == PathMix {
		entries = 4
	}
	return &PathConstraintTimeline{
		CurveTimeline:   newCurveTimeline(frameCount, bezierCount, entries),
		Property:        p,
		ConstraintIndex: constraintIndex,
	}
}

func (t *PathConstraintTimeline) PropertyIDs() []string {
	p := PropPathConstraintPosition
	switch t.Property {
	case PathSpacing:
		p = PropPathConstraintSpacing
	case PathMix:
		p = PropPathConstraintMix
	}
	return []string{propertyID(p, t.ConstraintIndex)}
}
