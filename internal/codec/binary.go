package codec

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/inamate/rig/internal/skeleton"
)

// Slot timeline codes. Codes after slotAttachment are the color modes,
// offset by one.
const slotAttachment = 0

// ReadBinary decodes a binary skeleton. Decoding is all or nothing: any
// error discards the partial result.
func (d *Decoder) ReadBinary(data []byte) (*skeleton.SkeletonData, error) {
	d.linked = d.linked[:0]
	in := &binaryInput{data: data}
	sd := d.readBinary(in)
	if in.err != nil {
		d.linked = d.linked[:0]
		return nil, fmt.Errorf("decode binary skeleton: %w", in.err)
	}
	sd, err := d.finish(sd, "binary")
	if err != nil {
		return nil, fmt.Errorf("decode binary skeleton: %w", err)
	}
	return sd, nil
}

func (d *Decoder) readBinary(in *binaryInput) *skeleton.SkeletonData {
	sd := skeleton.NewSkeletonData()
	// The hash is stored low word first and rendered high word first.
	low, high := in.readUint32(), in.readUint32()
	if low != 0 || high != 0 {
		sd.Hash = strconv.FormatUint(uint64(high), 16) + strconv.FormatUint(uint64(low), 16)
	}
	sd.Version, _ = in.readString()
	sd.X = in.readFloat()
	sd.Y = in.readFloat()
	sd.Width = in.readFloat()
	sd.Height = in.readFloat()

	nonessential := in.readBool()
	if nonessential {
		sd.FPS = in.readFloat()
		sd.ImagesPath, _ = in.readString()
		sd.AudioPath, _ = in.readString()
	}

	in.strings = make([]string, in.count())
	for i := range in.strings {
		in.strings[i], _ = in.readString()
	}

	d.readBones(in, sd, nonessential)
	d.readSlots(in, sd)
	d.readIkConstraints(in, sd)
	d.readTransformConstraints(in, sd)
	d.readPathConstraints(in, sd)
	if in.err != nil {
		return nil
	}

	if skin := d.readSkin(in, sd, true, nonessential); skin != nil {
		sd.DefaultSkin = skin
		sd.Skins = append(sd.Skins, skin)
	}
	for range in.count() {
		skin := d.readSkin(in, sd, false, nonessential)
		if in.err != nil {
			return nil
		}
		sd.Skins = append(sd.Skins, skin)
	}
	if in.err != nil {
		return nil
	}
	if err := d.resolveLinkedMeshes(sd); err != nil {
		in.fail(err)
		return nil
	}

	for range in.count() {
		name, _ := in.readStringRef()
		e := skeleton.NewEventData(name)
		e.Int = in.readVarint(false)
		e.Float = in.readFloat()
		e.String, _ = in.readString()
		e.AudioPath, _ = in.readString()
		if e.AudioPath != "" {
			e.Volume = in.readFloat()
			e.Balance = in.readFloat()
		}
		sd.Events = append(sd.Events, e)
		in.eventAudio = append(in.eventAudio, e.AudioPath != "")
	}

	for range in.count() {
		name, _ := in.readString()
		a := d.readAnimation(in, sd, name)
		if in.err != nil {
			return nil
		}
		sd.Animations = append(sd.Animations, a)
	}
	return sd
}

func (d *Decoder) readBones(in *binaryInput, sd *skeleton.SkeletonData, nonessential bool) {
	scale := d.scale()
	for i := range in.count() {
		name, _ := in.readString()
		parent := -1
		if i > 0 {
			parent = in.index(i, "bone", "parent of bone "+name)
		}
		b := skeleton.NewBoneData(i, name, parent)
		b.Rotation = in.readFloat()
		b.X = in.readFloat() * scale
		b.Y = in.readFloat() * scale
		b.ScaleX = in.readFloat()
		b.ScaleY = in.readFloat()
		b.ShearX = in.readFloat()
		b.ShearY = in.readFloat()
		b.Length = in.readFloat() * scale
		mode, err := skeleton.TransformModeFromIndex(in.readVarint(true))
		in.invalid("bone "+name, err)
		b.TransformMode = mode
		b.SkinRequired = in.readBool()
		if nonessential {
			b.Color = skeleton.ColorFromRGBA8888(in.readUint32())
		}
		if in.err != nil {
			return
		}
		sd.Bones = append(sd.Bones, b)
	}
}

func (d *Decoder) readSlots(in *binaryInput, sd *skeleton.SkeletonData) {
	for i := range in.count() {
		name, _ := in.readString()
		s := skeleton.NewSlotData(i, name, in.index(len(sd.Bones), "bone", "slot "+name))
		s.Color = skeleton.ColorFromRGBA8888(in.readUint32())
		if dark := in.readInt32(); dark != -1 {
			c := skeleton.ColorFromRGB888(uint32(dark))
			s.DarkColor = &c
		}
		s.AttachmentName, _ = in.readStringRef()
		mode, err := skeleton.BlendModeFromIndex(in.readVarint(true))
		in.invalid("slot "+name, err)
		s.BlendMode = mode
		if in.err != nil {
			return
		}
		sd.Slots = append(sd.Slots, s)
	}
}

func (d *Decoder) readBoneRefs(in *binaryInput, sd *skeleton.SkeletonData, context string) []int {
	refs := make([]int, in.count())
	for i := range refs {
		refs[i] = in.index(len(sd.Bones), "bone", context)
	}
	return refs
}

func (d *Decoder) readIkConstraints(in *binaryInput, sd *skeleton.SkeletonData) {
	scale := d.scale()
	for range in.count() {
		name, _ := in.readString()
		ctx := "ik constraint " + name
		c := skeleton.NewIkConstraintData(name)
		c.Order = in.readVarint(true)
		c.SkinRequired = in.readBool()
		c.Bones = d.readBoneRefs(in, sd, ctx)
		if n := len(c.Bones); in.err == nil && (n < 1 || n > 2) {
			in.fail(invalid("bone count", strconv.Itoa(n), ctx))
		}
		c.Target = in.index(len(sd.Bones), "bone", ctx)
		c.Mix = in.readFloat()
		c.Softness = in.readFloat() * scale
		c.BendDirection = in.readSByte()
		c.Compress = in.readBool()
		c.Stretch = in.readBool()
		c.Uniform = in.readBool()
		if in.err != nil {
			return
		}
		sd.IkConstraints = append(sd.IkConstraints, c)
	}
}

func (d *Decoder) readTransformConstraints(in *binaryInput, sd *skeleton.SkeletonData) {
	scale := d.scale()
	for range in.count() {
		name, _ := in.readString()
		ctx := "transform constraint " + name
		c := skeleton.NewTransformConstraintData(name)
		c.Order = in.readVarint(true)
		c.SkinRequired = in.readBool()
		c.Bones = d.readBoneRefs(in, sd, ctx)
		c.Target = in.index(len(sd.Bones), "bone", ctx)
		c.Local = in.readBool()
		c.Relative = in.readBool()
		c.OffsetRotation = in.readFloat()
		c.OffsetX = in.readFloat() * scale
		c.OffsetY = in.readFloat() * scale
		c.OffsetScaleX = in.readFloat()
		c.OffsetScaleY = in.readFloat()
		c.OffsetShearY = in.readFloat()
		c.MixRotate = in.readFloat()
		c.MixX = in.readFloat()
		c.MixY = in.readFloat()
		c.MixScaleX = in.readFloat()
		c.MixScaleY = in.readFloat()
		c.MixShearY = in.readFloat()
		if in.err != nil {
			return
		}
		sd.TransformConstraints = append(sd.TransformConstraints, c)
	}
}

func (d *Decoder) readPathConstraints(in *binaryInput, sd *skeleton.SkeletonData) {
	scale := d.scale()
	for range in.count() {
		name, _ := in.readString()
		ctx := "path constraint " + name
		c := skeleton.NewPathConstraintData(name)
		c.Order = in.readVarint(true)
		c.SkinRequired = in.readBool()
		c.Bones = d.readBoneRefs(in, sd, ctx)
		c.Target = in.index(len(sd.Slots), "slot", ctx)
		c.PositionMode = skeleton.PositionMode(in.enum(int(skeleton.PositionPercent)+1, "position mode", ctx))
		c.SpacingMode = skeleton.SpacingMode(in.enum(int(skeleton.SpacingProportional)+1, "spacing mode", ctx))
		c.RotateMode = skeleton.RotateMode(in.enum(int(skeleton.RotateChainScale)+1, "rotate mode", ctx))
		c.OffsetRotation = in.readFloat()
		c.Position = in.readFloat()
		if c.PositionMode == skeleton.PositionFixed {
			c.Position *= scale
		}
		c.Spacing = in.readFloat()
		if scalesSpacing(c.SpacingMode) {
			c.Spacing *= scale
		}
		c.MixRotate = in.readFloat()
		c.MixX = in.readFloat()
		c.MixY = in.readFloat()
		if in.err != nil {
			return
		}
		sd.PathConstraints = append(sd.PathConstraints, c)
	}
}

// scalesSpacing reports whether path spacing is a distance.
func scalesSpacing(m skeleton.SpacingMode) bool {
	return m == skeleton.SpacingLength || m == skeleton.SpacingFixed
}

// readSkin reads the default skin, which is nil when it has no slots, or
// a named skin.
func (d *Decoder) readSkin(in *binaryInput, sd *skeleton.SkeletonData, defaultSkin, nonessential bool) *skeleton.Skin {
	var skin *skeleton.Skin
	var slotCount int
	if defaultSkin {
		slotCount = in.count()
		if slotCount == 0 {
			return nil
		}
		skin = skeleton.NewSkin("default")
	} else {
		name, _ := in.readStringRef()
		ctx := "skin " + name
		skin = skeleton.NewSkin(name)
		skin.Bones = d.readBoneRefs(in, sd, ctx)
		for range in.count() {
			if i := in.index(len(sd.IkConstraints), "ik constraint", ctx); in.err == nil {
				skin.Constraints = append(skin.Constraints, sd.IkConstraints[i])
			}
		}
		for range in.count() {
			if i := in.index(len(sd.TransformConstraints), "transform constraint", ctx); in.err == nil {
				skin.Constraints = append(skin.Constraints, sd.TransformConstraints[i])
			}
		}
		for range in.count() {
			if i := in.index(len(sd.PathConstraints), "path constraint", ctx); in.err == nil {
				skin.Constraints = append(skin.Constraints, sd.PathConstraints[i])
			}
		}
		slotCount = in.count()
	}

	for range slotCount {
		slot := in.index(len(sd.Slots), "slot", "skin "+skin.Name)
		for range in.count() {
			entry, _ := in.readStringRef()
			v := d.readAttachment(in, sd, entry, nonessential)
			if in.err != nil {
				return skin
			}
			if err := d.addAttachment(skin, slot, entry, v); err != nil {
				in.fail(err)
				return skin
			}
		}
	}
	return skin
}

func (d *Decoder) readAttachment(in *binaryInput, sd *skeleton.SkeletonData, entry string, nonessential bool) *attachmentValues {
	scale := d.scale()
	v := &attachmentValues{scaleX: 1, scaleY: 1, constantSpeed: true, inheritDeform: true}
	v.name, _ = in.readStringRef()
	if v.name == "" {
		v.name = entry
	}
	typ := int(in.readByte())
	if typ > int(skeleton.AttachmentClipping) {
		in.fail(invalid("attachment type", strconv.Itoa(typ), "attachment "+v.name))
		return v
	}
	v.typ = skeleton.AttachmentType(typ)

	switch v.typ {
	case skeleton.AttachmentRegion:
		v.path, _ = in.readStringRef()
		v.rotation = in.readFloat()
		v.x = in.readFloat() * scale
		v.y = in.readFloat() * scale
		v.scaleX = in.readFloat()
		v.scaleY = in.readFloat()
		v.width = in.readFloat() * scale
		v.height = in.readFloat() * scale
		v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))

	case skeleton.AttachmentBoundingBox:
		v.vertexCount = in.count()
		v.bones, v.vertices = d.readVertices(in, sd, v.vertexCount)
		if nonessential {
			v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))
		}

	case skeleton.AttachmentMesh:
		v.path, _ = in.readStringRef()
		v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))
		v.vertexCount = in.count()
		v.uvs = in.readFloats(v.vertexCount<<1, 1)
		v.triangles = in.readShorts()
		v.bones, v.vertices = d.readVertices(in, sd, v.vertexCount)
		v.hull = in.readVarint(true)
		if nonessential {
			v.edges = in.readShorts()
			v.width = in.readFloat() * scale
			v.height = in.readFloat() * scale
		}

	case skeleton.AttachmentLinkedMesh:
		v.path, _ = in.readStringRef()
		v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))
		v.skin, _ = in.readStringRef()
		v.parent, _ = in.readStringRef()
		v.inheritDeform = in.readBool()
		if nonessential {
			v.width = in.readFloat() * scale
			v.height = in.readFloat() * scale
		}

	case skeleton.AttachmentPath:
		v.closed = in.readBool()
		v.constantSpeed = in.readBool()
		v.vertexCount = in.count()
		v.bones, v.vertices = d.readVertices(in, sd, v.vertexCount)
		v.lengths = in.readFloats(v.vertexCount/3, scale)
		if nonessential {
			v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))
		}

	case skeleton.AttachmentPoint:
		v.rotation = in.readFloat()
		v.x = in.readFloat() * scale
		v.y = in.readFloat() * scale
		if nonessential {
			v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))
		}

	case skeleton.AttachmentClipping:
		v.endSlot = in.index(len(sd.Slots), "slot", "clipping attachment "+v.name)
		v.vertexCount = in.count()
		v.bones, v.vertices = d.readVertices(in, sd, v.vertexCount)
		if nonessential {
			v.setColor(skeleton.ColorFromRGBA8888(in.readUint32()))
		}
	}
	return v
}

// readVertices reads unweighted x,y pairs, or per vertex a bone count
// followed by bone index, x, y and weight per influence.
func (d *Decoder) readVertices(in *binaryInput, sd *skeleton.SkeletonData, vertexCount int) ([]int, []float64) {
	scale := d.scale()
	if !in.readBool() {
		return nil, in.readFloats(vertexCount<<1, scale)
	}
	bones := make([]int, 0, vertexCount*3)
	vertices := make([]float64, 0, vertexCount*9)
	for range vertexCount {
		n := in.count()
		bones = append(bones, n)
		for range n {
			bones = append(bones, in.index(len(sd.Bones), "bone", "weighted vertices"))
			vertices = append(vertices, in.readFloat()*scale, in.readFloat()*scale, in.readFloat())
		}
		if in.err != nil {
			break
		}
	}
	return bones, vertices
}

// curveKeys describes the values of one curve timeline key.
type curveKeys struct {
	values int
	// value reads curved value i of a key.
	value func(i int) float64
	// scales holds the load scale of each curved value, which bezier
	// control values share. Missing entries are 1.
	scales []float64
	// extra reads the uncurved values stored after the curved ones.
	extra func() []float64
}

func floatKeys(in *binaryInput, values int, scale float64) curveKeys {
	return curveKeys{
		values: values,
		value:  func(int) float64 { return in.readFloat() * scale },
		scales: slices.Repeat([]float64{scale}, values),
	}
}

// readCurveFrames reads frameCount keys into t. Every key but the last is
// followed by its curve type and, for beziers, four control values per
// curved value.
func (in *binaryInput) readCurveFrames(t *skeleton.CurveTimeline, frameCount, bezierCount int, k curveKeys) {
	if frameCount == 0 {
		in.fail(fmt.Errorf("%w: timeline without keys at offset %d", ErrInvalidSkeleton, in.pos))
		return
	}
	cur := make([]float64, k.values)
	next := make([]float64, k.values)
	time := in.readFloat()
	for i := range cur {
		cur[i] = k.value(i)
	}
	bezier := 0
	for frame := 0; ; frame++ {
		key := cur
		if k.extra != nil {
			key = append(slices.Clone(cur), k.extra()...)
		}
		t.SetFrame(frame, time, key...)
		if frame == frameCount-1 || in.err != nil {
			return
		}
		time2 := in.readFloat()
		for i := range next {
			next[i] = k.value(i)
		}
		curve, err := skeleton.CurveTypeFromIndex(in.readSByte())
		in.invalid("curve", err)
		switch curve {
		case skeleton.CurveStepped:
			t.SetStepped(frame)
		case skeleton.CurveBezier:
			for i := range k.values {
				scale := 1.0
				if i < len(k.scales) {
					scale = k.scales[i]
				}
				if !in.readBezier(t, &bezier, bezierCount, frame, i, time, cur[i], time2, next[i], scale) {
					return
				}
			}
		}
		time = time2
		cur, next = next, cur
	}
}

// readBezier reads one segment's control values into the next sample
// table slot.
func (in *binaryInput) readBezier(t *skeleton.CurveTimeline, bezier *int, bezierCount, frame, value int, time1, value1, time2, value2, scale float64) bool {
	if *bezier >= bezierCount {
		in.fail(fmt.Errorf("%w: more than %d bezier curves at offset %d", ErrInvalidSkeleton, bezierCount, in.pos))
		return false
	}
	cx1 := in.readFloat()
	cy1 := in.readFloat() * scale
	cx2 := in.readFloat()
	cy2 := in.readFloat() * scale
	t.SetBezier(*bezier, frame, value, time1, value1, cx1, cy1, cx2, cy2, time2, value2)
	*bezier++
	return in.err == nil
}

func (d *Decoder) readAnimation(in *binaryInput, sd *skeleton.SkeletonData, name string) *skeleton.Animation {
	scale := d.scale()
	ctx := "animation " + name
	in.readVarint(true) // timeline count
	var timelines []skeleton.Timeline

	// Slots.
	for range in.count() {
		slot := in.index(len(sd.Slots), "slot", ctx)
		for range in.count() {
			code := int(in.readByte())
			frameCount := in.count()
			if in.err != nil {
				return nil
			}
			if code == slotAttachment {
				t := skeleton.NewAttachmentTimeline(slot, frameCount)
				for frame := range frameCount {
					time := in.readFloat()
					att, _ := in.readStringRef()
					t.SetFrame(frame, time, att)
				}
				timelines = append(timelines, t)
				continue
			}
			mode := skeleton.ColorMode(code - 1)
			if mode > skeleton.ColorAlpha {
				in.fail(invalid("slot timeline", strconv.Itoa(code), ctx))
				return nil
			}
			bezierCount := in.count()
			t := skeleton.NewSlotColorTimeline(mode, slot, frameCount, bezierCount)
			in.readCurveFrames(&t.CurveTimeline, frameCount, bezierCount, curveKeys{
				values: mode.Values(),
				value:  func(int) float64 { return float64(in.readByte()) / 255 },
			})
			timelines = append(timelines, t)
		}
	}

	// Bones.
	for range in.count() {
		bone := in.index(len(sd.Bones), "bone", ctx)
		for range in.count() {
			prop, err := skeleton.BonePropertyFromIndex(int(in.readByte()))
			in.invalid(ctx, err)
			frameCount := in.count()
			bezierCount := in.count()
			if in.err != nil {
				return nil
			}
			s := 1.0
			switch prop {
			case skeleton.BoneTranslate, skeleton.BoneTranslateX, skeleton.BoneTranslateY:
				s = scale
			}
			t := skeleton.NewBoneTimeline(prop, bone, frameCount, bezierCount)
			in.readCurveFrames(&t.CurveTimeline, frameCount, bezierCount, floatKeys(in, prop.Values(), s))
			timelines = append(timelines, t)
		}
	}

	// IK constraints.
	for range in.count() {
		index := in.index(len(sd.IkConstraints), "ik constraint", ctx)
		frameCount := in.count()
		bezierCount := in.count()
		if in.err != nil {
			return nil
		}
		t := skeleton.NewIkConstraintTimeline(index, frameCount, bezierCount)
		in.readCurveFrames(&t.CurveTimeline, frameCount, bezierCount, curveKeys{
			values: 2,
			value: func(i int) float64 {
				if i == 1 {
					return in.readFloat() * scale
				}
				return in.readFloat()
			},
			scales: []float64{1, scale},
			extra: func() []float64 {
				return []float64{float64(in.readSByte()), boolValue(in.readBool()), boolValue(in.readBool())}
			},
		})
		timelines = append(timelines, t)
	}

	// Transform constraints.
	for range in.count() {
		index := in.index(len(sd.TransformConstraints), "transform constraint", ctx)
		frameCount := in.count()
		bezierCount := in.count()
		if in.err != nil {
			return nil
		}
		t := skeleton.NewTransformConstraintTimeline(index, frameCount, bezierCount)
		in.readCurveFrames(&t.CurveTimeline, frameCount, bezierCount, floatKeys(in, 6, 1))
		timelines = append(timelines, t)
	}

	// Path constraints.
	for range in.count() {
		index := in.index(len(sd.PathConstraints), "path constraint", ctx)
		if in.err != nil {
			return nil
		}
		data := sd.PathConstraints[index]
		for range in.count() {
			prop, err := skeleton.PathPropertyFromIndex(in.readSByte())
			in.invalid(ctx, err)
			frameCount := in.count()
			bezierCount := in.count()
			if in.err != nil {
				return nil
			}
			values, s := 1, 1.0
			switch prop {
			case skeleton.PathPosition:
				if data.PositionMode == skeleton.PositionFixed {
					s = scale
				}
			case skeleton.PathSpacing:
				if scalesSpacing(data.SpacingMode) {
					s = scale
				}
			case skeleton.PathMix:
				values = 3
			}
			t := skeleton.NewPathConstraintTimeline(prop, index, frameCount, bezierCount)
			in.readCurveFrames(&t.CurveTimeline, frameCount, bezierCount, floatKeys(in, values, s))
			timelines = append(timelines, t)
		}
	}

	// Deform.
	for range in.count() {
		skinIndex := in.index(len(sd.Skins), "skin", ctx)
		if in.err != nil {
			return nil
		}
		skin := sd.Skins[skinIndex]
		for range in.count() {
			slot := in.index(len(sd.Slots), "slot", ctx)
			for range in.count() {
				att, _ := in.readStringRef()
				if in.err != nil {
					return nil
				}
				va, ok := skin.Attachment(slot, att).(skeleton.VertexAttachment)
				if !ok {
					in.fail(unresolved("vertex attachment", att, ctx))
					return nil
				}
				frameCount := in.count()
				bezierCount := in.count()
				if in.err != nil {
					return nil
				}
				t := skeleton.NewDeformTimeline(slot, va, frameCount, bezierCount)
				d.readDeformFrames(in, t, frameCount, bezierCount)
				timelines = append(timelines, t)
			}
		}
	}

	// Draw order.
	if n := in.count(); n > 0 {
		t := skeleton.NewDrawOrderTimeline(n)
		for frame := range n {
			time := in.readFloat()
			offsetCount := in.count()
			slots := make([]int, offsetCount)
			offsets := make([]int, offsetCount)
			for i := range offsetCount {
				slots[i] = in.readVarint(true)
				offsets[i] = in.readVarint(true)
			}
			if in.err != nil {
				return nil
			}
			order, err := drawOrder(len(sd.Slots), slots, offsets)
			if err != nil {
				in.fail(fmt.Errorf("%s: %w", ctx, err))
				return nil
			}
			t.SetFrame(frame, time, order)
		}
		timelines = append(timelines, t)
	}

	// Events.
	if n := in.count(); n > 0 {
		t := skeleton.NewEventTimeline(n)
		for frame := range n {
			time := in.readFloat()
			index := in.index(len(sd.Events), "event", ctx)
			if in.err != nil {
				return nil
			}
			e := skeleton.NewEvent(time, sd.Events[index])
			e.Int = in.readVarint(false)
			e.Float = in.readFloat()
			if in.readBool() {
				e.String, _ = in.readString()
			}
			if in.eventAudio[index] {
				e.Volume = in.readFloat()
				e.Balance = in.readFloat()
			}
			t.SetFrame(frame, e)
		}
		timelines = append(timelines, t)
	}

	return skeleton.NewAnimation(name, timelines, animationDuration(timelines))
}

// readDeformFrames reads deform keys. Each key stores a run of changed
// values; unweighted keys are absolute vertices once the setup vertices
// are added, weighted keys stay offsets.
func (d *Decoder) readDeformFrames(in *binaryInput, t *skeleton.DeformTimeline, frameCount, bezierCount int) {
	if frameCount == 0 {
		in.fail(fmt.Errorf("%w: deform timeline without keys", ErrInvalidSkeleton))
		return
	}
	scale := d.scale()
	vd := t.Attachment.Vertex()
	weighted := vd.Weighted()
	deformLength := len(vd.Vertices)
	if weighted {
		deformLength = len(vd.Vertices) / 3 * 2
	}

	time := in.readFloat()
	bezier := 0
	for frame := 0; ; frame++ {
		var deform []float64
		end := in.readVarint(true)
		switch {
		case end == 0 && weighted:
			deform = make([]float64, deformLength)
		case end == 0:
			deform = vd.Vertices
		default:
			deform = make([]float64, deformLength)
			start := in.readVarint(true)
			end += start
			if start < 0 || end > deformLength {
				in.fail(fmt.Errorf("%w: deform values %d..%d of %d", ErrInvalidSkeleton, start, end, deformLength))
				return
			}
			for i := start; i < end; i++ {
				deform[i] = in.readFloat() * scale
			}
			if !weighted {
				for i := range deform {
					deform[i] += vd.Vertices[i]
				}
			}
		}
		t.SetKey(frame, time, deform)
		if frame == frameCount-1 || in.err != nil {
			return
		}
		time2 := in.readFloat()
		curve, err := skeleton.CurveTypeFromIndex(in.readSByte())
		in.invalid("curve", err)
		switch curve {
		case skeleton.CurveStepped:
			t.SetStepped(frame)
		case skeleton.CurveBezier:
			if !in.readBezier(&t.CurveTimeline, &bezier, bezierCount, frame, 0, time, 0, time2, 1, 1) {
				return
			}
		}
		time = time2
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
