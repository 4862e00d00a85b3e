package codec

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/inamate/rig/internal/document"
	"github.com/inamate/rig/internal/skeleton"
)

// ReadJSON decodes a JSON skeleton document.
func (d *Decoder) ReadJSON(data []byte) (*skeleton.SkeletonData, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSkeleton, err)
	}
	return d.ReadDocument(doc)
}

// ReadDocument decodes an already parsed JSON document. Absent values
// take their defaults; names resolve against entities decoded earlier.
func (d *Decoder) ReadDocument(doc *document.Document) (*skeleton.SkeletonData, error) {
	d.linked = d.linked[:0]
	sd, err := d.readDocument(doc)
	if err == nil {
		sd, err = d.finish(sd, "json")
	}
	if err != nil {
		d.linked = d.linked[:0]
		return nil, fmt.Errorf("decode json skeleton: %w", err)
	}
	return sd, nil
}

func parseColor(s string, def skeleton.Color, context string) (skeleton.Color, error) {
	if s == "" {
		return def, nil
	}
	c, err := skeleton.ParseHexColor(s)
	if err != nil {
		return def, invalid("color", s, context)
	}
	return c, nil
}

func findBones(sd *skeleton.SkeletonData, names []string, context string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		b := sd.FindBone(name)
		if b == nil {
			return nil, unresolved("bone", name, context)
		}
		out = append(out, b.Index)
	}
	return out, nil
}

func (d *Decoder) readDocument(doc *document.Document) (*skeleton.SkeletonData, error) {
	scale := d.scale()
	sd := skeleton.NewSkeletonData()
	h := doc.Skeleton
	sd.Hash, sd.Version = h.Hash, h.Version
	sd.X, sd.Y = h.X, h.Y
	sd.Width, sd.Height = h.Width, h.Height
	sd.FPS = h.FPS
	sd.ImagesPath, sd.AudioPath = h.Images, h.Audio

	for i, b := range doc.Bones {
		ctx := "bone " + b.Name
		parent := -1
		if b.Parent != "" {
			p := sd.FindBone(b.Parent)
			if p == nil {
				return nil, unresolved("bone", b.Parent, "parent of "+ctx)
			}
			parent = p.Index
		}
		bd := skeleton.NewBoneData(i, b.Name, parent)
		bd.Length = b.Length * scale
		bd.X = b.X * scale
		bd.Y = b.Y * scale
		bd.Rotation = b.Rotation
		bd.ScaleX, bd.ScaleY = b.ScaleX, b.ScaleY
		bd.ShearX, bd.ShearY = b.ShearX, b.ShearY
		mode, err := skeleton.ParseTransformMode(b.Transform)
		if err != nil {
			return nil, invalid("transform mode", b.Transform, ctx)
		}
		bd.TransformMode = mode
		bd.SkinRequired = b.Skin
		if bd.Color, err = parseColor(b.Color, bd.Color, ctx); err != nil {
			return nil, err
		}
		sd.Bones = append(sd.Bones, bd)
	}

	for i, s := range doc.Slots {
		ctx := "slot " + s.Name
		bone := sd.FindBone(s.Bone)
		if bone == nil {
			return nil, unresolved("bone", s.Bone, ctx)
		}
		sl := skeleton.NewSlotData(i, s.Name, bone.Index)
		var err error
		if sl.Color, err = parseColor(s.Color, sl.Color, ctx); err != nil {
			return nil, err
		}
		if s.Dark != "" {
			dark, err := parseColor(s.Dark, skeleton.White, ctx)
			if err != nil {
				return nil, err
			}
			sl.DarkColor = &dark
		}
		sl.AttachmentName = s.Attachment
		if s.Blend != "" {
			if sl.BlendMode, err = skeleton.ParseBlendMode(s.Blend); err != nil {
				return nil, invalid("blend mode", s.Blend, ctx)
			}
		}
		sd.Slots = append(sd.Slots, sl)
	}

	if err := d.readConstraints(doc, sd); err != nil {
		return nil, err
	}
	if err := d.readSkins(doc, sd); err != nil {
		return nil, err
	}
	if err := d.resolveLinkedMeshes(sd); err != nil {
		return nil, err
	}

	for _, e := range doc.Events {
		ed := skeleton.NewEventData(e.Key)
		ed.Int = e.Value.Int
		ed.Float = e.Value.Float
		ed.String = e.Value.String
		ed.AudioPath = e.Value.Audio
		if ed.AudioPath != "" {
			ed.Volume = e.Value.Volume
			ed.Balance = e.Value.Balance
		}
		sd.Events = append(sd.Events, ed)
	}

	for _, a := range doc.Animations {
		anim, err := d.readJSONAnimation(sd, a.Key, &a.Value)
		if err != nil {
			return nil, err
		}
		sd.Animations = append(sd.Animations, anim)
	}
	return sd, nil
}

func (d *Decoder) readConstraints(doc *document.Document, sd *skeleton.SkeletonData) error {
	scale := d.scale()
	for _, c := range doc.IK {
		ctx := "ik constraint " + c.Name
		data := skeleton.NewIkConstraintData(c.Name)
		data.Order, data.SkinRequired = c.Order, c.Skin
		bones, err := findBones(sd, c.Bones, ctx)
		if err != nil {
			return err
		}
		if len(bones) < 1 || len(bones) > 2 {
			return invalid("bone count", strconv.Itoa(len(bones)), ctx)
		}
		data.Bones = bones
		target := sd.FindBone(c.Target)
		if target == nil {
			return unresolved("bone", c.Target, ctx)
		}
		data.Target = target.Index
		data.Mix = c.Mix
		data.Softness = c.Softness * scale
		data.BendDirection = 1
		if !c.BendPositive {
			data.BendDirection = -1
		}
		data.Compress, data.Stretch, data.Uniform = c.Compress, c.Stretch, c.Uniform
		sd.IkConstraints = append(sd.IkConstraints, data)
	}

	for _, c := range doc.Transform {
		ctx := "transform constraint " + c.Name
		data := skeleton.NewTransformConstraintData(c.Name)
		data.Order, data.SkinRequired = c.Order, c.Skin
		bones, err := findBones(sd, c.Bones, ctx)
		if err != nil {
			return err
		}
		data.Bones = bones
		target := sd.FindBone(c.Target)
		if target == nil {
			return unresolved("bone", c.Target, ctx)
		}
		data.Target = target.Index
		data.Local, data.Relative = c.Local, c.Relative
		data.OffsetRotation = c.Rotation
		data.OffsetX = c.X * scale
		data.OffsetY = c.Y * scale
		data.OffsetScaleX = c.ScaleX
		data.OffsetScaleY = c.ScaleY
		data.OffsetShearY = c.ShearY
		data.MixRotate = c.MixRotate
		data.MixX = c.MixX
		data.MixY = c.MixYOrX()
		data.MixScaleX = c.MixScaleX
		data.MixScaleY = c.MixScaleYOrX()
		data.MixShearY = c.MixShearY
		sd.TransformConstraints = append(sd.TransformConstraints, data)
	}

	for _, c := range doc.Path {
		ctx := "path constraint " + c.Name
		data := skeleton.NewPathConstraintData(c.Name)
		data.Order, data.SkinRequired = c.Order, c.Skin
		bones, err := findBones(sd, c.Bones, ctx)
		if err != nil {
			return err
		}
		data.Bones = bones
		target := sd.FindSlot(c.Target)
		if target == nil {
			return unresolved("slot", c.Target, ctx)
		}
		data.Target = target.Index
		if data.PositionMode, err = skeleton.ParsePositionMode(c.PositionMode); err != nil {
			return invalid("position mode", c.PositionMode, ctx)
		}
		if data.SpacingMode, err = skeleton.ParseSpacingMode(c.SpacingMode); err != nil {
			return invalid("spacing mode", c.SpacingMode, ctx)
		}
		if data.RotateMode, err = skeleton.ParseRotateMode(c.RotateMode); err != nil {
			return invalid("rotate mode", c.RotateMode, ctx)
		}
		data.OffsetRotation = c.Rotation
		data.Position = c.Position
		if data.PositionMode == skeleton.PositionFixed {
			data.Position *= scale
		}
		data.Spacing = c.Spacing
		if scalesSpacing(data.SpacingMode) {
			data.Spacing *= scale
		}
		data.MixRotate = c.MixRotate
		data.MixX = c.MixX
		data.MixY = c.MixYOrX()
		sd.PathConstraints = append(sd.PathConstraints, data)
	}
	return nil
}

func (d *Decoder) readSkins(doc *document.Document, sd *skeleton.SkeletonData) error {
	for _, s := range doc.Skins {
		ctx := "skin " + s.Name
		skin := skeleton.NewSkin(s.Name)
		bones, err := findBones(sd, s.Bones, ctx)
		if err != nil {
			return err
		}
		skin.Bones = bones
		for _, name := range s.IK {
			c := sd.FindIkConstraint(name)
			if c == nil {
				return unresolved("ik constraint", name, ctx)
			}
			skin.Constraints = append(skin.Constraints, c)
		}
		for _, name := range s.Transform {
			c := sd.FindTransformConstraint(name)
			if c == nil {
				return unresolved("transform constraint", name, ctx)
			}
			skin.Constraints = append(skin.Constraints, c)
		}
		for _, name := range s.Path {
			c := sd.FindPathConstraint(name)
			if c == nil {
				return unresolved("path constraint", name, ctx)
			}
			skin.Constraints = append(skin.Constraints, c)
		}

		for _, slotEntry := range s.Attachments {
			slot := sd.FindSlot(slotEntry.Key)
			if slot == nil {
				return unresolved("slot", slotEntry.Key, ctx)
			}
			for _, e := range slotEntry.Value {
				v, err := d.jsonAttachment(sd, e.Key, &e.Value)
				if err != nil {
					return err
				}
				if err := d.addAttachment(skin, slot.Index, e.Key, v); err != nil {
					return err
				}
			}
		}
		sd.Skins = append(sd.Skins, skin)
		if skin.Name == "default" {
			sd.DefaultSkin = skin
		}
	}
	return nil
}

func (d *Decoder) jsonAttachment(sd *skeleton.SkeletonData, entry string, a *document.Attachment) (*attachmentValues, error) {
	scale := d.scale()
	name := a.Name
	if name == "" {
		name = entry
	}
	ctx := "attachment " + name
	typ, err := skeleton.ParseAttachmentType(a.Type)
	if err != nil {
		return nil, invalid("attachment type", a.Type, ctx)
	}
	v := &attachmentValues{
		typ:           typ,
		name:          name,
		path:          a.Path,
		scaleX:        a.ScaleX,
		scaleY:        a.ScaleY,
		closed:        a.Closed,
		constantSpeed: a.ConstantSpeed,
		inheritDeform: a.Timelines,
		endSlot:       -1,
	}
	if a.Color != "" {
		c, err := parseColor(a.Color, skeleton.White, ctx)
		if err != nil {
			return nil, err
		}
		v.setColor(c)
	}

	switch typ {
	case skeleton.AttachmentRegion:
		v.x, v.y = a.X*scale, a.Y*scale
		v.rotation = a.Rotation
		v.width, v.height = a.Width*scale, a.Height*scale

	case skeleton.AttachmentBoundingBox:
		v.vertexCount = a.VertexCount
		v.bones, v.vertices, err = d.jsonVertices(sd, a.Vertices, a.VertexCount<<1, ctx)

	case skeleton.AttachmentMesh, skeleton.AttachmentLinkedMesh:
		v.width, v.height = a.Width*scale, a.Height*scale
		if a.Parent != "" {
			v.typ = skeleton.AttachmentLinkedMesh
			v.skin, v.parent = a.Skin, a.Parent
			return v, nil
		}
		if typ == skeleton.AttachmentLinkedMesh {
			return nil, invalid("parent mesh", "", ctx)
		}
		v.typ = skeleton.AttachmentMesh
		v.uvs = slices.Clone(a.UVs)
		v.vertexCount = len(a.UVs) >> 1
		v.triangles = slices.Clone(a.Triangles)
		v.hull = a.Hull
		v.edges = slices.Clone(a.Edges)
		v.bones, v.vertices, err = d.jsonVertices(sd, a.Vertices, len(a.UVs), ctx)

	case skeleton.AttachmentPath:
		v.vertexCount = a.VertexCount
		v.lengths = make([]float64, len(a.Lengths))
		for i, l := range a.Lengths {
			v.lengths[i] = l * scale
		}
		v.bones, v.vertices, err = d.jsonVertices(sd, a.Vertices, a.VertexCount<<1, ctx)

	case skeleton.AttachmentPoint:
		v.x, v.y = a.X*scale, a.Y*scale
		v.rotation = a.Rotation

	case skeleton.AttachmentClipping:
		if a.End != "" {
			end := sd.FindSlot(a.End)
			if end == nil {
				return nil, unresolved("slot", a.End, ctx)
			}
			v.endSlot = end.Index
		}
		v.vertexCount = a.VertexCount
		v.bones, v.vertices, err = d.jsonVertices(sd, a.Vertices, a.VertexCount<<1, ctx)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// jsonVertices splits the vertices array. It holds worldLength x,y values
// when unweighted; otherwise, per vertex, a bone count followed by bone
// index, x, y and weight per influence.
func (d *Decoder) jsonVertices(sd *skeleton.SkeletonData, vertices []float64, worldLength int, context string) ([]int, []float64, error) {
	scale := d.scale()
	if len(vertices) == worldLength {
		out := make([]float64, len(vertices))
		for i, v := range vertices {
			out[i] = v * scale
		}
		return nil, out, nil
	}

	bones := make([]int, 0, len(vertices)/2)
	weights := make([]float64, 0, len(vertices))
	count := 0
	for i := 0; i < len(vertices); count++ {
		n := int(vertices[i])
		i++
		if n < 0 || i+n*4 > len(vertices) {
			return nil, nil, invalid("weighted vertices", strconv.Itoa(count), context)
		}
		bones = append(bones, n)
		for end := i + n*4; i < end; i += 4 {
			b := int(vertices[i])
			if b < 0 || b >= len(sd.Bones) {
				return nil, nil, unresolved("bone", "#"+strconv.Itoa(b), context)
			}
			bones = append(bones, b)
			weights = append(weights, vertices[i+1]*scale, vertices[i+2]*scale, vertices[i+3])
		}
	}
	if count<<1 != worldLength {
		return nil, nil, invalid("vertex count", strconv.Itoa(count), context)
	}
	return bones, weights, nil
}

// jsonCurveFrames fills t with one key per entry of values. extra holds
// uncurved values appended to each key and may be nil. scales is the load
// scale of each curved value, applied to bezier control values.
func jsonCurveFrames(t *skeleton.CurveTimeline, keys []document.Key, values, extra [][]float64, scales []float64, context string) error {
	bezier := 0
	for frame := range keys {
		k := &keys[frame]
		key := values[frame]
		if extra != nil {
			key = append(slices.Clone(key), extra[frame]...)
		}
		t.SetFrame(frame, k.Time, key...)
		if frame == len(keys)-1 || k.Curve == nil {
			continue
		}
		if k.Curve.Stepped {
			t.SetStepped(frame)
			continue
		}
		cur, next := values[frame], values[frame+1]
		if len(k.Curve.Bezier) < len(cur)*4 {
			return invalid("curve", strconv.Itoa(frame), context)
		}
		for i := range cur {
			s := 1.0
			if i < len(scales) {
				s = scales[i]
			}
			c := k.Curve.Bezier[i*4:]
			t.SetBezier(bezier, frame, i, k.Time, cur[i], c[0], c[1]*s, c[2], c[3]*s, keys[frame+1].Time, next[i])
			bezier++
		}
	}
	return nil
}

// bezierCount is the number of bezier segments keys need, one per curved
// value of each key followed by a bezier curve.
func bezierCount(keys []document.Key, values int) int {
	n := 0
	for i := 0; i+1 < len(keys); i++ {
		if c := keys[i].Curve; c != nil && !c.Stepped {
			n += values
		}
	}
	return n
}

// keyValues collects the curved values of each key.
func keyValues(keys []document.Key, f func(k *document.Key) []float64) [][]float64 {
	out := make([][]float64, len(keys))
	for i := range keys {
		out[i] = f(&keys[i])
	}
	return out
}

func colorKeys(keys []document.Key, mode skeleton.ColorMode, context string) ([][]float64, error) {
	out := make([][]float64, len(keys))
	for i := range keys {
		k := &keys[i]
		var light, dark string
		switch mode {
		case skeleton.ColorRGBA2, skeleton.ColorRGB2:
			light, dark = k.Light, k.Dark
		case skeleton.ColorAlpha:
			out[i] = []float64{document.Float(k.Value, 0)}
			continue
		default:
			light = k.Color
		}
		l, err := parseColor(light, skeleton.White, context)
		if err != nil {
			return nil, err
		}
		switch mode {
		case skeleton.ColorRGBA:
			out[i] = []float64{l.R, l.G, l.B, l.A}
		case skeleton.ColorRGB:
			out[i] = []float64{l.R, l.G, l.B}
		default:
			dk, err := parseColor(dark, skeleton.White, context)
			if err != nil {
				return nil, err
			}
			if mode == skeleton.ColorRGBA2 {
				out[i] = []float64{l.R, l.G, l.B, l.A, dk.R, dk.G, dk.B}
			} else {
				out[i] = []float64{l.R, l.G, l.B, dk.R, dk.G, dk.B}
			}
		}
	}
	return out, nil
}

// boneKeys reads the values of a bone timeline: "value" for single value
// timelines, "x" and "y" for the others.
func boneKeys(keys []document.Key, p skeleton.BoneProperty, scale float64) [][]float64 {
	def := 0.0
	switch p {
	case skeleton.BoneScale, skeleton.BoneScaleX, skeleton.BoneScaleY:
		def = 1
	}
	return keyValues(keys, func(k *document.Key) []float64 {
		if p.Values() == 1 {
			return []float64{document.Float(k.Value, def) * scale}
		}
		return []float64{document.Float(k.X, def) * scale, document.Float(k.Y, def) * scale}
	})
}

func (d *Decoder) readJSONAnimation(sd *skeleton.SkeletonData, name string, a *document.Animation) (*skeleton.Animation, error) {
	scale := d.scale()
	ctx := "animation " + name
	var timelines []skeleton.Timeline

	for _, slotEntry := range a.Slots {
		slot := sd.FindSlot(slotEntry.Key)
		if slot == nil {
			return nil, unresolved("slot", slotEntry.Key, ctx)
		}
		for _, tl := range slotEntry.Value {
			keys := tl.Value
			if len(keys) == 0 {
				continue
			}
			if tl.Key == "attachment" {
				t := skeleton.NewAttachmentTimeline(slot.Index, len(keys))
				for frame, k := range keys {
					att := ""
					if k.Name != nil {
						att = *k.Name
					}
					t.SetFrame(frame, k.Time, att)
				}
				timelines = append(timelines, t)
				continue
			}
			mode, err := skeleton.ParseColorMode(tl.Key)
			if err != nil {
				return nil, invalid("slot timeline", tl.Key, ctx)
			}
			values, err := colorKeys(keys, mode, ctx)
			if err != nil {
				return nil, err
			}
			t := skeleton.NewSlotColorTimeline(mode, slot.Index, len(keys), bezierCount(keys, mode.Values()))
			if err := jsonCurveFrames(&t.CurveTimeline, keys, values, nil, nil, ctx); err != nil {
				return nil, err
			}
			timelines = append(timelines, t)
		}
	}

	for _, boneEntry := range a.Bones {
		bone := sd.FindBone(boneEntry.Key)
		if bone == nil {
			return nil, unresolved("bone", boneEntry.Key, ctx)
		}
		for _, tl := range boneEntry.Value {
			keys := tl.Value
			if len(keys) == 0 {
				continue
			}
			prop, err := skeleton.ParseBoneProperty(tl.Key)
			if err != nil {
				return nil, invalid("bone timeline", tl.Key, ctx)
			}
			s := 1.0
			switch prop {
			case skeleton.BoneTranslate, skeleton.BoneTranslateX, skeleton.BoneTranslateY:
				s = scale
			}
			t := skeleton.NewBoneTimeline(prop, bone.Index, len(keys), bezierCount(keys, prop.Values()))
			if err := jsonCurveFrames(&t.CurveTimeline, keys, boneKeys(keys, prop, s), nil, []float64{s, s}, ctx); err != nil {
				return nil, err
			}
			timelines = append(timelines, t)
		}
	}

	for _, e := range a.IK {
		c := sd.FindIkConstraint(e.Key)
		if c == nil {
			return nil, unresolved("ik constraint", e.Key, ctx)
		}
		keys := e.Value
		if len(keys) == 0 {
			continue
		}
		values := keyValues(keys, func(k *document.Key) []float64 {
			return []float64{document.Float(k.Mix, 1), k.Softness * scale}
		})
		extra := keyValues(keys, func(k *document.Key) []float64 {
			bend := 1.0
			if k.BendPositive != nil && !*k.BendPositive {
				bend = -1
			}
			return []float64{bend, boolValue(k.Compress), boolValue(k.Stretch)}
		})
		t := skeleton.NewIkConstraintTimeline(slices.Index(sd.IkConstraints, c), len(keys), bezierCount(keys, 2))
		if err := jsonCurveFrames(&t.CurveTimeline, keys, values, extra, []float64{1, scale}, ctx); err != nil {
			return nil, err
		}
		timelines = append(timelines, t)
	}

	for _, e := range a.Transform {
		c := sd.FindTransformConstraint(e.Key)
		if c == nil {
			return nil, unresolved("transform constraint", e.Key, ctx)
		}
		keys := e.Value
		if len(keys) == 0 {
			continue
		}
		values := keyValues(keys, func(k *document.Key) []float64 {
			mixX := document.Float(k.MixX, 1)
			mixScaleX := document.Float(k.MixScaleX, 1)
			return []float64{
				document.Float(k.MixRotate, 1),
				mixX,
				document.Float(k.MixY, mixX),
				mixScaleX,
				document.Float(k.MixScaleY, mixScaleX),
				document.Float(k.MixShearY, 1),
			}
		})
		t := skeleton.NewTransformConstraintTimeline(slices.Index(sd.TransformConstraints, c), len(keys), bezierCount(keys, 6))
		if err := jsonCurveFrames(&t.CurveTimeline, keys, values, nil, nil, ctx); err != nil {
			return nil, err
		}
		timelines = append(timelines, t)
	}

	for _, e := range a.Path {
		c := sd.FindPathConstraint(e.Key)
		if c == nil {
			return nil, unresolved("path constraint", e.Key, ctx)
		}
		index := slices.Index(sd.PathConstraints, c)
		for _, tl := range e.Value {
			keys := tl.Value
			if len(keys) == 0 {
				continue
			}
			prop, err := skeleton.ParsePathProperty(tl.Key)
			if err != nil {
				return nil, invalid("path timeline", tl.Key, ctx)
			}
			var values [][]float64
			s := 1.0
			switch prop {
			case skeleton.PathPosition, skeleton.PathSpacing:
				if (prop == skeleton.PathPosition && c.PositionMode == skeleton.PositionFixed) ||
					(prop == skeleton.PathSpacing && scalesSpacing(c.SpacingMode)) {
					s = scale
				}
				values = keyValues(keys, func(k *document.Key) []float64 {
					return []float64{document.Float(k.Value, 0) * s}
				})
			case skeleton.PathMix:
				values = keyValues(keys, func(k *document.Key) []float64 {
					mixX := document.Float(k.MixX, 1)
					return []float64{document.Float(k.MixRotate, 1), mixX, document.Float(k.MixY, mixX)}
				})
			}
			t := skeleton.NewPathConstraintTimeline(prop, index, len(keys), bezierCount(keys, len(values[0])))
			if err := jsonCurveFrames(&t.CurveTimeline, keys, values, nil, []float64{s}, ctx); err != nil {
				return nil, err
			}
			timelines = append(timelines, t)
		}
	}

	for _, skinEntry := range a.Deform {
		skin := sd.FindSkin(skinEntry.Key)
		if skin == nil {
			return nil, unresolved("skin", skinEntry.Key, ctx)
		}
		for _, slotEntry := range skinEntry.Value {
			slot := sd.FindSlot(slotEntry.Key)
			if slot == nil {
				return nil, unresolved("slot", slotEntry.Key, ctx)
			}
			for _, e := range slotEntry.Value {
				va, ok := skin.Attachment(slot.Index, e.Key).(skeleton.VertexAttachment)
				if !ok {
					return nil, unresolved("vertex attachment", e.Key, ctx)
				}
				if len(e.Value) == 0 {
					continue
				}
				t, err := d.jsonDeform(slot.Index, va, e.Value, ctx)
				if err != nil {
					return nil, err
				}
				timelines = append(timelines, t)
			}
		}
	}

	if len(a.DrawOrder) > 0 {
		t := skeleton.NewDrawOrderTimeline(len(a.DrawOrder))
		for frame, k := range a.DrawOrder {
			var order []int
			if k.Offsets != nil {
				slots := make([]int, len(k.Offsets))
				offsets := make([]int, len(k.Offsets))
				for i, o := range k.Offsets {
					slot := sd.FindSlot(o.Slot)
					if slot == nil {
						return nil, unresolved("slot", o.Slot, ctx)
					}
					slots[i], offsets[i] = slot.Index, o.Offset
				}
				var err error
				if order, err = drawOrder(len(sd.Slots), slots, offsets); err != nil {
					return nil, fmt.Errorf("%s: %w", ctx, err)
				}
			}
			t.SetFrame(frame, k.Time, order)
		}
		timelines = append(timelines, t)
	}

	if len(a.Events) > 0 {
		t := skeleton.NewEventTimeline(len(a.Events))
		for frame, k := range a.Events {
			data := sd.FindEvent(k.Name)
			if data == nil {
				return nil, unresolved("event", k.Name, ctx)
			}
			e := skeleton.NewEvent(k.Time, data)
			if k.Int != nil {
				e.Int = *k.Int
			}
			e.Float = document.Float(k.Float, e.Float)
			if k.String != nil {
				e.String = *k.String
			}
			if data.AudioPath != "" {
				e.Volume = document.Float(k.Volume, e.Volume)
				e.Balance = document.Float(k.Balance, e.Balance)
			}
			t.SetFrame(frame, e)
		}
		timelines = append(timelines, t)
	}

	return skeleton.NewAnimation(name, timelines, animationDuration(timelines)), nil
}

// jsonDeform builds a deform timeline. A key without vertices is the
// setup pose; others store a run of values starting at offset.
func (d *Decoder) jsonDeform(slot int, va skeleton.VertexAttachment, keys []document.Key, context string) (*skeleton.DeformTimeline, error) {
	scale := d.scale()
	vd := va.Vertex()
	weighted := vd.Weighted()
	deformLength := len(vd.Vertices)
	if weighted {
		deformLength = len(vd.Vertices) / 3 * 2
	}

	t := skeleton.NewDeformTimeline(slot, va, len(keys), bezierCount(keys, 1))
	bezier := 0
	for frame := range keys {
		k := &keys[frame]
		var deform []float64
		switch {
		case k.Vertices == nil && weighted:
			deform = make([]float64, deformLength)
		case k.Vertices == nil:
			deform = vd.Vertices
		default:
			if k.Offset < 0 || k.Offset+len(k.Vertices) > deformLength {
				return nil, invalid("deform key", strconv.Itoa(frame), context)
			}
			deform = make([]float64, deformLength)
			for i, v := range k.Vertices {
				deform[k.Offset+i] = v * scale
			}
			if !weighted {
				for i := range deform {
					deform[i] += vd.Vertices[i]
				}
			}
		}
		t.SetKey(frame, k.Time, deform)
		if frame == len(keys)-1 || k.Curve == nil {
			continue
		}
		if k.Curve.Stepped {
			t.SetStepped(frame)
			continue
		}
		if len(k.Curve.Bezier) < 4 {
			return nil, invalid("curve", strconv.Itoa(frame), context)
		}
		c := k.Curve.Bezier
		t.SetBezier(bezier, frame, 0, k.Time, 0, c[0], c[1], c[2], c[3], keys[frame+1].Time, 1)
		bezier++
	}
	return t, nil
}
