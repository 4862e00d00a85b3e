// Package codec decodes skeleton setup data from the binary format or
// from JSON documents.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/inamate/rig/internal/skeleton"
)

// Decoder reads skeletons. Its linked mesh queue is scratch state, so a
// Decoder may be reused but not shared between goroutines.
type Decoder struct {
	// Scale multiplies positions, lengths and vertices. Rotation, scale,
	// shear and color values are never scaled. Zero means 1.
	Scale  float64
	Loader AttachmentLoader

	linked []linkedMesh
}

// NewDecoder returns a decoder at scale 1. A nil loader creates untextured
// attachments.
func NewDecoder(loader AttachmentLoader) *Decoder {
	if loader == nil {
		loader = GeometryLoader{}
	}
	return &Decoder{Scale: 1, Loader: loader}
}

func (d *Decoder) scale() float64 {
	if d.Scale == 0 {
		return 1
	}
	return d.Scale
}

func (d *Decoder) loader() AttachmentLoader {
	if d.Loader == nil {
		return GeometryLoader{}
	}
	return d.Loader
}

// IsJSON reports whether data holds a JSON document rather than a binary
// skeleton.
func IsJSON(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && data[0] == '{'
}

// Read decodes a binary or JSON skeleton, whichever data holds.
func (d *Decoder) Read(data []byte) (*skeleton.SkeletonData, error) {
	if IsJSON(data) {
		return d.ReadJSON(data)
	}
	return d.ReadBinary(data)
}

// finish checks that a skeleton can be built from the decoded data.
func (d *Decoder) finish(sd *skeleton.SkeletonData, format string) (*skeleton.SkeletonData, error) {
	if _, err := skeleton.NewSkeleton(sd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSkeleton, err)
	}
	logger().Debug("decode skeleton",
		"format", format,
		"bones", len(sd.Bones),
		"slots", len(sd.Slots),
		"skins", len(sd.Skins),
		"animations", len(sd.Animations))
	return sd, nil
}

type linkedMesh struct {
	mesh          *skeleton.MeshAttachment
	skin          string
	slot          int
	parent        string
	inheritDeform bool
}

// resolveLinkedMeshes links meshes to parents once every skin is loaded,
// since a parent may live in a skin decoded later. It runs before
// animations, whose deform keys need the linked vertices.
func (d *Decoder) resolveLinkedMeshes(sd *skeleton.SkeletonData) error {
	defer func() { d.linked = d.linked[:0] }()
	for _, lm := range d.linked {
		skin := sd.DefaultSkin
		if lm.skin != "" {
			skin = sd.FindSkin(lm.skin)
		}
		if skin == nil {
			return unresolved("skin", lm.skin, "linked mesh "+lm.mesh.Name())
		}
		parent, ok := skin.Attachment(lm.slot, lm.parent).(*skeleton.MeshAttachment)
		if !ok {
			return unresolved("parent mesh", lm.parent, "linked mesh "+lm.mesh.Name())
		}
		if lm.inheritDeform {
			lm.mesh.DeformAttachment = parent
		} else {
			lm.mesh.DeformAttachment = lm.mesh
		}
		lm.mesh.SetParentMesh(parent)
		lm.mesh.UpdateUVs()
	}
	return nil
}

// attachmentValues are decoded attachment fields, already scaled, shared
// by both formats.
type attachmentValues struct {
	typ        skeleton.AttachmentType
	name, path string
	color      skeleton.Color
	hasColor   bool

	x, y, rotation float64
	scaleX, scaleY float64
	width, height  float64
	vertexCount    int
	bones          []int
	vertices       []float64
	uvs            []float64
	triangles      []int
	edges          []int
	hull           int

	closed, constantSpeed bool
	lengths               []float64
	endSlot               int

	skin, parent  string
	inheritDeform bool
}

func skippable(t skeleton.AttachmentType) bool {
	switch t {
	case skeleton.AttachmentRegion, skeleton.AttachmentMesh, skeleton.AttachmentLinkedMesh, skeleton.AttachmentBoundingBox:
		return true
	}
	return false
}

// addAttachment builds an attachment through the loader and stores it in
// skin under entry.
func (d *Decoder) addAttachment(skin *skeleton.Skin, slot int, entry string, v *attachmentValues) error {
	a, err := d.newAttachment(skin, slot, v)
	if errors.Is(err, ErrSkip) {
		if !skippable(v.typ) {
			err = fmt.Errorf("%w: %s attachments cannot be skipped", ErrInvalidSkeleton, v.typ)
		} else {
			logger().Debug("skip attachment", "skin", skin.Name, "attachment", entry)
			return nil
		}
	}
	if err != nil {
		return &LoadError{Kind: v.typ.String() + " attachment", Name: entry, Context: "skin " + skin.Name, Err: err}
	}
	skin.SetAttachment(slot, entry, a)
	return nil
}

func (v *attachmentValues) setColor(c skeleton.Color) {
	v.color, v.hasColor = c, true
}

func (v *attachmentValues) colorOr(def skeleton.Color) skeleton.Color {
	if v.hasColor {
		return v.color
	}
	return def
}

func (d *Decoder) newAttachment(skin *skeleton.Skin, slot int, v *attachmentValues) (skeleton.Attachment, error) {
	path := v.path
	if path == "" {
		path = v.name
	}
	l := d.loader()
	switch v.typ {
	case skeleton.AttachmentRegion:
		r, err := l.NewRegionAttachment(skin, v.name, path)
		if err != nil {
			return nil, err
		}
		r.Path = path
		r.X, r.Y = v.x, v.y
		r.ScaleX, r.ScaleY = v.scaleX, v.scaleY
		r.Rotation = v.rotation
		r.Width, r.Height = v.width, v.height
		r.Color = v.colorOr(r.Color)
		r.UpdateOffset()
		return r, nil

	case skeleton.AttachmentMesh, skeleton.AttachmentLinkedMesh:
		m, err := l.NewMeshAttachment(skin, v.name, path)
		if err != nil {
			return nil, err
		}
		m.Path = path
		m.Color = v.colorOr(m.Color)
		m.Width, m.Height = v.width, v.height
		if v.typ == skeleton.AttachmentLinkedMesh {
			d.linked = append(d.linked, linkedMesh{m, v.skin, slot, v.parent, v.inheritDeform})
			return m, nil
		}
		m.Bones, m.Vertices = v.bones, v.vertices
		m.WorldVerticesLength = v.vertexCount << 1
		m.Triangles = v.triangles
		m.RegionUVs = v.uvs
		m.UpdateUVs()
		m.HullLength = v.hull << 1
		m.Edges = v.edges
		return m, nil

	case skeleton.AttachmentBoundingBox:
		b, err := l.NewBoundingBoxAttachment(skin, v.name)
		if err != nil {
			return nil, err
		}
		b.Bones, b.Vertices = v.bones, v.vertices
		b.WorldVerticesLength = v.vertexCount << 1
		b.Color = v.colorOr(b.Color)
		return b, nil

	case skeleton.AttachmentPath:
		p, err := l.NewPathAttachment(skin, v.name)
		if err != nil {
			return nil, err
		}
		p.Closed, p.ConstantSpeed = v.closed, v.constantSpeed
		p.Bones, p.Vertices = v.bones, v.vertices
		p.WorldVerticesLength = v.vertexCount << 1
		p.Lengths = v.lengths
		p.Color = v.colorOr(p.Color)
		return p, nil

	case skeleton.AttachmentPoint:
		p, err := l.NewPointAttachment(skin, v.name)
		if err != nil {
			return nil, err
		}
		p.X, p.Y = v.x, v.y
		p.Rotation = v.rotation
		p.Color = v.colorOr(p.Color)
		return p, nil

	case skeleton.AttachmentClipping:
		c, err := l.NewClippingAttachment(skin, v.name)
		if err != nil {
			return nil, err
		}
		c.EndSlot = v.endSlot
		c.Bones, c.Vertices = v.bones, v.vertices
		c.WorldVerticesLength = v.vertexCount << 1
		c.Color = v.colorOr(c.Color)
		return c, nil
	}
	return nil, fmt.Errorf("%w: attachment type %d", ErrInvalidSkeleton, int(v.typ))
}

// drawOrder expands slot offsets into a full draw order. Slots without an
// offset keep their relative order in the free positions.
func drawOrder(slotCount int, slots, offsets []int) ([]int, error) {
	order := make([]int, slotCount)
	for i := range order {
		order[i] = -1
	}
	unchanged := make([]int, 0, slotCount)
	original := 0
	for i, slot := range slots {
		if slot < original || slot >= slotCount {
			return nil, fmt.Errorf("%w: draw order slot %d out of order", ErrInvalidSkeleton, slot)
		}
		for original != slot {
			unchanged = append(unchanged, original)
			original++
		}
		at := original + offsets[i]
		if at < 0 || at >= slotCount || order[at] != -1 {
			return nil, fmt.Errorf("%w: draw order offset %d for slot %d", ErrInvalidSkeleton, offsets[i], slot)
		}
		order[at] = original
		original++
	}
	for original < slotCount {
		unchanged = append(unchanged, original)
		original++
	}
	for i := slotCount - 1; i >= 0; i-- {
		if order[i] == -1 {
			n := len(unchanged) - 1
			order[i] = unchanged[n]
			unchanged = unchanged[:n]
		}
	}
	return order, nil
}

// animationDuration is the time of the last key of any timeline.
func animationDuration(timelines []skeleton.Timeline) float64 {
	var duration float64
	for _, t := range timelines {
		duration = max(duration, t.Duration())
	}
	return duration
}
