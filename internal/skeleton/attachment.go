package skeleton

import (
	"fmt"
	"math"
)

// AttachmentType identifies the concrete type of an Attachment. The values
// are the binary format ordinals.
type AttachmentType int

const (
	AttachmentRegion AttachmentType = iota
	AttachmentBoundingBox
	AttachmentMesh
	AttachmentLinkedMesh
	AttachmentPath
	AttachmentPoint
	AttachmentClipping
)

var attachmentTypeNames = [...]string{"region", "boundingbox", "mesh", "linkedmesh", "path", "point", "clipping"}

func (t AttachmentType) String() string {
	if t < 0 || int(t) >= len(attachmentTypeNames) {
		return fmt.Sprintf("AttachmentType(%d)", int(t))
	}
	return attachmentTypeNames[t]
}

// ParseAttachmentType resolves the document name of an attachment type.
func ParseAttachmentType(s string) (AttachmentType, error) {
	for i, name := range attachmentTypeNames {
		if name == s {
			return AttachmentType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attachment type %q", s)
}

// Attachment is anything a slot can show: *RegionAttachment,
// *MeshAttachment, *BoundingBoxAttachment, *PathAttachment,
// *PointAttachment or *ClippingAttachment.
type Attachment interface {
	Name() string
	Type() AttachmentType
	// Copy returns an attachment with the same setup values. Copies of
	// linked meshes stay linked to the same parent.
	Copy() Attachment
}

// VertexAttachment is an attachment whose geometry is a list of vertices
// bound to one or more bones.
type VertexAttachment interface {
	Attachment
	Vertex() *VertexData
}

// VertexData holds the vertices shared by the vertex attachment types.
//
// Unweighted vertices are x,y pairs in the slot bone's space and Bones is
// nil. Weighted vertices are x,y,weight triples in each influencing bone's
// space; Bones then holds, per vertex, the bone count followed by that many
// bone indices.
type VertexData struct {
	Bones               []int
	Vertices            []float64
	WorldVerticesLength int
	// DeformAttachment is the attachment whose deform keys apply to this
	// one. It is the attachment itself unless it is a linked mesh that
	// inherits deformation from its parent.
	DeformAttachment VertexAttachment
}

// Weighted reports whether vertices are bound to more than one bone.
func (v *VertexData) Weighted() bool { return v.Bones != nil }

// ComputeWorldVertices transforms count world values (x,y pairs) starting
// at start into out, beginning at offset and advancing stride per vertex.
// The slot's Deform offsets are applied when present.
func (v *VertexData) ComputeWorldVertices(slot *Slot, start, count int, out []float64, offset, stride int) {
	count = offset + (count>>1)*stride
	deform := slot.Deform
	vertices := v.Vertices
	if v.Bones == nil {
		if len(deform) > 0 {
			vertices = deform
		}
		bone := slot.Bone()
		x, y := bone.WorldX, bone.WorldY
		a, b, c, d := bone.A, bone.B, bone.C, bone.D
		for vi, w := start, offset; w < count; vi, w = vi+2, w+stride {
			vx, vy := vertices[vi], vertices[vi+1]
			out[w] = vx*a + vy*b + x
			out[w+1] = vx*c + vy*d + y
		}
		return
	}

	vi, skip := 0, 0
	for i := 0; i < start; i += 2 {
		n := v.Bones[vi]
		vi += n + 1
		skip += n
	}
	bones := slot.skeleton.bones
	for w, bi, f := offset, skip*3, skip<<1; w < count; w += stride {
		var wx, wy float64
		n := v.Bones[vi] + vi + 1
		vi++
		for ; vi < n; vi, bi, f = vi+1, bi+3, f+2 {
			bone := bones[v.Bones[vi]]
			vx, vy, weight := vertices[bi], vertices[bi+1], vertices[bi+2]
			if len(deform) > 0 {
				vx += deform[f]
				vy += deform[f+1]
			}
			wx += (vx*bone.A + vy*bone.B + bone.WorldX) * weight
			wy += (vx*bone.C + vy*bone.D + bone.WorldY) * weight
		}
		out[w] = wx
		out[w+1] = wy
	}
}

func (v *VertexData) copyTo(dst *VertexData) {
	if v.Bones != nil {
		dst.Bones = append([]int(nil), v.Bones...)
	}
	if v.Vertices != nil {
		dst.Vertices = append([]float64(nil), v.Vertices...)
	}
	dst.WorldVerticesLength = v.WorldVerticesLength
	dst.DeformAttachment = v.DeformAttachment
}

// TextureRegion locates an attachment's image on an atlas page.
type TextureRegion struct {
	Page                  string
	PageWidth, PageHeight float64
	U, V, U2, V2          float64
	// Degrees is the rotation of the packed image: 0, 90, 180 or 270.
	Degrees                   int
	OffsetX, OffsetY          float64
	PackedWidth, PackedHeight float64
	OriginalWidth             float64
	OriginalHeight            float64
}

// Rotated reports whether the packed image is stored sideways.
func (r *TextureRegion) Rotated() bool { return r.Degrees == 90 || r.Degrees == 270 }

// Corner order for region quads.
const (
	blx, bly = 0, 1
	ulx, uly = 2, 3
	urx, ury = 4, 5
	brx, bry = 6, 7
)

// QuadTriangles indexes the four region vertices as two triangles.
var QuadTriangles = []int{0, 1, 2, 2, 3, 0}

// RegionAttachment is a textured quad positioned relative to its bone.
type RegionAttachment struct {
	name   string
	Path   string
	X, Y   float64
	ScaleX float64
	ScaleY float64
	// Rotation is in degrees.
	Rotation      float64
	Width, Height float64
	Color         Color
	Region        *TextureRegion

	// Offset holds the quad corners in bone space, UVs the matching
	// texture coordinates, both in bottom-left, upper-left, upper-right,
	// bottom-right order.
	Offset [8]float64
	UVs    [8]float64
}

// NewRegionAttachment returns a region with unit scale and a white tint.
func NewRegionAttachment(name string) *RegionAttachment {
	return &RegionAttachment{name: name, ScaleX: 1, ScaleY: 1, Color: White}
}

func (r *RegionAttachment) Name() string         { return r.name }
func (r *RegionAttachment) Type() AttachmentType { return AttachmentRegion }

func (r *RegionAttachment) Copy() Attachment {
	c := *r
	return &c
}

// UpdateOffset recomputes Offset from position, size, scale, rotation and
// the whitespace stripped from the packed region.
func (r *RegionAttachment) UpdateOffset() {
	width, height := r.Width, r.Height
	localX2, localY2 := width/2, height/2
	localX, localY := -localX2, -localY2
	if reg := r.Region; reg != nil && reg.OriginalWidth > 0 && reg.OriginalHeight > 0 {
		localX += reg.OffsetX / reg.OriginalWidth * width
		localY += reg.OffsetY / reg.OriginalHeight * height
		packedW, packedH := reg.PackedWidth, reg.PackedHeight
		if reg.Rotated() {
			packedW, packedH = packedH, packedW
		}
		localX2 -= (reg.OriginalWidth - reg.OffsetX - packedW) / reg.OriginalWidth * width
		localY2 -= (reg.OriginalHeight - reg.OffsetY - packedH) / reg.OriginalHeight * height
	}
	localX *= r.ScaleX
	localY *= r.ScaleY
	localX2 *= r.ScaleX
	localY2 *= r.ScaleY

	cos, sin := cosDeg(r.Rotation), sinDeg(r.Rotation)
	localXCos := localX*cos + r.X
	localXSin := localX * sin
	localYCos := localY*cos + r.Y
	localYSin := localY * sin
	localX2Cos := localX2*cos + r.X
	localX2Sin := localX2 * sin
	localY2Cos := localY2*cos + r.Y
	localY2Sin := localY2 * sin

	o := &r.Offset
	o[blx] = localXCos - localYSin
	o[bly] = localYCos + localXSin
	o[ulx] = localXCos - localY2Sin
	o[uly] = localY2Cos + localXSin
	o[urx] = localX2Cos - localY2Sin
	o[ury] = localY2Cos + localX2Sin
	o[brx] = localX2Cos - localYSin
	o[bry] = localYCos + localX2Sin
}

// SetUVs assigns texture coordinates to the quad corners. V grows
// downward. A rotated region is stored turned a quarter clockwise, so each
// corner takes the coordinates of its counter-clockwise neighbor.
func (r *RegionAttachment) SetUVs(u, v, u2, v2 float64, rotated bool) {
	uv := &r.UVs
	if rotated {
		uv[blx], uv[bly] = u2, v2
		uv[ulx], uv[uly] = u, v2
		uv[urx], uv[ury] = u, v
		uv[brx], uv[bry] = u2, v
		return
	}
	uv[blx], uv[bly] = u, v2
	uv[ulx], uv[uly] = u, v
	uv[urx], uv[ury] = u2, v
	uv[brx], uv[bry] = u2, v2
}

// ComputeWorldVertices writes the four quad corners, transformed by bone,
// into out starting at offset and advancing stride per vertex.
func (r *RegionAttachment) ComputeWorldVertices(bone *Bone, out []float64, offset, stride int) {
	x, y := bone.WorldX, bone.WorldY
	a, b, c, d := bone.A, bone.B, bone.C, bone.D
	for i := 0; i < 8; i += 2 {
		ox, oy := r.Offset[i], r.Offset[i+1]
		out[offset] = ox*a + oy*b + x
		out[offset+1] = ox*c + oy*d + y
		offset += stride
	}
}

// BoundingBoxAttachment is a polygon used for hit detection.
type BoundingBoxAttachment struct {
	VertexData
	name  string
	Color Color
}

// NewBoundingBoxAttachment returns an empty bounding box.
func NewBoundingBoxAttachment(name string) *BoundingBoxAttachment {
	a := &BoundingBoxAttachment{name: name, Color: Color{0.38, 0.94, 0, 1}}
	a.DeformAttachment = a
	return a
}

func (a *BoundingBoxAttachment) Name() string         { return a.name }
func (a *BoundingBoxAttachment) Type() AttachmentType { return AttachmentBoundingBox }
func (a *BoundingBoxAttachment) Vertex() *VertexData  { return &a.VertexData }

func (a *BoundingBoxAttachment) Copy() Attachment {
	c := &BoundingBoxAttachment{name: a.name, Color: a.Color}
	a.copyTo(&c.VertexData)
	c.DeformAttachment = c
	return c
}

// ClippingAttachment is a polygon that clips the slots drawn after it, up
// to and including EndSlot.
type ClippingAttachment struct {
	VertexData
	name string
	// EndSlot is the index of the last clipped slot, or -1 to clip until
	// the end of the draw order.
	EndSlot int
	Color   Color
}

// NewClippingAttachment returns an empty clipping polygon.
func NewClippingAttachment(name string) *ClippingAttachment {
	a := &ClippingAttachment{name: name, EndSlot: -1, Color: Color{0.2275, 0.2275, 0.8078, 1}}
	a.DeformAttachment = a
	return a
}

func (a *ClippingAttachment) Name() string         { return a.name }
func (a *ClippingAttachment) Type() AttachmentType { return AttachmentClipping }
func (a *ClippingAttachment) Vertex() *VertexData  { return &a.VertexData }

func (a *ClippingAttachment) Copy() Attachment {
	c := &ClippingAttachment{name: a.name, EndSlot: a.EndSlot, Color: a.Color}
	a.copyTo(&c.VertexData)
	c.DeformAttachment = c
	return c
}

// PathAttachment is a chain of cubic bezier curves. Vertices hold, per
// curve point, the incoming handle, the point and the outgoing handle.
type PathAttachment struct {
	VertexData
	name string
	// Lengths holds the cumulative length at the end of each curve.
	Lengths       []float64
	Closed        bool
	ConstantSpeed bool
	Color         Color
}

// NewPathAttachment returns an empty path.
func NewPathAttachment(name string) *PathAttachment {
	a := &PathAttachment{name: name, ConstantSpeed: true, Color: Color{1, 0.5, 0, 1}}
	a.DeformAttachment = a
	return a
}

func (a *PathAttachment) Name() string         { return a.name }
func (a *PathAttachment) Type() AttachmentType { return AttachmentPath }
func (a *PathAttachment) Vertex() *VertexData  { return &a.VertexData }

func (a *PathAttachment) Copy() Attachment {
	c := &PathAttachment{name: a.name, Closed: a.Closed, ConstantSpeed: a.ConstantSpeed, Color: a.Color}
	a.copyTo(&c.VertexData)
	c.Lengths = append([]float64(nil), a.Lengths...)
	c.DeformAttachment = c
	return c
}

// PointAttachment is a single point and direction, for spawning effects
// or attaching other objects.
type PointAttachment struct {
	name     string
	X, Y     float64
	Rotation float64
	Color    Color
}

// NewPointAttachment returns a point at the bone origin.
func NewPointAttachment(name string) *PointAttachment {
	return &PointAttachment{name: name, Color: Color{0.9451, 0.9451, 0, 1}}
}

func (a *PointAttachment) Name() string         { return a.name }
func (a *PointAttachment) Type() AttachmentType { return AttachmentPoint }

func (a *PointAttachment) Copy() Attachment {
	c := *a
	return &c
}

// ComputeWorldPosition returns the point in world space.
func (a *PointAttachment) ComputeWorldPosition(bone *Bone) (float64, float64) {
	return bone.LocalToWorld(a.X, a.Y)
}

// ComputeWorldRotation returns the point's direction in world degrees.
func (a *PointAttachment) ComputeWorldRotation(bone *Bone) float64 {
	cos, sin := cosDeg(a.Rotation), sinDeg(a.Rotation)
	x := cos*bone.A + sin*bone.B
	y := cos*bone.C + sin*bone.D
	return math.Atan2(y, x) * radDeg
}
