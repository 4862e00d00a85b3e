package skeleton

// MeshAttachment is a textured, weighted or unweighted triangle mesh.
// A linked mesh shares geometry with its parent mesh and differs only in
// texture, tint and size.
type MeshAttachment struct {
	VertexData
	name   string
	Path   string
	Color  Color
	Region *TextureRegion

	// RegionUVs are the vertex texture coordinates within the region, in
	// [0, 1]. UVs are the same coordinates mapped onto the atlas page.
	RegionUVs []float64
	UVs       []float64
	Triangles []int
	// HullLength is the number of world values on the mesh's hull.
	HullLength int

	// Nonessential authoring data.
	Edges         []int
	Width, Height float64

	parentMesh *MeshAttachment
}

// NewMeshAttachment returns an empty mesh with a white tint.
func NewMeshAttachment(name string) *MeshAttachment {
	m := &MeshAttachment{name: name, Color: White}
	m.DeformAttachment = m
	return m
}

func (m *MeshAttachment) Name() string        { return m.name }
func (m *MeshAttachment) Vertex() *VertexData { return &m.VertexData }

// Type reports AttachmentLinkedMesh for meshes sharing a parent's geometry.
func (m *MeshAttachment) Type() AttachmentType {
	if m.parentMesh != nil {
		return AttachmentLinkedMesh
	}
	return AttachmentMesh
}

// ParentMesh returns the mesh whose geometry this one shares, or nil.
func (m *MeshAttachment) ParentMesh() *MeshAttachment { return m.parentMesh }

// SetParentMesh makes m share parent's geometry. A nil parent only clears
// the link.
func (m *MeshAttachment) SetParentMesh(parent *MeshAttachment) {
	m.parentMesh = parent
	if parent == nil {
		return
	}
	m.Bones = parent.Bones
	m.Vertices = parent.Vertices
	m.WorldVerticesLength = parent.WorldVerticesLength
	m.RegionUVs = parent.RegionUVs
	m.Triangles = parent.Triangles
	m.HullLength = parent.HullLength
	m.Edges = parent.Edges
	m.Width = parent.Width
	m.Height = parent.Height
}

// UpdateUVs maps RegionUVs onto the atlas page, undoing the packed
// rotation and stripped whitespace of the region. Without a region the
// UVs are the region UVs.
func (m *MeshAttachment) UpdateUVs() {
	regionUVs := m.RegionUVs
	if len(m.UVs) != len(regionUVs) {
		m.UVs = make([]float64, len(regionUVs))
	}
	uvs := m.UVs
	n := len(uvs)

	reg := m.Region
	if reg == nil {
		copy(uvs, regionUVs)
		return
	}
	u, v := reg.U, reg.V
	var width, height float64
	if reg.PageWidth <= 0 || reg.PageHeight <= 0 || reg.OriginalWidth <= 0 || reg.OriginalHeight <= 0 {
		width, height = reg.U2-u, reg.V2-v
		for i := 0; i < n; i += 2 {
			uvs[i] = u + regionUVs[i]*width
			uvs[i+1] = v + regionUVs[i+1]*height
		}
		return
	}

	tw, th := reg.PageWidth, reg.PageHeight
	switch reg.Degrees {
	case 90:
		u -= (reg.OriginalHeight - reg.OffsetY - reg.PackedWidth) / tw
		v -= (reg.OriginalWidth - reg.OffsetX - reg.PackedHeight) / th
		width = reg.OriginalHeight / tw
		height = reg.OriginalWidth / th
		for i := 0; i < n; i += 2 {
			uvs[i] = u + regionUVs[i+1]*width
			uvs[i+1] = v + (1-regionUVs[i])*height
		}
	case 180:
		u -= (reg.OriginalWidth - reg.OffsetX - reg.PackedWidth) / tw
		v -= reg.OffsetY / th
		width = reg.OriginalWidth / tw
		height = reg.OriginalHeight / th
		for i := 0; i < n; i += 2 {
			uvs[i] = u + (1-regionUVs[i])*width
			uvs[i+1] = v + (1-regionUVs[i+1])*height
		}
	case 270:
		u -= reg.OffsetY / tw
		v -= reg.OffsetX / th
		width = reg.OriginalHeight / tw
		height = reg.OriginalWidth / th
		for i := 0; i < n; i += 2 {
			uvs[i] = u + (1-regionUVs[i+1])*width
			uvs[i+1] = v + regionUVs[i]*height
		}
	default:
		u -= reg.OffsetX / tw
		v -= (reg.OriginalHeight - reg.OffsetY - reg.PackedHeight) / th
		width = reg.OriginalWidth / tw
		height = reg.OriginalHeight / th
		for i := 0; i < n; i += 2 {
			uvs[i] = u + regionUVs[i]*width
			uvs[i+1] = v + regionUVs[i+1]*height
		}
	}
}

// Copy returns a deep copy of an ordinary mesh, or a new linked mesh for
// a linked one.
func (m *MeshAttachment) Copy() Attachment {
	if m.parentMesh != nil {
		return m.NewLinkedMesh()
	}
	c := NewMeshAttachment(m.name)
	c.Path = m.Path
	c.Color = m.Color
	c.Region = m.Region
	m.copyTo(&c.VertexData)
	c.DeformAttachment = c
	c.RegionUVs = append([]float64(nil), m.RegionUVs...)
	c.UVs = append([]float64(nil), m.UVs...)
	c.Triangles = append([]int(nil), m.Triangles...)
	c.HullLength = m.HullLength
	if m.Edges != nil {
		c.Edges = append([]int(nil), m.Edges...)
	}
	c.Width, c.Height = m.Width, m.Height
	return c
}

// NewLinkedMesh returns a mesh linked to m, or to m's parent when m is
// itself linked.
func (m *MeshAttachment) NewLinkedMesh() *MeshAttachment {
	c := NewMeshAttachment(m.name)
	c.Path = m.Path
	c.Color = m.Color
	c.Region = m.Region
	c.DeformAttachment = m.DeformAttachment
	parent := m.parentMesh
	if parent == nil {
		parent = m
	}
	c.SetParentMesh(parent)
	c.UpdateUVs()
	return c
}
