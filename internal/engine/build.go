package engine

import (
	"github.com/inamate/rig/internal/clipping"
	"github.com/inamate/rig/internal/skeleton"
)

// BuildSceneGraph resolves every visible region and mesh attachment of a
// posed skeleton to world-space triangles, in draw order. Attachments
// between a clipping attachment and its end slot are clipped against it.
// The skeleton's world transforms must be up to date.
func BuildSceneGraph(s *skeleton.Skeleton, clipper *clipping.Clipper) *SceneGraph {
	sg := NewSceneGraph()
	defer clipper.ClipEnd()

	for _, slot := range s.DrawOrder() {
		if !slot.Bone().Active() {
			clipper.ClipEndWithSlot(slot)
			continue
		}
		if clip, ok := slot.Attachment().(*skeleton.ClippingAttachment); ok {
			clipper.ClipStart(slot, clip)
			continue
		}
		if node := buildNode(s, slot, clipper); node != nil {
			sg.add(node)
		}
		clipper.ClipEndWithSlot(slot)
	}

	return sg
}

// buildNode resolves one slot. It returns nil when the slot shows nothing
// drawable, is fully transparent or is clipped away.
func buildNode(s *skeleton.Skeleton, slot *skeleton.Slot, clipper *clipping.Clipper) *SceneNode {
	var (
		vertices  []float64
		uvs       []float64
		triangles []int
		tint      skeleton.Color
		path      string
	)

	switch a := slot.Attachment().(type) {
	case *skeleton.RegionAttachment:
		vertices = make([]float64, 8)
		a.ComputeWorldVertices(slot.Bone(), vertices, 0, 2)
		uvs = append([]float64(nil), a.UVs[:]...)
		triangles = skeleton.QuadTriangles
		tint = a.Color
		path = texturePath(a.Path, a.Name(), a.Region)
	case *skeleton.MeshAttachment:
		n := a.WorldVerticesLength
		vertices = make([]float64, n)
		a.ComputeWorldVertices(slot, 0, n, vertices, 0, 2)
		uvs = a.UVs
		triangles = a.Triangles
		tint = a.Color
		path = texturePath(a.Path, a.Name(), a.Region)
	default:
		return nil
	}

	color := s.Color.Mul(slot.Color).Mul(tint)
	if color.A == 0 {
		return nil
	}

	node := &SceneNode{
		Slot:       slot.Data().Name,
		Attachment: slot.Attachment().Name(),
		Bone:       slot.Bone().Data().Name,
		Vertices:   vertices,
		UVs:        uvs,
		Triangles:  triangles,
		Color:      color,
		Dark:       slot.DarkColor,
		Blend:      slot.Data().BlendMode,
		Texture:    path,
	}

	if clipper.IsClipping() {
		clipper.ClipTriangles(&clipping.Mesh{
			Vertices:  vertices,
			UVs:       uvs,
			Triangles: triangles,
			Light:     color,
		}, false)
		node.Vertices, node.UVs = splitClipped(clipper.ClippedVertices())
		node.Triangles = append([]int(nil), clipper.ClippedTriangles()...)
		node.Clipped = true
		if len(node.Triangles) == 0 {
			return nil
		}
	}

	node.Bounds = vertexBounds(node.Vertices)
	return node
}

// splitClipped separates positions and texture coordinates from clipper
// output laid out with clipping.Stride.
func splitClipped(out []float64) (vertices, uvs []float64) {
	n := len(out) / clipping.Stride
	vertices = make([]float64, 0, n*2)
	uvs = make([]float64, 0, n*2)
	for i := 0; i+clipping.Stride <= len(out); i += clipping.Stride {
		vertices = append(vertices, out[i], out[i+1])
		uvs = append(uvs, out[i+6], out[i+7])
	}
	return vertices, uvs
}

// texturePath names the image a node samples: the atlas page when the
// attachment was packed, else its path.
func texturePath(path, name string, region *skeleton.TextureRegion) string {
	if region != nil && region.Page != "" {
		return region.Page
	}
	if path != "" {
		return path
	}
	return name
}
