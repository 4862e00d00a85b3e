package engine

import "github.com/inamate/rig/internal/skeleton"

// SceneGraph is the posed, render-ready state of a skeleton: one node per
// slot that draws something, in draw order.
type SceneGraph struct {
	Nodes       []*SceneNode
	NodesBySlot map[string]*SceneNode

	// Bounds is the union of all node bounds.
	Bounds Rect
}

// SceneNode is one slot's attachment resolved to world-space triangles.
// Clipped nodes hold the clipper's output instead of the attachment's own
// geometry.
type SceneNode struct {
	Slot       string
	Attachment string
	Bone       string

	// Vertices and UVs are x,y and u,v pairs, one pair per vertex.
	Vertices  []float64
	UVs       []float64
	Triangles []int

	// Color is the skeleton, slot and attachment tints multiplied.
	Color   skeleton.Color
	Dark    *skeleton.Color
	Blend   skeleton.BlendMode
	Texture string
	Clipped bool

	// Hit testing
	Bounds Rect // axis-aligned bounding box in world space
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		NodesBySlot: make(map[string]*SceneNode),
	}
}

func (sg *SceneGraph) add(node *SceneNode) {
	sg.Nodes = append(sg.Nodes, node)
	sg.NodesBySlot[node.Slot] = node
	sg.Bounds = sg.Bounds.Union(node.Bounds)
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// vertexBounds returns the box around x,y pairs.
func vertexBounds(vertices []float64) Rect {
	if len(vertices) < 2 {
		return Rect{}
	}
	minX, minY := vertices[0], vertices[1]
	maxX, maxY := minX, minY
	for i := 2; i+1 < len(vertices); i += 2 {
		minX = min(minX, vertices[i])
		minY = min(minY, vertices[i+1])
		maxX = max(maxX, vertices[i])
		maxY = max(maxY, vertices[i+1])
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
