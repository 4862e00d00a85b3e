package engine

import (
	"encoding/json"
	"slices"

	"github.com/inamate/rig/internal/skeleton"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// Every command is a textured, tinted triangle list in world space.
type DrawCommand struct {
	Op         string    `json:"op"`                // Operation: "mesh"
	Slot       string    `json:"slot"`              // For hit correlation
	Attachment string    `json:"attachment"`        // Attachment name
	Vertices   []float64 `json:"vertices"`          // x,y pairs
	UVs        []float64 `json:"uvs"`               // u,v pairs
	Triangles  []int     `json:"triangles"`         // Indices into the vertex pairs
	Color      string    `json:"color"`             // rrggbbaa tint
	Dark       string    `json:"dark,omitempty"`    // rrggbbaa dark tint
	Blend      string    `json:"blend"`             // normal, additive, multiply, screen
	Texture    string    `json:"texture,omitempty"` // Image path or atlas page
	Clipped    bool      `json:"clipped,omitempty"` // Geometry was clipped
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front).
func CompileDrawCommands(sg *SceneGraph) []DrawCommand {
	if sg == nil {
		return nil
	}

	commands := make([]DrawCommand, 0, len(sg.Nodes))
	for _, node := range sg.Nodes {
		cmd := DrawCommand{
			Op:         "mesh",
			Slot:       node.Slot,
			Attachment: node.Attachment,
			Vertices:   node.Vertices,
			UVs:        node.UVs,
			Triangles:  node.Triangles,
			Color:      node.Color.Hex(),
			Blend:      node.Blend.String(),
			Texture:    node.Texture,
			Clipped:    node.Clipped,
		}
		if node.Dark != nil {
			cmd.Dark = node.Dark.Hex()
		}
		commands = append(commands, cmd)
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest performs a hit test on the scene graph at the given point.
// Returns the slot of the topmost (frontmost) node with a triangle
// containing the point, or empty string.
func HitTest(sg *SceneGraph, x, y float64) string {
	if sg == nil {
		return ""
	}

	// Traverse in reverse order (front to back) to get topmost hit
	for _, node := range slices.Backward(sg.Nodes) {
		if !node.Bounds.Contains(x, y) {
			continue
		}
		if trianglesContain(node.Vertices, node.Triangles, x, y) {
			return node.Slot
		}
	}
	return ""
}

func trianglesContain(vertices []float64, triangles []int, x, y float64) bool {
	var tri [6]float64
	for i := 0; i+2 < len(triangles); i += 3 {
		for j := range 3 {
			v := triangles[i+j] << 1
			tri[j*2], tri[j*2+1] = vertices[v], vertices[v+1]
		}
		if skeleton.PolygonContainsPoint(tri[:], x, y) {
			return true
		}
	}
	return false
}

// GetSelectionBounds returns the combined bounding box of the given slots.
func GetSelectionBounds(sg *SceneGraph, slots []string) Rect {
	if sg == nil || len(slots) == 0 {
		return Rect{}
	}

	var result Rect
	for _, name := range slots {
		node, ok := sg.NodesBySlot[name]
		if !ok {
			continue
		}
		result = result.Union(node.Bounds)
	}

	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
