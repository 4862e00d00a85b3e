package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the JSON form of a skeleton. Field names follow the editor
// export. Missing fields take the editor's defaults when decoded.
type Document struct {
	Skeleton   Header                `json:"skeleton"`
	Bones      []Bone                `json:"bones"`
	Slots      []Slot                `json:"slots,omitempty"`
	IK         []IKConstraint        `json:"ik,omitempty"`
	Transform  []TransformConstraint `json:"transform,omitempty"`
	Path       []PathConstraint      `json:"path,omitempty"`
	Skins      []Skin                `json:"skins,omitempty"`
	Events     Object[Event]         `json:"events,omitempty"`
	Animations Object[Animation]     `json:"animations,omitempty"`
}

type Header struct {
	Hash    string  `json:"hash,omitempty"`
	Version string  `json:"spine,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	FPS     float64 `json:"fps,omitempty"`
	Images  string  `json:"images,omitempty"`
	Audio   string  `json:"audio,omitempty"`
}

func (h *Header) UnmarshalJSON(data []byte) error {
	type plain Header
	p := plain{FPS: 30}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*h = Header(p)
	return nil
}

type Bone struct {
	Name      string  `json:"name"`
	Parent    string  `json:"parent,omitempty"`
	Length    float64 `json:"length,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Rotation  float64 `json:"rotation,omitempty"`
	ScaleX    float64 `json:"scaleX"`
	ScaleY    float64 `json:"scaleY"`
	ShearX    float64 `json:"shearX,omitempty"`
	ShearY    float64 `json:"shearY,omitempty"`
	Transform string  `json:"transform,omitempty"`
	Skin      bool    `json:"skin,omitempty"`
	Color     string  `json:"color,omitempty"`
}

func (b *Bone) UnmarshalJSON(data []byte) error {
	type plain Bone
	p := plain{ScaleX: 1, ScaleY: 1, Transform: "normal"}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Bone(p)
	return nil
}

type Slot struct {
	Name       string `json:"name"`
	Bone       string `json:"bone"`
	Color      string `json:"color,omitempty"`
	Dark       string `json:"dark,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	Blend      string `json:"blend,omitempty"`
}

type IKConstraint struct {
	Name         string   `json:"name"`
	Order        int      `json:"order"`
	Skin         bool     `json:"skin,omitempty"`
	Bones        []string `json:"bones"`
	Target       string   `json:"target"`
	Mix          float64  `json:"mix"`
	Softness     float64  `json:"softness,omitempty"`
	BendPositive bool     `json:"bendPositive"`
	Compress     bool     `json:"compress,omitempty"`
	Stretch      bool     `json:"stretch,omitempty"`
	Uniform      bool     `json:"uniform,omitempty"`
}

func (c *IKConstraint) UnmarshalJSON(data []byte) error {
	type plain IKConstraint
	p := plain{Mix: 1, BendPositive: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = IKConstraint(p)
	return nil
}

// TransformConstraint offsets are named after the values they offset.
// MixY and MixScaleY default to MixX and MixScaleX.
type TransformConstraint struct {
	Name      string   `json:"name"`
	Order     int      `json:"order"`
	Skin      bool     `json:"skin,omitempty"`
	Bones     []string `json:"bones"`
	Target    string   `json:"target"`
	Rotation  float64  `json:"rotation,omitempty"`
	X         float64  `json:"x,omitempty"`
	Y         float64  `json:"y,omitempty"`
	ScaleX    float64  `json:"scaleX,omitempty"`
	ScaleY    float64  `json:"scaleY,omitempty"`
	ShearY    float64  `json:"shearY,omitempty"`
	MixRotate float64  `json:"mixRotate"`
	MixX      float64  `json:"mixX"`
	MixY      *float64 `json:"mixY,omitempty"`
	MixScaleX float64  `json:"mixScaleX"`
	MixScaleY *float64 `json:"mixScaleY,omitempty"`
	MixShearY float64  `json:"mixShearY"`
	Local     bool     `json:"local,omitempty"`
	Relative  bool     `json:"relative,omitempty"`
}

func (c *TransformConstraint) UnmarshalJSON(data []byte) error {
	type plain TransformConstraint
	p := plain{MixRotate: 1, MixX: 1, MixScaleX: 1, MixShearY: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = TransformConstraint(p)
	return nil
}

// MixYOrX returns MixY, or MixX when MixY is absent.
func (c *TransformConstraint) MixYOrX() float64 { return orDefault(c.MixY, c.MixX) }

// MixScaleYOrX returns MixScaleY, or MixScaleX when MixScaleY is absent.
func (c *TransformConstraint) MixScaleYOrX() float64 { return orDefault(c.MixScaleY, c.MixScaleX) }

type PathConstraint struct {
	Name         string   `json:"name"`
	Order        int      `json:"order"`
	Skin         bool     `json:"skin,omitempty"`
	Bones        []string `json:"bones"`
	Target       string   `json:"target"`
	PositionMode string   `json:"positionMode,omitempty"`
	SpacingMode  string   `json:"spacingMode,omitempty"`
	RotateMode   string   `json:"rotateMode,omitempty"`
	Rotation     float64  `json:"rotation,omitempty"`
	Position     float64  `json:"position,omitempty"`
	Spacing      float64  `json:"spacing,omitempty"`
	MixRotate    float64  `json:"mixRotate"`
	MixX         float64  `json:"mixX"`
	MixY         *float64 `json:"mixY,omitempty"`
}

func (c *PathConstraint) UnmarshalJSON(data []byte) error {
	type plain PathConstraint
	p := plain{PositionMode: "percent", SpacingMode: "length", RotateMode: "tangent", MixRotate: 1, MixX: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = PathConstraint(p)
	return nil
}

// MixYOrX returns MixY, or MixX when MixY is absent.
func (c *PathConstraint) MixYOrX() float64 { return orDefault(c.MixY, c.MixX) }

// Skin maps slot name to attachment name to attachment.
type Skin struct {
	Name        string                     `json:"name"`
	Bones       []string                   `json:"bones,omitempty"`
	IK          []string                   `json:"ik,omitempty"`
	Transform   []string                   `json:"transform,omitempty"`
	Path        []string                   `json:"path,omitempty"`
	Attachments Object[Object[Attachment]] `json:"attachments,omitempty"`
}

// Attachment holds the fields of every attachment type; Type selects which
// apply. An empty Type is a region.
type Attachment struct {
	Type     string  `json:"type,omitempty"`
	Name     string  `json:"name,omitempty"`
	Path     string  `json:"path,omitempty"`
	Color    string  `json:"color,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`

	// Vertex attachments. Vertices are weighted when there are more of
	// them than UVs (meshes) or than 2*VertexCount (other types).
	VertexCount int       `json:"vertexCount,omitempty"`
	Vertices    []float64 `json:"vertices,omitempty"`
	UVs         []float64 `json:"uvs,omitempty"`
	Triangles   []int     `json:"triangles,omitempty"`
	Hull        int       `json:"hull,omitempty"`
	Edges       []int     `json:"edges,omitempty"`

	// Linked meshes.
	Skin      string `json:"skin,omitempty"`
	Parent    string `json:"parent,omitempty"`
	Timelines bool   `json:"timelines"`

	// Paths.
	Closed        bool      `json:"closed,omitempty"`
	ConstantSpeed bool      `json:"constantSpeed"`
	Lengths       []float64 `json:"lengths,omitempty"`

	// Clipping end slot.
	End string `json:"end,omitempty"`
}

func (a *Attachment) UnmarshalJSON(data []byte) error {
	type plain Attachment
	p := plain{Type: "region", ScaleX: 1, ScaleY: 1, Timelines: true, ConstantSpeed: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Attachment(p)
	return nil
}

type Event struct {
	Int     int     `json:"int,omitempty"`
	Float   float64 `json:"float,omitempty"`
	String  string  `json:"string,omitempty"`
	Audio   string  `json:"audio,omitempty"`
	Volume  float64 `json:"volume"`
	Balance float64 `json:"balance,omitempty"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	p := plain{Volume: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Event(p)
	return nil
}

// Animation groups timelines by what they animate. Bone and slot maps go
// from bone or slot name to timeline name to keys; deform goes from skin
// to slot to attachment to keys.
type Animation struct {
	Bones     Object[Object[[]Key]]         `json:"bones,omitempty"`
	Slots     Object[Object[[]Key]]         `json:"slots,omitempty"`
	IK        Object[[]Key]                 `json:"ik,omitempty"`
	Transform Object[[]Key]                 `json:"transform,omitempty"`
	Path      Object[Object[[]Key]]         `json:"path,omitempty"`
	Deform    Object[Object[Object[[]Key]]] `json:"deform,omitempty"`
	DrawOrder []DrawOrderKey                `json:"drawOrder,omitempty"`
	Events    []EventKey                    `json:"events,omitempty"`
}

// Key is one timeline key. Which fields apply depends on the timeline;
// absent optional values are nil so each timeline can apply its own
// default.
type Key struct {
	Time  float64  `json:"time,omitempty"`
	Value *float64 `json:"value,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Curve *Curve   `json:"curve,omitempty"`

	// Attachment name; nil hides the attachment.
	Name *string `json:"name,omitempty"`

	Color string `json:"color,omitempty"`
	Light string `json:"light,omitempty"`
	Dark  string `json:"dark,omitempty"`

	Mix          *float64 `json:"mix,omitempty"`
	Softness     float64  `json:"softness,omitempty"`
	BendPositive *bool    `json:"bendPositive,omitempty"`
	Compress     bool     `json:"compress,omitempty"`
	Stretch      bool     `json:"stretch,omitempty"`

	MixRotate *float64 `json:"mixRotate,omitempty"`
	MixX      *float64 `json:"mixX,omitempty"`
	MixY      *float64 `json:"mixY,omitempty"`
	MixScaleX *float64 `json:"mixScaleX,omitempty"`
	MixScaleY *float64 `json:"mixScaleY,omitempty"`
	MixShearY *float64 `json:"mixShearY,omitempty"`

	Offset   int       `json:"offset,omitempty"`
	Vertices []float64 `json:"vertices,omitempty"`
}

// Curve is "stepped" or bezier control points, cx1, cy1, cx2, cy2 per
// keyed value. A nil curve is linear.
type Curve struct {
	Stepped bool
	Bezier  []float64
}

func (c *Curve) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "stepped" {
			return fmt.Errorf("unknown curve %q", s)
		}
		*c = Curve{Stepped: true}
		return nil
	}
	var pts []float64
	if err := json.Unmarshal(data, &pts); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if len(pts)%4 != 0 {
		return fmt.Errorf("curve: %d control values, want a multiple of 4", len(pts))
	}
	*c = Curve{Bezier: pts}
	return nil
}

func (c Curve) MarshalJSON() ([]byte, error) {
	if c.Stepped {
		return []byte(`"stepped"`), nil
	}
	return json.Marshal(c.Bezier)
}

type DrawOrderKey struct {
	Time    float64           `json:"time,omitempty"`
	Offsets []DrawOrderOffset `json:"offsets,omitempty"`
}

type DrawOrderOffset struct {
	Slot   string `json:"slot"`
	Offset int    `json:"offset"`
}

// EventKey fires a named event. Absent values take the event's setup
// values.
type EventKey struct {
	Time    float64  `json:"time,omitempty"`
	Name    string   `json:"name"`
	Int     *int     `json:"int,omitempty"`
	Float   *float64 `json:"float,omitempty"`
	String  *string  `json:"string,omitempty"`
	Volume  *float64 `json:"volume,omitempty"`
	Balance *float64 `json:"balance,omitempty"`
}

// Entry is one member of an Object.
type Entry[T any] struct {
	Key   string
	Value T
}

// Object is a JSON object decoded with its key order kept. Skin
// attachments and animations are indexed in document order.
type Object[T any] []Entry[T]

// Get returns the value for key.
func (o Object[T]) Get(key string) (T, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}
	var zero T
	return zero, false
}

// Set replaces the value for key, or appends it.
func (o *Object[T]) Set(key string, v T) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, Entry[T]{key, v})
}

func (o *Object[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	var out Object[T]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, Entry[T]{key, v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

func (o Object[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Float returns *p, or def when p is nil.
func Float(p *float64, def float64) float64 { return orDefault(p, def) }

// Parse decodes a JSON skeleton document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse skeleton json: %w", err)
	}
	return &doc, nil
}
