package document

func bone(name, parent string, x, y, rotation, length float64) Bone {
	return Bone{
		Name: name, Parent: parent,
		X: x, Y: y, Rotation: rotation, Length: length,
		ScaleX: 1, ScaleY: 1, Transform: "normal",
	}
}

func region(width, height, x, y, rotation float64) Attachment {
	return Attachment{
		Type: "region", X: x, Y: y, Rotation: rotation,
		Width: width, Height: height,
		ScaleX: 1, ScaleY: 1, Timelines: true, ConstantSpeed: true,
	}
}

func f(v float64) *float64 { return &v }

// NewSampleDocument returns the built-in sample rig: a torso and a two-bone
// arm reaching for a target through an IK constraint. The forearm is a
// mesh drawn inside a clipping window, and an "armored" skin swaps it for
// a tinted linked mesh. Animation "wave" swings the upper arm.
func NewSampleDocument() *Document {
	foreArm := Attachment{
		Type:          "mesh",
		UVs:           []float64{0, 1, 1, 1, 1, 0, 0, 0},
		Triangles:     []int{0, 1, 2, 2, 3, 0},
		Vertices:      []float64{0, -6, 40, -6, 40, 6, 0, 6},
		Hull:          4,
		Edges:         []int{0, 2, 2, 4, 4, 6, 6, 0},
		Width:         40,
		Height:        12,
		ScaleX:        1,
		ScaleY:        1,
		Timelines:     true,
		ConstantSpeed: true,
	}
	armored := Attachment{
		Type:          "mesh",
		Path:          "foreArm-armored",
		Color:         "c0c0ffff",
		Parent:        "foreArm",
		Width:         40,
		Height:        12,
		ScaleX:        1,
		ScaleY:        1,
		Timelines:     true,
		ConstantSpeed: true,
	}
	window := Attachment{
		Type:          "clipping",
		End:           "foreArm",
		VertexCount:   4,
		Vertices:      []float64{-100, 0, 70, 0, 70, 220, -100, 220},
		Color:         "ce3a3aff",
		ScaleX:        1,
		ScaleY:        1,
		Timelines:     true,
		ConstantSpeed: true,
	}
	hitbox := Attachment{
		Type:          "boundingbox",
		VertexCount:   4,
		Vertices:      []float64{0, -12, 60, -12, 60, 12, 0, 12},
		Color:         "60f000ff",
		ScaleX:        1,
		ScaleY:        1,
		Timelines:     true,
		ConstantSpeed: true,
	}

	return &Document{
		Skeleton: Header{Version: "4.0.64", X: -100, Y: 0, Width: 200, Height: 220, FPS: 30},
		Bones: []Bone{
			bone("root", "", 0, 0, 0, 0),
			bone("torso", "root", 0, 40, 90, 60),
			bone("shoulder", "torso", 55, 0, -90, 0),
			bone("upperArm", "shoulder", 0, 0, 0, 50),
			bone("foreArm", "upperArm", 50, 0, 0, 40),
			bone("armTarget", "root", 70, 80, 0, 0),
		},
		Slots: []Slot{
			{Name: "torso", Bone: "torso", Attachment: "torso"},
			{Name: "window", Bone: "root", Attachment: "window"},
			{Name: "upperArm", Bone: "upperArm", Attachment: "upperArm"},
			{Name: "foreArm", Bone: "foreArm", Attachment: "foreArm", Dark: "202020"},
			{Name: "hitbox", Bone: "torso", Attachment: "hitbox"},
		},
		IK: []IKConstraint{
			{Name: "reach", Bones: []string{"upperArm", "foreArm"}, Target: "armTarget", Mix: 1, BendPositive: true},
		},
		Skins: []Skin{
			{
				Name: "default",
				Attachments: Object[Object[Attachment]]{
					{"torso", Object[Attachment]{{"torso", region(24, 64, 30, 0, -90)}}},
					{"window", Object[Attachment]{{"window", window}}},
					{"upperArm", Object[Attachment]{{"upperArm", region(50, 14, 25, 0, 0)}}},
					{"foreArm", Object[Attachment]{{"foreArm", foreArm}}},
					{"hitbox", Object[Attachment]{{"hitbox", hitbox}}},
				},
			},
			{
				Name: "armored",
				Attachments: Object[Object[Attachment]]{
					{"foreArm", Object[Attachment]{{"foreArm", armored}}},
				},
			},
		},
		Events: Object[Event]{
			{"step", Event{Int: 1, Volume: 1}},
		},
		Animations: Object[Animation]{
			{"wave", Animation{
				Bones: Object[Object[[]Key]]{
					{"upperArm", Object[[]Key]{
						{"rotate", []Key{
							{Time: 0, Value: f(0), Curve: &Curve{Bezier: []float64{0.25, 0, 0.75, 30}}},
							{Time: 0.5, Value: f(30)},
							{Time: 1, Value: f(0)},
						}},
					}},
				},
				IK: Object[[]Key]{
					{"reach", []Key{
						{Time: 0, Mix: f(1)},
						{Time: 0.5, Mix: f(0), Curve: &Curve{Stepped: true}},
						{Time: 1, Mix: f(1)},
					}},
				},
				Events: []EventKey{{Time: 0.5, Name: "step"}},
			}},
		},
	}
}
