package skeleton

import "fmt"

// ConstraintData is the setup data shared by every constraint type.
type ConstraintData interface {
	ConstraintName() string
	ConstraintOrder() int
	IsSkinRequired() bool
}

// ConstraintBase holds the fields common to all constraint setup data.
type ConstraintBase struct {
	Name string
	// Order positions the constraint in the update cache. It is global
	// across IK, transform and path constraints.
	Order        int
	SkinRequired bool
}

func (c *ConstraintBase) ConstraintName() string { return c.Name }
func (c *ConstraintBase) ConstraintOrder() int   { return c.Order }
func (c *ConstraintBase) IsSkinRequired() bool   { return c.SkinRequired }

// IkConstraintData is the setup state of an IK constraint.
type IkConstraintData struct {
	ConstraintBase
	// Bones holds one bone, or a parent and its direct child.
	Bones  []int
	Target int
	// BendDirection is 1 or -1.
	BendDirection int
	Compress      bool
	Stretch       bool
	Uniform       bool
	Mix           float64
	Softness      float64
}

// NewIkConstraintData returns IK setup data with full mix and a positive
// bend direction.
func NewIkConstraintData(name string) *IkConstraintData {
	return &IkConstraintData{
		ConstraintBase: ConstraintBase{Name: name},
		BendDirection:  1,
		Mix:            1,
	}
}

// TransformConstraintData is the setup state of a transform constraint.
type TransformConstraintData struct {
	ConstraintBase
	Bones  []int
	Target int

	MixRotate, MixX, MixY           float64
	MixScaleX, MixScaleY, MixShearY float64

	OffsetRotation   float64
	OffsetX, OffsetY float64
	OffsetScaleX     float64
	OffsetScaleY     float64
	OffsetShearY     float64
	Relative, Local  bool
}

// NewTransformConstraintData returns transform setup data with all mixes at 1.
func NewTransformConstraintData(name string) *TransformConstraintData {
	return &TransformConstraintData{
		ConstraintBase: ConstraintBase{Name: name},
		MixRotate:      1, MixX: 1, MixY: 1,
		MixScaleX: 1, MixScaleY: 1, MixShearY: 1,
	}
}

// PositionMode controls how a path constraint's position is interpreted.
type PositionMode int

const (
	PositionFixed PositionMode = iota
	PositionPercent
)

// SpacingMode controls how spacing between constrained bones is computed.
type SpacingMode int

const (
	SpacingLength SpacingMode = iota
	SpacingFixed
	SpacingPercent
	SpacingProportional
)

// RotateMode controls how path constrained bones are rotated.
type RotateMode int

const (
	RotateTangent RotateMode = iota
	RotateChain
	RotateChainScale
)

var (
	positionModeNames = [...]string{"fixed", "percent"}
	spacingModeNames  = [...]string{"length", "fixed", "percent", "proportional"}
	rotateModeNames   = [...]string{"tangent", "chain", "chainScale"}
)

func (m PositionMode) String() string { return enumName(positionModeNames[:], int(m), "PositionMode") }
func (m SpacingMode) String() string  { return enumName(spacingModeNames[:], int(m), "SpacingMode") }
func (m RotateMode) String() string   { return enumName(rotateModeNames[:], int(m), "RotateMode") }

func enumName(names []string, i int, kind string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

func enumIndex(names []string, s, kind string) (int, error) {
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

// ParsePositionMode resolves the document name of a position mode.
func ParsePositionMode(s string) (PositionMode, error) {
	i, err := enumIndex(positionModeNames[:], s, "position mode")
	return PositionMode(i), err
}

// ParseSpacingMode resolves the document name of a spacing mode.
func ParseSpacingMode(s string) (SpacingMode, error) {
	i, err := enumIndex(spacingModeNames[:], s, "spacing mode")
	return SpacingMode(i), err
}

// ParseRotateMode resolves the document name of a rotate mode.
func ParseRotateMode(s string) (RotateMode, error) {
	i, err := enumIndex(rotateModeNames[:], s, "rotate mode")
	return RotateMode(i), err
}

// PathConstraintData is the setup state of a path constraint.
type PathConstraintData struct {
	ConstraintBase
	Bones []int
	// Target is the slot whose PathAttachment the bones follow.
	Target int

	PositionMode   PositionMode
	SpacingMode    SpacingMode
	RotateMode     RotateMode
	OffsetRotation float64
	Position       float64
	Spacing        float64

	MixRotate, MixX, MixY float64
}

// NewPathConstraintData returns path setup data with all mixes at 1.
func NewPathConstraintData(name string) *PathConstraintData {
	return &PathConstraintData{
		ConstraintBase: ConstraintBase{Name: name},
		PositionMode:   PositionPercent,
		MixRotate:      1, MixX: 1, MixY: 1,
	}
}
