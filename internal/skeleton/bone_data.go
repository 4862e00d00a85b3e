package skeleton

import "fmt"

// TransformMode controls how much of its parent's transform a bone inherits.
type TransformMode int

const (
	TransformNormal TransformMode = iota
	TransformOnlyTranslation
	TransformNoRotationOrReflection
	TransformNoScale
	TransformNoScaleOrReflection
)

var transformModeNames = [...]string{
	TransformNormal:                 "normal",
	TransformOnlyTranslation:        "onlyTranslation",
	TransformNoRotationOrReflection: "noRotationOrReflection",
	TransformNoScale:                "noScale",
	TransformNoScaleOrReflection:    "noScaleOrReflection",
}

func (m TransformMode) String() string {
	if m < 0 || int(m) >= len(transformModeNames) {
		return fmt.Sprintf("TransformMode(%d)", int(m))
	}
	return transformModeNames[m]
}

// ParseTransformMode resolves the document name of a transform mode.
func ParseTransformMode(s string) (TransformMode, error) {
	for i, name := range transformModeNames {
		if name == s {
			return TransformMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transform mode %q", s)
}

// TransformModeFromIndex converts the binary ordinal of a transform mode.
func TransformModeFromIndex(i int) (TransformMode, error) {
	if i < 0 || i >= len(transformModeNames) {
		return 0, fmt.Errorf("unknown transform mode %d", i)
	}
	return TransformMode(i), nil
}

// BoneData is the setup pose of a bone.
type BoneData struct {
	Index int
	Name  string
	// Parent is the index of the parent bone, or -1 for a root bone.
	// Parents always precede their children.
	Parent int

	Length         float64
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	ShearX, ShearY float64
	TransformMode  TransformMode
	SkinRequired   bool
	Color          Color
}

// NewBoneData returns bone setup data with unit scale.
func NewBoneData(index int, name string, parent int) *BoneData {
	return &BoneData{
		Index:  index,
		Name:   name,
		Parent: parent,
		ScaleX: 1,
		ScaleY: 1,
		Color:  Color{0.61, 0.61, 0.61, 1},
	}
}
