package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/inamate/rig/internal/skeleton"
)

// PropertyOverrides holds local pose values for one bone, keyed by
// property: "x", "y", "rotation", "scaleX", "scaleY", "shearX", "shearY".
type PropertyOverrides map[string]float64

// EvalResult is an animation sampled at one time: bone overrides by bone
// name and shown attachments by slot name ("" hides the slot).
type EvalResult struct {
	Bones       map[string]PropertyOverrides
	Attachments map[string]string
}

var boneProperties = map[string]func(b *skeleton.Bone) *float64{
	"x":        func(b *skeleton.Bone) *float64 { return &b.X },
	"y":        func(b *skeleton.Bone) *float64 { return &b.Y },
	"rotation": func(b *skeleton.Bone) *float64 { return &b.Rotation },
	"scaleX":   func(b *skeleton.Bone) *float64 { return &b.ScaleX },
	"scaleY":   func(b *skeleton.Bone) *float64 { return &b.ScaleY },
	"shearX":   func(b *skeleton.Bone) *float64 { return &b.ShearX },
	"shearY":   func(b *skeleton.Bone) *float64 { return &b.ShearY },
}

// ValidateOverrides checks that every property name is known.
func ValidateOverrides(overrides PropertyOverrides) error {
	for _, prop := range slices.Sorted(maps.Keys(overrides)) {
		if _, ok := boneProperties[prop]; !ok {
			return fmt.Errorf("unknown bone property %q", prop)
		}
	}
	return nil
}

// ApplyOverridesToBone writes property overrides into a bone's local pose.
func ApplyOverridesToBone(b *skeleton.Bone, overrides PropertyOverrides) error {
	if err := ValidateOverrides(overrides); err != nil {
		return err
	}
	for prop, v := range overrides {
		*boneProperties[prop](b) = v
	}
	return nil
}

// bone timeline values in key order, and the property each one sets.
var timelineProperties = [...][]string{
	skeleton.BoneRotate:     {"rotation"},
	skeleton.BoneTranslate:  {"x", "y"},
	skeleton.BoneTranslateX: {"x"},
	skeleton.BoneTranslateY: {"y"},
	skeleton.BoneScale:      {"scaleX", "scaleY"},
	skeleton.BoneScaleX:     {"scaleX"},
	skeleton.BoneScaleY:     {"scaleY"},
	skeleton.BoneShear:      {"shearX", "shearY"},
	skeleton.BoneShearX:     {"shearX"},
	skeleton.BoneShearY:     {"shearY"},
}

// EvaluateAnimation samples the bone and attachment timelines of anim at
// time. Keyed bone values are relative to the setup pose: rotation,
// translation and shear add to it, scale multiplies it. Before a
// timeline's first key the setup pose is kept. Other timelines are not
// previewed.
func EvaluateAnimation(data *skeleton.SkeletonData, anim *skeleton.Animation, time float64) EvalResult {
	result := EvalResult{
		Bones:       make(map[string]PropertyOverrides),
		Attachments: make(map[string]string),
	}
	if anim == nil {
		return result
	}

	for _, tl := range anim.Timelines {
		switch t := tl.(type) {
		case *skeleton.BoneTimeline:
			frames := t.Frames()
			if len(frames) == 0 || time < frames[0] {
				continue
			}
			bd := data.Bones[t.BoneIndex]
			overrides := result.Bones[bd.Name]
			if overrides == nil {
				overrides = make(PropertyOverrides)
				result.Bones[bd.Name] = overrides
			}
			for i, prop := range timelineProperties[t.Property] {
				overrides[prop] = fromSetup(bd, prop, t.Value(time, i))
			}

		case *skeleton.AttachmentTimeline:
			frame := t.Frame(time)
			if frame < 0 {
				continue
			}
			result.Attachments[data.Slots[t.SlotIndex].Name] = t.AttachmentNames[frame]
		}
	}

	return result
}

func fromSetup(bd *skeleton.BoneData, prop string, v float64) float64 {
	switch prop {
	case "x":
		return bd.X + v
	case "y":
		return bd.Y + v
	case "rotation":
		return bd.Rotation + v
	case "scaleX":
		return bd.ScaleX * v
	case "scaleY":
		return bd.ScaleY * v
	case "shearX":
		return bd.ShearX + v
	default:
		return bd.ShearY + v
	}
}
