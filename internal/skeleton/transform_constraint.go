package skeleton

import "math"

// TransformConstraint copies the target bone's transform, or adds it, to
// the constrained bones, in world or local space.
type TransformConstraint struct {
	data   *TransformConstraintData
	bones  []*Bone
	target *Bone

	MixRotate, MixX, MixY           float64
	MixScaleX, MixScaleY, MixShearY float64

	active bool
}

// NewTransformConstraint resolves the constraint's bones in s.
func NewTransformConstraint(data *TransformConstraintData, s *Skeleton) (*TransformConstraint, error) {
	if data == nil || s == nil {
		return nil, ErrNilData
	}
	c := &TransformConstraint{data: data}
	for _, i := range data.Bones {
		b := s.boneAt(i)
		if b == nil {
			return nil, unresolved("bone", i, data.Name)
		}
		c.bones = append(c.bones, b)
	}
	if c.target = s.boneAt(data.Target); c.target == nil {
		return nil, unresolved("target bone", data.Target, data.Name)
	}
	c.SetToSetupPose()
	return c, nil
}

func (c *TransformConstraint) Data() *TransformConstraintData { return c.data }
func (c *TransformConstraint) Bones() []*Bone                 { return c.bones }
func (c *TransformConstraint) Target() *Bone                  { return c.target }
func (c *TransformConstraint) Active() bool                   { return c.active }

// SetToSetupPose resets the runtime mix values.
func (c *TransformConstraint) SetToSetupPose() {
	d := c.data
	c.MixRotate, c.MixX, c.MixY = d.MixRotate, d.MixX, d.MixY
	c.MixScaleX, c.MixScaleY, c.MixShearY = d.MixScaleX, d.MixScaleY, d.MixShearY
}

// Update applies the constraint.
func (c *TransformConstraint) Update() {
	if c.MixRotate == 0 && c.MixX == 0 && c.MixY == 0 &&
		c.MixScaleX == 0 && c.MixScaleY == 0 && c.MixShearY == 0 {
		return
	}
	switch {
	case c.data.Local && c.data.Relative:
		c.applyRelativeLocal()
	case c.data.Local:
		c.applyAbsoluteLocal()
	case c.data.Relative:
		c.applyRelativeWorld()
	default:
		c.applyAbsoluteWorld()
	}
}

// reflect returns the factor converting the data's degree offsets to
// radians, negated when the target's world transform is mirrored.
func (c *TransformConstraint) reflect() float64 {
	t := c.target
	if t.A*t.D-t.B*t.C > 0 {
		return degRad
	}
	return -degRad
}

func rotateWorld(bone *Bone, r float64) {
	a, b, c, d := bone.A, bone.B, bone.C, bone.D
	cos, sin := math.Cos(r), math.Sin(r)
	bone.A = cos*a - sin*c
	bone.B = cos*b - sin*d
	bone.C = sin*a + cos*c
	bone.D = sin*b + cos*d
}

func (c *TransformConstraint) applyAbsoluteWorld() {
	t, data := c.target, c.data
	ta, tb, tc, td := t.A, t.B, t.C, t.D
	reflect := c.reflect()
	offsetRotation := data.OffsetRotation * reflect
	offsetShearY := data.OffsetShearY * reflect
	translate := c.MixX != 0 || c.MixY != 0

	for _, bone := range c.bones {
		if c.MixRotate != 0 {
			r := wrapRadians(math.Atan2(tc, ta) - math.Atan2(bone.C, bone.A) + offsetRotation)
			rotateWorld(bone, r*c.MixRotate)
		}
		if translate {
			x, y := t.LocalToWorld(data.OffsetX, data.OffsetY)
			bone.WorldX += (x - bone.WorldX) * c.MixX
			bone.WorldY += (y - bone.WorldY) * c.MixY
		}
		if c.MixScaleX != 0 {
			s := math.Sqrt(bone.A*bone.A + bone.C*bone.C)
			if s != 0 {
				s = (s + (math.Sqrt(ta*ta+tc*tc)-s+data.OffsetScaleX)*c.MixScaleX) / s
			}
			bone.A *= s
			bone.C *= s
		}
		if c.MixScaleY != 0 {
			s := math.Sqrt(bone.B*bone.B + bone.D*bone.D)
			if s != 0 {
				s = (s + (math.Sqrt(tb*tb+td*td)-s+data.OffsetScaleY)*c.MixScaleY) / s
			}
			bone.B *= s
			bone.D *= s
		}
		if c.MixShearY > 0 {
			b, d := bone.B, bone.D
			by := math.Atan2(d, b)
			r := wrapRadians(math.Atan2(td, tb) - math.Atan2(tc, ta) - (by - math.Atan2(bone.C, bone.A)))
			r = by + (r+offsetShearY)*c.MixShearY
			s := math.Sqrt(b*b + d*d)
			bone.B = math.Cos(r) * s
			bone.D = math.Sin(r) * s
		}
		bone.UpdateAppliedTransform()
	}
}

func (c *TransformConstraint) applyRelativeWorld() {
	t, data := c.target, c.data
	ta, tb, tc, td := t.A, t.B, t.C, t.D
	reflect := c.reflect()
	offsetRotation := data.OffsetRotation * reflect
	offsetShearY := data.OffsetShearY * reflect
	translate := c.MixX != 0 || c.MixY != 0

	for _, bone := range c.bones {
		if c.MixRotate != 0 {
			r := wrapRadians(math.Atan2(tc, ta) + offsetRotation)
			rotateWorld(bone, r*c.MixRotate)
		}
		if translate {
			x, y := t.LocalToWorld(data.OffsetX, data.OffsetY)
			bone.WorldX += x * c.MixX
			bone.WorldY += y * c.MixY
		}
		if c.MixScaleX != 0 {
			s := (math.Sqrt(ta*ta+tc*tc)-1+data.OffsetScaleX)*c.MixScaleX + 1
			bone.A *= s
			bone.C *= s
		}
		if c.MixScaleY != 0 {
			s := (math.Sqrt(tb*tb+td*td)-1+data.OffsetScaleY)*c.MixScaleY + 1
			bone.B *= s
			bone.D *= s
		}
		if c.MixShearY > 0 {
			r := wrapRadians(math.Atan2(td, tb) - math.Atan2(tc, ta))
			b, d := bone.B, bone.D
			r = math.Atan2(d, b) + (r-math.Pi/2+offsetShearY)*c.MixShearY
			s := math.Sqrt(b*b + d*d)
			bone.B = math.Cos(r) * s
			bone.D = math.Sin(r) * s
		}
		bone.UpdateAppliedTransform()
	}
}

func (c *TransformConstraint) applyAbsoluteLocal() {
	t, data := c.target, c.data
	for _, bone := range c.bones {
		rotation := bone.ARotation
		if c.MixRotate != 0 {
			rotation += wrapDegrees(t.ARotation-rotation+data.OffsetRotation) * c.MixRotate
		}
		x := bone.AX + (t.AX-bone.AX+data.OffsetX)*c.MixX
		y := bone.AY + (t.AY-bone.AY+data.OffsetY)*c.MixY
		scaleX := bone.AScaleX + (t.AScaleX-bone.AScaleX+data.OffsetScaleX)*c.MixScaleX
		scaleY := bone.AScaleY + (t.AScaleY-bone.AScaleY+data.OffsetScaleY)*c.MixScaleY
		shearY := bone.AShearY
		if c.MixShearY != 0 {
			shearY += wrapDegrees(t.AShearY-shearY+data.OffsetShearY) * c.MixShearY
		}
		bone.UpdateWorldTransformWith(x, y, rotation, scaleX, scaleY, bone.AShearX, shearY)
	}
}

func (c *TransformConstraint) applyRelativeLocal() {
	t, data := c.target, c.data
	for _, bone := range c.bones {
		rotation := bone.ARotation + (t.ARotation+data.OffsetRotation)*c.MixRotate
		x := bone.AX + (t.AX+data.OffsetX)*c.MixX
		y := bone.AY + (t.AY+data.OffsetY)*c.MixY
		scaleX := bone.AScaleX * ((t.AScaleX-1+data.OffsetScaleX)*c.MixScaleX + 1)
		scaleY := bone.AScaleY * ((t.AScaleY-1+data.OffsetScaleY)*c.MixScaleY + 1)
		shearY := bone.AShearY + (t.AShearY+data.OffsetShearY)*c.MixShearY
		bone.UpdateWorldTransformWith(x, y, rotation, scaleX, scaleY, bone.AShearX, shearY)
	}
}
