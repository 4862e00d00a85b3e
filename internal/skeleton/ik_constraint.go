package skeleton

import (
	"fmt"
	"math"
)

// IkConstraint adjusts the rotation of one bone, or a parent and child
// bone, so the tip of the chain reaches the target bone.
type IkConstraint struct {
	data   *IkConstraintData
	bones  []*Bone
	target *Bone

	BendDirection int
	Compress      bool
	Stretch       bool
	Mix           float64
	Softness      float64

	active bool
}

// NewIkConstraint resolves the constraint's bones in s.
func NewIkConstraint(data *IkConstraintData, s *Skeleton) (*IkConstraint, error) {
	if data == nil || s == nil {
		return nil, ErrNilData
	}
	if n := len(data.Bones); n < 1 || n > 2 {
		return nil, fmt.Errorf("ik constraint %q: %d bones, want 1 or 2", data.Name, n)
	}
	c := &IkConstraint{data: data}
	for _, i := range data.Bones {
		b := s.boneAt(i)
		if b == nil {
			return nil, unresolved("bone", i, data.Name)
		}
		c.bones = append(c.bones, b)
	}
	if len(c.bones) == 2 && c.bones[1].parent != c.bones[0].data.Index {
		return nil, fmt.Errorf("ik constraint %q: bone %q is not a child of %q",
			data.Name, c.bones[1].data.Name, c.bones[0].data.Name)
	}
	if c.target = s.boneAt(data.Target); c.target == nil {
		return nil, unresolved("target bone", data.Target, data.Name)
	}
	c.SetToSetupPose()
	return c, nil
}

// Data returns the constraint's setup data.
func (c *IkConstraint) Data() *IkConstraintData { return c.data }

// Bones returns the constrained bones.
func (c *IkConstraint) Bones() []*Bone { return c.bones }

// Target returns the target bone.
func (c *IkConstraint) Target() *Bone { return c.target }

// Active reports whether the constraint runs for the current skin.
func (c *IkConstraint) Active() bool { return c.active }

// SetToSetupPose resets the runtime mix values.
func (c *IkConstraint) SetToSetupPose() {
	c.BendDirection = c.data.BendDirection
	c.Compress = c.data.Compress
	c.Stretch = c.data.Stretch
	c.Mix = c.data.Mix
	c.Softness = c.data.Softness
}

// Update applies the constraint to the bones' applied pose.
func (c *IkConstraint) Update() {
	if c.Mix == 0 {
		return
	}
	switch len(c.bones) {
	case 1:
		ApplyIK1(c.bones[0], c.target.WorldX, c.target.WorldY, c.Compress, c.Stretch, c.data.Uniform, c.Mix)
	case 2:
		ApplyIK2(c.bones[0], c.bones[1], c.target.WorldX, c.target.WorldY,
			c.BendDirection, c.Stretch, c.data.Uniform, c.Softness, c.Mix)
	}
}

// ApplyIK1 rotates bone so it points at the world target, blended by alpha.
// With compress or stretch the bone is also scaled along its length so its
// tip reaches the target.
func ApplyIK1(bone *Bone, targetX, targetY float64, compress, stretch, uniform bool, alpha float64) {
	pa, pb, pc, pd, pwx, pwy := bone.parentFrame()
	s := bone.skeleton
	rotationIK := -bone.AShearX - bone.ARotation
	var tx, ty float64

	mode := bone.data.TransformMode
	if mode == TransformOnlyTranslation {
		tx, ty = targetX-bone.WorldX, targetY-bone.WorldY
	} else {
		if mode == TransformNoRotationOrReflection {
			ps := math.Abs(pa*pd-pb*pc) / (pa*pa + pc*pc)
			sa := pa / s.ScaleX
			sc := pc / s.ScaleY
			pb = -sc * ps * s.ScaleX
			pd = sa * ps * s.ScaleY
			rotationIK += atan2Deg(sc, sa)
		}
		x, y := targetX-pwx, targetY-pwy
		d := pa*pd - pb*pc
		if math.Abs(d) <= 0.0001 {
			// Parent space has collapsed; aim along the world direction.
			tx, ty = targetX-bone.WorldX, targetY-bone.WorldY
		} else {
			tx = (x*pd-y*pb)/d - bone.AX
			ty = (y*pa-x*pc)/d - bone.AY
		}
	}

	rotationIK += atan2Deg(ty, tx)
	if bone.AScaleX < 0 {
		rotationIK += 180
	}
	rotationIK = wrapDegrees(rotationIK)

	sx, sy := bone.AScaleX, bone.AScaleY
	if compress || stretch {
		if mode == TransformNoScale || mode == TransformNoScaleOrReflection {
			tx, ty = targetX-bone.WorldX, targetY-bone.WorldY
		}
		b := bone.data.Length * sx
		dd := math.Sqrt(tx*tx + ty*ty)
		if ((compress && dd < b) || (stretch && dd > b)) && b > 0.0001 {
			f := (dd/b-1)*alpha + 1
			sx *= f
			if uniform {
				sy *= f
			}
		}
	}
	bone.UpdateWorldTransformWith(bone.AX, bone.AY, bone.ARotation+rotationIK*alpha,
		sx, sy, bone.AShearX, bone.AShearY)
}

// ApplyIK2 bends parent and child so the child's tip reaches the world
// target. child must be a direct child of parent. bendDir picks which of
// the two solutions is used. softness eases the chain as the target nears
// full reach.
func ApplyIK2(parent, child *Bone, targetX, targetY float64, bendDir int, stretch, uniform bool, softness, alpha float64) {
	px, py := parent.AX, parent.AY
	psx, psy := parent.AScaleX, parent.AScaleY
	sx, sy := psx, psy
	csx := child.AScaleX

	var os1, os2, s2 float64 = 0, 0, 1
	if psx < 0 {
		psx = -psx
		os1 = 180
		s2 = -1
	}
	if psy < 0 {
		psy = -psy
		s2 = -s2
	}
	if csx < 0 {
		csx = -csx
		os2 = 180
	}

	cx := child.AX
	var cy, cwx, cwy float64
	a, b, c, d := parent.A, parent.B, parent.C, parent.D
	u := math.Abs(psx-psy) <= 0.0001
	if !u || stretch {
		cwx = a*cx + parent.WorldX
		cwy = c*cx + parent.WorldY
	} else {
		cy = child.AY
		cwx = a*cx + b*cy + parent.WorldX
		cwy = c*cx + d*cy + parent.WorldY
	}

	var ppx, ppy float64
	a, b, c, d, ppx, ppy = parent.parentFrame()
	id := 1 / (a*d - b*c)
	x, y := cwx-ppx, cwy-ppy
	dx := (x*d-y*b)*id - px
	dy := (y*a-x*c)*id - py
	l1 := math.Sqrt(dx*dx + dy*dy)
	l2 := child.data.Length * csx
	if l1 < 0.0001 {
		ApplyIK1(parent, targetX, targetY, false, stretch, false, alpha)
		child.UpdateWorldTransformWith(cx, child.AY, child.ARotation, child.AScaleX, child.AScaleY, child.AShearX, child.AShearY)
		return
	}

	x, y = targetX-ppx, targetY-ppy
	tx := (x*d-y*b)*id - px
	ty := (y*a-x*c)*id - py
	dd := tx*tx + ty*ty
	if softness != 0 {
		softness *= psx * (csx + 1) * 0.5
		td := math.Sqrt(dd)
		sd := td - l1 - l2*psx + softness
		if sd > 0 {
			p := math.Min(1, sd/(softness*2)) - 1
			p = (sd - softness*(1-p*p)) / td
			tx -= p * tx
			ty -= p * ty
			dd = tx*tx + ty*ty
		}
	}

	bend := float64(bendDir)
	var a1, a2 float64
	if u {
		l2 *= psx
		cos := (dd - l1*l1 - l2*l2) / (2 * l1 * l2)
		switch {
		case cos < -1:
			cos = -1
			a2 = math.Pi * bend
		case cos > 1:
			cos = 1
			a2 = 0
			if stretch {
				f := (math.Sqrt(dd)/(l1+l2)-1)*alpha + 1
				sx *= f
				if uniform {
					sy *= f
				}
			}
		default:
			a2 = math.Acos(cos) * bend
		}
		a = l1 + l2*cos
		b = l2 * math.Sin(a2)
		a1 = math.Atan2(ty*a-tx*b, tx*a+ty*b)
	} else {
		a1, a2 = solveEllipse(l1, psx*l2, psy*l2, psx, psy, tx, ty, dd, bend)
	}

	os := math.Atan2(cy, cx) * s2
	rotation := parent.ARotation
	a1 = wrapDegrees((a1-os)*radDeg + os1 - rotation)
	parent.UpdateWorldTransformWith(px, py, rotation+a1*alpha, sx, sy, parent.AShearX, parent.AShearY)

	rotation = child.ARotation
	a2 = wrapDegrees(((a2+os)*radDeg-child.AShearX)*s2 + os2 - rotation)
	// cy is zero when the solve ignored the child's offset along the parent's
	// Y axis, but the pose keeps it.
	child.UpdateWorldTransformWith(cx, child.AY, rotation+a2*alpha, child.AScaleX, child.AScaleY, child.AShearX, child.AShearY)
}

// solveEllipse finds the parent and child angles, in radians, for a
// parent with non-uniform scale. The child's reach traces an ellipse with
// radii a and b around the end of the parent. When no intersection with
// the target circle exists, the nearer of the closest and farthest points
// on the ellipse is used.
func solveEllipse(l1, a, b, psx, psy, tx, ty, dd, bend float64) (a1, a2 float64) {
	aa, bb := a*a, b*b
	ta := math.Atan2(ty, tx)
	c := bb*l1*l1 + aa*dd - aa*bb
	c1 := -2 * bb * l1
	c2 := bb - aa
	d := c1*c1 - 4*c2*c
	if d >= 0 {
		q := math.Sqrt(d)
		if c1 < 0 {
			q = -q
		}
		q = -(c1 + q) * 0.5
		r0, r1 := q/c2, c/q
		r := r1
		if math.Abs(r0) < math.Abs(r1) {
			r = r0
		}
		if r*r <= dd {
			y := math.Sqrt(dd-r*r) * bend
			return ta - math.Atan2(y, r), math.Atan2(y/psy, (r-l1)/psx)
		}
	}

	minAngle, minX, minY := math.Pi, l1-a, 0.0
	minDist := minX * minX
	maxAngle, maxX, maxY := 0.0, l1+a, 0.0
	maxDist := maxX * maxX
	c = -a * l1 / (aa - bb)
	if c >= -1 && c <= 1 {
		c = math.Acos(c)
		x := a*math.Cos(c) + l1
		y := b * math.Sin(c)
		d = x*x + y*y
		if d < minDist {
			minAngle, minDist, minX, minY = c, d, x, y
		}
		if d > maxDist {
			maxAngle, maxDist, maxX, maxY = c, d, x, y
		}
	}
	if dd <= (minDist+maxDist)*0.5 {
		return ta - math.Atan2(minY*bend, minX), minAngle * bend
	}
	return ta - math.Atan2(maxY*bend, maxX), maxAngle * bend
}
