package skeleton

import "math"

// Bone is the runtime pose of a bone.
//
// The local pose (X, Y, Rotation, ...) is what animation writes. The applied
// pose (AX, AY, ARotation, ...) is what the last world transform was
// computed from; constraints may leave it different from the local pose.
// A, B, C, D form the 2x2 world linear map with columns (A, C) and (B, D).
type Bone struct {
	data     *BoneData
	skeleton *Skeleton
	parent   int
	children []int

	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	ShearX, ShearY float64

	AX, AY           float64
	ARotation        float64
	AScaleX, AScaleY float64
	AShearX, AShearY float64

	A, B, C, D     float64
	WorldX, WorldY float64

	sorted bool
	active bool
}

func newBone(data *BoneData, s *Skeleton) *Bone {
	b := &Bone{data: data, skeleton: s, parent: data.Parent}
	b.SetToSetupPose()
	return b
}

// Data returns the setup data of the bone.
func (b *Bone) Data() *BoneData { return b.data }

// Skeleton returns the skeleton that owns the bone.
func (b *Bone) Skeleton() *Skeleton { return b.skeleton }

// Parent returns the parent bone, or nil for a root bone.
func (b *Bone) Parent() *Bone {
	if b.parent < 0 {
		return nil
	}
	return b.skeleton.bones[b.parent]
}

// Children returns the indices of the bone's direct children.
func (b *Bone) Children() []int { return b.children }

// Active reports whether the bone takes part in the current update, which
// is false for skin-required bones when the active skin does not use them.
func (b *Bone) Active() bool { return b.active }

// Update recomputes the world transform from the applied pose.
func (b *Bone) Update() {
	b.UpdateWorldTransformWith(b.AX, b.AY, b.ARotation, b.AScaleX, b.AScaleY, b.AShearX, b.AShearY)
}

// UpdateWorldTransform recomputes the world transform from the local pose,
// which also becomes the applied pose.
func (b *Bone) UpdateWorldTransform() {
	b.UpdateWorldTransformWith(b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY, b.ShearX, b.ShearY)
}

// UpdateWorldTransformWith stores the given values as the applied pose and
// computes the world transform from them and the parent's world transform.
// The parent must already be up to date.
func (b *Bone) UpdateWorldTransformWith(x, y, rotation, scaleX, scaleY, shearX, shearY float64) {
	b.AX, b.AY = x, y
	b.ARotation = rotation
	b.AScaleX, b.AScaleY = scaleX, scaleY
	b.AShearX, b.AShearY = shearX, shearY

	s := b.skeleton
	parent := b.Parent()
	if parent == nil {
		rotationY := rotation + 90 + shearY
		b.A = cosDeg(rotation+shearX) * scaleX * s.ScaleX
		b.B = cosDeg(rotationY) * scaleY * s.ScaleX
		b.C = sinDeg(rotation+shearX) * scaleX * s.ScaleY
		b.D = sinDeg(rotationY) * scaleY * s.ScaleY
		b.WorldX = x*s.ScaleX + s.X
		b.WorldY = y*s.ScaleY + s.Y
		return
	}

	pa, pb, pc, pd := parent.A, parent.B, parent.C, parent.D
	b.WorldX = pa*x + pb*y + parent.WorldX
	b.WorldY = pc*x + pd*y + parent.WorldY

	switch b.data.TransformMode {
	case TransformNormal:
		rotationY := rotation + 90 + shearY
		la := cosDeg(rotation+shearX) * scaleX
		lb := cosDeg(rotationY) * scaleY
		lc := sinDeg(rotation+shearX) * scaleX
		ld := sinDeg(rotationY) * scaleY
		b.A = pa*la + pb*lc
		b.B = pa*lb + pb*ld
		b.C = pc*la + pd*lc
		b.D = pc*lb + pd*ld
		// Parent already carries the skeleton scale.
		return

	case TransformOnlyTranslation:
		rotationY := rotation + 90 + shearY
		b.A = cosDeg(rotation+shearX) * scaleX
		b.B = cosDeg(rotationY) * scaleY
		b.C = sinDeg(rotation+shearX) * scaleX
		b.D = sinDeg(rotationY) * scaleY

	case TransformNoRotationOrReflection:
		qa, qb, qc, qd, prx := b.noRotationFrame(pa, pb, pc, pd)
		rx := rotation + shearX - prx
		ry := rotation + shearY - prx + 90
		la := cosDeg(rx) * scaleX
		lb := cosDeg(ry) * scaleY
		lc := sinDeg(rx) * scaleX
		ld := sinDeg(ry) * scaleY
		b.A = qa*la + qb*lc
		b.B = qa*lb + qb*ld
		b.C = qc*la + qd*lc
		b.D = qc*lb + qd*ld

	case TransformNoScale, TransformNoScaleOrReflection:
		za, zb, zc, zd := b.noScaleFrame(pa, pb, pc, pd, rotation)
		la := cosDeg(shearX) * scaleX
		lb := cosDeg(90+shearY) * scaleY
		lc := sinDeg(shearX) * scaleX
		ld := sinDeg(90+shearY) * scaleY
		b.A = za*la + zb*lc
		b.B = za*lb + zb*ld
		b.C = zc*la + zd*lc
		b.D = zc*lb + zd*ld
	}

	b.A *= s.ScaleX
	b.B *= s.ScaleX
	b.C *= s.ScaleY
	b.D *= s.ScaleY
}

// noRotationFrame returns the linear map a TransformNoRotationOrReflection
// bone is placed in, before skeleton scale, and the parent rotation that
// map removes.
func (b *Bone) noRotationFrame(pa, pb, pc, pd float64) (qa, qb, qc, qd, prx float64) {
	s := b.skeleton
	ps := pa*pa + pc*pc
	if ps > 0.0001 {
		ps = math.Abs(pa*pd-pb*pc) / ps
		pa /= s.ScaleX
		pc /= s.ScaleY
		return pa, -pc * ps, pc, pa * ps, atan2Deg(pc, pa)
	}
	return 0, -pb, 0, pd, 90 - atan2Deg(pd, pb)
}

// noScaleFrame returns the unit rotation, possibly mirrored, that a
// TransformNoScale or TransformNoScaleOrReflection bone with the given
// rotation is placed in, before skeleton scale.
func (b *Bone) noScaleFrame(pa, pb, pc, pd, rotation float64) (za, zb, zc, zd float64) {
	s := b.skeleton
	cos, sin := cosDeg(rotation), sinDeg(rotation)
	za = (pa*cos + pb*sin) / s.ScaleX
	zc = (pc*cos + pd*sin) / s.ScaleY
	zs := math.Sqrt(za*za + zc*zc)
	if zs > 0.00001 {
		zs = 1 / zs
	}
	za *= zs
	zc *= zs
	zs = math.Sqrt(za*za + zc*zc)
	if b.data.TransformMode == TransformNoScale &&
		(pa*pd-pb*pc < 0) != ((s.ScaleX < 0) != (s.ScaleY < 0)) {
		zs = -zs
	}
	r := math.Pi/2 + math.Atan2(zc, za)
	return za, math.Cos(r) * zs, zc, math.Sin(r) * zs
}

// SetToSetupPose resets the local pose to the setup pose.
func (b *Bone) SetToSetupPose() {
	d := b.data
	b.X, b.Y = d.X, d.Y
	b.Rotation = d.Rotation
	b.ScaleX, b.ScaleY = d.ScaleX, d.ScaleY
	b.ShearX, b.ShearY = d.ShearX, d.ShearY
}

// UpdateAppliedTransform computes the applied pose that reproduces the
// current world transform under the bone's transform mode. Use it after
// writing A..D or WorldX/WorldY directly. Any shear is folded into AShearY,
// leaving AShearX at zero. If the frame a mode places the bone in is
// singular, the rotation, scale and shear are left unchanged.
func (b *Bone) UpdateAppliedTransform() {
	s := b.skeleton
	parent := b.Parent()
	if parent == nil {
		b.AX = (b.WorldX - s.X) / s.ScaleX
		b.AY = (b.WorldY - s.Y) / s.ScaleY
		b.decomposeApplied(b.A/s.ScaleX, b.B/s.ScaleX, b.C/s.ScaleY, b.D/s.ScaleY)
		return
	}

	pa, pb, pc, pd := parent.A, parent.B, parent.C, parent.D
	pid := 1 / (pa*pd - pb*pc)
	dx, dy := b.WorldX-parent.WorldX, b.WorldY-parent.WorldY
	b.AX = dx*pd*pid - dy*pb*pid
	b.AY = dy*pa*pid - dx*pc*pid

	// Every mode but TransformNormal applies the skeleton scale last.
	wa, wb, wc, wd := b.A/s.ScaleX, b.B/s.ScaleX, b.C/s.ScaleY, b.D/s.ScaleY

	switch b.data.TransformMode {
	case TransformNormal:
		ia, ib, ic, id := pid*pd, pid*pb, pid*pc, pid*pa
		ra := ia*b.A - ib*b.C
		rb := ia*b.B - ib*b.D
		rc := id*b.C - ic*b.A
		rd := id*b.D - ic*b.B
		b.decomposeApplied(ra, rb, rc, rd)

	case TransformOnlyTranslation:
		b.decomposeApplied(wa, wb, wc, wd)

	case TransformNoRotationOrReflection:
		qa, qb, qc, qd, prx := b.noRotationFrame(pa, pb, pc, pd)
		ra, rb, rc, rd, ok := solveLinear(qa, qb, qc, qd, wa, wb, wc, wd)
		if !ok {
			return
		}
		b.decomposeApplied(ra, rb, rc, rd)
		b.ARotation = wrapDegrees(b.ARotation + prx)

	case TransformNoScale, TransformNoScaleOrReflection:
		// The frame follows the rotation, which is the direction of the
		// world X axis seen from the parent.
		rotation := atan2Deg((b.C*pa-b.A*pc)*pid, (b.A*pd-b.C*pb)*pid)
		za, zb, zc, zd := b.noScaleFrame(pa, pb, pc, pd, rotation)
		ra, rb, rc, rd, ok := solveLinear(za, zb, zc, zd, wa, wb, wc, wd)
		if !ok {
			return
		}
		b.decomposeApplied(ra, rb, rc, rd)
		b.ARotation = wrapDegrees(rotation + b.ARotation)
	}
}

// solveLinear returns M⁻¹·W for 2x2 matrices M and W, or false when M is
// singular.
func solveLinear(ma, mb, mc, md, wa, wb, wc, wd float64) (ra, rb, rc, rd float64, ok bool) {
	det := ma*md - mb*mc
	if math.Abs(det) < 1e-10 {
		return 0, 0, 0, 0, false
	}
	inv := 1 / det
	ra = (md*wa - mb*wc) * inv
	rb = (md*wb - mb*wd) * inv
	rc = (ma*wc - mc*wa) * inv
	rd = (ma*wd - mc*wb) * inv
	return ra, rb, rc, rd, true
}

// decomposeApplied splits a local linear map into rotation, scale and
// shear. Below a scaleX of 1e-4 the first column carries no direction, so
// rotation is taken from the second column instead.
func (b *Bone) decomposeApplied(ra, rb, rc, rd float64) {
	b.AShearX = 0
	b.AScaleX = math.Sqrt(ra*ra + rc*rc)
	if b.AScaleX > 0.0001 {
		b.ARotation = wrapDegrees(atan2Deg(rc, ra))
		b.AScaleY = math.Sqrt(rb*rb + rd*rd)
		axisY := atan2Deg(rd, rb) - b.ARotation - 90
		if ra*rd-rb*rc < 0 {
			// Mirrored: Y points opposite its unsheared direction.
			b.AScaleY = -b.AScaleY
			axisY += 180
		}
		b.AShearY = wrapDegrees(axisY)
		return
	}
	b.AScaleX = 0
	b.AScaleY = math.Sqrt(rb*rb + rd*rd)
	b.AShearY = 0
	b.ARotation = wrapDegrees(atan2Deg(rd, rb) - 90)
}

// WorldRotationX is the world rotation of the bone's X axis in degrees.
func (b *Bone) WorldRotationX() float64 { return atan2Deg(b.C, b.A) }

// WorldRotationY is the world rotation of the bone's Y axis in degrees.
func (b *Bone) WorldRotationY() float64 { return atan2Deg(b.D, b.B) }

// WorldScaleX is the length of the bone's world X axis.
func (b *Bone) WorldScaleX() float64 { return math.Sqrt(b.A*b.A + b.C*b.C) }

// WorldScaleY is the length of the bone's world Y axis.
func (b *Bone) WorldScaleY() float64 { return math.Sqrt(b.B*b.B + b.D*b.D) }

// WorldToLocal converts a world point into the bone's local space. A bone
// with a singular world matrix yields NaN or Inf.
func (b *Bone) WorldToLocal(worldX, worldY float64) (float64, float64) {
	invDet := 1 / (b.A*b.D - b.B*b.C)
	x, y := worldX-b.WorldX, worldY-b.WorldY
	return x*b.D*invDet - y*b.B*invDet, y*b.A*invDet - x*b.C*invDet
}

// LocalToWorld converts a point in the bone's local space to world space.
func (b *Bone) LocalToWorld(localX, localY float64) (float64, float64) {
	return localX*b.A + localY*b.B + b.WorldX, localX*b.C + localY*b.D + b.WorldY
}

// WorldToLocalRotation converts a world rotation to a local rotation.
func (b *Bone) WorldToLocalRotation(worldRotation float64) float64 {
	sin, cos := sinDeg(worldRotation), cosDeg(worldRotation)
	return wrapDegrees(atan2Deg(b.A*sin-b.C*cos, b.D*cos-b.B*sin) + b.Rotation - b.ShearX)
}

// LocalToWorldRotation converts a local rotation to a world rotation.
func (b *Bone) LocalToWorldRotation(localRotation float64) float64 {
	localRotation -= b.Rotation - b.ShearX
	sin, cos := sinDeg(localRotation), cosDeg(localRotation)
	return atan2Deg(cos*b.C+sin*b.D, cos*b.A+sin*b.B)
}

// RotateWorld rotates the world transform by the given degrees. The
// applied pose is not updated; call UpdateAppliedTransform if needed.
func (b *Bone) RotateWorld(degrees float64) {
	rotateWorld(b, degrees*degRad)
}

// parentFrame returns the linear map and origin that a bone's local
// coordinates are expressed in: its parent's world transform, or the
// skeleton's scale and offset for a root bone.
func (b *Bone) parentFrame() (pa, pb, pc, pd, px, py float64) {
	if p := b.Parent(); p != nil {
		return p.A, p.B, p.C, p.D, p.WorldX, p.WorldY
	}
	s := b.skeleton
	return s.ScaleX, 0, 0, s.ScaleY, s.X, s.Y
}
