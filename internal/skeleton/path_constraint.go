package skeleton

import "math"

const pathEpsilon = 0.00001

const (
	curveNone   = -1
	curveBefore = -2
	curveAfter  = -3
)

// PathConstraint moves and rotates bones along the PathAttachment shown
// by its target slot.
type PathConstraint struct {
	data   *PathConstraintData
	bones  []*Bone
	target *Slot

	Position, Spacing     float64
	MixRotate, MixX, MixY float64

	spaces, positions, world, curves, lengths []float64
	segments                                  [10]float64

	active bool
}

// NewPathConstraint resolves the constraint's bones and target slot in s.
func NewPathConstraint(data *PathConstraintData, s *Skeleton) (*PathConstraint, error) {
	if data == nil || s == nil {
		return nil, ErrNilData
	}
	c := &PathConstraint{data: data}
	for _, i := range data.Bones {
		b := s.boneAt(i)
		if b == nil {
			return nil, unresolved("bone", i, data.Name)
		}
		c.bones = append(c.bones, b)
	}
	if c.target = s.slotAt(data.Target); c.target == nil {
		return nil, unresolved("target slot", data.Target, data.Name)
	}
	c.SetToSetupPose()
	return c, nil
}

func (c *PathConstraint) Data() *PathConstraintData { return c.data }
func (c *PathConstraint) Bones() []*Bone            { return c.bones }
func (c *PathConstraint) Target() *Slot             { return c.target }
func (c *PathConstraint) Active() bool              { return c.active }

// SetToSetupPose resets position, spacing and mixes.
func (c *PathConstraint) SetToSetupPose() {
	d := c.data
	c.Position, c.Spacing = d.Position, d.Spacing
	c.MixRotate, c.MixX, c.MixY = d.MixRotate, d.MixX, d.MixY
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

// Update applies the constraint. It does nothing unless the target slot
// shows a PathAttachment.
func (c *PathConstraint) Update() {
	path, ok := c.target.Attachment().(*PathAttachment)
	if !ok {
		return
	}
	mixRotate, mixX, mixY := c.MixRotate, c.MixX, c.MixY
	if mixRotate == 0 && mixX == 0 && mixY == 0 {
		return
	}

	data := c.data
	tangents := data.RotateMode == RotateTangent
	scale := data.RotateMode == RotateChainScale
	boneCount := len(c.bones)
	spacesCount := boneCount + 1
	if tangents {
		spacesCount = boneCount
	}
	c.spaces = grow(c.spaces, spacesCount)
	spaces := c.spaces
	spaces[0] = 0
	var lengths []float64
	if scale {
		c.lengths = grow(c.lengths, boneCount)
		lengths = c.lengths
	}
	spacing := c.Spacing

	boneLength := func(bone *Bone) float64 {
		x, y := bone.data.Length*bone.A, bone.data.Length*bone.C
		return math.Sqrt(x*x + y*y)
	}

	switch data.SpacingMode {
	case SpacingPercent:
		if scale {
			for i := 0; i < spacesCount-1; i++ {
				lengths[i] = 0
				if c.bones[i].data.Length >= pathEpsilon {
					lengths[i] = boneLength(c.bones[i])
				}
			}
		}
		for i := 1; i < spacesCount; i++ {
			spaces[i] = spacing
		}
	case SpacingProportional:
		sum := 0.0
		for i := 0; i < spacesCount-1; i++ {
			bone := c.bones[i]
			if bone.data.Length < pathEpsilon {
				if scale {
					lengths[i] = 0
				}
				spaces[i+1] = spacing
				continue
			}
			length := boneLength(bone)
			if scale {
				lengths[i] = length
			}
			spaces[i+1] = length
			sum += length
		}
		if sum > 0 {
			sum = float64(spacesCount) / sum * spacing
			for i := 1; i < spacesCount; i++ {
				spaces[i] *= sum
			}
		}
	default:
		lengthSpacing := data.SpacingMode == SpacingLength
		for i := 0; i < spacesCount-1; i++ {
			bone := c.bones[i]
			setupLength := bone.data.Length
			if setupLength < pathEpsilon {
				if scale {
					lengths[i] = 0
				}
				spaces[i+1] = spacing
				continue
			}
			length := boneLength(bone)
			if scale {
				lengths[i] = length
			}
			if lengthSpacing {
				spaces[i+1] = (setupLength + spacing) * length / setupLength
			} else {
				spaces[i+1] = spacing * length / setupLength
			}
		}
	}

	positions := c.computeWorldPositions(path, spacesCount, tangents)
	boneX, boneY := positions[0], positions[1]
	offsetRotation := data.OffsetRotation
	tip := false
	if offsetRotation == 0 {
		tip = data.RotateMode == RotateChain
	} else {
		p := c.target.Bone()
		if p.A*p.D-p.B*p.C > 0 {
			offsetRotation *= degRad
		} else {
			offsetRotation *= -degRad
		}
	}

	for i, p := 0, 3; i < boneCount; i, p = i+1, p+3 {
		bone := c.bones[i]
		bone.WorldX += (boneX - bone.WorldX) * mixX
		bone.WorldY += (boneY - bone.WorldY) * mixY
		x, y := positions[p], positions[p+1]
		dx, dy := x-boneX, y-boneY
		if scale && lengths[i] >= pathEpsilon {
			s := (math.Sqrt(dx*dx+dy*dy)/lengths[i]-1)*mixRotate + 1
			bone.A *= s
			bone.C *= s
		}
		boneX, boneY = x, y
		if mixRotate > 0 {
			ba, bc := bone.A, bone.C
			var r float64
			switch {
			case tangents:
				r = positions[p-1]
			case spaces[i+1] < pathEpsilon:
				r = positions[p+2]
			default:
				r = math.Atan2(dy, dx)
			}
			r -= math.Atan2(bc, ba)
			if tip {
				cos, sin := math.Cos(r), math.Sin(r)
				length := bone.data.Length
				boneX += (length*(cos*ba-sin*bc) - dx) * mixRotate
				boneY += (length*(sin*ba+cos*bc) - dy) * mixRotate
			} else {
				r += offsetRotation
			}
			rotateWorld(bone, wrapRadians(r)*mixRotate)
		}
		bone.UpdateAppliedTransform()
	}
}

func (c *PathConstraint) computeWorldPositions(path *PathAttachment, spacesCount int, tangents bool) []float64 {
	target := c.target
	position := c.Position
	spaces := c.spaces
	c.positions = grow(c.positions, spacesCount*3+2)
	out := c.positions
	closed := path.Closed
	verticesLength := path.WorldVerticesLength
	curveCount := verticesLength / 6
	prevCurve := curveNone
	data := c.data

	multiplierFor := func(pathLength float64) float64 {
		switch data.SpacingMode {
		case SpacingPercent:
			return pathLength
		case SpacingProportional:
			return pathLength / float64(spacesCount)
		}
		return 1
	}

	if !path.ConstantSpeed {
		lengths := path.Lengths
		if closed {
			curveCount--
		} else {
			curveCount -= 2
		}
		pathLength := lengths[curveCount]
		if data.PositionMode == PositionPercent {
			position *= pathLength
		}
		multiplier := multiplierFor(pathLength)
		c.world = grow(c.world, 8)
		world := c.world
		curve := 0
		for i, o := 0, 0; i < spacesCount; i, o = i+1, o+3 {
			space := spaces[i] * multiplier
			position += space
			p := position

			if closed {
				p = math.Mod(p, pathLength)
				if p < 0 {
					p += pathLength
				}
				curve = 0
			} else if p < 0 {
				if prevCurve != curveBefore {
					prevCurve = curveBefore
					path.ComputeWorldVertices(target, 2, 4, world, 0, 2)
				}
				addBeforePosition(p, world, 0, out, o)
				continue
			} else if p > pathLength {
				if prevCurve != curveAfter {
					prevCurve = curveAfter
					path.ComputeWorldVertices(target, verticesLength-6, 4, world, 0, 2)
				}
				addAfterPosition(p-pathLength, world, 0, out, o)
				continue
			}

			for curve < len(lengths)-1 && p > lengths[curve] {
				curve++
			}
			if curve == 0 {
				p /= lengths[0]
			} else {
				prev := lengths[curve-1]
				p = (p - prev) / (lengths[curve] - prev)
			}

			if curve != prevCurve {
				prevCurve = curve
				if closed && curve == curveCount {
					path.ComputeWorldVertices(target, verticesLength-4, 4, world, 0, 2)
					path.ComputeWorldVertices(target, 0, 4, world, 4, 2)
				} else {
					path.ComputeWorldVertices(target, curve*6+2, 8, world, 0, 2)
				}
			}
			addCurvePosition(p, world[0], world[1], world[2], world[3], world[4], world[5], world[6], world[7],
				out, o, tangents || (i > 0 && space < pathEpsilon))
		}
		return out
	}

	var world []float64
	if closed {
		verticesLength += 2
		c.world = grow(c.world, verticesLength)
		world = c.world
		path.ComputeWorldVertices(target, 2, verticesLength-4, world, 0, 2)
		path.ComputeWorldVertices(target, 0, 2, world, verticesLength-4, 2)
		world[verticesLength-2] = world[0]
		world[verticesLength-1] = world[1]
	} else {
		curveCount--
		verticesLength -= 4
		c.world = grow(c.world, verticesLength)
		world = c.world
		path.ComputeWorldVertices(target, 2, verticesLength, world, 0, 2)
	}

	c.curves = grow(c.curves, curveCount)
	curves := c.curves
	pathLength := 0.0
	x1, y1 := world[0], world[1]
	var cx1, cy1, cx2, cy2, x2, y2 float64
	for i, w := 0, 2; i < curveCount; i, w = i+1, w+6 {
		cx1, cy1 = world[w], world[w+1]
		cx2, cy2 = world[w+2], world[w+3]
		x2, y2 = world[w+4], world[w+5]
		tmpx := (x1 - cx1*2 + cx2) * 0.1875
		tmpy := (y1 - cy1*2 + cy2) * 0.1875
		dddfx := ((cx1-cx2)*3 - x1 + x2) * 0.09375
		dddfy := ((cy1-cy2)*3 - y1 + y2) * 0.09375
		ddfx := tmpx*2 + dddfx
		ddfy := tmpy*2 + dddfy
		dfx := (cx1-x1)*0.75 + tmpx + dddfx/6
		dfy := (cy1-y1)*0.75 + tmpy + dddfy/6
		pathLength += math.Sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx
		dfy += ddfy
		ddfx += dddfx
		ddfy += dddfy
		pathLength += math.Sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx
		dfy += ddfy
		pathLength += math.Sqrt(dfx*dfx + dfy*dfy)
		dfx += ddfx + dddfx
		dfy += ddfy + dddfy
		pathLength += math.Sqrt(dfx*dfx + dfy*dfy)
		curves[i] = pathLength
		x1, y1 = x2, y2
	}

	if data.PositionMode == PositionPercent {
		position *= pathLength
	}
	multiplier := multiplierFor(pathLength)

	segments := c.segments[:]
	curveLength := 0.0
	curve, segment := 0, 0
	for i, o := 0, 0; i < spacesCount; i, o = i+1, o+3 {
		space := spaces[i] * multiplier
		position += space
		p := position

		if closed {
			p = math.Mod(p, pathLength)
			if p < 0 {
				p += pathLength
			}
			curve = 0
		} else if p < 0 {
			addBeforePosition(p, world, 0, out, o)
			continue
		} else if p > pathLength {
			addAfterPosition(p-pathLength, world, verticesLength-4, out, o)
			continue
		}

		for curve < len(curves)-1 && p > curves[curve] {
			curve++
		}
		if curve == 0 {
			p /= curves[0]
		} else {
			prev := curves[curve-1]
			p = (p - prev) / (curves[curve] - prev)
		}

		if curve != prevCurve {
			prevCurve = curve
			ii := curve * 6
			x1, y1 = world[ii], world[ii+1]
			cx1, cy1 = world[ii+2], world[ii+3]
			cx2, cy2 = world[ii+4], world[ii+5]
			x2, y2 = world[ii+6], world[ii+7]
			tmpx := (x1 - cx1*2 + cx2) * 0.03
			tmpy := (y1 - cy1*2 + cy2) * 0.03
			dddfx := ((cx1-cx2)*3 - x1 + x2) * 0.006
			dddfy := ((cy1-cy2)*3 - y1 + y2) * 0.006
			ddfx := tmpx*2 + dddfx
			ddfy := tmpy*2 + dddfy
			dfx := (cx1-x1)*0.3 + tmpx + dddfx/6
			dfy := (cy1-y1)*0.3 + tmpy + dddfy/6
			curveLength = math.Sqrt(dfx*dfx + dfy*dfy)
			segments[0] = curveLength
			for ii = 1; ii < 8; ii++ {
				dfx += ddfx
				dfy += ddfy
				ddfx += dddfx
				ddfy += dddfy
				curveLength += math.Sqrt(dfx*dfx + dfy*dfy)
				segments[ii] = curveLength
			}
			dfx += ddfx
			dfy += ddfy
			curveLength += math.Sqrt(dfx*dfx + dfy*dfy)
			segments[8] = curveLength
			dfx += ddfx + dddfx
			dfy += ddfy + dddfy
			curveLength += math.Sqrt(dfx*dfx + dfy*dfy)
			segments[9] = curveLength
			segment = 0
		}

		p *= curveLength
		for segment < len(segments)-1 && p > segments[segment] {
			segment++
		}
		if segment == 0 {
			p /= segments[0]
		} else {
			prev := segments[segment-1]
			p = float64(segment) + (p-prev)/(segments[segment]-prev)
		}
		addCurvePosition(p*0.1, x1, y1, cx1, cy1, cx2, cy2, x2, y2, out, o,
			tangents || (i > 0 && space < pathEpsilon))
	}
	return out
}

func addBeforePosition(p float64, temp []float64, i int, out []float64, o int) {
	x1, y1 := temp[i], temp[i+1]
	r := math.Atan2(temp[i+3]-y1, temp[i+2]-x1)
	out[o] = x1 + p*math.Cos(r)
	out[o+1] = y1 + p*math.Sin(r)
	out[o+2] = r
}

func addAfterPosition(p float64, temp []float64, i int, out []float64, o int) {
	x1, y1 := temp[i+2], temp[i+3]
	r := math.Atan2(y1-temp[i+1], x1-temp[i])
	out[o] = x1 + p*math.Cos(r)
	out[o+1] = y1 + p*math.Sin(r)
	out[o+2] = r
}

func addCurvePosition(p, x1, y1, cx1, cy1, cx2, cy2, x2, y2 float64, out []float64, o int, tangents bool) {
	if p < pathEpsilon || math.IsNaN(p) {
		out[o] = x1
		out[o+1] = y1
		out[o+2] = math.Atan2(cy1-y1, cx1-x1)
		return
	}
	tt := p * p
	ttt := tt * p
	u := 1 - p
	uu := u * u
	uuu := uu * u
	ut := u * p
	ut3 := ut * 3
	uut3 := u * ut3
	utt3 := ut3 * p
	x := x1*uuu + cx1*uut3 + cx2*utt3 + x2*ttt
	y := y1*uuu + cy1*uut3 + cy2*utt3 + y2*ttt
	out[o] = x
	out[o+1] = y
	if tangents {
		if p < 0.001 {
			out[o+2] = math.Atan2(cy1-y1, cx1-x1)
		} else {
			out[o+2] = math.Atan2(y-(y1*uu+cy1*ut*2+cy2*tt), x-(x1*uu+cx1*ut*2+cx2*tt))
		}
	}
}
