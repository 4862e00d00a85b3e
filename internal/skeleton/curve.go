package skeleton

import "fmt"

// CurveType is the interpolation from one key to the next. The values are
// the binary format codes and are shared by both decoders.
type CurveType int

const (
	CurveLinear CurveType = iota
	CurveStepped
	CurveBezier
)

func (c CurveType) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveStepped:
		return "stepped"
	case CurveBezier:
		return "bezier"
	}
	return fmt.Sprintf("CurveType(%d)", int(c))
}

// CurveTypeFromIndex converts a binary curve code.
func CurveTypeFromIndex(i int) (CurveType, error) {
	if i < int(CurveLinear) || i > int(CurveBezier) {
		return 0, fmt.Errorf("unknown curve type %d", i)
	}
	return CurveType(i), nil
}

// BezierSize is the number of floats sampled per bezier segment: nine
// x,y points along the curve.
const BezierSize = 18

// CurveTimeline holds keys of one or more values with per-key curves.
//
// Frames is laid out as time followed by the values, FrameEntries floats
// per key. curves starts with one code per key; bezier codes point at an
// 18 float sample table further along the same slice.
type CurveTimeline struct {
	frames  []float64
	curves  []float64
	entries int
}

func newCurveTimeline(frameCount, bezierCount, entries int) CurveTimeline {
	t := CurveTimeline{
		frames:  make([]float64, frameCount*entries),
		curves:  make([]float64, frameCount+bezierCount*BezierSize),
		entries: entries,
	}
	if frameCount > 0 {
		t.curves[frameCount-1] = float64(CurveStepped)
	}
	return t
}

// Frames returns the key data.
func (t *CurveTimeline) Frames() []float64 { return t.frames }

// FrameEntries returns the number of floats per key.
func (t *CurveTimeline) FrameEntries() int { return t.entries }

// FrameCount returns the number of keys.
func (t *CurveTimeline) FrameCount() int { return len(t.frames) / t.entries }

// Duration returns the time of the last key.
func (t *CurveTimeline) Duration() float64 {
	if len(t.frames) == 0 {
		return 0
	}
	return t.frames[len(t.frames)-t.entries]
}

// SetFrame sets the time and values of a key.
func (t *CurveTimeline) SetFrame(frame int, time float64, values ...float64) {
	i := frame * t.entries
	t.frames[i] = time
	copy(t.frames[i+1:i+t.entries], values)
}

// SetLinear makes the curve after frame linear.
func (t *CurveTimeline) SetLinear(frame int) { t.curves[frame] = float64(CurveLinear) }

// SetStepped holds the frame's values until the next key.
func (t *CurveTimeline) SetStepped(frame int) { t.curves[frame] = float64(CurveStepped) }

// Curve returns the curve type after frame.
func (t *CurveTimeline) Curve(frame int) CurveType {
	c := t.curves[frame]
	if c >= float64(CurveBezier) {
		return CurveBezier
	}
	return CurveType(c)
}

// Shrink drops unused bezier storage once the real count is known.
func (t *CurveTimeline) Shrink(bezierCount int) {
	size := t.FrameCount() + bezierCount*BezierSize
	if len(t.curves) > size {
		t.curves = t.curves[:size:size]
	}
}

// SetBezier samples one bezier segment into table slot bezier. value is
// the index of the value within the key the segment applies to; the first
// value's segment also marks frame as a bezier key. The sample tables of
// one key's values must be stored in consecutive slots.
func (t *CurveTimeline) SetBezier(bezier, frame, value int, time1, value1, cx1, cy1, cx2, cy2, time2, value2 float64) {
	i := t.FrameCount() + bezier*BezierSize
	if value == 0 {
		t.curves[frame] = float64(CurveBezier) + float64(i)
	}
	tmpx := (time1 - cx1*2 + cx2) * 0.03
	tmpy := (value1 - cy1*2 + cy2) * 0.03
	dddx := ((cx1-cx2)*3 - time1 + time2) * 0.006
	dddy := ((cy1-cy2)*3 - value1 + value2) * 0.006
	ddx := tmpx*2 + dddx
	ddy := tmpy*2 + dddy
	dx := (cx1-time1)*0.3 + tmpx + dddx/6
	dy := (cy1-value1)*0.3 + tmpy + dddy/6
	x, y := time1+dx, value1+dy
	for n := i + BezierSize; i < n; i += 2 {
		t.curves[i] = x
		t.curves[i+1] = y
		dx += ddx
		dy += ddy
		ddx += dddx
		ddy += dddy
		x += dx
		y += dy
	}
}

// search returns the index of the key at or before time.
func search(frames []float64, time float64, step int) int {
	n := len(frames)
	for i := step; i < n; i += step {
		if frames[i] > time {
			return i - step
		}
	}
	return n - step
}

// Value evaluates value index valueIndex at time. Before the first key
// the first key's value is returned; callers blending against the setup
// pose check the first key time themselves.
func (t *CurveTimeline) Value(time float64, valueIndex int) float64 {
	frames := t.frames
	offset := 1 + valueIndex
	if time < frames[0] {
		return frames[offset]
	}
	i := search(frames, time, t.entries)
	code := t.curves[i/t.entries]
	switch {
	case code == float64(CurveLinear):
		before, v := frames[i], frames[i+offset]
		next := i + t.entries
		return v + (time-before)/(frames[next]-before)*(frames[next+offset]-v)
	case code == float64(CurveStepped):
		return frames[i+offset]
	}
	return t.bezierValue(time, i, offset, int(code)-int(CurveBezier)+valueIndex*BezierSize)
}

func (t *CurveTimeline) bezierValue(time float64, frameIndex, valueOffset, i int) float64 {
	curves, frames := t.curves, t.frames
	if curves[i] > time {
		x, y := frames[frameIndex], frames[frameIndex+valueOffset]
		return y + (time-x)/(curves[i]-x)*(curves[i+1]-y)
	}
	n := i + BezierSize
	for i += 2; i < n; i += 2 {
		if curves[i] >= time {
			x, y := curves[i-2], curves[i-1]
			return y + (time-x)/(curves[i]-x)*(curves[i+1]-y)
		}
	}
	frameIndex += t.entries
	x, y := curves[n-2], curves[n-1]
	return y + (time-x)/(frames[frameIndex]-x)*(frames[frameIndex+valueOffset]-y)
}

// Percent evaluates a key-less curve between frame and the next key as a
// 0..1 progress. It serves timelines whose keys carry no float values,
// with bezier tables sampled from 0 to 1.
func (t *CurveTimeline) Percent(time float64, frame int) float64 {
	frames := t.frames
	i := frame * t.entries
	code := t.curves[frame]
	switch {
	case code == float64(CurveLinear):
		x := frames[i]
		return (time - x) / (frames[i+t.entries] - x)
	case code == float64(CurveStepped):
		return 0
	}
	c := int(code) - int(CurveBezier)
	curves := t.curves
	if curves[c] > time {
		x := frames[i]
		return curves[c+1] * (time - x) / (curves[c] - x)
	}
	n := c + BezierSize
	for c += 2; c < n; c += 2 {
		if curves[c] >= time {
			x, y := curves[c-2], curves[c-1]
			return y + (time-x)/(curves[c]-x)*(curves[c+1]-y)
		}
	}
	x, y := curves[n-2], curves[n-1]
	return y + (1-y)*(time-x)/(frames[i+t.entries]-x)
}
