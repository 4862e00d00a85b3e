package skeleton

import "math"

const (
	degRad = math.Pi / 180
	radDeg = 180 / math.Pi
)

func cosDeg(degrees float64) float64 { return math.Cos(degrees * degRad) }
func sinDeg(degrees float64) float64 { return math.Sin(degrees * degRad) }

func atan2Deg(y, x float64) float64 { return math.Atan2(y, x) * radDeg }

// wrapDegrees maps an angle to (-180, 180].
func wrapDegrees(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees > 180 {
		degrees -= 360
	} else if degrees <= -180 {
		degrees += 360
	}
	return degrees
}

// wrapRadians maps an angle to [-pi, pi].
func wrapRadians(r float64) float64 {
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r < -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

func signum(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
