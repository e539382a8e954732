package utils

import (
	"math"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// NormalizeAngle maps degrees into [0, 360).
func NormalizeAngle(angle float64) float64 {
	return types.NormalizeDegrees(angle)
}

// AngleDiff returns the signed shortest rotation from one angle to another,
// in (-180, 180]. Positive turns right (clockwise on screen).
func AngleDiff(from, to float64) float64 {
	diff := NormalizeAngle(to - from)
	if diff > 180 {
		diff -= 360
	}
	return diff
}

// AngleToPoint returns the heading in degrees from one point to another.
func AngleToPoint(from, to types.Vector2) float64 {
	return NormalizeAngle(math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi)
}

// RotateTowards turns current toward target by at most maxStep degrees,
// taking the shorter direction. It snaps when within one step.
func RotateTowards(current, target, maxStep float64) float64 {
	diff := AngleDiff(current, target)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}
