package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

func TestCircleSegmentSweptStopsTunneling(t *testing.T) {
	p0, p1 := vec(0, 0), vec(20, 0)
	a, b := vec(10, -5), vec(10, 5)

	// The discrete end-of-tick test sees nothing
	require.False(t, CheckCircleSegmentCollision(p1, 1, a, b))

	hit, ok := CircleSegmentSwept(p0, p1, 1, a, b)
	require.True(t, ok)
	assert.Greater(t, hit.TOI, 0.0)
	assert.Less(t, hit.TOI, 1.0)
	assert.InDelta(t, 0.45, hit.TOI, 1e-9)
	assert.InDelta(t, -1.0, hit.Normal.X, 1e-9)
	assert.InDelta(t, 0.0, hit.Normal.Y, 1e-9)
	assert.InDelta(t, 10.0, hit.Point.X, 1e-9)
	assert.False(t, hit.Degraded)
}

func TestCircleSegmentSwept(t *testing.T) {
	tests := []struct {
		name    string
		p0, p1  types.Vector2
		radius  float64
		a, b    types.Vector2
		wantHit bool
		wantTOI float64
	}{
		{
			name: "moving parallel to wall",
			p0:   vec(0, 0), p1: vec(20, 0), radius: 1,
			a: vec(0, 5), b: vec(20, 5),
			wantHit: false,
		},
		{
			name: "stops short of wall",
			p0:   vec(0, 0), p1: vec(8, 0), radius: 1,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: false,
		},
		{
			name: "reaches wall exactly at end of tick",
			p0:   vec(0, 0), p1: vec(9, 0), radius: 1,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: true, wantTOI: 1,
		},
		{
			name: "clips the endpoint cap",
			p0:   vec(0, 6), p1: vec(20, 6), radius: 2,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: true, wantTOI: (10 - math.Sqrt(3)) / 20,
		},
		{
			name: "passes beyond the endpoint",
			p0:   vec(0, 8), p1: vec(20, 8), radius: 2,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: false,
		},
		{
			name: "approaching from the other side",
			p0:   vec(30, 0), p1: vec(0, 0), radius: 2,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: true, wantTOI: 18.0 / 30.0,
		},
		{
			name: "already touching and moving in",
			p0:   vec(9.5, 0), p1: vec(12, 0), radius: 1,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: true, wantTOI: 0,
		},
		{
			name: "already touching and moving away",
			p0:   vec(9.5, 0), p1: vec(0, 0), radius: 1,
			a: vec(10, -5), b: vec(10, 5),
			wantHit: false,
		},
		{
			name: "degenerate point wall",
			p0:   vec(0, 0), p1: vec(20, 0), radius: 1,
			a: vec(10, 0), b: vec(10, 0),
			wantHit: true, wantTOI: 9.0 / 20.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := CircleSegmentSwept(tt.p0, tt.p1, tt.radius, tt.a, tt.b)
			if ok != tt.wantHit {
				t.Fatalf("CircleSegmentSwept() hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(hit.TOI-tt.wantTOI) > 1e-9 {
				t.Errorf("CircleSegmentSwept() TOI = %v, want %v", hit.TOI, tt.wantTOI)
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-9 {
				t.Errorf("CircleSegmentSwept() normal %v is not unit", hit.Normal)
			}
		})
	}
}

func TestCircleSegmentSweptFastDiagonal(t *testing.T) {
	// 200 units in one tick against a 1-unit-thick corridor corner
	hit, ok := CircleSegmentSwept(vec(0, 0), vec(200, 150), 3, vec(100, 0), vec(100, 300))
	require.True(t, ok)
	center := vec(0, 0).Lerp(vec(200, 150), hit.TOI)
	assert.InDelta(t, 97.0, center.X, 1e-9)
}

func TestBisectionAgreesWithAnalyticRoot(t *testing.T) {
	p0, p1 := vec(0, 0), vec(20, 0)
	a, b := vec(10, -5), vec(10, 5)
	d := p1.Sub(p0)

	tMin, dMin := closestApproach(p0, d, a, b)
	require.LessOrEqual(t, dMin, 1.0)

	hit, ok := DefaultSweepOptions.bisect(p0, d, 1, a, b, tMin)
	require.True(t, ok)
	assert.False(t, hit.Degraded)
	assert.InDelta(t, 0.45, hit.TOI, 1e-6)
}

func TestBisectionReportsDegradedPrecision(t *testing.T) {
	p0, p1 := vec(0, 0), vec(20, 0)
	a, b := vec(10, -5), vec(10, 5)
	d := p1.Sub(p0)

	tMin, _ := closestApproach(p0, d, a, b)
	opts := SweepOptions{BisectionSteps: 2, Tolerance: 1e-12}
	hit, ok := opts.bisect(p0, d, 1, a, b, tMin)
	require.True(t, ok)
	assert.True(t, hit.Degraded)
	assert.GreaterOrEqual(t, hit.TOI, 0.45)
}
