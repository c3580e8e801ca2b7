package contact

import (
	"math"
	"testing"
)

// unitSquareRotated returns the four corners of a unit square rotated by
// theta in the XZ plane.
func unitSquareRotated(theta float64) []ContactSample {
	cos, sin := math.Cos(theta), math.Sin(theta)
	corners := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	pts := make([]ContactSample, 0, 4)
	for _, c := range corners {
		pts = append(pts, ContactSample{
			X: c[0]*cos - c[1]*sin,
			Z: c[0]*sin + c[1]*cos,
		})
	}
	return pts
}

// thetaErrorMod90 folds the error between two angles onto [0, π/4],
// treating 90° multiples as equivalent (rectangle symmetry).
func thetaErrorMod90(got, want float64) float64 {
	return symmetryResidual(AngleDifference(got, want))
}

func TestFitHybrid_RotatedUnitSquare(t *testing.T) {
	want := 30 * math.Pi / 180
	pts := unitSquareRotated(want)

	box := FitFootprintBox(pts, FitHybrid)

	// The 16-step angle search lands within half a step (≈5.6°) of the true
	// orientation, modulo the box's 90° symmetry.
	if err := thetaErrorMod90(box.Theta, want); err > math.Pi/16/2+1e-9 {
		t.Errorf("theta = %.2f°, want ≈30° mod 90°, error %.2f°",
			box.Theta*180/math.Pi, err*180/math.Pi)
	}
	if math.Abs(box.Width-1) > 0.1 || math.Abs(box.Height-1) > 0.1 {
		t.Errorf("dimensions = %.3f × %.3f, want ≈1.0 × 1.0", box.Width, box.Height)
	}
	if box.Area() > 1.2 {
		t.Errorf("area = %.3f, want ≈1.0", box.Area())
	}
}

// outlierRectangle builds the robustness scenario: a 10×5 grid of 50 points
// over a 2×1 rectangle at 0°, plus 5 far outliers placed so no more than
// two land beyond any single axis extreme.
func outlierRectangle() []ContactSample {
	pts := make([]ContactSample, 0, 55)
	for ix := 0; ix < 10; ix++ {
		for iz := 0; iz < 5; iz++ {
			pts = append(pts, ContactSample{
				X: 2 * float64(ix) / 9,
				Z: float64(iz) / 4,
			})
		}
	}
	pts = append(pts,
		ContactSample{X: 6, Z: 0.5},
		ContactSample{X: 5.5, Z: 0.5},
		ContactSample{X: -6, Z: 0.5},
		ContactSample{X: -5.5, Z: 0.5},
		ContactSample{X: 0, Z: 4},
	)
	return pts
}

func TestFitHybrid_TrimsOutliers(t *testing.T) {
	pts := outlierRectangle()

	aabb := FitFootprintBox(pts, FitAABB)
	hybrid := FitFootprintBox(pts, FitHybrid)

	// The outliers blow the AABB up far past the true 2×1 footprint.
	if aabb.Area() < 10*2 {
		t.Errorf("expected AABB dominated by outliers, area = %.2f", aabb.Area())
	}

	// The quantile trim recovers the true extents within 10%.
	w := math.Max(hybrid.Width, hybrid.Height)
	h := math.Min(hybrid.Width, hybrid.Height)
	if math.Abs(w-2) > 0.2 {
		t.Errorf("recovered long side = %.3f, want ≈2.0", w)
	}
	if math.Abs(h-1) > 0.1 {
		t.Errorf("recovered short side = %.3f, want ≈1.0", h)
	}
}

func TestFitHybrid_AreaDominance(t *testing.T) {
	cases := [][]ContactSample{
		unitSquareRotated(0.3),
		unitSquareRotated(1.1),
		outlierRectangle(),
	}
	for i, pts := range cases {
		aabb := FitFootprintBox(pts, FitAABB)
		hybrid := FitFootprintBox(pts, FitHybrid)
		if hybrid.Area() > aabb.Area()+1e-9 {
			t.Errorf("case %d: hybrid area %.4f exceeds AABB area %.4f", i, hybrid.Area(), aabb.Area())
		}
	}
}

func TestFitFootprintBox_FewerThanTwoPointsFallsBackToAABB(t *testing.T) {
	box := FitFootprintBox([]ContactSample{{X: 3, Y: 0, Z: 4}}, FitHybrid)
	if box.Theta != 0 {
		t.Errorf("single-point fit should be axis-aligned, theta = %.4f", box.Theta)
	}
	if box.Center.X != 3 || box.Center.Z != 4 {
		t.Errorf("center = %+v, want (3, _, 4)", box.Center)
	}
}

func TestFitFootprintBox_FloorsDegenerateDimensions(t *testing.T) {
	// Collinear points have zero extent on one axis.
	pts := []ContactSample{{X: 0}, {X: 1}, {X: 2}}
	box := FitFootprintBox(pts, FitHybrid)
	if box.Width < MinContactSize || box.Height < MinContactSize {
		t.Errorf("dimensions below floor: %.4f × %.4f", box.Width, box.Height)
	}
}

func TestFitFootprintBox_ThetaInRange(t *testing.T) {
	for _, theta := range []float64{0, 0.5, 1.5, 2.8} {
		box := FitFootprintBox(unitSquareRotated(theta), FitHybrid)
		if box.Theta <= -math.Pi || box.Theta > math.Pi {
			t.Errorf("theta %.4f outside (-π, π]", box.Theta)
		}
	}
}

func TestFitAABB_EmptySet(t *testing.T) {
	box := FitFootprintBox(nil, FitAABB)
	if box.Width != MinContactSize || box.Height != MinContactSize {
		t.Errorf("empty fit should floor to MinContactSize, got %.4f × %.4f", box.Width, box.Height)
	}
}
