package contact

import (
	"math/rand"
	"testing"
)

func randomPatch(rng *rand.Rand, n int) []ContactSample {
	pts := make([]ContactSample, n)
	for i := range pts {
		pts[i] = ContactSample{
			X: rng.Float64() * 2,
			Y: rng.NormFloat64() * 0.01,
			Z: rng.Float64(),
		}
	}
	return pts
}

func TestFilterStages_SubsetLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := randomPatch(rng, 60)

	stages := NoisePipeline(DefaultSoftParams())
	out := pts
	for i, stage := range stages {
		next := stage(out)
		if len(next) > len(out) {
			t.Errorf("stage %d grew the set: %d -> %d", i, len(out), len(next))
		}
		out = next
	}
}

func TestGridDedupe_OnePointPerCell(t *testing.T) {
	pts := []ContactSample{
		{X: 0.01, Z: 0.01},
		{X: 0.02, Z: 0.03}, // Same cell as the first
		{X: 0.30, Z: 0.01},
		{X: 0.01, Z: 0.30},
	}
	out := GridDedupe(pts, 0.1)
	if len(out) != 3 {
		t.Fatalf("expected 3 points after dedupe, got %d", len(out))
	}
	// First point per cell wins.
	if out[0] != pts[0] {
		t.Errorf("expected first point retained, got %+v", out[0])
	}
}

func TestGridDedupe_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pts := randomPatch(rng, 80)

	once := GridDedupe(pts, 0.05)
	twice := GridDedupe(once, 0.05)
	if len(once) != len(twice) {
		t.Errorf("dedupe not a fixed point: %d -> %d", len(once), len(twice))
	}
}

func TestRejectVerticalOutliers_DropsSpike(t *testing.T) {
	pts := make([]ContactSample, 0, 21)
	for i := 0; i < 20; i++ {
		pts = append(pts, ContactSample{X: float64(i) * 0.1, Y: 0.001 * float64(i%3)})
	}
	pts = append(pts, ContactSample{X: 1.0, Y: 5.0}) // Airborne spike

	out := RejectVerticalOutliers(pts)
	if len(out) != 20 {
		t.Fatalf("expected the spike dropped, got %d of %d points", len(out), len(pts))
	}
	for _, p := range out {
		if p.Y > 1 {
			t.Errorf("spike survived: %+v", p)
		}
	}
}

func TestRejectVerticalOutliers_Idempotent(t *testing.T) {
	pts := make([]ContactSample, 0, 25)
	for i := 0; i < 24; i++ {
		pts = append(pts, ContactSample{X: float64(i), Y: float64(i%4) * 0.01})
	}
	pts = append(pts, ContactSample{X: 0, Y: 3.0})

	once := RejectVerticalOutliers(pts)
	twice := RejectVerticalOutliers(once)
	if len(once) != len(twice) {
		t.Errorf("IQR rejection not a fixed point: %d -> %d", len(once), len(twice))
	}
}

func TestRejectVerticalOutliers_SmallSetPassesThrough(t *testing.T) {
	pts := []ContactSample{{Y: 0}, {Y: 100}, {Y: -100}, {Y: 3}}
	out := RejectVerticalOutliers(pts)
	if len(out) != len(pts) {
		t.Errorf("sets of 4 or fewer must pass through, got %d of %d", len(out), len(pts))
	}
}

func TestRejectVerticalOutliers_FlatSetKeepsAll(t *testing.T) {
	// All Y equal: the epsilon floor on the IQR must not reject anything.
	pts := make([]ContactSample, 10)
	for i := range pts {
		pts[i] = ContactSample{X: float64(i), Y: 0.5}
	}
	out := RejectVerticalOutliers(pts)
	if len(out) != len(pts) {
		t.Errorf("flat set lost points: %d of %d", len(out), len(pts))
	}
}

func TestDensitySupport_DropsIsolatedPoint(t *testing.T) {
	pts := []ContactSample{
		{X: 0, Z: 0},
		{X: 0.05, Z: 0},
		{X: 0, Z: 0.05},
		{X: 0.05, Z: 0.05},
		{X: 10, Z: 10}, // Isolated
	}
	out := DensitySupport(pts, 0.2, 2)
	if len(out) != 4 {
		t.Fatalf("expected isolated point dropped, got %d points", len(out))
	}
	for _, p := range out {
		if p.X > 5 {
			t.Errorf("isolated point survived: %+v", p)
		}
	}
}

func TestDensitySupport_FailsOpen(t *testing.T) {
	// Every point is isolated; filtering would leave fewer than k points,
	// so the stage must skip itself and return the input unchanged.
	pts := []ContactSample{
		{X: 0, Z: 0},
		{X: 10, Z: 0},
		{X: 0, Z: 10},
	}
	out := DensitySupport(pts, 0.1, 2)
	if len(out) != len(pts) {
		t.Errorf("density stage must fail open, got %d of %d points", len(out), len(pts))
	}
}

func TestApplyFilters_ComposedPipeline(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pts := randomPatch(rng, 100)
	pts = append(pts, ContactSample{X: 1, Y: 4.0, Z: 0.5})

	out := ApplyFilters(pts, NoisePipeline(DefaultSoftParams()))
	if len(out) > len(pts) {
		t.Errorf("pipeline grew the set: %d -> %d", len(pts), len(out))
	}
	for _, p := range out {
		if p.Y > 1 {
			t.Errorf("outlier survived the composed pipeline: %+v", p)
		}
	}
}
