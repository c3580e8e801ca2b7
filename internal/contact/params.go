package contact

import (
	"fmt"
	"math"
)

// BodyKind selects the collection strategy and gate preset for a tracked
// body. Rigid contact arrives through manifolds and can be a single grazing
// point; deformable contact is per-node and inherently diffuse.
type BodyKind int

const (
	BodyRigid BodyKind = iota
	BodySoft
)

func (k BodyKind) String() string {
	if k == BodySoft {
		return "soft"
	}
	return "rigid"
}

// FitAlgorithm names a footprint box fitting strategy.
type FitAlgorithm string

const (
	// FitAABB computes axis-aligned extents with theta fixed at zero.
	FitAABB FitAlgorithm = "aabb"
	// FitHybrid is the primary minimum-area strategy: a coarse angle search
	// followed by a quantile-trimmed extent measurement at the winning angle.
	FitHybrid FitAlgorithm = "hybrid"
)

// Fitting and stabilisation constants.
const (
	// MinContactSize floors the fitted box dimensions so downstream
	// consumers never receive a degenerate rectangle.
	MinContactSize = 0.05

	// DefaultAngleSteps is the number of candidate angles the hybrid
	// fitter evaluates over [0, π).
	DefaultAngleSteps = 16

	// DefaultTrimQuantile is the per-axis fraction trimmed from each end
	// before measuring extents at the winning angle.
	DefaultTrimQuantile = 0.05

	// DefaultAngleStabilityThreshold is how close (radians) a new fit angle
	// must be to a 90° symmetry multiple of the previous accepted angle for
	// the stabiliser to hold the previous orientation. 25 degrees.
	DefaultAngleStabilityThreshold = 25 * math.Pi / 180

	// DefaultMotionFloor is the body speed (units/sec) below which the
	// angle stabiliser always holds the previous orientation.
	DefaultMotionFloor = 0.05

	// sparseFloor is the point count at or below which the augmenter
	// fabricates extra boundary support before fitting.
	sparseFloor = 4
)

// ContactParams is the immutable per-body configuration for the pipeline.
// Construct via DefaultRigidParams or DefaultSoftParams, adjust, then
// Validate once; the pipeline treats it as read-only per frame.
type ContactParams struct {
	Kind BodyKind

	// Collector gates.
	MaxManifolds   int     // Manifold scan cap for rigid bodies
	DistanceFilter bool    // Apply MaxSeparation to manifold contacts
	MaxSeparation  float64 // d_max: manifold contact acceptance distance
	EnterDistance  float64 // d_enter: signed-distance threshold to enter contact
	ExitDistance   float64 // d_exit: signed-distance threshold to leave contact
	VelocityGate   bool    // Admit nodes approaching the plane fast enough
	MinApproach    float64 // v_min: required approach speed along the normal

	// Noise filter stages.
	GridCellXZ     float64 // Dedupe cell size in the XZ plane; 0 disables
	IQREnabled     bool    // Vertical interquartile outlier rejection
	DensityEnabled bool    // Neighbour-density support (soft preset opt-in)
	NeighborRadius float64 // r_n: XZ support radius for the density stage
	SupportCount   int     // k: neighbours required within NeighborRadius

	// Temporal stabiliser.
	AlphaCentroid     float64 // EMA weight on the previous centroid, [0, 1)
	NHold             int     // Hold-last-good frame budget
	VerticalSpreadMax float64 // y_max: stddev(Y) gate on the filtered set

	// Backpressure: raw candidates beyond this cap are never collected.
	NTarget int

	// Footprint fitting.
	Algorithm      FitAlgorithm
	AngleSteps     int
	TrimQuantile   float64
	AngleThreshold float64 // Angle stabiliser symmetry-proximity threshold
	MotionFloor    float64 // Angle stabiliser speed floor
}

// DefaultRigidParams returns the preset for rigid bodies: strict distance
// gating and no density stage, since a rigid manifold is already compact.
func DefaultRigidParams() ContactParams {
	return ContactParams{
		Kind:              BodyRigid,
		MaxManifolds:      8,
		DistanceFilter:    true,
		MaxSeparation:     0.02,
		EnterDistance:     0.02,
		ExitDistance:      0.08,
		VelocityGate:      false,
		MinApproach:       0.1,
		GridCellXZ:        0.04,
		IQREnabled:        true,
		DensityEnabled:    false,
		NeighborRadius:    0.15,
		SupportCount:      2,
		AlphaCentroid:     0.65,
		NHold:             6,
		VerticalSpreadMax: 0.12,
		NTarget:           64,
		Algorithm:         FitHybrid,
		AngleSteps:        DefaultAngleSteps,
		TrimQuantile:      DefaultTrimQuantile,
		AngleThreshold:    DefaultAngleStabilityThreshold,
		MotionFloor:       DefaultMotionFloor,
	}
}

// DefaultSoftParams returns the preset for deformable bodies. Most gates are
// relaxed or disabled because deformable contact regions are diffuse: wider
// enter/exit band, velocity admission on, density support opt-in, larger
// sample cap.
func DefaultSoftParams() ContactParams {
	p := DefaultRigidParams()
	p.Kind = BodySoft
	p.DistanceFilter = false
	p.MaxSeparation = 0.06
	p.EnterDistance = 0.06
	p.ExitDistance = 0.18
	p.VelocityGate = true
	p.MinApproach = 0.05
	p.GridCellXZ = 0.03
	p.DensityEnabled = true
	p.NeighborRadius = 0.2
	p.SupportCount = 3
	p.AlphaCentroid = 0.75
	p.NHold = 10
	p.VerticalSpreadMax = 0.2
	p.NTarget = 128
	return p
}

// Validate fails fast on malformed configuration. This is the only class of
// error the pipeline treats as a programming mistake; per-frame conditions
// are reported through QualityFlags instead.
func (p ContactParams) Validate() error {
	if p.NHold < 0 {
		return fmt.Errorf("contact params: NHold must be >= 0, got %d", p.NHold)
	}
	if p.NTarget <= 0 {
		return fmt.Errorf("contact params: NTarget must be > 0, got %d", p.NTarget)
	}
	if p.MaxManifolds <= 0 {
		return fmt.Errorf("contact params: MaxManifolds must be > 0, got %d", p.MaxManifolds)
	}
	if p.SupportCount <= 0 {
		return fmt.Errorf("contact params: SupportCount must be > 0, got %d", p.SupportCount)
	}
	if p.DensityEnabled && p.NeighborRadius <= 0 {
		return fmt.Errorf("contact params: NeighborRadius must be > 0 when density stage is enabled, got %g", p.NeighborRadius)
	}
	if p.GridCellXZ < 0 {
		return fmt.Errorf("contact params: GridCellXZ must be >= 0, got %g", p.GridCellXZ)
	}
	if p.AlphaCentroid < 0 || p.AlphaCentroid >= 1 {
		return fmt.Errorf("contact params: AlphaCentroid must be in [0, 1), got %g", p.AlphaCentroid)
	}
	if p.ExitDistance < p.EnterDistance {
		return fmt.Errorf("contact params: ExitDistance (%g) must be >= EnterDistance (%g)", p.ExitDistance, p.EnterDistance)
	}
	if p.AngleSteps <= 0 {
		return fmt.Errorf("contact params: AngleSteps must be > 0, got %d", p.AngleSteps)
	}
	if p.TrimQuantile < 0 || p.TrimQuantile >= 0.5 {
		return fmt.Errorf("contact params: TrimQuantile must be in [0, 0.5), got %g", p.TrimQuantile)
	}
	switch p.Algorithm {
	case FitAABB, FitHybrid:
	default:
		return fmt.Errorf("contact params: unknown fit algorithm %q", p.Algorithm)
	}
	return nil
}
