package contact

import (
	"math"
	"sort"
)

// FitFootprintBox fits a footprint rectangle to the XZ projection of the
// point set using the selected algorithm. Sets with fewer than two points
// fall back to the axis-aligned fit regardless of algorithm. Dimensions are
// floored at MinContactSize and theta is wrapped onto (-π, π].
func FitFootprintBox(points []ContactSample, algorithm FitAlgorithm) OBB {
	return FitFootprintBoxWith(points, algorithm, DefaultAngleSteps, DefaultTrimQuantile)
}

// FitFootprintBoxWith is FitFootprintBox with an explicit angle-search step
// count and trim quantile for the hybrid strategy.
func FitFootprintBoxWith(points []ContactSample, algorithm FitAlgorithm, steps int, trim float64) OBB {
	var box OBB
	if len(points) < 2 || algorithm == FitAABB {
		box = fitAABB(points)
	} else {
		box = fitHybrid(points, steps, trim)
	}
	box.Theta = WrapToPi(box.Theta)
	if box.Width < MinContactSize {
		box.Width = MinContactSize
	}
	if box.Height < MinContactSize {
		box.Height = MinContactSize
	}
	orthonormalize(&box)
	return box
}

// ComputeFootprintBox is the per-frame entry point for downstream
// collaborators: it fits a box to the points and then runs the angle
// stabiliser against the previously accepted orientation. previous may be
// nil on the first frame for a body.
func ComputeFootprintBox(points []ContactSample, algorithm FitAlgorithm, previous *OBB, previousVelocity Vec3, threshold, motionFloor float64) OBB {
	box := FitFootprintBox(points, algorithm)
	prevTheta := 0.0
	hasPrev := previous != nil
	if hasPrev {
		prevTheta = previous.Theta
	}
	return StabilizeAngle(box, prevTheta, hasPrev, previousVelocity, threshold, motionFloor)
}

// fitAABB computes axis-aligned extents in the XZ plane with theta zero.
func fitAABB(points []ContactSample) OBB {
	if len(points) == 0 {
		return OBB{}
	}

	minX, maxX := points[0].X, points[0].X
	minZ, maxZ := points[0].Z, points[0].Z
	minY, maxY := points[0].Y, points[0].Y
	var sumY float64
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minZ = math.Min(minZ, p.Z)
		maxZ = math.Max(maxZ, p.Z)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
		sumY += p.Y
	}

	return OBB{
		Center: Vec3{(minX + maxX) / 2, sumY / float64(len(points)), (minZ + maxZ) / 2},
		Width:  maxX - minX,
		Height: maxZ - minZ,
		Theta:  0,
		Depth:  maxY - minY,
	}
}

// fitHybrid is the primary minimum-area strategy.
//
// Phase 1 (angle search): evaluate steps candidate angles θ_i = π·i/steps,
// rotate the points by -θ_i, and keep the angle whose axis-aligned area is
// smallest. Ties break to the lowest index.
//
// Phase 2 (robust extents): at the winning angle, sort the rotated x and z
// coordinates independently and trim the bottom/top trim fraction on each
// axis (index-based) before taking min/max. This suppresses residual
// outliers the noise filter missed without re-running a full rejection
// pass inside the fitter.
//
// Phase 3: recompute the centre in rotated space and rotate it back to
// world space.
func fitHybrid(points []ContactSample, steps int, trim float64) OBB {
	n := len(points)
	xs := make([]float64, n)
	zs := make([]float64, n)

	bestIdx := 0
	bestArea := math.MaxFloat64
	for i := 0; i < steps; i++ {
		theta := WrapToPi(math.Pi * float64(i) / float64(steps))
		cos, sin := math.Cos(-theta), math.Sin(-theta)

		minX, maxX := math.MaxFloat64, -math.MaxFloat64
		minZ, maxZ := math.MaxFloat64, -math.MaxFloat64
		for _, p := range points {
			rx := p.X*cos - p.Z*sin
			rz := p.X*sin + p.Z*cos
			minX = math.Min(minX, rx)
			maxX = math.Max(maxX, rx)
			minZ = math.Min(minZ, rz)
			maxZ = math.Max(maxZ, rz)
		}

		area := (maxX - minX) * (maxZ - minZ)
		if area < bestArea {
			bestArea = area
			bestIdx = i
		}
	}

	theta := WrapToPi(math.Pi * float64(bestIdx) / float64(steps))
	cos, sin := math.Cos(-theta), math.Sin(-theta)
	var sumY, minY, maxY float64
	minY, maxY = math.MaxFloat64, -math.MaxFloat64
	for i, p := range points {
		xs[i] = p.X*cos - p.Z*sin
		zs[i] = p.X*sin + p.Z*cos
		sumY += p.Y
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	sort.Float64s(xs)
	sort.Float64s(zs)

	loX, hiX := trimmedExtents(xs, trim)
	loZ, hiZ := trimmedExtents(zs, trim)

	// Centre in rotated space, then rotate back to world.
	cx := (loX + hiX) / 2
	cz := (loZ + hiZ) / 2
	wx := cx*math.Cos(theta) - cz*math.Sin(theta)
	wz := cx*math.Sin(theta) + cz*math.Cos(theta)

	return OBB{
		Center: Vec3{wx, sumY / float64(n), wz},
		Width:  hiX - loX,
		Height: hiZ - loZ,
		Theta:  theta,
		Depth:  maxY - minY,
	}
}

// trimmedExtents returns min/max of sorted after dropping trim·n entries
// from each end (index-based). Degenerates to plain min/max when the set is
// too small to trim.
func trimmedExtents(sorted []float64, trim float64) (lo, hi float64) {
	n := len(sorted)
	cut := int(trim * float64(n))
	if 2*cut >= n {
		cut = 0
	}
	return sorted[cut], sorted[n-1-cut]
}
