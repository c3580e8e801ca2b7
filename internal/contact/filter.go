package contact

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// iqrEpsilon floors the interquartile range so a flat point set (all Y
// equal) never produces a zero-width acceptance band.
const iqrEpsilon = 1e-6

// iqrMinPoints is the minimum set size for quartiles to be meaningful.
const iqrMinPoints = 5

// FilterStage is one pure denoising pass. Stages never fabricate points:
// output is always a value-subset of the input.
type FilterStage func(points []ContactSample) []ContactSample

// NoisePipeline composes the enabled denoising stages for params, applied
// in order: grid dedupe, IQR outlier rejection, neighbour-density support.
func NoisePipeline(params ContactParams) []FilterStage {
	var stages []FilterStage
	if params.GridCellXZ > 0 {
		cell := params.GridCellXZ
		stages = append(stages, func(pts []ContactSample) []ContactSample {
			return GridDedupe(pts, cell)
		})
	}
	if params.IQREnabled {
		stages = append(stages, RejectVerticalOutliers)
	}
	if params.DensityEnabled {
		r, k := params.NeighborRadius, params.SupportCount
		stages = append(stages, func(pts []ContactSample) []ContactSample {
			return DensitySupport(pts, r, k)
		})
	}
	return stages
}

// ApplyFilters runs the composed stages over points.
func ApplyFilters(points []ContactSample, stages []FilterStage) []ContactSample {
	for _, stage := range stages {
		points = stage(points)
	}
	return points
}

// GridDedupe quantises (X, Z) to cells of the given size and keeps the
// first point seen per cell. Collapses the dense duplicate clumps that
// deformable-body contact produces around each node.
func GridDedupe(points []ContactSample, cellSize float64) []ContactSample {
	if cellSize <= 0 || len(points) == 0 {
		return points
	}

	type cellKey struct{ cx, cz int64 }
	seen := make(map[cellKey]bool, len(points))
	out := make([]ContactSample, 0, len(points))

	for _, p := range points {
		key := cellKey{
			cx: int64(math.Floor(p.X / cellSize)),
			cz: int64(math.Floor(p.Z / cellSize)),
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// RejectVerticalOutliers drops points whose Y lies outside the 1.5·IQR
// fence around the vertical quartiles. Needs more than four points;
// smaller sets pass through untouched.
func RejectVerticalOutliers(points []ContactSample) []ContactSample {
	if len(points) < iqrMinPoints {
		return points
	}

	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	sort.Float64s(ys)

	q25 := stat.Quantile(0.25, stat.Empirical, ys, nil)
	q75 := stat.Quantile(0.75, stat.Empirical, ys, nil)
	iqr := math.Max(iqrEpsilon, q75-q25)
	lo := q25 - 1.5*iqr
	hi := q75 + 1.5*iqr

	out := make([]ContactSample, 0, len(points))
	for _, p := range points {
		if p.Y < lo || p.Y > hi {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DensitySupport keeps a point only if at least k other points lie within
// radius r in the XZ plane. If the stage would leave fewer than k points it
// is skipped entirely (fail open): starving the fitter is worse than
// passing a thin set through.
func DensitySupport(points []ContactSample, r float64, k int) []ContactSample {
	if len(points) == 0 || r <= 0 || k <= 0 {
		return points
	}

	r2 := r * r
	out := make([]ContactSample, 0, len(points))
	for i, p := range points {
		support := 0
		for j, q := range points {
			if i == j {
				continue
			}
			dx := p.X - q.X
			dz := p.Z - q.Z
			if dx*dx+dz*dz <= r2 {
				support++
				if support >= k {
					break
				}
			}
		}
		if support >= k {
			out = append(out, p)
		}
	}

	if len(out) < k {
		return points
	}
	return out
}
