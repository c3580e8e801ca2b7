package contact

import (
	"math"
	"sort"
)

// Augmenter constants.
const (
	// silhouetteBand is the half-height of the vertical slab around the
	// contact plane from which mesh vertices contribute to the silhouette.
	silhouetteBand = 0.5

	// hullEdgeSamples is how many interpolated points are added per hull edge.
	hullEdgeSamples = 2

	// ringPoints and ringRadius describe the fixed support ring added
	// around the centroid.
	ringPoints = 6
	ringRadius = 0.12
)

// AugmentSparse synthesises extra boundary support when the stabilised set
// is too small for a reliable box fit. Mesh vertices within ±0.5 of the
// contact-plane height are projected onto XZ, their 2D convex hull is
// sampled (two interpolated points per edge), and a fixed 6-point ring of
// radius 0.12 is added around the centroid. Synthesised points carry
// Synthetic=true; output length is always >= input length. The input slice
// is never written to: held frames reuse the previously accepted slice, so
// appending into its backing array would rewrite results already handed out.
func AugmentSparse(points []ContactSample, centroid Vec3, meshVerts []Vec3, planeHeight float64) []ContactSample {
	out := append([]ContactSample(nil), points...)

	hull := silhouetteHull(meshVerts, planeHeight)
	for i := 0; i < len(hull); i++ {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		for s := 1; s <= hullEdgeSamples; s++ {
			t := float64(s) / float64(hullEdgeSamples+1)
			out = append(out, ContactSample{
				X:         a.x + (b.x-a.x)*t,
				Y:         planeHeight,
				Z:         a.z + (b.z-a.z)*t,
				Synthetic: true,
			})
		}
	}

	for i := 0; i < ringPoints; i++ {
		phi := 2 * math.Pi * float64(i) / ringPoints
		out = append(out, ContactSample{
			X:         centroid.X + ringRadius*math.Cos(phi),
			Y:         planeHeight,
			Z:         centroid.Z + ringRadius*math.Sin(phi),
			Synthetic: true,
		})
	}

	return out
}

type point2 struct{ x, z float64 }

// silhouetteHull projects the mesh vertices near the contact plane onto XZ
// and returns their convex hull (counter-clockwise, no repeated endpoint)
// via the monotone chain construction. Fewer than three usable vertices
// yield no hull.
func silhouetteHull(meshVerts []Vec3, planeHeight float64) []point2 {
	pts := make([]point2, 0, len(meshVerts))
	for _, v := range meshVerts {
		if math.Abs(v.Y-planeHeight) > silhouetteBand {
			continue
		}
		pts = append(pts, point2{v.X, v.Z})
	}
	if len(pts) < 3 {
		return nil
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].z < pts[j].z
	})

	// Monotone chain: build the lower then upper hull, dropping points
	// that make a clockwise turn.
	cross := func(o, a, b point2) float64 {
		return (a.x-o.x)*(b.z-o.z) - (a.z-o.z)*(b.x-o.x)
	}

	var lower []point2
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []point2
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Endpoints of each chain duplicate the other's start.
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}
	return hull
}
