// Package contact implements the contact acquisition and footprint-fitting
// core: it converts raw per-frame contact samples reported by a physics
// engine into a temporally stable, denoised point set and a minimum-area
// oriented footprint box, stabilised against frame-to-frame angular jitter.
//
// The pipeline runs once per simulation frame per tracked body:
//
//	engine → collector → noise filter → temporal stabiliser →
//	(sparse augmenter) → box fitter → angle stabiliser
//
// All stages are synchronous and single-threaded; per-body state is owned
// exclusively by one BodyController.
package contact

import "math"

// ContactSample is one world-space contact point for the current frame.
// Samples are created fresh each frame and never mutated after creation.
type ContactSample struct {
	X, Y, Z float64 // World frame position. Y is up; the footprint lives in XZ.

	// Synthetic marks points fabricated by the sparse-set augmenter rather
	// than reported by the engine, so consumers can distinguish real from
	// fabricated support.
	Synthetic bool
}

// Vec3 is a 3-component world-space vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product v · w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v normalised to unit length. The zero vector is returned
// unchanged rather than producing NaNs.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n < 1e-12 {
		return v
	}
	return v.Scale(1 / n)
}

// OBB is the fitted footprint box for one frame: a rotated rectangle in the
// XZ plane plus the basis vectors downstream stages consume. It is
// recomputed every frame from the current point set; the previous OBB is
// only an input to the angle stabiliser, never retained here.
type OBB struct {
	Center Vec3    `json:"center"`
	Width  float64 `json:"width"`  // Extent along E1
	Height float64 `json:"height"` // Extent along E2
	Theta  float64 `json:"theta"`  // Rotation about the plane normal, (-π, π]

	E1, E2, N Vec3 // Orthonormal right-handed footprint basis

	Depth float64 `json:"depth"` // Vertical extent of the contributing points
}

// Area returns the footprint area Width × Height.
func (b OBB) Area() float64 { return b.Width * b.Height }

// Quality-gate reason strings attached to QualityFlags.Reasons.
const (
	ReasonNoContacts     = "no_contacts"
	ReasonSparse         = "sparse"
	ReasonVerticalSpread = "vertical_spread"
)

// QualityFlags annotates one frame's result with the recoverable conditions
// the stabiliser observed. Diagnostic only; never persisted.
type QualityFlags struct {
	Degraded bool     `json:"degraded"` // Gates fired but output is still usable
	Rejected bool     `json:"rejected"` // Frame failed gates outright
	Held     bool     `json:"held"`     // Output substituted from the last accepted frame
	Reasons  []string `json:"reasons,omitempty"`
}

func (f *QualityFlags) addReason(r string) {
	f.Reasons = append(f.Reasons, r)
}
