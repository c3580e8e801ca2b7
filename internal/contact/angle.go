package contact

import "math"

// WrapToPi maps an angle onto (-π, π]. Idempotent.
func WrapToPi(theta float64) float64 {
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}

// AngleDifference returns the wrapped signed delta a - b in (-π, π].
// Antisymmetric up to the ±π boundary: AngleDifference(a,b) == -AngleDifference(b,a).
func AngleDifference(a, b float64) float64 {
	return WrapToPi(a - b)
}

// footprintBasis derives the right-handed orthonormal basis {E1, E2, N} for
// a footprint rotated by theta about the plane normal. N is the world up
// axis; E1 lies in the XZ plane at angle theta from +X.
func footprintBasis(theta float64) (e1, e2, n Vec3) {
	n = Vec3{0, 1, 0}
	e1 = Vec3{math.Cos(theta), 0, math.Sin(theta)}
	// E2 = N × E1 keeps the basis right-handed.
	e2 = n.Cross(e1)
	return e1, e2, n
}

// orthonormalize rebuilds the box basis from its theta via Gram-Schmidt so
// accumulated float error never leaks a skewed frame downstream.
func orthonormalize(b *OBB) {
	b.N = Vec3{0, 1, 0}
	e1 := Vec3{math.Cos(b.Theta), 0, math.Sin(b.Theta)}
	e1 = e1.Sub(b.N.Scale(e1.Dot(b.N))).Unit()
	b.E1 = e1
	b.E2 = b.N.Cross(e1).Unit()
}

// symmetryResidual folds an angular delta onto [0, π/4]: the distance from
// the nearest multiple of π/2. A minimum-area rectangle is invariant under
// 90° rotation, so deltas near any multiple are the same box re-labelled.
func symmetryResidual(delta float64) float64 {
	d := math.Mod(math.Abs(delta), math.Pi/2)
	if d > math.Pi/4 {
		d = math.Pi/2 - d
	}
	return d
}

// StabilizeAngle suppresses orientation flicker in the fitted box. A
// minimum-area fit is rotationally ambiguous for near-square footprints and
// noisy at low speed, which shows up as visible 0°↔90° axis flips.
//
// Decision: compute the wrapped delta between the new fit angle and the
// previous accepted angle. Hold the previous angle when the body is slower
// than the motion floor, or when the delta is within threshold of a
// box-symmetry multiple (0°, 90°, ...). Otherwise accept the new angle.
// The basis is re-orthonormalised either way.
//
// prevTheta is the last accepted orientation; velocity is the body's
// current linear velocity (zero when the engine cannot report one, which
// conservatively engages the motion floor).
func StabilizeAngle(box OBB, prevTheta float64, hasPrev bool, velocity Vec3, threshold float64, motionFloor float64) OBB {
	if !hasPrev {
		box.Theta = WrapToPi(box.Theta)
		orthonormalize(&box)
		return box
	}

	delta := AngleDifference(box.Theta, prevTheta)
	speed := velocity.Norm()

	hold := speed < motionFloor || symmetryResidual(delta) <= threshold
	if hold {
		box.Theta = WrapToPi(prevTheta)
	} else {
		box.Theta = WrapToPi(box.Theta)
	}
	orthonormalize(&box)
	return box
}
