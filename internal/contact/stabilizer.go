package contact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ContactState is the mutable per-body memory carried across frames. It is
// owned exclusively by one BodyController: exactly one writer and reader,
// so no locking is needed. Reset on respawn.
type ContactState struct {
	// PrevSignedDistances records the signed distance from the contact
	// plane of every deformable node that was in contact last frame, keyed
	// by node index. Presence in the map is the collector's hysteresis
	// latch: a latched node stays in contact until it crosses the exit band.
	PrevSignedDistances map[int]float64

	// PrevCentroid is the EMA-smoothed centroid from the last frame.
	PrevCentroid    Vec3
	HasPrevCentroid bool

	// PrevAccepted is the last point set that passed the quality gates,
	// substituted verbatim while a hold is in effect.
	PrevAccepted         []ContactSample
	PrevAcceptedCentroid Vec3

	// HoldFrames counts consecutive held frames; never exceeds NHold.
	HoldFrames int
}

// NewContactState returns an empty first-frame state.
func NewContactState() *ContactState {
	return &ContactState{PrevSignedDistances: make(map[int]float64)}
}

// Reset clears all cross-frame memory (body respawn).
func (s *ContactState) Reset() {
	s.PrevSignedDistances = make(map[int]float64)
	s.PrevCentroid = Vec3{}
	s.HasPrevCentroid = false
	s.PrevAccepted = nil
	s.PrevAcceptedCentroid = Vec3{}
	s.HoldFrames = 0
}

// Stabilize applies the temporal quality gates to one frame's filtered
// point set and returns the set and centroid downstream stages should use,
// annotated with QualityFlags. Callers always receive a usable result:
// a rejected frame inside the hold budget is substituted with the previous
// accepted set verbatim, and a rejected frame past the budget is passed
// through flagged so augmentation can still rescue it. Never fails
// silently.
func Stabilize(filtered []ContactSample, params ContactParams, state *ContactState) ([]ContactSample, Vec3, QualityFlags) {
	var flags QualityFlags

	centroid := meanPoint(filtered)

	// Quality gates.
	switch {
	case len(filtered) == 0:
		flags.Rejected = true
		flags.addReason(ReasonNoContacts)
	case len(filtered) < sparseFloor:
		flags.Degraded = true
		flags.addReason(ReasonSparse)
	}
	if len(filtered) > 1 && verticalStddev(filtered) > params.VerticalSpreadMax {
		flags.Rejected = true
		flags.addReason(fmt.Sprintf("%s: stddev(y) exceeds %g", ReasonVerticalSpread, params.VerticalSpreadMax))
	}

	if flags.Rejected {
		if state.HoldFrames < params.NHold && len(state.PrevAccepted) > 0 {
			// Hold-last-good: reuse the previous accepted frame verbatim.
			state.HoldFrames++
			flags.Held = true
			return state.PrevAccepted, state.PrevAcceptedCentroid, flags
		}
		// Budget exhausted (or nothing to hold): the current frame becomes
		// the new baseline, flagged.
		state.HoldFrames = 0
	} else {
		state.HoldFrames = 0
	}

	// EMA-smooth the centroid against the previous frame. Skipped on the
	// first frame so the filter starts at the observed value.
	if state.HasPrevCentroid && len(filtered) > 0 {
		a := params.AlphaCentroid
		centroid = state.PrevCentroid.Scale(a).Add(centroid.Scale(1 - a))
	}
	if len(filtered) > 0 {
		state.PrevCentroid = centroid
		state.HasPrevCentroid = true
	}

	state.PrevAccepted = filtered
	state.PrevAcceptedCentroid = centroid
	return filtered, centroid, flags
}

// meanPoint returns the arithmetic mean of the point positions.
func meanPoint(points []ContactSample) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, p := range points {
		sum = sum.Add(Vec3{p.X, p.Y, p.Z})
	}
	return sum.Scale(1 / float64(len(points)))
}

// verticalStddev returns the population standard deviation of Y over the
// point set.
func verticalStddev(points []ContactSample) float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	_, variance := stat.PopMeanVariance(ys, nil)
	return math.Sqrt(variance)
}
