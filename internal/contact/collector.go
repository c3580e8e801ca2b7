package contact

// CandidateSet is the raw output of one frame's candidate collection:
// the candidate points plus the aggregate sums downstream consumers use to
// derive an average contact normal and position.
type CandidateSet struct {
	Points      []ContactSample
	NormalSum   Vec3
	PositionSum Vec3
	RawCount    int
}

// AvgNormal returns the unit average contact normal, or the zero vector
// when no candidates were collected.
func (c CandidateSet) AvgNormal() Vec3 {
	if c.RawCount == 0 {
		return Vec3{}
	}
	return c.NormalSum.Unit()
}

// AvgPosition returns the mean candidate position, or the zero vector when
// no candidates were collected.
func (c CandidateSet) AvgPosition() Vec3 {
	if c.RawCount == 0 {
		return Vec3{}
	}
	return c.PositionSum.Scale(1 / float64(c.RawCount))
}

// CollectCandidates pulls raw contact candidates for one tracked body,
// branching on the body kind. Collection stops at params.NTarget: the cap
// is the pipeline's backpressure mechanism, so per-frame cost stays bounded
// regardless of how many contacts the engine reports. The engine is never
// mutated.
//
// groundNormal and groundOffset describe the contact plane for the
// deformable signed-distance test (sd = pos·n − offset).
func CollectCandidates(engine Engine, body BodyHandle, params ContactParams, state *ContactState, groundNormal Vec3, groundOffset float64) CandidateSet {
	if params.Kind == BodySoft {
		return collectSoft(engine, body, params, state, groundNormal, groundOffset)
	}
	return collectRigid(engine, body, params)
}

// collectRigid scans up to MaxManifolds manifolds and accepts a contact if
// its separation is within MaxSeparation (or unconditionally when distance
// filtering is off).
func collectRigid(engine Engine, body BodyHandle, params ContactParams) CandidateSet {
	var set CandidateSet
	if !engine.Supports(CapManifolds) {
		return set
	}

	manifolds := engine.Manifolds(body)
	if len(manifolds) > params.MaxManifolds {
		manifolds = manifolds[:params.MaxManifolds]
	}

	for _, m := range manifolds {
		for _, c := range m.Contacts {
			if len(set.Points) >= params.NTarget {
				return set
			}
			if params.DistanceFilter && c.Separation > params.MaxSeparation {
				continue
			}
			set.Points = append(set.Points, ContactSample{X: c.Position.X, Y: c.Position.Y, Z: c.Position.Z})
			set.NormalSum = set.NormalSum.Add(c.Normal)
			set.PositionSum = set.PositionSum.Add(c.Position)
			set.RawCount++
		}
	}
	return set
}

// collectSoft takes the union of manifold contacts against other bodies and
// a per-node signed-distance test against the contact plane. A node is
// admitted when it is inside the enter band, when hysteresis applies (it
// was in contact last frame and has not yet crossed the exit band), or when
// its velocity component along the normal is a sufficiently fast approach.
// Hysteresis latches: once a node enters, it stays in contact frame after
// frame until its signed distance exceeds the exit band, however long it
// hovers between the two. The latch is tracked by recording the signed
// distance of every contacting node for the next frame.
func collectSoft(engine Engine, body BodyHandle, params ContactParams, state *ContactState, groundNormal Vec3, groundOffset float64) CandidateSet {
	set := collectRigid(engine, body, params)

	if !engine.Supports(CapNodes) {
		return set
	}
	velocityGate := params.VelocityGate && engine.Supports(CapNodeVelocities)

	prev := state.PrevSignedDistances
	next := make(map[int]float64, len(prev))

	for i, node := range engine.Nodes(body) {
		sd := node.Position.Dot(groundNormal) - groundOffset

		_, wasInContact := prev[i]
		keep := sd <= params.EnterDistance || (wasInContact && sd <= params.ExitDistance)
		if keep {
			next[i] = sd
		}
		if !keep && velocityGate && node.Velocity.Dot(groundNormal) < -params.MinApproach {
			keep = true
		}
		if !keep {
			continue
		}
		if len(set.Points) >= params.NTarget {
			continue // Keep recording signed distances for hysteresis.
		}

		set.Points = append(set.Points, ContactSample{X: node.Position.X, Y: node.Position.Y, Z: node.Position.Z})
		set.NormalSum = set.NormalSum.Add(node.Normal)
		set.PositionSum = set.PositionSum.Add(node.Position)
		set.RawCount++
	}

	state.PrevSignedDistances = next
	return set
}
