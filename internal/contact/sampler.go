package contact

import "time"

// FrameDiagnostics carries per-frame pipeline counters for tuning and the
// monitor plotter. Diagnostic only; nothing here feeds back into the
// pipeline.
type FrameDiagnostics struct {
	RawCount       int           `json:"raw_count"`
	FilteredCount  int           `json:"filtered_count"`
	AugmentedCount int           `json:"augmented_count"` // Synthetic points added
	Held           bool          `json:"held"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// SampleResult is what sampleContacts hands to downstream visualisation and
// accumulation collaborators: a usable point set and centroid every frame,
// annotated rather than failing.
type SampleResult struct {
	Points      []ContactSample  `json:"points"`
	Centroid    Vec3             `json:"centroid"`
	AvgNormal   Vec3             `json:"avg_normal"`
	AvgPosition Vec3             `json:"avg_position"`
	Flags       QualityFlags     `json:"flags"`
	Diagnostics FrameDiagnostics `json:"diagnostics"`
}

// SampleContacts runs the acquisition half of the pipeline for one body and
// one frame: collect → denoise → temporally stabilise → augment if sparse.
// Called once per frame per tracked body; state must be the body's own
// ContactState.
//
// groundNormal/groundOffset describe the contact plane (the deformable
// signed-distance reference and the augmenter's silhouette slab height).
func SampleContacts(engine Engine, body BodyHandle, params ContactParams, state *ContactState, groundNormal Vec3, groundOffset float64) SampleResult {
	start := time.Now()

	candidates := CollectCandidates(engine, body, params, state, groundNormal, groundOffset)
	filtered := ApplyFilters(candidates.Points, NoisePipeline(params))
	points, centroid, flags := Stabilize(filtered, params, state)

	// A frame with no contacts at all stays empty: there is no real centroid
	// to anchor synthetic support to, and fabricating one would turn a
	// contact-free body into a phantom footprint.
	augmented := 0
	if len(points) > 0 && len(points) <= sparseFloor && engine.Supports(CapMeshVertices) {
		before := len(points)
		points = AugmentSparse(points, centroid, engine.MeshVertices(body), groundOffset)
		augmented = len(points) - before
	}

	return SampleResult{
		Points:      points,
		Centroid:    centroid,
		AvgNormal:   candidates.AvgNormal(),
		AvgPosition: candidates.AvgPosition(),
		Flags:       flags,
		Diagnostics: FrameDiagnostics{
			RawCount:       candidates.RawCount,
			FilteredCount:  len(filtered),
			AugmentedCount: augmented,
			Held:           flags.Held,
			Elapsed:        time.Since(start),
		},
	}
}
