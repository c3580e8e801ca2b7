package contact

import (
	"fmt"

	"github.com/google/uuid"
)

// BodyController owns the full pipeline for one tracked body: its immutable
// ContactParams, its cross-frame ContactState, and the previously accepted
// footprint box. Exactly one controller exists per body and it is the sole
// reader and writer of that body's state, so no locking is involved. The
// controller replaces the shared global state the original design grew
// around.
type BodyController struct {
	ID     string
	Body   BodyHandle
	Params ContactParams

	// GroundNormal/GroundOffset describe the contact plane. Defaults to
	// the world Y=0 plane.
	GroundNormal Vec3
	GroundOffset float64

	state        *ContactState
	prevBox      *OBB
	prevVelocity Vec3
}

// FrameResult bundles one frame's full pipeline output.
type FrameResult struct {
	Sample SampleResult `json:"sample"`
	Box    OBB          `json:"box"`
	HasBox bool         `json:"has_box"`
}

// NewBodyController validates params and returns a controller for the body.
// Malformed params are a programming mistake and fail here, at
// configuration time, never per frame.
func NewBodyController(body BodyHandle, params ContactParams) (*BodyController, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("body %d: %w", body, err)
	}
	return &BodyController{
		ID:           uuid.NewString(),
		Body:         body,
		Params:       params,
		GroundNormal: Vec3{0, 1, 0},
		GroundOffset: 0,
		state:        NewContactState(),
	}, nil
}

// Step runs the pipeline for one simulation frame and returns the frame
// result. The fitted box is only produced when at least one contact point
// exists; HasBox reports whether Box is meaningful.
func (bc *BodyController) Step(engine Engine) FrameResult {
	sample := SampleContacts(engine, bc.Body, bc.Params, bc.state, bc.GroundNormal, bc.GroundOffset)

	result := FrameResult{Sample: sample}
	if len(sample.Points) == 0 {
		return result
	}

	box := FitFootprintBoxWith(sample.Points, bc.Params.Algorithm, bc.Params.AngleSteps, bc.Params.TrimQuantile)
	prevTheta := 0.0
	if bc.prevBox != nil {
		prevTheta = bc.prevBox.Theta
	}
	box = StabilizeAngle(box, prevTheta, bc.prevBox != nil, bc.prevVelocity,
		bc.Params.AngleThreshold, bc.Params.MotionFloor)
	result.Box = box
	result.HasBox = true

	bc.prevBox = &box
	if v, ok := engine.BodyVelocity(bc.Body); ok {
		bc.prevVelocity = v
	}
	return result
}

// Reset clears all cross-frame memory, for body respawn.
func (bc *BodyController) Reset() {
	bc.state.Reset()
	bc.prevBox = nil
	bc.prevVelocity = Vec3{}
}

// State exposes the controller's contact state for tests and diagnostics.
func (bc *BodyController) State() *ContactState { return bc.state }
