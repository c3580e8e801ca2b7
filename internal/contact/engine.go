package contact

// BodyHandle identifies one tracked body inside the physics engine.
type BodyHandle int

// Capability enumerates the optional engine features the collector can use.
// Feature detection is an explicit query rather than try-and-recover: an
// unsupported capability means the corresponding gate is skipped, never that
// the frame aborts.
type Capability int

const (
	// CapManifolds: per-pair contact manifolds with separation distances.
	CapManifolds Capability = iota
	// CapNodes: per-node world position and normal for deformable bodies.
	CapNodes
	// CapNodeVelocities: per-node velocity, required for the approach gate.
	CapNodeVelocities
	// CapBodyVelocity: aggregate linear velocity for a body (rigid) or the
	// node-averaged equivalent (soft). Used only by the angle stabiliser's
	// motion gate.
	CapBodyVelocity
	// CapMeshVertices: body mesh vertices in world space, required by the
	// sparse-set augmenter's silhouette hull.
	CapMeshVertices
)

// ManifoldContact is one contact point inside a manifold: world position,
// contact normal, and the signed separation distance between the surfaces.
type ManifoldContact struct {
	Position   Vec3
	Normal     Vec3
	Separation float64
}

// Manifold lists all current contact points between exactly two colliding
// bodies, one of which is the tracked body.
type Manifold struct {
	Contacts []ManifoldContact
}

// Node is one deformable-body node: world position, surface normal at the
// node, and node velocity (zero when CapNodeVelocities is unsupported).
type Node struct {
	Position Vec3
	Normal   Vec3
	Velocity Vec3
}

// Engine is the capability-checked read-only view of the physics engine the
// pipeline consumes. Accessors for unsupported capabilities return empty
// results; Supports lets callers skip gates that need data the engine
// cannot provide. Implementations must never be mutated by this package.
type Engine interface {
	Supports(c Capability) bool

	// Manifolds returns the current contact manifolds involving body.
	Manifolds(body BodyHandle) []Manifold

	// Nodes returns the deformable body's nodes. Empty for rigid bodies.
	Nodes(body BodyHandle) []Node

	// BodyVelocity returns the body's linear velocity. ok is false when
	// CapBodyVelocity is unsupported.
	BodyVelocity(body BodyHandle) (v Vec3, ok bool)

	// MeshVertices returns the body's mesh vertices in world space, used
	// only to synthesise silhouette support for sparse contact sets.
	MeshVertices(body BodyHandle) []Vec3
}

// ScriptedEngine is an in-memory Engine for tests and offline replay. Each
// field holds the data returned for the current frame; the caller rewrites
// fields between frames.
type ScriptedEngine struct {
	Caps     map[Capability]bool
	Manifold map[BodyHandle][]Manifold
	NodeSets map[BodyHandle][]Node
	Velocity map[BodyHandle]Vec3
	Vertices map[BodyHandle][]Vec3
}

// NewScriptedEngine returns a ScriptedEngine advertising every capability.
func NewScriptedEngine() *ScriptedEngine {
	return &ScriptedEngine{
		Caps: map[Capability]bool{
			CapManifolds:      true,
			CapNodes:          true,
			CapNodeVelocities: true,
			CapBodyVelocity:   true,
			CapMeshVertices:   true,
		},
		Manifold: make(map[BodyHandle][]Manifold),
		NodeSets: make(map[BodyHandle][]Node),
		Velocity: make(map[BodyHandle]Vec3),
		Vertices: make(map[BodyHandle][]Vec3),
	}
}

func (e *ScriptedEngine) Supports(c Capability) bool { return e.Caps[c] }

func (e *ScriptedEngine) Manifolds(body BodyHandle) []Manifold {
	if !e.Caps[CapManifolds] {
		return nil
	}
	return e.Manifold[body]
}

func (e *ScriptedEngine) Nodes(body BodyHandle) []Node {
	if !e.Caps[CapNodes] {
		return nil
	}
	return e.NodeSets[body]
}

func (e *ScriptedEngine) BodyVelocity(body BodyHandle) (Vec3, bool) {
	if !e.Caps[CapBodyVelocity] {
		return Vec3{}, false
	}
	v, ok := e.Velocity[body]
	return v, ok
}

func (e *ScriptedEngine) MeshVertices(body BodyHandle) []Vec3 {
	if !e.Caps[CapMeshVertices] {
		return nil
	}
	return e.Vertices[body]
}
