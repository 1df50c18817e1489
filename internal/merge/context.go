package merge

import "github.com/LossyDragon/bspguy/internal/bsp"

// Diagnostics accumulates non-fatal warnings produced over the course
// of a merge (spec.md §7: "Non-fatal errors accumulate into a
// diagnostics list returned alongside success").
type Diagnostics []error

func (d *Diagnostics) add(err error) { *d = append(*d, err) }

// Context carries everything that must be threaded between the
// per-lump mergers of a single merge_pair call: the "captured before
// mutation" counts of spec.md §4.4 and the remap tables each merger
// publishes for its downstream consumers.
//
// SPEC_FULL.md/§9 calls out the original's use of fields on a
// stateful merger object for this; here it is an explicit value
// threaded through the pipeline instead of process-wide state.
type Context struct {
	// Captured counts, taken from A before any B data is appended.
	ThisVertCount      int
	ThisEdgeCount      int
	ThisSurfedgeCount  int
	ThisFaceCount      int
	ThisMarksurfCount  int
	ThisNodeCount      int
	ThisClipnodeCount  int
	ThisWorldLeafCount int
	ThisLeafCount      int

	// B's leaf counts, captured before mutation.
	OtherWorldLeafCount int
	OtherLeafCount      int // B's total leaves minus the shared solid leaf

	OtherModelCount int
	OtherNodeCount  int

	// Remap tables, published by earlier mergers for later ones.
	PlaneRemap      []int
	TexRemap        []int
	TexInfoRemap    []int
	LeavesRemap     []int
	ModelLeafRemap  []int

	Diagnostics Diagnostics
}

// ThisSubmodelLeaves is A's leaf count minus leaf 0 and A's world
// leaves: the leaves belonging to A's submodels (brush entities).
func (ctx *Context) ThisSubmodelLeaves() int {
	return ctx.ThisLeafCount - 1 - ctx.ThisWorldLeafCount
}

// OtherSubmodelLeaves is B's equivalent of ThisSubmodelLeaves.
func (ctx *Context) OtherSubmodelLeaves() int {
	return ctx.OtherLeafCount - ctx.OtherWorldLeafCount
}

// NewContext captures the "before mutation" counts from a and b,
// per spec.md §4.4.
func NewContext(a, b *bsp.Container) (*Context, error) {
	ctx := &Context{}

	verts, err := a.ReadVertices()
	if err != nil {
		return nil, err
	}
	ctx.ThisVertCount = len(verts)

	edges, err := a.ReadEdges()
	if err != nil {
		return nil, err
	}
	ctx.ThisEdgeCount = len(edges)

	surfedges, err := a.ReadSurfEdges()
	if err != nil {
		return nil, err
	}
	ctx.ThisSurfedgeCount = len(surfedges)

	faces, err := a.ReadFaces()
	if err != nil {
		return nil, err
	}
	ctx.ThisFaceCount = len(faces)

	marksurfs, err := a.ReadMarkSurfaces()
	if err != nil {
		return nil, err
	}
	ctx.ThisMarksurfCount = len(marksurfs)

	nodes, err := a.ReadNodes()
	if err != nil {
		return nil, err
	}
	ctx.ThisNodeCount = len(nodes)

	clipnodes, err := a.ReadClipNodes()
	if err != nil {
		return nil, err
	}
	ctx.ThisClipnodeCount = len(clipnodes)

	aModels, err := a.ReadModels()
	if err != nil {
		return nil, err
	}
	if len(aModels) == 0 {
		return nil, &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpModels), Detail: "map has no models"}
	}
	ctx.ThisWorldLeafCount = int(aModels[0].NumVisLeafs) // excludes the shared solid leaf 0

	aLeaves, err := a.ReadLeaves()
	if err != nil {
		return nil, err
	}
	ctx.ThisLeafCount = len(aLeaves)

	bModels, err := b.ReadModels()
	if err != nil {
		return nil, err
	}
	if len(bModels) == 0 {
		return nil, &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpModels), Detail: "map has no models"}
	}
	ctx.OtherModelCount = len(bModels)
	ctx.OtherWorldLeafCount = int(bModels[0].NumVisLeafs)

	bLeaves, err := b.ReadLeaves()
	if err != nil {
		return nil, err
	}
	ctx.OtherLeafCount = len(bLeaves) - 1 // exclude the shared solid leaf, per SPEC_FULL.md/§9 note 3

	bNodes, err := b.ReadNodes()
	if err != nil {
		return nil, err
	}
	ctx.OtherNodeCount = len(bNodes)

	return ctx, nil
}

func checkLimit(lump string, count, limit int) error {
	if count > limit {
		return &LimitExceededError{Lump: lump, Count: count, Limit: limit}
	}
	return nil
}
