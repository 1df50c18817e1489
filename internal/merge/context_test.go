package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

func mapWithCounts(t *testing.T, worldLeaves, submodelLeaves, extraModels int) *bsp.Container {
	t.Helper()
	c := &bsp.Container{Name: "fixture", Version: bsp.BspVersion}
	require.NoError(t, c.WriteVertices(make([]bsp.Vertex, 3)))
	require.NoError(t, c.WriteEdges(make([]bsp.Edge, 2)))
	require.NoError(t, c.WriteSurfEdges(make([]bsp.SurfEdge, 2)))
	require.NoError(t, c.WriteFaces(make([]bsp.Face, 4)))
	require.NoError(t, c.WriteMarkSurfaces(make([]bsp.MarkSurface, 4)))
	require.NoError(t, c.WriteNodes(make([]bsp.Node, 1)))
	require.NoError(t, c.WriteClipNodes(make([]bsp.ClipNode, 1)))

	// leaf 0 is the shared solid leaf; the rest are world leaves
	// followed by submodel leaves.
	leaves := make([]bsp.Leaf, 1+worldLeaves+submodelLeaves)
	for i := range leaves {
		leaves[i].VisOffset = -1
		leaves[i].Contents = bsp.ContentsEmpty
	}
	leaves[0].Contents = bsp.ContentsSolid
	require.NoError(t, c.WriteLeaves(leaves))

	models := make([]bsp.Model, 1+extraModels)
	models[0].NumVisLeafs = int32(worldLeaves)
	for i := 1; i < len(models); i++ {
		models[i].NumVisLeafs = 1
	}
	require.NoError(t, c.WriteModels(models))
	require.NoError(t, c.LoadEntities())
	return c
}

func TestNewContextCapturesCountsBeforeMutation(t *testing.T) {
	a := mapWithCounts(t, 5, 2, 1)
	b := mapWithCounts(t, 3, 1, 0)

	ctx, err := NewContext(a, b)
	require.NoError(t, err)

	assert.Equal(t, 3, ctx.ThisVertCount)
	assert.Equal(t, 2, ctx.ThisEdgeCount)
	assert.Equal(t, 2, ctx.ThisSurfedgeCount)
	assert.Equal(t, 4, ctx.ThisFaceCount)
	assert.Equal(t, 4, ctx.ThisMarksurfCount)
	assert.Equal(t, 1, ctx.ThisNodeCount)
	assert.Equal(t, 1, ctx.ThisClipnodeCount)
	assert.Equal(t, 5, ctx.ThisWorldLeafCount)
	assert.Equal(t, 1+5+2, ctx.ThisLeafCount)

	assert.Equal(t, 3, ctx.OtherWorldLeafCount)
	assert.Equal(t, (1+3+1)-1, ctx.OtherLeafCount)
	assert.Equal(t, 1, ctx.OtherModelCount)
	assert.Equal(t, 1, ctx.OtherNodeCount)

	assert.Equal(t, 2, ctx.ThisSubmodelLeaves())
	assert.Equal(t, 1, ctx.OtherSubmodelLeaves())
}

func TestNewContextRejectsMapWithNoModels(t *testing.T) {
	a := mapWithCounts(t, 1, 0, 0)
	require.NoError(t, a.WriteModels(nil))
	b := mapWithCounts(t, 1, 0, 0)

	_, err := NewContext(a, b)
	assert.Error(t, err)
	var lce *LumpCorruptError
	assert.ErrorAs(t, err, &lce)
}

func TestCheckLimitRejectsOverflow(t *testing.T) {
	err := checkLimit("planes", 10, 5)
	require.Error(t, err)
	var lee *LimitExceededError
	require.ErrorAs(t, err, &lee)
	assert.Equal(t, 10, lee.Count)
	assert.Equal(t, 5, lee.Limit)

	assert.NoError(t, checkLimit("planes", 5, 5))
}
