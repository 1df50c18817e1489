package merge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

func TestMergeModelsRewritesWorldspawnAndRebasesSubmodels(t *testing.T) {
	a := &bsp.Container{Name: "a", Version: bsp.BspVersion}
	require.NoError(t, a.WriteModels([]bsp.Model{
		{Mins: mgl32.Vec3{-128, -128, -128}, Maxs: mgl32.Vec3{128, 128, 128}, NumVisLeafs: 5, NumFaces: 10},
		{HeadNodes: [bsp.HullCount]int32{1, 2, 3, 4}, FirstFace: 20},
	}))
	require.NoError(t, a.LoadEntities())

	b := &bsp.Container{Name: "b", Version: bsp.BspVersion}
	require.NoError(t, b.WriteModels([]bsp.Model{
		{Mins: mgl32.Vec3{256, -64, -64}, Maxs: mgl32.Vec3{512, 64, 64}, NumVisLeafs: 3, NumFaces: 6},
		{HeadNodes: [bsp.HullCount]int32{0, 0, 0, 0}, FirstFace: 0},
	}))
	require.NoError(t, b.LoadEntities())

	ctx := &Context{ThisNodeCount: 5, ThisClipnodeCount: 2, ThisFaceCount: 10}
	require.NoError(t, mergeModels(ctx, a, b))

	merged, err := a.ReadModels()
	require.NoError(t, err)
	require.Len(t, merged, 3) // worldspawn + b's 1 submodel + a's 1 submodel

	world := merged[0]
	assert.Equal(t, [bsp.HullCount]int32{0, 0, 1, 2}, world.HeadNodes)
	assert.Equal(t, int32(5+3), world.NumVisLeafs)
	assert.Equal(t, int32(10+6), world.NumFaces)
	assert.Equal(t, mgl32.Vec3{-128, -128, -128}, world.Mins)
	assert.Equal(t, mgl32.Vec3{512, 128, 128}, world.Maxs)

	// b's submodel comes first, rebased by ThisNodeCount+1 / clipNodeShiftB / ThisFaceCount
	bSub := merged[1]
	assert.Equal(t, int32(0+6), bSub.HeadNodes[0]) // ThisNodeCount+1=6
	assert.Equal(t, int32(0+5), bSub.HeadNodes[1]) // clipNodeShiftB = ThisClipnodeCount+HullCount-1 = 5
	assert.Equal(t, int32(10), bSub.FirstFace)

	// a's submodel comes last, rebased by +1 / HullCount-1
	aSub := merged[2]
	assert.Equal(t, int32(1+1), aSub.HeadNodes[0])
	assert.Equal(t, int32(2+3), aSub.HeadNodes[1])
	assert.Equal(t, int32(20), aSub.FirstFace) // a's submodels are not face-rebased
}
