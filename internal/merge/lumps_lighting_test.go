package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

func lightingFixture(t *testing.T) (a, b *bsp.Container) {
	t.Helper()
	a = &bsp.Container{Name: "a", Version: bsp.BspVersion}
	require.NoError(t, a.WriteFaces([]bsp.Face{{LightmapOffset: 0}, {LightmapOffset: 99}}))
	require.NoError(t, a.LoadEntities())
	b = &bsp.Container{Name: "b", Version: bsp.BspVersion}
	require.NoError(t, b.LoadEntities())
	return a, b
}

func TestMergeLightingBothPresentShiftsBOffsets(t *testing.T) {
	a, b := lightingFixture(t)
	a.WriteLighting([]byte{1, 2, 3})
	b.WriteLighting([]byte{4, 5})

	ctx := &Context{ThisFaceCount: 1}
	require.NoError(t, mergeLighting(ctx, a, b))

	assert.Equal(t, []byte{1, 2, 3, 4, 5}, a.Lighting())
	faces, err := a.ReadFaces()
	require.NoError(t, err)
	assert.Equal(t, int32(0), faces[0].LightmapOffset)    // a's face untouched
	assert.Equal(t, int32(99+3), faces[1].LightmapOffset) // shifted by len(aLight)
}

func TestMergeLightingBMissingSynthesizesFullbright(t *testing.T) {
	a, b := lightingFixture(t)
	a.WriteLighting([]byte{1, 2, 3})

	ctx := &Context{ThisFaceCount: 1}
	require.NoError(t, mergeLighting(ctx, a, b))

	light := a.Lighting()
	require.Len(t, light, 3+bsp.MaxSurfaceExtent*bsp.MaxSurfaceExtent*3)
	assert.Equal(t, byte(0xff), light[len(light)-1])

	faces, err := a.ReadFaces()
	require.NoError(t, err)
	assert.Equal(t, int32(3), faces[1].LightmapOffset)
}

func TestMergeLightingAMissingRebasesFromZero(t *testing.T) {
	a, b := lightingFixture(t)
	b.WriteLighting([]byte{9, 9})

	ctx := &Context{ThisFaceCount: 1}
	require.NoError(t, mergeLighting(ctx, a, b))

	light := a.Lighting()
	fbLen := bsp.MaxSurfaceExtent * bsp.MaxSurfaceExtent * 3
	require.Len(t, light, fbLen+2)
	assert.Equal(t, byte(9), light[fbLen])

	faces, err := a.ReadFaces()
	require.NoError(t, err)
	assert.Equal(t, int32(0), faces[0].LightmapOffset)          // a's face forced to the fullbright block
	assert.Equal(t, int32(99+fbLen), faces[1].LightmapOffset) // b's face (originally 99) shifted past the fullbright block
}
