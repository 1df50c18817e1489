package merge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparateAlongX(t *testing.T) {
	aMin, aMax := mgl32.Vec3{-128, -128, -128}, mgl32.Vec3{128, 128, 128}
	bMin, bMax := mgl32.Vec3{384, -128, -128}, mgl32.Vec3{640, 128, 128}

	plane, swap, err := Separate(aMin, aMax, bMin, bMax)
	require.NoError(t, err)
	assert.False(t, swap)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, plane.Normal)
	assert.Equal(t, float32(256), plane.Dist)
}

func TestSeparateNegativeNormalInverts(t *testing.T) {
	aMin, aMax := mgl32.Vec3{384, -128, -128}, mgl32.Vec3{640, 128, 128}
	bMin, bMax := mgl32.Vec3{-128, -128, -128}, mgl32.Vec3{128, 128, 128}

	plane, swap, err := Separate(aMin, aMax, bMin, bMax)
	require.NoError(t, err)
	assert.True(t, swap)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, plane.Normal)
	assert.Equal(t, float32(256), plane.Dist)
}

func TestSeparateNoPlaneExists(t *testing.T) {
	aMin, aMax := mgl32.Vec3{-128, -128, -128}, mgl32.Vec3{128, 128, 128}
	bMin, bMax := mgl32.Vec3{-64, -64, -64}, mgl32.Vec3{64, 64, 64}

	_, _, err := Separate(aMin, aMax, bMin, bMax)
	assert.ErrorIs(t, err, ErrNotSeparable)
}
