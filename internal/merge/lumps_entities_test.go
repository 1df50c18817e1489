package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

func entitiesFixture(t *testing.T) (a, b *bsp.Container) {
	t.Helper()
	a = &bsp.Container{Name: "a", Version: bsp.BspVersion}
	require.NoError(t, a.LoadEntities())
	world := bsp.NewEntity()
	world.Set("classname", "worldspawn")
	world.Set("wad", "c:\\valve\\cached.wad;c:\\valve\\liquids.wad")
	brush := bsp.NewEntity()
	brush.Set("classname", "func_door")
	brush.Set("model", "*1")
	a.Entities = []bsp.Entity{world, brush}

	b = &bsp.Container{Name: "b", Version: bsp.BspVersion}
	require.NoError(t, b.LoadEntities())
	bWorld := bsp.NewEntity()
	bWorld.Set("classname", "worldspawn")
	bWorld.Set("wad", "c:\\valve\\liquids.wad;c:\\valve\\halflife.wad")
	bBrush := bsp.NewEntity()
	bBrush.Set("classname", "func_button")
	bBrush.Set("model", "*1")
	bMonster := bsp.NewEntity()
	bMonster.Set("classname", "monster_zombie")
	b.Entities = []bsp.Entity{bWorld, bBrush, bMonster}
	return a, b
}

func TestMergeEntitiesRebasesModelRefsAndMergesWads(t *testing.T) {
	a, b := entitiesFixture(t)
	ctx := &Context{OtherModelCount: 2} // b has worldspawn + 1 submodel

	require.NoError(t, mergeEntities(ctx, a, b))

	require.Len(t, a.Entities, 2+2) // a's 2 entities, plus b's button + zombie (b's worldspawn dropped)

	door := a.Entities[1]
	model, ok := door.Get("model")
	require.True(t, ok)
	assert.Equal(t, "*2", model) // *1 + delta(OtherModelCount-1=1)

	button := a.Entities[2]
	buttonModel, _ := button.Get("model")
	assert.Equal(t, "*1", buttonModel) // b's own refs are left untouched

	wad, ok := a.Entities[0].Get("wad")
	require.True(t, ok)
	assert.Equal(t, "c:\\valve\\cached.wad;c:\\valve\\liquids.wad;c:\\valve\\halflife.wad", wad)

	assert.Equal(t, "worldspawn", a.Entities[0].ClassName())
	for _, e := range a.Entities[1:] {
		assert.NotEqual(t, "worldspawn", e.ClassName(), "only one worldspawn may survive, as entity 0")
	}
}
