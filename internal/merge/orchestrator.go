// Package merge implements the GoldSrc BSP map-merge pipeline: packing
// non-overlapping maps into a grid, finding a separating plane for
// each adjacent pair, and splicing every lump of B into A in place.
package merge

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

// mergeStageCount is the number of progress steps MergePair reports,
// one per lump merger plus the head-node build.
const mergeStageCount = 16

// MergePair splices b's lumps into a in place, in the fixed dependency
// order spec.md §4.5/§4.6 names: ENTITIES first (cheapest to undo),
// then the geometry lumps, then LEAVES, the synthesised head nodes,
// NODES, CLIPNODES, MODELS, LIGHTING, and finally VIS. a is mutated on
// success; on any fatal error a is left partially mutated and must be
// discarded by the caller (spec.md §5 names MergeAll, not MergePair,
// as the unit of atomic rollback).
func MergePair(a, b *bsp.Container, progress ProgressFunc, cancel CancelFunc) (Diagnostics, error) {
	gate := newProgressGate(progress)
	step := 0
	tick := func(stage string) error {
		step++
		gate.report(stage, step, mergeStageCount)
		if cancel != nil && cancel() {
			return ErrCancelled
		}
		return nil
	}

	ctx, err := NewContext(a, b)
	if err != nil {
		return nil, &MergeError{A: a.Name, B: b.Name, Reason: err}
	}

	aMin, aMax, err := a.GetBoundingBox()
	if err != nil {
		return nil, &MergeError{A: a.Name, B: b.Name, Reason: err}
	}
	bMin, bMax, err := b.GetBoundingBox()
	if err != nil {
		return nil, &MergeError{A: a.Name, B: b.Name, Reason: err}
	}
	plane, swap, err := Separate(aMin, aMax, bMin, bMax)
	if err != nil {
		return nil, &MergeError{A: a.Name, B: b.Name, Reason: err}
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"entities", func() error { return mergeEntities(ctx, a, b) }},
		{"planes", func() error { return mergePlanes(ctx, a, b) }},
		{"textures", func() error { return mergeTextures(ctx, a, b) }},
		{"vertices", func() error { return mergeVertices(ctx, a, b) }},
		{"edges", func() error { return mergeEdges(ctx, a, b) }},
		{"surfedges", func() error { return mergeSurfEdges(ctx, a, b) }},
		{"texinfo", func() error { return mergeTexInfo(ctx, a, b) }},
		{"faces", func() error { return mergeFaces(ctx, a, b) }},
		{"marksurfaces", func() error { return mergeMarkSurfaces(ctx, a, b) }},
		{"leaves", func() error { return mergeLeaves(ctx, a, b) }},
	}

	for _, s := range steps {
		if err := s.run(); err != nil {
			return ctx.Diagnostics, &MergeError{A: a.Name, B: b.Name, Reason: fmt.Errorf("%s: %w", s.name, err)}
		}
		if err := tick(s.name); err != nil {
			return ctx.Diagnostics, &MergeError{A: a.Name, B: b.Name, Reason: err}
		}
	}

	head, err := BuildHeadNodes(ctx, a, b, plane, swap)
	if err != nil {
		return ctx.Diagnostics, &MergeError{A: a.Name, B: b.Name, Reason: fmt.Errorf("headnodes: %w", err)}
	}
	if err := tick("headnodes"); err != nil {
		return ctx.Diagnostics, &MergeError{A: a.Name, B: b.Name, Reason: err}
	}

	tail := []struct {
		name string
		run  func() error
	}{
		{"nodes", func() error { return mergeNodes(ctx, a, b, head) }},
		{"clipnodes", func() error { return mergeClipNodes(ctx, a, b, head) }},
		{"models", func() error { return mergeModels(ctx, a, b) }},
		{"lighting", func() error { return mergeLighting(ctx, a, b) }},
		{"vis", func() error { return mergeVis(ctx, a, b) }},
	}
	for _, s := range tail {
		if err := s.run(); err != nil {
			return ctx.Diagnostics, &MergeError{A: a.Name, B: b.Name, Reason: fmt.Errorf("%s: %w", s.name, err)}
		}
		if err := tick(s.name); err != nil {
			return ctx.Diagnostics, &MergeError{A: a.Name, B: b.Name, Reason: err}
		}
	}

	return ctx.Diagnostics, nil
}

// gridDims mirrors Pack's cube-grid sizing (k = ceil(cbrt(n)),
// incremented until k^3 >= n) so MergeAll can recover each map's grid
// cell from its position in maps without Pack exposing k itself.
func gridDims(n int) int {
	k := int(math.Ceil(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}
	return k
}

// MergeAll packs maps into a non-overlapping grid (Pack), then reduces
// them by folding along +X into rows, the rows along +Y into layers,
// and the layers along +Z into the final single map, per spec.md §6.
// maps must contain at least one map. Diagnostics from every pairwise
// merge are concatenated in merge order.
func MergeAll(maps []*bsp.Container, gap mgl32.Vec3, progress ProgressFunc, cancel CancelFunc) (*bsp.Container, Diagnostics, error) {
	if len(maps) == 0 {
		return nil, nil, fmt.Errorf("merge: no maps given")
	}
	if err := Pack(maps, gap); err != nil {
		return nil, nil, err
	}
	if len(maps) == 1 {
		return maps[0], nil, nil
	}

	var all Diagnostics
	fold := func(a, b *bsp.Container) (*bsp.Container, error) {
		diag, err := MergePair(a, b, progress, cancel)
		all = append(all, diag...)
		if err != nil {
			return nil, err
		}
		return a, nil
	}

	k := gridDims(len(maps))
	cell := make(map[[3]int]*bsp.Container, len(maps))
	for i, m := range maps {
		cell[[3]int{i % k, (i / k) % k, i / (k * k)}] = m
	}

	rows := make(map[[2]int]*bsp.Container)
	for z := 0; z < k; z++ {
		for y := 0; y < k; y++ {
			var row *bsp.Container
			for x := 0; x < k; x++ {
				m, ok := cell[[3]int{x, y, z}]
				if !ok {
					continue
				}
				if row == nil {
					row = m
					continue
				}
				var err error
				if row, err = fold(row, m); err != nil {
					return nil, all, err
				}
			}
			if row != nil {
				rows[[2]int{y, z}] = row
			}
		}
	}

	layers := make(map[int]*bsp.Container)
	for z := 0; z < k; z++ {
		var layer *bsp.Container
		for y := 0; y < k; y++ {
			m, ok := rows[[2]int{y, z}]
			if !ok {
				continue
			}
			if layer == nil {
				layer = m
				continue
			}
			var err error
			if layer, err = fold(layer, m); err != nil {
				return nil, all, err
			}
		}
		if layer != nil {
			layers[z] = layer
		}
	}

	var result *bsp.Container
	for z := 0; z < k; z++ {
		m, ok := layers[z]
		if !ok {
			continue
		}
		if result == nil {
			result = m
			continue
		}
		var err error
		if result, err = fold(result, m); err != nil {
			return nil, all, err
		}
	}
	return result, all, nil
}
