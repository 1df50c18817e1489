package merge

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

// Pack computes per-map axis-aligned offsets so every map's post-move
// bounding box occupies its own cell of a cube-shaped 3-D grid, per
// spec.md §4.1. It is idempotent under no overlap: if no two input
// maps' bounding boxes overlap already, Pack returns without moving
// anything.
func Pack(maps []*bsp.Container, gap mgl32.Vec3) error {
	n := len(maps)
	if n == 0 {
		return nil
	}

	boxes := make([][2]mgl32.Vec3, n)
	for i, m := range maps {
		mins, maxs, err := m.GetBoundingBox()
		if err != nil {
			return &PackError{Reason: err}
		}
		boxes[i] = [2]mgl32.Vec3{mins, maxs}
	}

	if !anyOverlap(boxes) {
		return nil
	}

	cell := mgl32.Vec3{}
	for _, box := range boxes {
		size := box[1].Sub(box[0])
		cell = componentMax(cell, size)
	}
	cell = cell.Add(gap)

	k := int(math.Ceil(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}

	perAxisX := int(2 * bsp.MaxMapCoord / axisComponent(cell, 0))
	perAxisY := int(2 * bsp.MaxMapCoord / axisComponent(cell, 1))
	perAxisZ := int(2 * bsp.MaxMapCoord / axisComponent(cell, 2))
	if perAxisX*perAxisY*perAxisZ < n {
		return &PackError{Reason: ErrInsufficientRoom}
	}

	origin := cell.Mul(-0.5)
	for i, m := range maps {
		x := i % k
		y := (i / k) % k
		z := i / (k * k)
		cellOrigin := mgl32.Vec3{
			origin.X() + float32(x)*cell.X(),
			origin.Y() + float32(y)*cell.Y(),
			origin.Z() + float32(z)*cell.Z(),
		}
		targetMin := cellOrigin
		offset := targetMin.Sub(boxes[i][0])
		if err := m.Move(offset); err != nil {
			return &PackError{Reason: fmt.Errorf("moving map %d: %w", i, err)}
		}
	}
	return nil
}

func axisComponent(v mgl32.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		fmax(a.X(), b.X()),
		fmax(a.Y(), b.Y()),
		fmax(a.Z(), b.Z()),
	}
}

func fmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func boxesOverlap(a, b [2]mgl32.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if axisComponent(a[1], axis) <= axisComponent(b[0], axis) ||
			axisComponent(b[1], axis) <= axisComponent(a[0], axis) {
			return false
		}
	}
	return true
}

// anyOverlap performs the standard upper-triangular i<j sweep;
// spec.md/§9 Open Question 1 notes the original's malformed inner
// bound (k = i+i) skips pairs, which this implementation does not
// reproduce.
func anyOverlap(boxes [][2]mgl32.Vec3) bool {
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxesOverlap(boxes[i], boxes[j]) {
				return true
			}
		}
	}
	return false
}
