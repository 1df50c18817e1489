package merge

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

// Separate finds the unique axis-aligned plane that lies strictly
// between two packed maps' bounding boxes, per spec.md §4.2. It scans
// axes x, y, z in order; the first axis on which the boxes are
// disjoint decides the plane.
//
// If the winning normal has a negative component, it is inverted (and
// dist negated to match) so the caller can build head nodes whose
// plane normal is non-negative; swap reports that the caller must
// exchange child slots to compensate, per spec.md's stated rationale
// that vis/lighting code mishandles negative-component normals.
func Separate(aMin, aMax, bMin, bMax mgl32.Vec3) (plane bsp.Plane, swap bool, err error) {
	a := [2]mgl32.Vec3{aMin, aMax}
	b := [2]mgl32.Vec3{bMin, bMax}

	for axis := 0; axis < 3; axis++ {
		aMaxV := axisComponent(a[1], axis)
		bMinV := axisComponent(b[0], axis)
		if bMinV >= aMaxV {
			dist := aMaxV + (bMinV-aMaxV)/2
			return makePlane(axis, 1, dist), false, nil
		}

		aMinV := axisComponent(a[0], axis)
		bMaxV := axisComponent(b[1], axis)
		if bMaxV <= aMinV {
			dist := bMaxV + (aMinV-bMaxV)/2
			// Negative-component normal (-axis, -dist): invert per
			// policy to (+axis, dist), the same plane with A in front.
			return makePlane(axis, 1, dist), true, nil
		}
	}
	return bsp.Plane{}, false, ErrNotSeparable
}

func makePlane(axis int, sign float32, dist float32) bsp.Plane {
	var normal mgl32.Vec3
	switch axis {
	case 0:
		normal = mgl32.Vec3{sign, 0, 0}
	case 1:
		normal = mgl32.Vec3{0, sign, 0}
	default:
		normal = mgl32.Vec3{0, 0, sign}
	}
	return bsp.Plane{Normal: normal, Dist: dist, Type: int32(axis)}
}
