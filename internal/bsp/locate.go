package bsp

import "github.com/go-gl/mathgl/mgl32"

// LocateLeaf walks the BSP tree from head (a models[h].HeadNodes[0]
// index) down to the leaf containing pos, evaluating each node's
// plane and following the front or back child depending on which side
// of the plane pos falls on. It returns the leaf index (0 is always
// the shared solid leaf).
//
// Adapted from the point-location walk of the original Quake 2
// viewer's BSPTree.findLeafNode: same plane-side descent, but
// reworked for GoldSrc's child encoding, where a leaf is referenced by
// the bitwise complement of its index rather than by a direct negative
// node id.
func LocateLeaf(nodes []Node, planes []Plane, head int32, pos mgl32.Vec3) int {
	node := head
	for node >= 0 {
		n := nodes[node]
		p := planes[n.Plane]
		d := p.Normal.Dot(pos) - p.Dist

		var child int16
		if d >= 0 {
			child = n.Children[0]
		} else {
			child = n.Children[1]
		}
		if child < 0 {
			return int(^child)
		}
		node = int32(child)
	}
	return 0
}

// IsSolid reports whether the leaf at leafIndex is CONTENTS_SOLID.
func IsSolid(leaves []Leaf, leafIndex int) bool {
	if leafIndex < 0 || leafIndex >= len(leaves) {
		return true
	}
	return leaves[leafIndex].Contents == ContentsSolid
}
