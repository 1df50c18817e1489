// Package bsp implements the GoldSrc/Half-Life BSP container: the
// on-disk header and fifteen lumps, an entity text parser, and the
// typed, bounds-checked record views the merge engine operates on.
package bsp

import "github.com/go-gl/mathgl/mgl32"

// Lump identifiers, fixed ordinals per the GoldSrc BSP30 format.
const (
	LumpEntities = iota
	LumpPlanes
	LumpTextures
	LumpVertices
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpClipNodes
	LumpLeaves
	LumpMarkSurfaces
	LumpEdges
	LumpSurfEdges
	LumpModels

	HeaderLumps = 15
)

var lumpNames = [HeaderLumps]string{
	"entities", "planes", "textures", "vertices", "visibility",
	"nodes", "texinfo", "faces", "lighting", "clipnodes",
	"leaves", "marksurfaces", "edges", "surfedges", "models",
}

// LumpName returns the canonical lowercase name of a lump, used in
// error messages and progress callbacks.
func LumpName(lump int) string {
	if lump < 0 || lump >= HeaderLumps {
		return "unknown"
	}
	return lumpNames[lump]
}

// Format constants named in spec.md §6.
const (
	HullCount        = 4
	MipLevels        = 4
	MaxMapCoord      = 32768
	MaxSurfaceExtent = 16

	BspVersion = 30 // Half-Life BSP version
)

// Engine hard limits (§9/SPEC_FULL.md "Supplemented features").
const (
	MaxMapPlanes       = 32767
	MaxMapTexinfo      = 32767
	MaxMapVerts        = 65535
	MaxMapEdges        = 256000
	MaxMapSurfedges    = 512000
	MaxMapFaces        = 65535
	MaxMapMarksurfaces = 65535
	MaxMapNodes        = 32767
	MaxMapClipnodes    = 32767
	MaxMapLeaves       = 8192
	MaxMapModels       = 400
)

// Plane types; PLANE_X/Y/Z are axis-aligned, 3..5 are "major axis"
// planes whose normal is not purely axis-aligned.
const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

// Leaf contents, used for the shared solid leaf and clipnode sentinels.
const (
	ContentsEmpty  = -1
	ContentsSolid  = -2
	ContentsWater  = -3
	ContentsSlime  = -4
	ContentsLava   = -5
	ContentsSky    = -6
	ContentsOrigin = -7
)

// Lump is an (offset, length) pair, both relative to the start of the
// file and in bytes.
type Lump struct {
	Offset int32
	Length int32
}

// Header is the 124-byte BSP file header.
type Header struct {
	Version int32
	Lumps   [HeaderLumps]Lump
}

// Plane is a 20-byte structural record.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
	Type   int32
}

// Vertex is a 12-byte structural record.
type Vertex struct {
	Pos mgl32.Vec3
}

// Edge is a 4-byte structural record: indices into the vertex lump.
type Edge struct {
	V [2]uint16
}

// SurfEdge is a signed index into the edge lump; a negative value
// selects the reverse direction of -v.
type SurfEdge int32

// TexInfo is a 40-byte structural record.
type TexInfo struct {
	S      mgl32.Vec4
	T      mgl32.Vec4
	MipTex uint32
	Flags  uint32
}

// Face is a 20-byte structural record.
type Face struct {
	Plane          uint16
	Side           uint16
	FirstSurfEdge  int32
	NumSurfEdges   int16
	TexInfo        int16
	Styles         [4]uint8
	LightmapOffset int32
}

// MarkSurface is a 2-byte structural record: a face index.
type MarkSurface uint16

// Leaf is a 28-byte structural record.
type Leaf struct {
	Contents         int32
	VisOffset        int32
	Mins             [3]int16
	Maxs             [3]int16
	FirstMarkSurface uint16
	NumMarkSurfaces  uint16
	Ambient          [4]uint8
}

// Node is a 24-byte structural record. Children >=0 index another
// node; children <0 index a leaf via bitwise complement (^child).
type Node struct {
	Plane    uint32
	Children [2]int16
	Mins     [3]int16
	Maxs     [3]int16
	FirstFace uint16
	NumFaces  uint16
}

// ClipNode is an 8-byte structural record. Children >=0 index another
// clipnode; children <0 are CONTENTS_* sentinels.
type ClipNode struct {
	Plane    int32
	Children [2]int16
}

// Model is a 64-byte structural record.
type Model struct {
	Mins, Maxs mgl32.Vec3
	Origin     mgl32.Vec3
	HeadNodes  [HullCount]int32
	NumVisLeafs int32
	FirstFace   int32
	NumFaces    int32
}

// miptexHeaderSize is the fixed portion of a MipTex block: a 16-byte
// name, width, height, and four mip-level offsets.
const miptexHeaderSize = 16 + 4 + 4 + 4*4
