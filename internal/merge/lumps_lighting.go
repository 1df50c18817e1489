package merge

import "github.com/LossyDragon/bspguy/internal/bsp"

func fullbrightBlock() []byte {
	block := make([]byte, bsp.MaxSurfaceExtent*bsp.MaxSurfaceExtent*3)
	for i := range block {
		block[i] = 0xff
	}
	return block
}

// mergeLighting concatenates A's and B's lightmap sample streams,
// synthesising a fullbright block when exactly one side is missing one
// (two empty streams merge to an empty stream), and rebases every B-origin face's lightmap_offset, per spec.md §4.5
// LIGHTING. Must run after mergeFaces (faces[ctx.ThisFaceCount:] are
// B's).
func mergeLighting(ctx *Context, a, b *bsp.Container) error {
	aLight := a.Lighting()
	bLight := b.Lighting()
	faces, err := a.ReadFaces()
	if err != nil {
		return err
	}

	aEmpty := len(aLight) == 0
	bEmpty := len(bLight) == 0

	var merged []byte
	switch {
	case aEmpty && !bEmpty:
		fb := fullbrightBlock()
		merged = append(append([]byte(nil), fb...), bLight...)
		for i := 0; i < ctx.ThisFaceCount && i < len(faces); i++ {
			faces[i].LightmapOffset = 0
		}
		for i := ctx.ThisFaceCount; i < len(faces); i++ {
			faces[i].LightmapOffset += int32(len(fb))
		}
	case !aEmpty && bEmpty:
		fb := fullbrightBlock()
		offset := int32(len(aLight))
		merged = append(append([]byte(nil), aLight...), fb...)
		for i := ctx.ThisFaceCount; i < len(faces); i++ {
			faces[i].LightmapOffset = offset
		}
	default:
		merged = append(append([]byte(nil), aLight...), bLight...)
		shift := int32(len(aLight))
		for i := ctx.ThisFaceCount; i < len(faces); i++ {
			faces[i].LightmapOffset += shift
		}
	}

	a.WriteLighting(merged)
	return a.WriteFaces(faces)
}
