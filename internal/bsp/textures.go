package bsp

import (
	"encoding/binary"
	"fmt"
)

// MipTex is one opaque variable-length texture block: a 16-byte name,
// width/height, four mip offsets, and (for most blocks) the mip
// pixel data plus a 256-entry RGB palette. The merge engine only ever
// needs byte-exact dedup of whole blocks (spec.md §4.4 tex_remap), so
// the block is kept as a raw byte slice rather than decomposed.
type MipTex struct {
	Raw []byte
}

// Name returns the embedded, NUL-terminated texture name.
func (m MipTex) Name() string {
	n := m.Raw
	if len(n) > 16 {
		n = n[:16]
	}
	for i, b := range n {
		if b == 0 {
			return string(n[:i])
		}
	}
	return string(n)
}

// ReadTextures parses the TEXTURES lump: a `count int32` header
// followed by `count` lump-relative i32 offsets, then the miptex
// blocks themselves concatenated in arbitrary order.
func (c *Container) ReadTextures() ([]MipTex, error) {
	data := c.lumps[LumpTextures]
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("bsp %s: textures lump too short", c.Name)
	}
	count := int(int32(binary.LittleEndian.Uint32(data[0:4])))
	if count < 0 {
		return nil, fmt.Errorf("bsp %s: textures: negative count %d", c.Name, count)
	}
	offsetsEnd := 4 + 4*count
	if offsetsEnd > len(data) {
		return nil, fmt.Errorf("bsp %s: textures: offset table overruns lump", c.Name)
	}
	offsets := make([]int32, count)
	for i := 0; i < count; i++ {
		offsets[i] = int32(binary.LittleEndian.Uint32(data[4+4*i : 8+4*i]))
	}

	out := make([]MipTex, count)
	for i := 0; i < count; i++ {
		if offsets[i] < 0 || int(offsets[i]) > len(data) {
			return nil, fmt.Errorf("bsp %s: textures: miptex %d offset out of range", c.Name, i)
		}
		end := len(data)
		// The end of block i is the next larger offset in the table,
		// or the end of the lump for whichever block is laid out last.
		for j := 0; j < count; j++ {
			if offsets[j] > offsets[i] && int(offsets[j]) < end {
				end = int(offsets[j])
			}
		}
		if int(offsets[i]) > end {
			return nil, fmt.Errorf("bsp %s: textures: miptex %d has negative length", c.Name, i)
		}
		out[i] = MipTex{Raw: append([]byte(nil), data[offsets[i]:end]...)}
	}
	return out, nil
}

// WriteTextures rebuilds the `count`+offset-table header and
// concatenates blocks, in the order given.
func (c *Container) WriteTextures(blocks []MipTex) error {
	headerLen := 4 + 4*len(blocks)
	total := headerLen
	for _, b := range blocks {
		total += len(b.Raw)
	}
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(blocks)))

	pos := headerLen
	for i, b := range blocks {
		binary.LittleEndian.PutUint32(buf[4+4*i:8+4*i], uint32(pos))
		copy(buf[pos:], b.Raw)
		pos += len(b.Raw)
	}
	c.SetLump(LumpTextures, buf)
	return nil
}

// Lighting returns the raw RGB lightmap sample stream.
func (c *Container) Lighting() []byte { return c.lumps[LumpLighting] }

// WriteLighting installs a new lightmap sample stream.
func (c *Container) WriteLighting(data []byte) { c.SetLump(LumpLighting, data) }

// Visibility returns the raw run-length-compressed PVS byte stream.
func (c *Container) Visibility() []byte { return c.lumps[LumpVisibility] }

// WriteVisibility installs a new compressed PVS byte stream.
func (c *Container) WriteVisibility(data []byte) { c.SetLump(LumpVisibility, data) }
