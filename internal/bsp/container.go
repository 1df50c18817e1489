package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Container is the in-memory BSP: a header, fifteen owned lump
// buffers, a parsed entity list, and a display name. It exclusively
// owns its lump byte buffers; callers must not retain slices returned
// from Lump after a later mutation.
//
// Grounded on q2file.loadQ2BSP/LoadQ2PAK: header-first, then
// lump-by-lump decode via io.SectionReader + encoding/binary.
type Container struct {
	Name     string
	Version  int32
	lumps    [HeaderLumps][]byte
	Entities []Entity
}

// Load parses a BSP file from r, named name for diagnostics.
func Load(r io.ReaderAt, name string) (*Container, error) {
	hdr := Header{}
	hr := io.NewSectionReader(r, 0, int64(unsafe.Sizeof(hdr)))
	if err := binary.Read(hr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("bsp %s: read header: %w", name, err)
	}
	if hdr.Version != BspVersion {
		return nil, fmt.Errorf("bsp %s: unsupported version %d", name, hdr.Version)
	}

	c := &Container{Name: name, Version: hdr.Version}
	for i := 0; i < HeaderLumps; i++ {
		l := hdr.Lumps[i]
		if l.Length == 0 {
			c.lumps[i] = []byte{}
			continue
		}
		buf := make([]byte, l.Length)
		n, err := r.ReadAt(buf, int64(l.Offset))
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("bsp %s: read lump %s: %w", name, LumpName(i), err)
		}
		if n != int(l.Length) {
			return nil, fmt.Errorf("bsp %s: lump %s: short read (%d/%d)", name, LumpName(i), n, l.Length)
		}
		c.lumps[i] = buf
	}

	if err := c.LoadEntities(); err != nil {
		return nil, fmt.Errorf("bsp %s: %w", name, err)
	}
	return c, nil
}

// Save serializes the container back into a single BSP file image.
func (c *Container) Save(w io.Writer) error {
	hdr := Header{Version: c.Version}
	offset := int32(unsafe.Sizeof(hdr))
	for i := 0; i < HeaderLumps; i++ {
		hdr.Lumps[i] = Lump{Offset: offset, Length: int32(len(c.lumps[i]))}
		offset += int32(len(c.lumps[i]))
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("bsp %s: write header: %w", c.Name, err)
	}
	for i := 0; i < HeaderLumps; i++ {
		if _, err := buf.Write(c.lumps[i]); err != nil {
			return fmt.Errorf("bsp %s: write lump %s: %w", c.Name, LumpName(i), err)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Lump returns the raw bytes of lump i. The returned slice must not be
// retained past the next call to SetLump for the same lump.
func (c *Container) Lump(i int) []byte {
	return c.lumps[i]
}

// SetLump installs data as the new owner of lump i, freeing the
// previous buffer. Mergers call this exactly once per lump they
// rewrite, so that a cancelled merge can discard the mutated
// container without partially-rewritten lumps ever being observed
// mid-swap (spec.md §5 atomic swap-and-free).
func (c *Container) SetLump(i int, data []byte) {
	c.lumps[i] = data
}

// LumpCount returns the number of fixed-size records of size
// recSize in lump i.
func (c *Container) LumpCount(i int, recSize int) int {
	if recSize == 0 {
		return 0
	}
	return len(c.lumps[i]) / recSize
}

// GetBoundingBox reports the world bounding box: the bbox of
// models[0], the worldspawn model.
func (c *Container) GetBoundingBox() (mins, maxs mgl32.Vec3, err error) {
	models, err := c.ReadModels()
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	if len(models) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, fmt.Errorf("bsp %s: no models", c.Name)
	}
	return models[0].Mins, models[0].Maxs, nil
}

// Move translates every positional field in the container by delta:
// vertices, plane distances (re-projected), node/leaf/model bounds,
// model origins, and every entity's "origin" key. Used by Packer to
// relocate a map into its grid cell.
func (c *Container) Move(delta mgl32.Vec3) error {
	verts, err := c.ReadVertices()
	if err != nil {
		return err
	}
	for i := range verts {
		verts[i].Pos = verts[i].Pos.Add(delta)
	}
	if err := c.WriteVertices(verts); err != nil {
		return err
	}

	planes, err := c.ReadPlanes()
	if err != nil {
		return err
	}
	for i := range planes {
		// dist is the signed distance of the plane from the origin
		// along its normal; translating the geometry by delta shifts
		// it by the projection of delta onto the normal.
		planes[i].Dist += planes[i].Normal.Dot(delta)
	}
	if err := c.WritePlanes(planes); err != nil {
		return err
	}

	nodes, err := c.ReadNodes()
	if err != nil {
		return err
	}
	for i := range nodes {
		moveShortBoundsVec(&nodes[i].Mins, &nodes[i].Maxs, delta)
	}
	if err := c.WriteNodes(nodes); err != nil {
		return err
	}

	leaves, err := c.ReadLeaves()
	if err != nil {
		return err
	}
	for i := range leaves {
		moveShortBoundsVec(&leaves[i].Mins, &leaves[i].Maxs, delta)
	}
	if err := c.WriteLeaves(leaves); err != nil {
		return err
	}

	models, err := c.ReadModels()
	if err != nil {
		return err
	}
	for i := range models {
		models[i].Mins = models[i].Mins.Add(delta)
		models[i].Maxs = models[i].Maxs.Add(delta)
		models[i].Origin = models[i].Origin.Add(delta)
	}
	if err := c.WriteModels(models); err != nil {
		return err
	}

	for i := range c.Entities {
		if origin, ok := c.Entities[i].Vector("origin"); ok {
			c.Entities[i].SetVector("origin", origin.Add(delta))
		}
	}
	return c.UpdateEntityLump()
}

// moveShortBoundsVec translates the int16 mins/maxs bounds shared by
// the two record kinds (Node, Leaf) that store them that way.
// Bounds on nodes/leaves are advisory culling hints in this format, so
// a best-effort integer clamp (rather than failing the whole move) is
// the same tradeoff the engine itself makes at compile time.
func moveShortBoundsVec(mins, maxs *[3]int16, delta mgl32.Vec3) {
	d := [3]float32{delta.X(), delta.Y(), delta.Z()}
	for axis := 0; axis < 3; axis++ {
		mins[axis] = clampInt16(int32(mins[axis]) + int32(d[axis]))
		maxs[axis] = clampInt16(int32(maxs[axis]) + int32(d[axis]))
	}
}

func clampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
