package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// readRecords decodes lump i as a sequence of fixed-size records of
// type T, following the teacher's per-lump loop
// (q2file.loadVertices/loadEdges/loadFaces): one io.Reader, one
// binary.Read call per record.
func readRecords[T any](c *Container, lump int) ([]T, error) {
	data := c.lumps[lump]
	var zero T
	recSize := int(binarySize(zero))
	if recSize == 0 {
		return nil, fmt.Errorf("bsp %s: lump %s: zero record size", c.Name, LumpName(lump))
	}
	if len(data)%recSize != 0 {
		return nil, fmt.Errorf("bsp %s: lump %s: size %d not a multiple of record size %d", c.Name, LumpName(lump), len(data), recSize)
	}
	count := len(data) / recSize
	out := make([]T, count)
	r := bytes.NewReader(data)
	for i := 0; i < count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, fmt.Errorf("bsp %s: lump %s: record %d: %w", c.Name, LumpName(lump), i, err)
		}
	}
	return out, nil
}

func writeRecords[T any](c *Container, lump int, records []T) error {
	var buf bytes.Buffer
	for i := range records {
		if err := binary.Write(&buf, binary.LittleEndian, &records[i]); err != nil {
			return fmt.Errorf("bsp %s: lump %s: record %d: %w", c.Name, LumpName(lump), i, err)
		}
	}
	c.SetLump(lump, buf.Bytes())
	return nil
}

func binarySize(v any) int64 {
	n := binary.Size(v)
	if n < 0 {
		return 0
	}
	return int64(n)
}

func (c *Container) ReadPlanes() ([]Plane, error)   { return readRecords[Plane](c, LumpPlanes) }
func (c *Container) WritePlanes(v []Plane) error    { return writeRecords(c, LumpPlanes, v) }
func (c *Container) ReadVertices() ([]Vertex, error) { return readRecords[Vertex](c, LumpVertices) }
func (c *Container) WriteVertices(v []Vertex) error  { return writeRecords(c, LumpVertices, v) }
func (c *Container) ReadEdges() ([]Edge, error)      { return readRecords[Edge](c, LumpEdges) }
func (c *Container) WriteEdges(v []Edge) error       { return writeRecords(c, LumpEdges, v) }
func (c *Container) ReadTexInfo() ([]TexInfo, error) { return readRecords[TexInfo](c, LumpTexInfo) }
func (c *Container) WriteTexInfo(v []TexInfo) error  { return writeRecords(c, LumpTexInfo, v) }
func (c *Container) ReadFaces() ([]Face, error)      { return readRecords[Face](c, LumpFaces) }
func (c *Container) WriteFaces(v []Face) error       { return writeRecords(c, LumpFaces, v) }
func (c *Container) ReadMarkSurfaces() ([]MarkSurface, error) {
	return readRecords[MarkSurface](c, LumpMarkSurfaces)
}
func (c *Container) WriteMarkSurfaces(v []MarkSurface) error {
	return writeRecords(c, LumpMarkSurfaces, v)
}
func (c *Container) ReadLeaves() ([]Leaf, error) { return readRecords[Leaf](c, LumpLeaves) }
func (c *Container) WriteLeaves(v []Leaf) error  { return writeRecords(c, LumpLeaves, v) }
func (c *Container) ReadNodes() ([]Node, error)  { return readRecords[Node](c, LumpNodes) }
func (c *Container) WriteNodes(v []Node) error   { return writeRecords(c, LumpNodes, v) }
func (c *Container) ReadClipNodes() ([]ClipNode, error) {
	return readRecords[ClipNode](c, LumpClipNodes)
}
func (c *Container) WriteClipNodes(v []ClipNode) error { return writeRecords(c, LumpClipNodes, v) }
func (c *Container) ReadModels() ([]Model, error)      { return readRecords[Model](c, LumpModels) }
func (c *Container) WriteModels(v []Model) error       { return writeRecords(c, LumpModels, v) }

// ReadSurfEdges decodes the surfedge lump, which is a plain []int32.
func (c *Container) ReadSurfEdges() ([]SurfEdge, error) {
	data := c.lumps[LumpSurfEdges]
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("bsp %s: lump surfedges: size %d not a multiple of 4", c.Name, len(data))
	}
	count := len(data) / 4
	out := make([]SurfEdge, count)
	r := bytes.NewReader(data)
	for i := 0; i < count; i++ {
		var v int32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("bsp %s: lump surfedges: record %d: %w", c.Name, i, err)
		}
		out[i] = SurfEdge(v)
	}
	return out, nil
}

func (c *Container) WriteSurfEdges(v []SurfEdge) error {
	var buf bytes.Buffer
	for i := range v {
		if err := binary.Write(&buf, binary.LittleEndian, int32(v[i])); err != nil {
			return fmt.Errorf("bsp %s: lump surfedges: record %d: %w", c.Name, i, err)
		}
	}
	c.SetLump(LumpSurfEdges, buf.Bytes())
	return nil
}
