package bsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	rows := [][]byte{
		{0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0x01, 0x02, 0x03, 0x04, 0x00, 0x00, 0x01, 0x00},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}

	var stream []byte
	offsets := make([]int, len(rows))
	for i, row := range rows {
		var off int
		stream, off = CompressRow(stream, row)
		offsets[i] = off
	}

	for i, row := range rows {
		got := DecompressRow(stream, offsets[i], len(row))
		assert.Equal(t, row, got, "row %d round-trip", i)
	}
}

func TestCompressRowLongZeroRun(t *testing.T) {
	row := make([]byte, 600) // forces a run > 255, must split into three pairs (255+255+89)
	row[599] = 0xaa

	var stream []byte
	stream, off := CompressRow(stream, row)
	got := DecompressRow(stream, off, len(row))
	assert.Equal(t, row, got)
}

func TestRowSize(t *testing.T) {
	assert.Equal(t, 8, RowSize(1))
	assert.Equal(t, 8, RowSize(64))
	assert.Equal(t, 16, RowSize(65))
	assert.Equal(t, 0, RowSize(0))
}
