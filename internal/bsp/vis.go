package bsp

// RowSize returns the padded row size in bytes for visL visible
// leaves (leaf 0, the shared solid leaf, excluded): padded up to a
// multiple of 64 bits per spec.md §3.
func RowSize(visL int) int {
	words := (visL + 63) / 64
	return words * 8
}

// DecompressRow expands one run-length-encoded PVS row starting at
// byte offset `from` in compressed, into exactly rowSize bytes.
// Grounded on the zero-run decoder in bsptree.go's getFacesFromCluster
// (a 0x00 byte is followed by a repeat count), adapted to spec.md's
// byte-granular GoldSrc scheme (0x00 k => k literal zero bytes,
// rather than Quake2's bit-cluster skip).
func DecompressRow(compressed []byte, from int, rowSize int) []byte {
	out := make([]byte, rowSize)
	src := from
	dst := 0
	for dst < rowSize && src < len(compressed) {
		b := compressed[src]
		if b != 0 {
			out[dst] = b
			dst++
			src++
			continue
		}
		src++
		if src >= len(compressed) {
			break
		}
		run := int(compressed[src])
		src++
		dst += run
	}
	return out
}

// CompressRow run-length encodes one fully decompressed row (as
// produced by DecompressRow) and appends it to dst, returning the new
// slice and the byte offset the row started at.
func CompressRow(dst []byte, row []byte) ([]byte, int) {
	start := len(dst)
	i := 0
	for i < len(row) {
		if row[i] != 0 {
			dst = append(dst, row[i])
			i++
			continue
		}
		run := 0
		for i+run < len(row) && row[i+run] == 0 && run < 255 {
			run++
		}
		dst = append(dst, 0x00, byte(run))
		i += run
	}
	return dst, start
}
