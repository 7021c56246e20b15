package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/terraforge/engine/terra/terrain"
)

// Record layout: uint32 width, uint32 height, then width*height float64
// cells, all little-endian.
const recordHeaderLen = 8

func encodeRecord(m terrain.Heightmap, width, height int) []byte {
	buf := make([]byte, recordHeaderLen+8*len(m))
	binary.LittleEndian.PutUint32(buf, uint32(width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(height))
	for i, v := range m {
		binary.LittleEndian.PutUint64(buf[recordHeaderLen+8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeRecord(buf []byte) (terrain.Heightmap, int, int, error) {
	if len(buf) < recordHeaderLen {
		return nil, 0, 0, fmt.Errorf("store: record truncated: %d bytes", len(buf))
	}
	width := int(binary.LittleEndian.Uint32(buf))
	height := int(binary.LittleEndian.Uint32(buf[4:]))
	if width <= 0 || height <= 0 || len(buf) != recordHeaderLen+8*width*height {
		return nil, 0, 0, fmt.Errorf("store: record dimensions %dx%d do not match payload of %d bytes", width, height, len(buf)-recordHeaderLen)
	}
	m := make(terrain.Heightmap, width*height)
	for i := range m {
		m[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[recordHeaderLen+8*i:]))
	}
	return m, width, height, nil
}
