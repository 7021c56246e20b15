// Package export encodes heightmaps into the interchange formats offered by
// the studio: 16-bit grayscale PNG, deflate-compressed grayscale TIFF and raw
// little-endian float32 streams.
package export

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/tiff"

	"github.com/terraforge/engine/terra/terrain"
)

// Format identifies an export encoding.
type Format string

const (
	// FormatPNG16 is 16-bit grayscale PNG, elevation normalised to the full
	// pixel range.
	FormatPNG16 Format = "png16"
	// FormatTIFF is 16-bit grayscale TIFF with deflate compression.
	FormatTIFF Format = "tiff"
	// FormatRaw32 is the map's cells as little-endian float32, row-major, no
	// header. The importing engine supplies the dimensions.
	FormatRaw32 Format = "raw32"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG16, FormatTIFF, FormatRaw32:
		return Format(s), nil
	}
	return "", fmt.Errorf("export: unknown format %q", s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG16:
		return "image/png"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatPNG16:
		return ".png"
	case FormatTIFF:
		return ".tif"
	default:
		return ".raw"
	}
}

// Encode writes the heightmap to w in the format requested.
func Encode(w io.Writer, f Format, m terrain.Heightmap, width, height int) error {
	if err := m.Check(width, height); err != nil {
		return err
	}
	switch f {
	case FormatPNG16:
		return png.Encode(w, grayImage(m, width, height))
	case FormatTIFF:
		return tiff.Encode(w, grayImage(m, width, height), &tiff.Options{Compression: tiff.Deflate})
	case FormatRaw32:
		return encodeRaw32(w, m)
	}
	return fmt.Errorf("export: unknown format %q", f)
}

// grayImage normalises the elevation range onto [0, 65535]. A flat map
// becomes uniformly black.
func grayImage(m terrain.Heightmap, width, height int) *image.Gray16 {
	min, max := m.MinMax()
	scale := 0.0
	if max > min {
		scale = 65535 / (max - min)
	}
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := (m[y*width+x] - min) * scale
			img.SetGray16(x, y, color.Gray16{Y: uint16(v + 0.5)})
		}
	}
	return img
}

func encodeRaw32(w io.Writer, m terrain.Heightmap) error {
	cells := make([]float32, len(m))
	for i, v := range m {
		cells[i] = float32(v)
	}
	return binary.Write(w, binary.LittleEndian, cells)
}

// DecodeRaw32 reads a raw32 stream back into a heightmap with the dimensions
// passed. It is the inverse of Encode with FormatRaw32 up to float32
// precision.
func DecodeRaw32(r io.Reader, width, height int) (terrain.Heightmap, error) {
	m, err := terrain.NewHeightmap(width, height)
	if err != nil {
		return nil, err
	}
	cells := make([]float32, len(m))
	if err := binary.Read(r, binary.LittleEndian, cells); err != nil {
		return nil, fmt.Errorf("export: reading raw32 stream: %w", err)
	}
	for i, v := range cells {
		m[i] = float64(v)
	}
	return m, nil
}
