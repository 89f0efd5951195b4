package sck

import "fmt"

// FourCC is a four-character pixel format code as used by the native
// engine (e.g. 'BGRA', '420v').
type FourCC uint32

// Common pixel formats delivered by the capture engine.
const (
	PixelFormatBGRA          FourCC = 0x42475241 // 'BGRA' packed 32-bit
	PixelFormatL10R          FourCC = 0x6C313072 // 'l10r' packed 10-bit
	PixelFormat420VideoRange FourCC = 0x34323076 // '420v' bi-planar YCbCr
	PixelFormat420FullRange  FourCC = 0x34323066 // '420f' bi-planar YCbCr
)

func (f FourCC) String() string {
	b := [4]byte{byte(f >> 24), byte(f >> 16), byte(f >> 8), byte(f)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08X", uint32(f))
		}
	}
	return string(b[:])
}

// IsPlanar reports whether the format splits image data across multiple
// memory planes.
func (f FourCC) IsPlanar() bool {
	switch f {
	case PixelFormat420VideoRange, PixelFormat420FullRange:
		return true
	default:
		return false
	}
}

// PlaneDescriptor is the static geometry of one memory plane of a
// (possibly multi-planar) buffer. Immutable once constructed.
type PlaneDescriptor struct {
	Width           uint
	Height          uint
	BytesPerRow     uint
	BytesPerElement uint
	ByteOffset      uint
	ByteSize        uint
}

// Validate checks the descriptor's internal consistency against the
// total allocation size of the buffer it belongs to.
func (d PlaneDescriptor) Validate(totalSize uint) error {
	if d.ByteSize < d.Height*d.BytesPerRow {
		return fmt.Errorf("plane byte size %d smaller than %d rows of %d bytes",
			d.ByteSize, d.Height, d.BytesPerRow)
	}
	if totalSize > 0 && d.ByteOffset+d.ByteSize > totalSize {
		return fmt.Errorf("plane [%d, %d) exceeds allocation of %d bytes",
			d.ByteOffset, d.ByteOffset+d.ByteSize, totalSize)
	}
	return nil
}
