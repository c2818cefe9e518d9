// Package memory provides a read-only view of a loaded code image.
package memory

import (
	"errors"
	"fmt"
)

// AddressSpace is the size of the 16 bit address space of the CPU.
const AddressSpace = 0x10000

// ErrImageTooLarge is returned when an image does not fit into the address space at its load address.
var ErrImageTooLarge = errors.New("image exceeds address space")

// Image is an immutable byte sequence loaded at a base address.
type Image struct {
	data []byte
	base uint16
}

// New returns a new image of the data loaded at the base address.
// The data is copied, later changes to the passed slice do not affect the image.
func New(data []byte, base uint16) (*Image, error) {
	if int(base)+len(data) > AddressSpace {
		return nil, fmt.Errorf("%w: %d bytes at $%04X", ErrImageTooLarge, len(data), base)
	}

	img := &Image{
		data: make([]byte, len(data)),
		base: base,
	}
	copy(img.data, data)
	return img, nil
}

// Base returns the load address of the image.
func (img *Image) Base() uint16 {
	return img.base
}

// End returns the first address after the image. It is returned as int as the end
// of an image that reaches the top of the address space is 0x10000.
func (img *Image) End() int {
	return int(img.base) + len(img.data)
}

// Len returns the size of the image in bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// Contains returns whether the address is inside the image.
func (img *Image) Contains(address uint16) bool {
	return address >= img.base && int(address) < img.End()
}

// Offset returns the offset of the address from the image start.
// The address has to be checked with Contains first.
func (img *Image) Offset(address uint16) int {
	return int(address - img.base)
}

// Address returns the address of the offset.
func (img *Image) Address(offset int) uint16 {
	return img.base + uint16(offset)
}

// Byte returns the byte at the address.
func (img *Image) Byte(address uint16) (byte, bool) {
	if !img.Contains(address) {
		return 0, false
	}
	return img.data[img.Offset(address)], true
}

// Bytes returns count bytes starting at the address. It returns false if any of
// the bytes is outside of the image.
func (img *Image) Bytes(address uint16, count int) ([]byte, bool) {
	if !img.Contains(address) || count < 0 {
		return nil, false
	}
	offset := img.Offset(address)
	if offset+count > len(img.data) {
		return nil, false
	}
	return img.data[offset : offset+count : offset+count], true
}

// Data returns a copy of the image bytes.
func (img *Image) Data() []byte {
	data := make([]byte, len(img.data))
	copy(data, img.data)
	return data
}
