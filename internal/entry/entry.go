// Package entry locates and parses program entry points.
package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/flowdisasm/internal/memory"
)

// maxDigits is the maximum number of decimal digits of a 16 bit address.
const maxDigits = 5

// ErrInvalidAddress is returned for entry point values that are not a hex address.
var ErrInvalidAddress = errors.New("invalid entry point address")

// Locator scans an image for a token that is followed by a decimal start address,
// like the SYS command of a C64 BASIC loader line "10 SYS2061".
type Locator struct {
	token byte
}

// NewLocator returns a new locator for the given token.
func NewLocator(token byte) *Locator {
	return &Locator{token: token}
}

// Scan returns the address of the first token that is immediately followed by
// decimal digits forming an address inside the image. Digit runs that can not be
// a 16 bit address are skipped. The result is a heuristic only.
func (l *Locator) Scan(img *memory.Image) (uint16, bool) {
	data, _ := img.Bytes(img.Base(), img.Len())

	for i := 0; i < len(data); i++ {
		if data[i] != l.token {
			continue
		}

		j := i + 1
		for j < len(data) && isDigit(data[j]) {
			j++
		}
		digits := j - i - 1
		if digits == 0 || digits > maxDigits {
			continue
		}

		value, err := strconv.ParseUint(string(data[i+1:j]), 10, 16)
		if err != nil {
			continue
		}
		address := uint16(value)
		if img.Contains(address) {
			return address, true
		}
		return 0, false
	}
	return 0, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ParseAddresses parses hex entry point addresses. Values can be passed with a "$"
// or "0x" prefix. Malformed values are skipped and returned as errors.
func ParseAddresses(values []string) ([]uint16, []error) {
	var addresses []uint16
	var errs []error

	for _, value := range values {
		address, err := ParseAddress(value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		addresses = append(addresses, address)
	}
	return addresses, errs
}

// ParseAddress parses a hex address.
func ParseAddress(value string) (uint16, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(s, "$")
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}

	address, err := strconv.ParseUint(s, 16, 16)
	if err != nil || s == "" {
		return 0, fmt.Errorf("%w '%s'", ErrInvalidAddress, value)
	}
	return uint16(address), nil
}
