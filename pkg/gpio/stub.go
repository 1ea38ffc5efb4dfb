//go:build !linux

package gpio

import "fmt"

// NewRealPin is only available on Linux (GPIO character device).
func NewRealPin(chipName string, offset int) (Pin, error) {
	return nil, fmt.Errorf("real GPIO is only supported on linux (requested %s line %d)", chipName, offset)
}
