//go:build !linux

package sparse

const mmapSupported = false

func mapSlots(int) ([]byte, error) {
	return nil, ErrMmapUnsupported
}

func unmapSlots([]byte) error {
	return nil
}
