//go:build linux

package sparse

import "golang.org/x/sys/unix"

const mmapSupported = true

// mapSlots reserves size bytes of zero-filled anonymous memory. With
// MAP_NORESERVE no swap is accounted up front, so a huge, sparsely touched
// index only costs the pages actually written.
func mapSlots(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE|unix.MAP_NORESERVE)
}

func unmapSlots(mapping []byte) error {
	return unix.Munmap(mapping)
}
