package protowire

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// AllocateShm creates an anonymous, CLOEXEC shared-memory-backed
// buffer of size bytes and maps it into this process, returning the
// backing fd (owned by the caller — release via UnmapShm) and the
// mapped bytes.
//
// Grounded on the unix.MemfdCreate + syscall.Mmap pattern used by
// other wlroots-facing Go clients (e.g. tuxx/fancylock's internal/
// wayland.go) in place of the teacher's own createTmpfile, which
// shells out to os.CreateTemp under $XDG_RUNTIME_DIR and unlinks it —
// memfd_create needs no runtime-dir lookup or unlink step.
func AllocateShm(size int) (fd int, data []byte, err error) {
	fd, err = unix.MemfdCreate("wcomp-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return -1, nil, fmt.Errorf("protowire: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return -1, nil, fmt.Errorf("protowire: ftruncate: %w", err)
	}
	data, err = unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return -1, nil, fmt.Errorf("protowire: mmap: %w", err)
	}
	return fd, data, nil
}

// UnmapShm releases a buffer allocated by AllocateShm.
func UnmapShm(fd int, data []byte) error {
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("protowire: munmap: %w", err)
	}
	return unix.Close(fd)
}
