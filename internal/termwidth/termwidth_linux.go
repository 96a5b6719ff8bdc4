// +build linux

package termwidth

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

type winsize struct {
	wsRow    uint16
	wsCol    uint16
	wsXPixel uint16
	wsYPixel uint16
}

// Get reports whether file is a terminal and, if so, its width.
func Get(file *os.File) (info Info) {
	fd := file.Fd()
	if _, err := unix.IoctlGetTermios(int(fd), unix.TCGETS); err != nil {
		return Info{}
	}
	info.IsTTY = true

	w := new(winsize)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.TIOCGWINSZ, uintptr(unsafe.Pointer(w))); errno == 0 {
		info.Width = int(w.wsCol)
	}
	return info
}
