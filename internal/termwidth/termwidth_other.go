// +build !darwin
// +build !linux

package termwidth

import "os"

// Get always reports a non-terminal on platforms with no ioctl probe.
func Get(file *os.File) Info {
	return Info{}
}
