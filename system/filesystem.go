// Package system abstracts the file system inputs are read from.
package system

import (
	"io/fs"
	"os"
)

// VirtualFS is the read only file system inputs are loaded through.
type VirtualFS interface {
	fs.FS
}

// FileSystem is a VirtualFS backed by the host operating system. Names are host paths.
type FileSystem struct{}

var _ VirtualFS = (*FileSystem)(nil)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the whole of the named file from fsys.
func ReadFile(fsys VirtualFS, name string) ([]byte, error) {
	return fs.ReadFile(fsys, name)
}
