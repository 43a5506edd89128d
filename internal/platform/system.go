package platform

import (
	"os"
	"os/exec"
	"runtime"
)

// System abstracts host inspection needed by platform detection.
// This interface is intentionally package-local so unit tests can model any
// host without shared global state. Other packages (engine, repotrust) define
// their own System interfaces with operations specific to their needs.
type System interface {
	GOOS() string
	GOARCH() string
	ReadFile(name string) ([]byte, error)
	LookPath(file string) (string, error)
}

// RealSystem implements System using the runtime and OS.
type RealSystem struct{}

// GOOS returns the running program's operating system target.
func (RealSystem) GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the running program's architecture target.
func (RealSystem) GOARCH() string {
	return runtime.GOARCH
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// LookPath searches for an executable in the directories named by PATH.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
